package store

import (
	"context"
	"database/sql"

	"github.com/onnwee/pointsbot/db"
	"github.com/onnwee/pointsbot/models"
)

// Logs is the entity store for immutable audit rows. Rows are inserted by
// the ledger, queried for per-user statistics and bulk-erased only by an
// explicit reset.
type Logs struct {
	db *sql.DB
}

const logsTable = "logs"

var logCols = []string{"id", "type", "userId", "cost", "points", "allPoints", "createdAt", "updatedAt"}

func scanLog(s db.Scanner) (models.Log, error) {
	var (
		l                    models.Log
		createdAt, updatedAt string
	)
	if err := s.Scan(&l.ID, &l.Type, &l.UserID, &l.Cost, &l.Points, &l.AllPoints, &createdAt, &updatedAt); err != nil {
		return l, err
	}
	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return l, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return l, err
	}
	return l, nil
}

var logInsertCols = []string{"type", "userId", "cost", "points", "allPoints", "createdAt", "updatedAt"}

// Insert writes one audit row.
func (s *Logs) Insert(ctx context.Context, typ, userID string, cost, points, allPoints int) (*models.Log, error) {
	now := encodeTime(timeNow())
	l, err := db.InsertOne(ctx, s.db, logsTable, logInsertCols, logCols,
		[]any{typ, userID, cost, points, allPoints, now, now}, scanLog)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// InsertBulk writes many audit rows in one statement (bulk reward path).
func (s *Logs) InsertBulk(ctx context.Context, logs []models.Log) error {
	now := encodeTime(timeNow())
	values := make([][]any, 0, len(logs))
	for _, l := range logs {
		values = append(values, []any{l.Type, l.UserID, l.Cost, l.Points, l.AllPoints, now, now})
	}
	_, err := db.InsertMany(ctx, s.db, logsTable, logInsertCols, logCols, values, scanLog)
	return err
}

// Reset erases the whole audit trail (global reset only).
func (s *Logs) Reset(ctx context.Context) error {
	return db.Truncate(ctx, s.db, logsTable)
}

// UserGameLogs returns a user's balance-affecting rows excluding passive
// reward grants, for the stake/profit statistics.
func (s *Logs) UserGameLogs(ctx context.Context, userID string) ([]models.Log, error) {
	return db.GetMany(ctx, s.db, logsTable, logCols,
		db.Query{Where: db.Where{
			Eq: []db.Cond{{Col: "userId", Val: userID}},
			Ne: []db.Cond{{Col: "type", Val: string(models.CronReward)}},
		}}, scanLog)
}
