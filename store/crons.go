package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/onnwee/pointsbot/db"
	"github.com/onnwee/pointsbot/models"
)

// Crons is the entity store for background job records.
type Crons struct {
	db *sql.DB
}

const cronsTable = "crons"

var cronCols = []string{
	"id", "kind", "interval", "isEnabled", "isExecuting", "isLogEnabled",
	"lastCalledAt", "callAt", "opts", "createdAt", "updatedAt",
}

func scanCron(s db.Scanner) (models.Cron, error) {
	var (
		c                                    models.Cron
		isEnabled, isExecuting, isLogEnabled int
		kind, opts                           string
		lastCalledAt, callAt                 string
		createdAt, updatedAt                 string
	)
	if err := s.Scan(&c.ID, &kind, &c.Interval, &isEnabled, &isExecuting, &isLogEnabled,
		&lastCalledAt, &callAt, &opts, &createdAt, &updatedAt); err != nil {
		return c, err
	}
	c.Kind = models.CronKind(kind)
	c.IsEnabled, c.IsExecuting, c.IsLogEnabled = isEnabled != 0, isExecuting != 0, isLogEnabled != 0

	decoded, err := models.DecodeCronOpts(c.Kind, []byte(opts))
	if err != nil {
		return c, err
	}
	c.Opts = decoded
	if c.LastCalledAt, err = parseTime(lastCalledAt); err != nil {
		return c, err
	}
	if c.CallAt, err = parseTime(callAt); err != nil {
		return c, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return c, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return c, err
	}
	return c, nil
}

var cronInsertCols = []string{
	"kind", "interval", "isEnabled", "isExecuting", "isLogEnabled",
	"lastCalledAt", "callAt", "opts", "createdAt", "updatedAt",
}

func cronValues(c *models.Cron, now string) ([]any, error) {
	opts, err := json.Marshal(c.Opts)
	if err != nil {
		return nil, fmt.Errorf("encode %s cron opts: %w", c.Kind, err)
	}
	return []any{
		string(c.Kind), c.Interval, encodeBool(c.IsEnabled), encodeBool(c.IsExecuting),
		encodeBool(c.IsLogEnabled), encodeTime(c.LastCalledAt), encodeTime(c.CallAt),
		string(opts), now, now,
	}, nil
}

// Fetch returns the job record for the given kind. A missing row is an
// integrity error: every job's configuration is seeded at boot.
func (s *Crons) Fetch(ctx context.Context, kind models.CronKind) (*models.Cron, error) {
	c, ok, err := db.GetOne(ctx, s.db, cronsTable, cronCols,
		db.Query{Where: db.WhereEq("kind", string(kind))}, scanCron)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("cron %s: record missing", kind)
	}
	return &c, nil
}

// Update persists the full job record.
func (s *Crons) Update(ctx context.Context, c *models.Cron) error {
	opts, err := json.Marshal(c.Opts)
	if err != nil {
		return fmt.Errorf("encode %s cron opts: %w", c.Kind, err)
	}
	_, err = db.UpdateOne(ctx, s.db, cronsTable, cronCols,
		[]db.Assign{
			{Col: "interval", Val: c.Interval},
			{Col: "isEnabled", Val: encodeBool(c.IsEnabled)},
			{Col: "isExecuting", Val: encodeBool(c.IsExecuting)},
			{Col: "isLogEnabled", Val: encodeBool(c.IsLogEnabled)},
			{Col: "lastCalledAt", Val: encodeTime(c.LastCalledAt)},
			{Col: "callAt", Val: encodeTime(c.CallAt)},
			{Col: "opts", Val: string(opts)},
			{Col: "updatedAt", Val: encodeTime(timeNow())},
		},
		db.WhereEq("kind", string(c.Kind)), scanCron)
	return err
}

// ResetExecution clears any isExecuting flag left behind by a crash so no
// job is permanently starved. Called once before the first tick.
func (s *Crons) ResetExecution(ctx context.Context) error {
	_, err := db.UpdateMany(ctx, s.db, cronsTable, cronCols,
		[]db.Assign{{Col: "isExecuting", Val: 0}},
		db.WhereEq("isExecuting", 1), scanCron)
	return err
}

// MarkChatter records chat participation for the reward job's next run.
// Returns false when the user was already marked since the last payout.
func (s *Crons) MarkChatter(ctx context.Context, userID string) (bool, error) {
	cron, err := s.Fetch(ctx, models.CronReward)
	if err != nil {
		return false, err
	}
	opts, ok := cron.Opts.(*models.RewardOpts)
	if !ok {
		return false, fmt.Errorf("cron %s: unexpected opts type", cron.Kind)
	}
	if opts.Chatters == nil {
		opts.Chatters = map[string]bool{}
	}
	if opts.Chatters[userID] {
		return false, nil
	}
	opts.Chatters[userID] = true
	if err := s.Update(ctx, cron); err != nil {
		return false, err
	}
	return true, nil
}

// SeedDefaults inserts the default job rows once (idempotent boot seeding).
func (s *Crons) SeedDefaults(ctx context.Context, defaults []models.Cron) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM crons").Scan(&count); err != nil {
		return fmt.Errorf("count crons: %w", err)
	}
	if count > 0 {
		return nil
	}
	now := encodeTime(timeNow())
	values := make([][]any, 0, len(defaults))
	for i := range defaults {
		v, err := cronValues(&defaults[i], now)
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	_, err := db.InsertMany(ctx, s.db, cronsTable, cronInsertCols, cronCols, values, scanCron)
	return err
}
