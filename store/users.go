package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/onnwee/pointsbot/db"
	"github.com/onnwee/pointsbot/models"
)

// Users is the entity store for the users collection. It is the only
// legitimate writer of user rows; points move through it only via the
// ledger's increment/set/decrement calls.
type Users struct {
	db *sql.DB
}

const usersTable = "users"

var userCols = []string{
	"id", "userId", "username", "points", "color",
	"isSub", "isVip", "isMod", "isAdmin", "isStreamer",
	"commands", "createdAt", "updatedAt",
}

func scanUser(s db.Scanner) (models.User, error) {
	var (
		u                                     models.User
		isSub, isVip, isMod, isAdmin, isStrmr int
		commands, createdAt, updatedAt        string
	)
	if err := s.Scan(&u.ID, &u.UserID, &u.Username, &u.Points, &u.Color,
		&isSub, &isVip, &isMod, &isAdmin, &isStrmr,
		&commands, &createdAt, &updatedAt); err != nil {
		return u, err
	}
	u.IsSub, u.IsVip, u.IsMod = isSub != 0, isVip != 0, isMod != 0
	u.IsAdmin, u.IsStreamer = isAdmin != 0, isStrmr != 0

	if err := json.Unmarshal([]byte(commands), &u.Commands); err != nil {
		return u, fmt.Errorf("decode user commands: %w", err)
	}
	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return u, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return u, err
	}
	return u, nil
}

// GetByID returns the user with the given platform id, or nil.
func (s *Users) GetByID(ctx context.Context, userID string) (*models.User, error) {
	u, ok, err := db.GetOne(ctx, s.db, usersTable, userCols,
		db.Query{Where: db.WhereEq("userId", userID)}, scanUser)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// GetByIDs returns all users among the given platform ids.
func (s *Users) GetByIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	vals := make([]any, len(userIDs))
	for i, id := range userIDs {
		vals[i] = id
	}
	return db.GetMany(ctx, s.db, usersTable, userCols,
		db.Query{Where: db.Where{In: []db.SetCond{{Col: "userId", Vals: vals}}}}, scanUser)
}

// GetByUsername returns the user with the given display name, or nil.
func (s *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok, err := db.GetOne(ctx, s.db, usersTable, userCols,
		db.Query{Where: db.WhereEq("username", username)}, scanUser)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

// Sync creates the user on first sighting (seeded with defaultPoints) and
// refreshes display fields and role flags when they changed. The admin
// flag is owned by the admin command and never touched here.
func (s *Users) Sync(ctx context.Context, sighting models.UserSighting, defaultPoints int) (*models.User, error) {
	old, err := s.GetByID(ctx, sighting.UserID)
	if err != nil {
		return nil, err
	}
	now := encodeTime(timeNow())
	if old == nil {
		u, err := db.InsertOne(ctx, s.db, usersTable,
			[]string{"userId", "username", "points", "color", "isSub", "isVip", "isMod", "isAdmin", "isStreamer", "commands", "createdAt", "updatedAt"},
			userCols,
			[]any{sighting.UserID, sighting.Username, defaultPoints, sighting.Color,
				encodeBool(sighting.IsSub), encodeBool(sighting.IsVip), encodeBool(sighting.IsMod),
				encodeBool(sighting.IsAdmin), encodeBool(sighting.IsStreamer), "{}", now, now},
			scanUser)
		if err != nil {
			return nil, err
		}
		return &u, nil
	}
	if sighting.Username == old.Username && sighting.Color == old.Color &&
		sighting.IsStreamer == old.IsStreamer && sighting.IsMod == old.IsMod &&
		sighting.IsSub == old.IsSub && sighting.IsVip == old.IsVip {
		return old, nil
	}
	u, err := db.UpdateOne(ctx, s.db, usersTable, userCols,
		[]db.Assign{
			{Col: "username", Val: sighting.Username},
			{Col: "color", Val: sighting.Color},
			{Col: "isStreamer", Val: encodeBool(sighting.IsStreamer)},
			{Col: "isMod", Val: encodeBool(sighting.IsMod)},
			{Col: "isSub", Val: encodeBool(sighting.IsSub)},
			{Col: "isVip", Val: encodeBool(sighting.IsVip)},
			{Col: "updatedAt", Val: now},
		},
		db.WhereEq("userId", old.UserID), scanUser)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// TopUsers returns at most 10 users ordered by descending balance.
func (s *Users) TopUsers(ctx context.Context) ([]models.User, error) {
	return db.GetMany(ctx, s.db, usersTable, userCols,
		db.Query{Order: []db.Order{{Col: "points", Desc: true}}, Limit: 10}, scanUser)
}

// Update persists the full user record.
func (s *Users) Update(ctx context.Context, u *models.User) error {
	commands, err := json.Marshal(u.Commands)
	if err != nil {
		return fmt.Errorf("encode user commands: %w", err)
	}
	_, err = db.UpdateOne(ctx, s.db, usersTable, userCols,
		[]db.Assign{
			{Col: "username", Val: u.Username},
			{Col: "points", Val: u.Points},
			{Col: "color", Val: u.Color},
			{Col: "isSub", Val: encodeBool(u.IsSub)},
			{Col: "isVip", Val: encodeBool(u.IsVip)},
			{Col: "isMod", Val: encodeBool(u.IsMod)},
			{Col: "isAdmin", Val: encodeBool(u.IsAdmin)},
			{Col: "isStreamer", Val: encodeBool(u.IsStreamer)},
			{Col: "commands", Val: string(commands)},
			{Col: "updatedAt", Val: encodeTime(timeNow())},
		},
		db.WhereEq("id", u.ID), scanUser)
	return err
}

// ResetPoints sets every balance back to the default (global reset).
func (s *Users) ResetPoints(ctx context.Context, points int) error {
	_, err := db.UpdateMany(ctx, s.db, usersTable, userCols,
		[]db.Assign{{Col: "points", Val: points}}, db.Where{}, scanUser)
	return err
}

// IncrementPoints adjusts one user's stored balance by delta (may be
// negative). Ledger use only.
func (s *Users) IncrementPoints(ctx context.Context, userID string, delta int) error {
	_, err := db.IncrementMany(ctx, s.db, usersTable, userCols,
		[]db.Assign{{Col: "points", Val: delta}}, db.WhereEq("userId", userID), scanUser)
	return err
}

// IncrementPointsBulk adjusts many balances in a single set-based update
// and reports how many rows were touched. Ledger use only.
func (s *Users) IncrementPointsBulk(ctx context.Context, userIDs []string, delta int) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	vals := make([]any, len(userIDs))
	for i, id := range userIDs {
		vals[i] = id
	}
	rows, err := db.IncrementMany(ctx, s.db, usersTable, userCols,
		[]db.Assign{{Col: "points", Val: delta}},
		db.Where{In: []db.SetCond{{Col: "userId", Vals: vals}}}, scanUser)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// SetPoints stores an absolute balance for one user. Ledger use only.
func (s *Users) SetPoints(ctx context.Context, userID string, points int) error {
	_, err := db.UpdateMany(ctx, s.db, usersTable, userCols,
		[]db.Assign{{Col: "points", Val: points}}, db.WhereEq("userId", userID), scanUser)
	return err
}
