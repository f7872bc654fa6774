package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/onnwee/pointsbot/db"
	"github.com/onnwee/pointsbot/models"
)

// Commands is the entity store for command configuration records.
type Commands struct {
	db *sql.DB
}

const commandsTable = "commands"

var commandCols = []string{
	"id", "name", "kind", "isEnabled", "isLogEnabled", "lastCalledAt", "opts",
	"cost", "customCost", "userCd", "globalCd", "cdMessage", "showCdMessage",
	"onlyOnline", "permissions", "createdAt", "updatedAt",
}

func scanCommand(s db.Scanner) (models.Command, error) {
	var (
		c                                   models.Command
		isEnabled, isLogEnabled, customCost int
		showCdMessage, onlyOnline           int
		kind, opts, permissions             string
		lastCalledAt, createdAt, updatedAt  string
	)
	if err := s.Scan(&c.ID, &c.Name, &kind, &isEnabled, &isLogEnabled, &lastCalledAt, &opts,
		&c.Cost, &customCost, &c.UserCd, &c.GlobalCd, &c.CdMessage, &showCdMessage,
		&onlyOnline, &permissions, &createdAt, &updatedAt); err != nil {
		return c, err
	}
	c.Kind = models.CommandKind(kind)
	c.IsEnabled, c.IsLogEnabled = isEnabled != 0, isLogEnabled != 0
	c.CustomCost, c.ShowCdMessage, c.OnlyOnline = customCost != 0, showCdMessage != 0, onlyOnline != 0

	if err := json.Unmarshal([]byte(permissions), &c.Permissions); err != nil {
		return c, fmt.Errorf("decode command permissions: %w", err)
	}
	decoded, err := models.DecodeCommandOpts(c.Kind, []byte(opts))
	if err != nil {
		return c, err
	}
	c.Opts = decoded
	if c.LastCalledAt, err = parseTime(lastCalledAt); err != nil {
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

func commandValues(c *models.Command, now string) ([]any, error) {
	opts, err := json.Marshal(c.Opts)
	if err != nil {
		return nil, fmt.Errorf("encode %s opts: %w", c.Kind, err)
	}
	permissions, err := json.Marshal(c.Permissions)
	if err != nil {
		return nil, fmt.Errorf("encode %s permissions: %w", c.Kind, err)
	}
	return []any{
		c.Name, string(c.Kind), encodeBool(c.IsEnabled), encodeBool(c.IsLogEnabled),
		encodeTime(c.LastCalledAt), string(opts), c.Cost, encodeBool(c.CustomCost),
		c.UserCd, c.GlobalCd, c.CdMessage, encodeBool(c.ShowCdMessage),
		encodeBool(c.OnlyOnline), string(permissions), now, now,
	}, nil
}

var commandInsertCols = []string{
	"name", "kind", "isEnabled", "isLogEnabled", "lastCalledAt", "opts",
	"cost", "customCost", "userCd", "globalCd", "cdMessage", "showCdMessage",
	"onlyOnline", "permissions", "createdAt", "updatedAt",
}

// Fetch returns the command record with the given kind, or nil.
func (s *Commands) Fetch(ctx context.Context, kind models.CommandKind) (*models.Command, error) {
	c, ok, err := db.GetOne(ctx, s.db, commandsTable, commandCols,
		db.Query{Where: db.WhereEq("kind", string(kind))}, scanCommand)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

// FetchByName resolves a command by its invocation token, or nil.
func (s *Commands) FetchByName(ctx context.Context, name string) (*models.Command, error) {
	c, ok, err := db.GetOne(ctx, s.db, commandsTable, commandCols,
		db.Query{Where: db.WhereEq("name", name)}, scanCommand)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

// Update persists the full command record.
func (s *Commands) Update(ctx context.Context, c *models.Command) error {
	opts, err := json.Marshal(c.Opts)
	if err != nil {
		return fmt.Errorf("encode %s opts: %w", c.Kind, err)
	}
	permissions, err := json.Marshal(c.Permissions)
	if err != nil {
		return fmt.Errorf("encode %s permissions: %w", c.Kind, err)
	}
	_, err = db.UpdateOne(ctx, s.db, commandsTable, commandCols,
		[]db.Assign{
			{Col: "name", Val: c.Name},
			{Col: "isEnabled", Val: encodeBool(c.IsEnabled)},
			{Col: "isLogEnabled", Val: encodeBool(c.IsLogEnabled)},
			{Col: "lastCalledAt", Val: encodeTime(c.LastCalledAt)},
			{Col: "opts", Val: string(opts)},
			{Col: "cost", Val: c.Cost},
			{Col: "customCost", Val: encodeBool(c.CustomCost)},
			{Col: "userCd", Val: c.UserCd},
			{Col: "globalCd", Val: c.GlobalCd},
			{Col: "cdMessage", Val: c.CdMessage},
			{Col: "showCdMessage", Val: encodeBool(c.ShowCdMessage)},
			{Col: "onlyOnline", Val: encodeBool(c.OnlyOnline)},
			{Col: "permissions", Val: string(permissions)},
			{Col: "updatedAt", Val: encodeTime(timeNow())},
		},
		db.WhereEq("id", c.ID), scanCommand)
	return err
}

// DeleteByID removes a command record (explicit removal only).
func (s *Commands) DeleteByID(ctx context.Context, id int64) error {
	return db.DeleteWhere(ctx, s.db, commandsTable, db.WhereEq("id", id))
}

// GetCost resolves the stake for an invocation: the flat cost unless the
// command allows a user-supplied override, in which case "all" means the
// full balance and a non-zero number is taken as abs(floor(n)). Anything
// else falls back to the flat cost.
func (s *Commands) GetCost(c *models.Command, override string, user *models.User) int {
	if !c.CustomCost {
		return c.Cost
	}
	if override == "all" {
		return user.Points
	}
	if n, err := strconv.ParseFloat(override, 64); err == nil && n != 0 {
		return int(math.Abs(math.Floor(n)))
	}
	return c.Cost
}

// CreateNewMessage inserts a new MESSAGE-kind command with the fixed
// default configuration and the given template, letting chat users define
// canned phrases at runtime.
func (s *Commands) CreateNewMessage(ctx context.Context, name, message string) (*models.Command, error) {
	c := models.Command{
		Name:          name,
		Kind:          models.KindMessage,
		IsEnabled:     true,
		LastCalledAt:  time.Unix(0, 0),
		CdMessage:     "$user You can use $command after $cd seconds!",
		ShowCdMessage: true,
		Permissions:   models.AllRoles,
		Opts:          &models.MessageOpts{Message: message},
	}
	values, err := commandValues(&c, encodeTime(timeNow()))
	if err != nil {
		return nil, err
	}
	created, err := db.InsertOne(ctx, s.db, commandsTable, commandInsertCols, commandCols, values, scanCommand)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// SeedDefaults inserts the default command rows once: a non-empty
// collection is left untouched, so boot seeding is idempotent.
func (s *Commands) SeedDefaults(ctx context.Context, defaults []models.Command) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM commands").Scan(&count); err != nil {
		return fmt.Errorf("count commands: %w", err)
	}
	if count > 0 {
		return nil
	}
	now := encodeTime(timeNow())
	values := make([][]any, 0, len(defaults))
	for i := range defaults {
		v, err := commandValues(&defaults[i], now)
		if err != nil {
			return err
		}
		values = append(values, v)
	}
	_, err := db.InsertMany(ctx, s.db, commandsTable, commandInsertCols, commandCols, values, scanCommand)
	return err
}
