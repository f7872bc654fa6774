package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/command"
	"github.com/onnwee/pointsbot/cron"
	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/testutil"
)

// newEnv returns a seeded environment plus the recording sender.
func newEnv(t *testing.T) (*bot.Env, *testutil.FakeSender) {
	t.Helper()
	database := testutil.SetupTestDB(t)
	env, sender, _ := testutil.NewEnv(t, database)

	ctx := context.Background()
	handlers := command.All()
	defaults := make([]models.Command, 0, len(handlers))
	for _, h := range handlers {
		defaults = append(defaults, h.DefaultConfig())
	}
	require.NoError(t, env.Stores.Commands.SeedDefaults(ctx, defaults))

	jobs := cron.All()
	cronDefaults := make([]models.Cron, 0, len(jobs))
	for _, j := range jobs {
		cronDefaults = append(cronDefaults, j.DefaultConfig())
	}
	require.NoError(t, env.Stores.Crons.SeedDefaults(ctx, cronDefaults))
	return env, sender
}

func newUser(t *testing.T, env *bot.Env, userID, username string) *models.User {
	t.Helper()
	u, err := env.Stores.Users.Sync(context.Background(),
		models.UserSighting{UserID: userID, Username: username}, env.DefaultPoints)
	require.NoError(t, err)
	return u
}

func fetchCommand(t *testing.T, env *bot.Env, kind models.CommandKind) *models.Command {
	t.Helper()
	cmd, err := env.Stores.Commands.Fetch(context.Background(), kind)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	return cmd
}
