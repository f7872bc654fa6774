package cron_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/command"
	"github.com/onnwee/pointsbot/cron"
	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/testutil"
)

func newEnv(t *testing.T) (*bot.Env, *testutil.FakeSender, *testutil.FakeStatus, *sql.DB) {
	t.Helper()
	database := testutil.SetupTestDB(t)
	env, sender, status := testutil.NewEnv(t, database)

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
	return env, sender, status, database
}

func fetchCron(t *testing.T, env *bot.Env, kind models.CronKind) *models.Cron {
	t.Helper()
	c, err := env.Stores.Crons.Fetch(context.Background(), kind)
	require.NoError(t, err)
	return c
}

func updateCron(t *testing.T, env *bot.Env, c *models.Cron) {
	t.Helper()
	require.NoError(t, env.Stores.Crons.Update(context.Background(), c))
}

func setStoredStatus(t *testing.T, env *bot.Env, online bool) {
	t.Helper()
	c := fetchCron(t, env, models.CronStatus)
	c.Opts.(*models.StatusOpts).IsOnline = online
	updateCron(t, env, c)
}

func TestStatusJobStoresLiveState(t *testing.T) {
	env, _, status, _ := newEnv(t)
	status.Online = true

	ran, err := cron.Status{}.Run(context.Background(), env)
	require.NoError(t, err)
	assert.True(t, ran)

	c := fetchCron(t, env, models.CronStatus)
	assert.True(t, c.Opts.(*models.StatusOpts).IsOnline)
	assert.False(t, c.IsExecuting)
	assert.False(t, c.LastCalledAt.IsZero())
	assert.True(t, c.CallAt.After(c.LastCalledAt))
}

func TestStatusJobRespectsLockAndSchedule(t *testing.T) {
	env, _, _, _ := newEnv(t)
	ctx := context.Background()

	c := fetchCron(t, env, models.CronStatus)
	c.IsExecuting = true
	updateCron(t, env, c)

	ran, err := cron.Status{}.Run(ctx, env)
	require.NoError(t, err)
	assert.False(t, ran)

	// Not yet due either.
	c.IsExecuting = false
	c.CallAt = env.Now().Add(time.Hour)
	updateCron(t, env, c)

	ran, err = cron.Status{}.Run(ctx, env)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestStatusJobUnlocksOnPollFailure(t *testing.T) {
	env, _, status, _ := newEnv(t)
	status.Err = assert.AnError

	ran, err := cron.Status{}.Run(context.Background(), env)
	require.Error(t, err)
	assert.False(t, ran)

	// The lock is cleared and the schedule not advanced, so the next tick
	// retries immediately.
	c := fetchCron(t, env, models.CronStatus)
	assert.False(t, c.IsExecuting)
	assert.True(t, c.LastCalledAt.IsZero() || c.LastCalledAt.Before(env.Now()))
	assert.False(t, c.CallAt.After(env.Now()))
}
