package cron_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/cron"
	"github.com/onnwee/pointsbot/models"
)

// rewardLogRows reads the audit rows the reward job writes for one user.
func rewardLogRows(t *testing.T, d *sql.DB, userID string) []models.Log {
	t.Helper()
	rows, err := d.Query("SELECT points, allPoints FROM logs WHERE userId = ? AND type = ?",
		userID, string(models.CronReward))
	require.NoError(t, err)
	defer rows.Close()

	var out []models.Log
	for rows.Next() {
		var l models.Log
		require.NoError(t, rows.Scan(&l.Points, &l.AllPoints))
		out = append(out, l)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestRewardJobSkipsWhileOffline(t *testing.T) {
	env, _, status, _ := newEnv(t)
	status.Viewers = []string{"alice"}

	ran, err := cron.Reward{}.Run(context.Background(), env)
	require.NoError(t, err)
	assert.False(t, ran)

	// The lock was never taken.
	c := fetchCron(t, env, models.CronReward)
	assert.False(t, c.IsExecuting)
}

func TestRewardJobPaysViewersAndChatters(t *testing.T) {
	env, _, status, d := newEnv(t)
	ctx := context.Background()
	setStoredStatus(t, env, true)

	for _, id := range []string{"alice", "bob", "carol"} {
		_, err := env.Stores.Users.Sync(ctx, models.UserSighting{UserID: id, Username: id}, 100)
		require.NoError(t, err)
	}
	// carol is known but not currently watching; bob also chatted.
	status.Viewers = []string{"alice", "bob"}
	_, err := env.Stores.Crons.MarkChatter(ctx, "bob")
	require.NoError(t, err)

	ran, err := cron.Reward{}.Run(ctx, env)
	require.NoError(t, err)
	assert.True(t, ran)

	alice, err := env.Stores.Users.GetByID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 105, alice.Points) // member view reward

	bob, err := env.Stores.Users.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 107, bob.Points) // view + chat reward

	carol, err := env.Stores.Users.GetByID(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, 100, carol.Points)

	// One audit row per rewarded viewer, carrying the resulting balance.
	aliceLogs := rewardLogRows(t, d, "alice")
	require.Len(t, aliceLogs, 1)
	assert.Equal(t, 5, aliceLogs[0].Points)
	assert.Equal(t, 105, aliceLogs[0].AllPoints)
	bobLogs := rewardLogRows(t, d, "bob")
	require.Len(t, bobLogs, 1)
	assert.Equal(t, 7, bobLogs[0].Points)
	assert.Empty(t, rewardLogRows(t, d, "carol"))

	// The chat-participation set is cleared for the next cycle.
	c := fetchCron(t, env, models.CronReward)
	assert.Empty(t, c.Opts.(*models.RewardOpts).Chatters)
	assert.False(t, c.IsExecuting)
}

func TestRewardJobPaysByRole(t *testing.T) {
	env, _, status, _ := newEnv(t)
	ctx := context.Background()
	setStoredStatus(t, env, true)

	_, err := env.Stores.Users.Sync(ctx, models.UserSighting{UserID: "subby", Username: "Subby", IsSub: true}, 100)
	require.NoError(t, err)
	_, err = env.Stores.Users.Sync(ctx, models.UserSighting{UserID: "moddy", Username: "Moddy", IsMod: true}, 100)
	require.NoError(t, err)
	status.Viewers = []string{"subby", "moddy"}

	ran, err := cron.Reward{}.Run(ctx, env)
	require.NoError(t, err)
	assert.True(t, ran)

	subby, err := env.Stores.Users.GetByID(ctx, "subby")
	require.NoError(t, err)
	assert.Equal(t, 110, subby.Points)

	moddy, err := env.Stores.Users.GetByID(ctx, "moddy")
	require.NoError(t, err)
	assert.Equal(t, 106, moddy.Points)
}

func TestRewardJobUnlocksOnViewerListFailure(t *testing.T) {
	env, _, status, _ := newEnv(t)
	setStoredStatus(t, env, true)
	status.Err = assert.AnError

	_, err := cron.Reward{}.Run(context.Background(), env)
	require.Error(t, err)

	c := fetchCron(t, env, models.CronReward)
	assert.False(t, c.IsExecuting)
}
