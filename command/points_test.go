package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/command"
	"github.com/onnwee/pointsbot/models"
)

func TestPointsReportsTieredBalance(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	user := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindPoints)

	require.True(t, command.Points{}.Execute(ctx, env, user, nil, cmd))
	assert.Contains(t, sender.Last(), "Alice you have 100 points LUL")

	require.NoError(t, env.Stores.Users.SetPoints(ctx, user.UserID, 12000))
	user.Points = 12000
	require.True(t, command.Points{}.Execute(ctx, env, user, nil, cmd))
	assert.Contains(t, sender.Last(), "12000 points KappaPride")
}

func TestPointsLeaderboard(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	alice := newUser(t, env, "alice", "Alice")
	bob := newUser(t, env, "bob", "Bob")
	require.NoError(t, env.Stores.Users.SetPoints(ctx, bob.UserID, 300))
	cmd := fetchCommand(t, env, models.KindPoints)

	require.True(t, command.Points{}.Execute(ctx, env, alice, []string{"top"}, cmd))
	assert.Equal(t, "[1] Bob (300) | [2] Alice (100)", sender.Last())
}

func TestPointsAdminAdjustments(t *testing.T) {
	env, _ := newEnv(t)
	ctx := context.Background()
	admin := newUser(t, env, "admin", "TheAdmin")
	admin.IsAdmin = true
	newUser(t, env, "bob", "Bob")
	cmd := fetchCommand(t, env, models.KindPoints)

	require.True(t, command.Points{}.Execute(ctx, env, admin, []string{"add", "@Bob", "50"}, cmd))
	bob, err := env.Stores.Users.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 150, bob.Points)

	require.True(t, command.Points{}.Execute(ctx, env, admin, []string{"set", "Bob", "777"}, cmd))
	bob, err = env.Stores.Users.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 777, bob.Points)

	require.True(t, command.Points{}.Execute(ctx, env, admin, []string{"remove", "Bob", "77"}, cmd))
	bob, err = env.Stores.Users.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 700, bob.Points)
}

func TestPointsAdjustmentRequiresAdmin(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	member := newUser(t, env, "alice", "Alice")
	newUser(t, env, "bob", "Bob")
	cmd := fetchCommand(t, env, models.KindPoints)

	// A non-admin "add" falls through to the balance report instead.
	require.True(t, command.Points{}.Execute(ctx, env, member, []string{"add", "Bob", "50"}, cmd))
	assert.Contains(t, sender.Last(), "Alice you have 100")

	bob, err := env.Stores.Users.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 100, bob.Points)
}

func TestPointsStreamerReset(t *testing.T) {
	env, _ := newEnv(t)
	ctx := context.Background()
	streamer := newUser(t, env, "streamer", "Streamer")
	streamer.IsStreamer = true
	bob := newUser(t, env, "bob", "Bob")
	require.NoError(t, env.Stores.Users.SetPoints(ctx, bob.UserID, 5000))
	_, err := env.Stores.Logs.Insert(ctx, "DICE", "bob", 10, 40, 5000)
	require.NoError(t, err)
	cmd := fetchCommand(t, env, models.KindPoints)

	require.True(t, command.Points{}.Execute(ctx, env, streamer, []string{"reset"}, cmd))

	bob, err = env.Stores.Users.GetByID(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 100, bob.Points)

	logs, err := env.Stores.Logs.UserGameLogs(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, logs)
}
