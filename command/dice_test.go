package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/command"
	"github.com/onnwee/pointsbot/models"
)

func TestDiceSettlesExactlyOnce(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	user := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindDice)

	before := user.Points
	require.True(t, command.Dice{}.Execute(ctx, env, user, []string{"10"}, cmd))
	require.Len(t, sender.Sent, 1)

	// One audit row per roll; the net delta matches the balance change.
	logs, err := env.Stores.Logs.UserGameLogs(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 10, logs[0].Cost)
	assert.Equal(t, before+logs[0].Points, user.Points)
	assert.Equal(t, user.Points, logs[0].AllPoints)

	stored, err := env.Stores.Users.GetByID(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, user.Points, stored.Points)
}

func TestDiceRefusesOverstake(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	user := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindDice)

	assert.False(t, command.Dice{}.Execute(ctx, env, user, []string{"999"}, cmd))
	assert.Empty(t, sender.Sent)
	assert.Equal(t, 100, user.Points)

	logs, err := env.Stores.Logs.UserGameLogs(ctx, user.UserID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestDiceAllStakesFullBalance(t *testing.T) {
	env, _ := newEnv(t)
	ctx := context.Background()
	user := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindDice)

	require.True(t, command.Dice{}.Execute(ctx, env, user, []string{"all"}, cmd))
	logs, err := env.Stores.Logs.UserGameLogs(ctx, user.UserID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 100, logs[0].Cost)
}
