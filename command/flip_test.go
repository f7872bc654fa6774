package command_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/command"
	"github.com/onnwee/pointsbot/models"
)

func TestFlipOutcomeMatchesDraw(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	user := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindFlip)

	// Replay the same seeded sequence to know the outcome in advance.
	won := rand.New(rand.NewSource(1)).Intn(2) == 1

	require.True(t, command.Flip{}.Execute(ctx, env, user, []string{"10"}, cmd))
	require.Len(t, sender.Sent, 1)
	if won {
		assert.Equal(t, 110, user.Points)
		assert.Contains(t, sender.Last(), "won 20")
	} else {
		assert.Equal(t, 90, user.Points)
		assert.Contains(t, sender.Last(), "lost 10")
	}
}

func TestFlipRefusesZeroAndOverstake(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	user := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindFlip)

	// "0" falls back to the flat cost, so only an overstake refuses.
	assert.False(t, command.Flip{}.Execute(ctx, env, user, []string{"101"}, cmd))
	assert.Empty(t, sender.Sent)
	assert.Equal(t, 100, user.Points)
}

func TestFlipBrokeUserRefused(t *testing.T) {
	env, _ := newEnv(t)
	ctx := context.Background()
	user := newUser(t, env, "alice", "Alice")
	require.NoError(t, env.Stores.Users.SetPoints(ctx, user.UserID, 0))
	user.Points = 0
	cmd := fetchCommand(t, env, models.KindFlip)

	assert.False(t, command.Flip{}.Execute(ctx, env, user, nil, cmd))
}
