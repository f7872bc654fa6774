package command_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/command"
	"github.com/onnwee/pointsbot/models"
)

func armTrivia(t *testing.T, env *bot.Env, question string, answers []string, prize int) {
	t.Helper()
	cron, err := env.Stores.Crons.Fetch(context.Background(), models.CronTrivia)
	require.NoError(t, err)
	state := cron.Opts.(*models.TriviaState)
	state.Question = question
	state.Answers = answers
	state.Prize = prize
	require.NoError(t, env.Stores.Crons.Update(context.Background(), cron))
}

func TestTriviaRightAnswerWinsPrize(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	armTrivia(t, env, "What's two plus two?", []string{"four", "4"}, 15)
	alice := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindTrivia)

	require.True(t, command.Trivia{}.Execute(ctx, env, alice, []string{"FOUR"}, cmd))
	assert.Contains(t, sender.Last(), "won 15 points")
	assert.Equal(t, 115, alice.Points)

	// Any answer consumes the question.
	cron, err := env.Stores.Crons.Fetch(ctx, models.CronTrivia)
	require.NoError(t, err)
	state := cron.Opts.(*models.TriviaState)
	assert.Empty(t, state.Question)
	assert.Empty(t, state.Answers)
	assert.Zero(t, state.Prize)
	assert.True(t, cron.CallAt.After(time.Now().Add(-time.Second)))
}

func TestTriviaWrongAnswerLosesCostAndConsumesQuestion(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	armTrivia(t, env, "What color is the grass?", []string{"green"}, 15)
	alice := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindTrivia)
	cmd.Cost = 5

	require.True(t, command.Trivia{}.Execute(ctx, env, alice, []string{"blue"}, cmd))
	assert.Contains(t, sender.Last(), "wrong answer")
	assert.Equal(t, 95, alice.Points)

	cron, err := env.Stores.Crons.Fetch(ctx, models.CronTrivia)
	require.NoError(t, err)
	assert.Empty(t, cron.Opts.(*models.TriviaState).Question)
}

func TestTriviaNotReady(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	alice := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindTrivia)

	assert.False(t, command.Trivia{}.Execute(ctx, env, alice, []string{"four"}, cmd))
	assert.Contains(t, sender.Last(), "not ready")
	assert.Equal(t, 100, alice.Points)
}

func TestTriviaMultiWordAnswer(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	armTrivia(t, env, "Who played it?", []string{"the band"}, 10)
	alice := newUser(t, env, "alice", "Alice")
	cmd := fetchCommand(t, env, models.KindTrivia)

	require.True(t, command.Trivia{}.Execute(ctx, env, alice, []string{"The", "Band"}, cmd))
	assert.Contains(t, sender.Last(), "won 10 points")
}
