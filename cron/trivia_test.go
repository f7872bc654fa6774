package cron_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/cron"
	"github.com/onnwee/pointsbot/models"
)

func TestTriviaJobArmsQuestion(t *testing.T) {
	env, sender, _, _ := newEnv(t)
	ctx := context.Background()
	setStoredStatus(t, env, true)

	ran, err := cron.Trivia{}.Run(ctx, env)
	require.NoError(t, err)
	assert.True(t, ran)

	c := fetchCron(t, env, models.CronTrivia)
	state := c.Opts.(*models.TriviaState)
	assert.NotEmpty(t, state.Question)
	assert.NotEmpty(t, state.Answers)
	assert.GreaterOrEqual(t, state.Prize, 10)
	assert.LessOrEqual(t, state.Prize, 20)
	assert.True(t, state.PreviousQuestions[state.Question])
	assert.False(t, c.IsExecuting)
	assert.True(t, c.CallAt.After(c.LastCalledAt))

	require.Len(t, sender.Sent, 1)
	assert.Contains(t, sender.Last(), state.Question)
}

func TestTriviaJobAnnouncesExpiredAnswer(t *testing.T) {
	env, sender, _, _ := newEnv(t)
	ctx := context.Background()
	setStoredStatus(t, env, true)

	c := fetchCron(t, env, models.CronTrivia)
	state := c.Opts.(*models.TriviaState)
	state.Question = "What color is the grass?"
	state.Answers = []string{"green", "lush green"}
	state.Prize = 12
	updateCron(t, env, c)

	ran, err := cron.Trivia{}.Run(ctx, env)
	require.NoError(t, err)
	assert.True(t, ran)

	require.Len(t, sender.Sent, 2)
	assert.Contains(t, sender.Sent[0], `The right answer for "What color is the grass?" was green and lush green`)
	assert.Contains(t, sender.Sent[1], "Win ")
}

func TestTriviaJobRotationResetsWhenExhausted(t *testing.T) {
	env, _, _, _ := newEnv(t)
	ctx := context.Background()
	setStoredStatus(t, env, true)

	// Mark every pool question as seen; the job must reset the history
	// instead of stalling.
	cmd, err := env.Stores.Commands.Fetch(ctx, models.KindTrivia)
	require.NoError(t, err)
	questions := cmd.Opts.(*models.TriviaOpts).Questions
	require.NotEmpty(t, questions)

	c := fetchCron(t, env, models.CronTrivia)
	state := c.Opts.(*models.TriviaState)
	state.PreviousQuestions = map[string]bool{}
	for _, q := range questions {
		state.PreviousQuestions[q.Question] = true
	}
	updateCron(t, env, c)

	ran, err := cron.Trivia{}.Run(ctx, env)
	require.NoError(t, err)
	assert.True(t, ran)

	c = fetchCron(t, env, models.CronTrivia)
	state = c.Opts.(*models.TriviaState)
	assert.NotEmpty(t, state.Question)
	assert.Len(t, state.PreviousQuestions, 1)
}

func TestTriviaJobGatedByCommandAndStatus(t *testing.T) {
	env, sender, _, _ := newEnv(t)
	ctx := context.Background()

	// Offline stream blocks the only-online trivia command.
	ran, err := cron.Trivia{}.Run(ctx, env)
	require.NoError(t, err)
	assert.False(t, ran)

	// Disabled command blocks even when live.
	setStoredStatus(t, env, true)
	cmd, err := env.Stores.Commands.Fetch(ctx, models.KindTrivia)
	require.NoError(t, err)
	cmd.IsEnabled = false
	require.NoError(t, env.Stores.Commands.Update(ctx, cmd))

	ran, err = cron.Trivia{}.Run(ctx, env)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Empty(t, sender.Sent)
}
