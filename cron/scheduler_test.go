package cron_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/cron"
	"github.com/onnwee/pointsbot/models"
)

func TestSchedulerRunsDueJobsUntilCancelled(t *testing.T) {
	env, _, status, _ := newEnv(t)
	status.Online = true

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	s := cron.NewScheduler(env, []cron.Job{cron.Status{}}, 10*time.Millisecond)
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on context cancellation")
	}

	c := fetchCron(t, env, models.CronStatus)
	assert.True(t, c.Opts.(*models.StatusOpts).IsOnline)
	assert.False(t, c.LastCalledAt.IsZero())
}

func TestSchedulerSurvivesFailingJob(t *testing.T) {
	env, _, status, _ := newEnv(t)
	status.Err = assert.AnError

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	s := cron.NewScheduler(env, []cron.Job{cron.Status{}}, 10*time.Millisecond)
	s.Run(ctx) // returns cleanly despite every run failing

	c := fetchCron(t, env, models.CronStatus)
	require.NotNil(t, c)
	assert.False(t, c.IsExecuting)
}
