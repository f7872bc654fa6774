// Package cron runs the background jobs: stream status polling, viewer
// rewards, trivia question rotation and the raffle round machine. Jobs
// are persisted records; a fixed-period scheduler invokes every job each
// tick and the job itself decides whether it is due. At most one
// execution of a job is in flight at a time, enforced by the persisted
// isExecuting flag committed before work begins.
package cron

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Job is one closed background job variant.
type Job interface {
	Kind() models.CronKind
	// Run performs one execution attempt. It returns false without error
	// when the job is not due or its gate conditions fail.
	Run(ctx context.Context, env *bot.Env) (bool, error)
	DefaultConfig() models.Cron
}

// All returns one job per cron kind, in seed order.
func All() []Job {
	return []Job{Status{}, Reward{}, Trivia{}, Raffle{}}
}

// claim fetches the job record and, when it is due, takes the execution
// lock by persisting isExecuting before any work happens. Returns nil
// when the job is disabled, locked or not yet due.
func claim(ctx context.Context, env *bot.Env, kind models.CronKind) (*models.Cron, error) {
	cron, err := env.Stores.Crons.Fetch(ctx, kind)
	if err != nil {
		return nil, err
	}
	now := env.Now()
	if !cron.IsEnabled || cron.IsExecuting || now.Before(cron.CallAt) {
		return nil, nil
	}
	cron.IsExecuting = true
	if err := env.Stores.Crons.Update(ctx, cron); err != nil {
		return nil, fmt.Errorf("claim %s: %w", kind, err)
	}
	return cron, nil
}

// release clears the execution lock, stamps the run and schedules the
// next one interval seconds from now. Must run on every exit path after
// a successful claim, including failures, so the job is never starved.
func release(ctx context.Context, env *bot.Env, cron *models.Cron, interval float64) error {
	now := env.Now()
	cron.IsExecuting = false
	cron.LastCalledAt = now
	cron.CallAt = cron.NextCallAt(now, interval)
	if err := env.Stores.Crons.Update(ctx, cron); err != nil {
		return fmt.Errorf("release %s: %w", cron.Kind, err)
	}
	return nil
}

// unlock clears the execution lock without advancing the schedule, for
// runs that failed before doing any work.
func unlock(ctx context.Context, env *bot.Env, cron *models.Cron) {
	cron.IsExecuting = false
	_ = env.Stores.Crons.Update(ctx, cron)
}

// commandGate reports whether the job's companion command permits a run:
// the command must be enabled and, when restricted to live streams, the
// last observed status must be online.
func commandGate(ctx context.Context, env *bot.Env, kind models.CommandKind) (*models.Command, bool, error) {
	cmd, err := env.Stores.Commands.Fetch(ctx, kind)
	if err != nil || cmd == nil {
		return nil, false, err
	}
	if !cmd.IsEnabled {
		return cmd, false, nil
	}
	if cmd.OnlyOnline {
		online, err := streamOnline(ctx, env)
		if err != nil {
			return cmd, false, err
		}
		if !online {
			return cmd, false, nil
		}
	}
	return cmd, true, nil
}

func itoa(n int) string { return strconv.Itoa(n) }

func joinAnswers(answers []string) string { return strings.Join(answers, " and ") }

// streamOnline reads the last polled stream-live state.
func streamOnline(ctx context.Context, env *bot.Env) (bool, error) {
	status, err := env.Stores.Crons.Fetch(ctx, models.CronStatus)
	if err != nil {
		return false, err
	}
	opts, ok := status.Opts.(*models.StatusOpts)
	if !ok {
		return false, fmt.Errorf("cron %s: unexpected opts type", status.Kind)
	}
	return opts.IsOnline, nil
}
