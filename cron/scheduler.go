package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/telemetry"
)

// Scheduler drives the jobs on a fixed-period tick. Jobs run
// sequentially within a tick; each job's own claim decides whether it is
// actually due, so a short tick is cheap.
type Scheduler struct {
	env  *bot.Env
	jobs []Job
	tick time.Duration
}

// NewScheduler builds a scheduler over the given jobs. A non-positive
// tick falls back to one second.
func NewScheduler(env *bot.Env, jobs []Job, tick time.Duration) *Scheduler {
	if tick <= 0 {
		tick = time.Second
	}
	return &Scheduler{env: env, jobs: jobs, tick: tick}
}

// Run ticks until the context is cancelled. A failing job is logged and
// counted; it never stops the loop or the other jobs.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	slog.Info("scheduler started", slog.Duration("tick", s.tick), slog.Int("jobs", len(s.jobs)))
	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.runDue(ctx)
		}
	}
}

func (s *Scheduler) runDue(ctx context.Context) {
	for _, job := range s.jobs {
		kind := string(job.Kind())
		ran, err := job.Run(ctx, s.env)
		if err != nil {
			if telemetry.CronFailures != nil {
				telemetry.CronFailures.Inc()
			}
			slog.Error("cron run failed", slog.String("cron", kind), slog.Any("err", err))
			continue
		}
		if ran {
			if telemetry.CronRuns != nil {
				telemetry.CronRuns.Inc()
			}
			slog.Debug("cron ran", slog.String("cron", kind))
		}
	}
}
