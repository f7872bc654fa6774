package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/telemetry"
)

// Status polls the platform for the stream-live state and stores it for
// the other jobs and the dispatcher's only-online gate.
type Status struct{}

func (Status) Kind() models.CronKind { return models.CronStatus }

func (Status) Run(ctx context.Context, env *bot.Env) (bool, error) {
	cron, err := claim(ctx, env, models.CronStatus)
	if err != nil || cron == nil {
		return false, err
	}
	opts, ok := cron.Opts.(*models.StatusOpts)
	if !ok {
		unlock(ctx, env, cron)
		return false, fmt.Errorf("cron %s: unexpected opts type", cron.Kind)
	}

	online, err := env.Status.IsStreamOnline(ctx)
	if err != nil {
		unlock(ctx, env, cron)
		return false, fmt.Errorf("poll stream status: %w", err)
	}

	if online != opts.IsOnline {
		slog.Info("stream status changed", slog.Bool("online", online))
	}
	opts.IsOnline = online
	telemetry.SetStreamOnline(online)

	if err := release(ctx, env, cron, float64(cron.Interval)); err != nil {
		return false, err
	}
	return true, nil
}

func (Status) DefaultConfig() models.Cron {
	return models.Cron{
		Kind:         models.CronStatus,
		Interval:     60,
		IsEnabled:    true,
		IsLogEnabled: true,
		Opts:         &models.StatusOpts{},
	}
}
