package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/telemetry"
)

// Reward grants periodic points while the stream is live: every current
// viewer gets the per-role viewing reward, and viewers who chatted since
// the previous run get the per-role chat reward on top. One audit row is
// written per rewarded user; the chat-participation set is then cleared.
type Reward struct{}

func (Reward) Kind() models.CronKind { return models.CronReward }

func (Reward) Run(ctx context.Context, env *bot.Env) (bool, error) {
	online, err := streamOnline(ctx, env)
	if err != nil {
		return false, err
	}
	if !online {
		return false, nil
	}

	cron, err := claim(ctx, env, models.CronReward)
	if err != nil || cron == nil {
		return false, err
	}
	opts, ok := cron.Opts.(*models.RewardOpts)
	if !ok {
		unlock(ctx, env, cron)
		return false, fmt.Errorf("cron %s: unexpected opts type", cron.Kind)
	}

	viewerIDs, err := env.Status.GetViewerUserIDs(ctx)
	if err != nil {
		unlock(ctx, env, cron)
		return false, fmt.Errorf("list viewers: %w", err)
	}
	users, err := env.Stores.Users.GetByIDs(ctx, viewerIDs)
	if err != nil {
		unlock(ctx, env, cron)
		return false, err
	}
	slog.Info("rewarding viewers", slog.Int("count", len(users)))

	viewByRole := map[models.Role][]string{}
	chatByRole := map[models.Role][]string{}
	logs := make([]models.Log, 0, len(users))
	total := 0
	for _, u := range users {
		role := u.Role()
		gained := opts.View[role]
		viewByRole[role] = append(viewByRole[role], u.UserID)
		if opts.Chatters[u.UserID] {
			gained += opts.Chat[role]
			chatByRole[role] = append(chatByRole[role], u.UserID)
		}
		total += gained
		logs = append(logs, models.Log{
			Type:      string(cron.Kind),
			UserID:    u.UserID,
			Points:    gained,
			AllPoints: u.Points + gained,
		})
	}

	for role, ids := range viewByRole {
		if _, err := env.Ledger.AddPointsInBulk(ctx, ids, opts.View[role]); err != nil {
			unlock(ctx, env, cron)
			return false, err
		}
	}
	for role, ids := range chatByRole {
		if _, err := env.Ledger.AddPointsInBulk(ctx, ids, opts.Chat[role]); err != nil {
			unlock(ctx, env, cron)
			return false, err
		}
	}
	if cron.IsLogEnabled && len(logs) > 0 {
		if err := env.Stores.Logs.InsertBulk(ctx, logs); err != nil {
			unlock(ctx, env, cron)
			return false, err
		}
	}
	if telemetry.PointsAwarded != nil {
		telemetry.PointsAwarded.Add(float64(total))
	}

	opts.Chatters = map[string]bool{}
	if err := release(ctx, env, cron, float64(cron.Interval)); err != nil {
		return false, err
	}
	return true, nil
}

func (Reward) DefaultConfig() models.Cron {
	return models.Cron{
		Kind:         models.CronReward,
		Interval:     300,
		IsEnabled:    true,
		IsLogEnabled: true,
		Opts: &models.RewardOpts{
			Chatters: map[string]bool{},
			View: models.RoleReward{
				models.RoleStreamer: 6, models.RoleAdmin: 6, models.RoleMod: 6,
				models.RoleVip: 6, models.RoleSub: 10, models.RoleMember: 5,
			},
			Chat: models.RoleReward{
				models.RoleStreamer: 2, models.RoleAdmin: 2, models.RoleMod: 2,
				models.RoleVip: 2, models.RoleSub: 2, models.RoleMember: 2,
			},
		},
	}
}
