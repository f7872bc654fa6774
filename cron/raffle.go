package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/telemetry"
)

// Raffle is the two-phase round machine. With betting closed it opens a
// round and announces it, due again after the betting window. With
// betting open it draws the winner weighted by stake, pays out the whole
// pot, resets the round and reopens after the start cooldown.
type Raffle struct{}

func (Raffle) Kind() models.CronKind { return models.CronRaffle }

func (Raffle) Run(ctx context.Context, env *bot.Env) (bool, error) {
	cmd, open, err := commandGate(ctx, env, models.KindRaffle)
	if err != nil || !open {
		return false, err
	}
	opts, ok := cmd.Opts.(*models.RaffleOpts)
	if !ok {
		return false, nil
	}

	cron, err := claim(ctx, env, models.CronRaffle)
	if err != nil || cron == nil {
		return false, err
	}
	state, ok := cron.Opts.(*models.RaffleState)
	if !ok {
		unlock(ctx, env, cron)
		return false, fmt.Errorf("cron %s: unexpected opts type", cron.Kind)
	}

	if !state.IsBettingOpen {
		state.IsBettingOpen = true
		if err := release(ctx, env, cron, float64(opts.BetCountdown)); err != nil {
			return false, err
		}
		env.Chat.Send(bot.Render(opts.Messages.Started, map[string]string{
			"min":      itoa(opts.MinBet),
			"max":      itoa(opts.MaxBet),
			"command":  cmd.Name,
			"currency": env.Currency,
		}))
		return true, nil
	}

	var winner *models.User
	if state.Pot > 0 {
		t := env.Rand.Intn(state.Pot) + 1
		for _, b := range state.Bets {
			if b.Ticket >= t {
				if winner, err = env.Stores.Users.GetByID(ctx, b.UserID); err != nil {
					unlock(ctx, env, cron)
					return false, err
				}
				break
			}
		}
	}

	if winner != nil {
		if err := env.Ledger.AddPoints(ctx, winner, 0, state.Pot, string(cmd.Kind), cmd.IsLogEnabled); err != nil {
			unlock(ctx, env, cron)
			return false, err
		}
		slog.Info("raffle drawn", slog.String("winner", winner.UserID), slog.Int("pot", state.Pot))
		env.Chat.Send(bot.Render(opts.Messages.UserWon, map[string]string{
			"win":      itoa(state.Pot),
			"user":     winner.Username,
			"command":  cmd.Name,
			"currency": env.Currency,
		}))
	} else if opts.ShowMessages.NoBets {
		env.Chat.Send(bot.Render(opts.Messages.NoBets, map[string]string{
			"command":  cmd.Name,
			"currency": env.Currency,
		}))
	}

	state.Pot = 0
	state.Bets = nil
	state.IsBettingOpen = false
	telemetry.SetRafflePot(0)
	if err := release(ctx, env, cron, float64(opts.StartCountdown)); err != nil {
		return false, err
	}
	return true, nil
}

func (Raffle) DefaultConfig() models.Cron {
	return models.Cron{
		Kind:         models.CronRaffle,
		IsEnabled:    true,
		IsLogEnabled: true,
		Opts:         &models.RaffleState{},
	}
}
