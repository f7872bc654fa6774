package command

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/telemetry"
)

// Raffle places a bet into the open raffle round. Each bet appends a
// prefix-sum ticket so the draw job can pick a winner with probability
// proportional to stake. One bet per user per round.
type Raffle struct{}

func (Raffle) Kind() models.CommandKind { return models.KindRaffle }

func (Raffle) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.RaffleOpts)
	if !ok {
		return false
	}

	bet := cmd.Cost
	if n, err := strconv.Atoi(arg(params, 0)); err == nil {
		bet = n
	}
	prevBet := bet

	render := func(message string) string {
		return bot.Render(message, map[string]string{
			"user":     user.Username,
			"bet":      itoa(bet),
			"min":      itoa(opts.MinBet),
			"max":      itoa(opts.MaxBet),
			"points":   itoa(user.Points),
			"prevBet":  itoa(prevBet),
			"command":  cmd.Name,
			"currency": env.Currency,
		})
	}

	if bet < opts.MinBet || bet > opts.MaxBet || bet > user.Points || bet <= 0 {
		if opts.ShowMessages.InvalidAmount {
			env.Chat.Send(render(opts.Messages.InvalidAmount))
		}
		return false
	}

	cron, err := env.Stores.Crons.Fetch(ctx, models.CronRaffle)
	if err != nil {
		slog.Error("raffle state fetch failed", slog.Any("err", err))
		return false
	}
	state, ok := cron.Opts.(*models.RaffleState)
	if !ok {
		return false
	}

	if !state.IsBettingOpen {
		if opts.ShowMessages.NotOpened {
			env.Chat.Send(render(opts.Messages.NotOpened))
		}
		return false
	}

	for i, b := range state.Bets {
		if b.UserID != user.UserID {
			continue
		}
		if opts.ShowMessages.AlreadyBetted {
			prevBet = b.Ticket
			if i > 0 {
				prevBet = b.Ticket - state.Bets[i-1].Ticket
			}
			env.Chat.Send(render(opts.Messages.AlreadyBetted))
		}
		return false
	}

	if err := env.Ledger.AddPoints(ctx, user, bet, -bet, string(cmd.Kind), cmd.IsLogEnabled); err != nil {
		slog.Error("raffle debit failed", slog.String("user", user.UserID), slog.Any("err", err))
		return false
	}

	state.Pot += bet
	state.Bets = append(state.Bets, models.RaffleBet{UserID: user.UserID, Ticket: state.Pot})
	if err := env.Stores.Crons.Update(ctx, cron); err != nil {
		slog.Error("raffle state update failed", slog.Any("err", err))
		return false
	}
	telemetry.SetRafflePot(state.Pot)

	if opts.ShowMessages.UserBetted {
		env.Chat.Send(render(opts.Messages.UserBetted))
	}
	return true
}

func (Raffle) DefaultConfig() models.Command {
	opts := &models.RaffleOpts{
		MinBet:         1,
		MaxBet:         100,
		BetCountdown:   300,
		StartCountdown: 1800,
	}
	opts.Messages.NoBets = "Raffle: Nobody placed a bet!"
	opts.Messages.UserWon = "Raffle: $user won $win $currency!"
	opts.Messages.Started = "Raffle: Started, you can bet by typing $command <$min - $max>"
	opts.Messages.NotOpened = "Raffle: Bet placing isn't opened yet!"
	opts.Messages.UserBetted = "Raffle: $user placed a bet of $bet $currency!"
	opts.Messages.InvalidAmount = "Raffle: $user you can bet between $min - $max $currency. Currently you have $points $currency."
	opts.Messages.AlreadyBetted = "Raffle: $user you already placed your bet of $prevBet $currency!"
	opts.ShowMessages.NoBets = true
	opts.ShowMessages.NotOpened = true
	opts.ShowMessages.UserBetted = true
	opts.ShowMessages.InvalidAmount = true
	opts.ShowMessages.AlreadyBetted = true
	return models.Command{
		Name:         "!raffle",
		Kind:         models.KindRaffle,
		Cost:         10,
		CustomCost:   true,
		CdMessage:    "$user You can use $command after $cd seconds!",
		IsEnabled:    true,
		OnlyOnline:   true,
		Permissions:  models.AllRoles,
		LastCalledAt: epoch,
		IsLogEnabled: true,
		Opts:         opts,
	}
}
