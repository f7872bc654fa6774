package command

import (
	"context"
	"log/slog"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Flip is the fair coin flip: a win multiplies the stake by a fixed factor.
type Flip struct{}

func (Flip) Kind() models.CommandKind { return models.KindFlip }

func (Flip) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.FlipOpts)
	if !ok {
		return false
	}
	cost := env.Stores.Commands.GetCost(cmd, arg(params, 0), user)
	if cost <= 0 || cost > user.Points {
		return false
	}

	won := env.Rand.Intn(2) == 1
	reward := 0
	message := opts.Messages.Lost
	if won {
		reward = opts.Multi * cost
		message = opts.Messages.Won
	}

	if err := env.Ledger.AddPoints(ctx, user, cost, reward-cost, string(cmd.Kind), cmd.IsLogEnabled); err != nil {
		slog.Error("flip payout failed", slog.String("user", user.UserID), slog.Any("err", err))
		return false
	}

	env.Chat.Send(bot.Render(message, map[string]string{
		"user":       user.Username,
		"cost":       itoa(cost),
		"reward":     itoa(reward),
		"multiplier": itoa(opts.Multi),
		"currency":   env.Currency,
	}))
	return true
}

func (Flip) DefaultConfig() models.Command {
	opts := &models.FlipOpts{Multi: 2}
	opts.Messages.Won = "$user flipped a coin VoteYea and won $reward $currency!"
	opts.Messages.Lost = "$user flipped a coin VoteNay and lost $cost $currency!"
	return models.Command{
		Name:          "!flip",
		Kind:          models.KindFlip,
		Cost:          10,
		CustomCost:    true,
		UserCd:        300,
		CdMessage:     "$user You can use $command after $cd seconds!",
		ShowCdMessage: true,
		IsEnabled:     true,
		OnlyOnline:    true,
		Permissions:   models.AllRoles,
		LastCalledAt:  epoch,
		IsLogEnabled:  true,
		Opts:          opts,
	}
}
