package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Dice is the three-dice game: win on a roll sum of 12 or more, with the
// multiplier tier rising through 16, 17 and a triple-six jackpot.
type Dice struct{}

func (Dice) Kind() models.CommandKind { return models.KindDice }

func (Dice) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.DiceOpts)
	if !ok {
		return false
	}
	cost := env.Stores.Commands.GetCost(cmd, arg(params, 0), user)
	if cost <= 0 || cost > user.Points {
		return false
	}

	dice := [3]int{env.Rand.Intn(6) + 1, env.Rand.Intn(6) + 1, env.Rand.Intn(6) + 1}
	sum := dice[0] + dice[1] + dice[2]
	diceStr := fmt.Sprintf("[%d] [%d] [%d]", dice[0], dice[1], dice[2])

	var multiplier int
	switch {
	case sum <= 15:
		multiplier = opts.MultiS
	case sum == 16:
		multiplier = opts.MultiM
	case sum == 17:
		multiplier = opts.MultiL
	case sum == 18:
		multiplier = opts.MultiJ
	}

	won := sum >= 12
	reward := 0
	message := opts.Messages.Lost
	if won {
		reward = multiplier * cost
		message = opts.Messages.Won
	}

	if err := env.Ledger.AddPoints(ctx, user, cost, reward-cost, string(cmd.Kind), cmd.IsLogEnabled); err != nil {
		slog.Error("dice payout failed", slog.String("user", user.UserID), slog.Any("err", err))
		return false
	}

	env.Chat.Send(bot.Render(message, map[string]string{
		"dices":      diceStr,
		"user":       user.Username,
		"cost":       itoa(cost),
		"reward":     itoa(reward),
		"multiplier": itoa(multiplier),
		"currency":   env.Currency,
	}))
	return true
}

func (Dice) DefaultConfig() models.Command {
	opts := &models.DiceOpts{MultiS: 2, MultiM: 5, MultiL: 15, MultiJ: 50}
	opts.Messages.Won = "$user threw the dices $dices and won (x$multiplier) $reward $currency!"
	opts.Messages.Lost = "$user threw the dices $dices and lost $cost $currency!"
	return models.Command{
		Name:          "!dice",
		Kind:          models.KindDice,
		Cost:          10,
		CustomCost:    true,
		UserCd:        600,
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
