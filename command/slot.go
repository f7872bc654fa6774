package command

import (
	"context"
	"log/slog"
	"strings"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Slot draws three symbols independently from the emote list plus the
// super emote. Payout tiers: triple super = jackpot, any triple = large,
// an adjacent pair = medium, first-and-last only = small.
type Slot struct{}

func (Slot) Kind() models.CommandKind { return models.KindSlot }

func (Slot) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.SlotOpts)
	if !ok {
		return false
	}
	cost := env.Stores.Commands.GetCost(cmd, arg(params, 0), user)
	if cost <= 0 || cost > user.Points {
		return false
	}

	emotes := append(append([]string{}, opts.EmoteList...), opts.SuperEmote)
	slots := [3]string{
		emotes[env.Rand.Intn(len(emotes))],
		emotes[env.Rand.Intn(len(emotes))],
		emotes[env.Rand.Intn(len(emotes))],
	}
	slotsStr := strings.Join(slots[:], " ")

	var multiplier int
	var message string
	won := true
	switch {
	case slots[0] == slots[1] && slots[1] == slots[2] && slots[0] == opts.SuperEmote:
		multiplier, message = opts.MultiJ, opts.Messages.WonJ
	case slots[0] == slots[1] && slots[1] == slots[2]:
		multiplier, message = opts.MultiL, opts.Messages.WonL
	case slots[0] == slots[1] || slots[1] == slots[2]:
		multiplier, message = opts.MultiM, opts.Messages.WonM
	case slots[0] == slots[2]:
		multiplier, message = opts.MultiS, opts.Messages.WonS
	default:
		message = opts.Messages.Lost
		won = false
	}

	reward := 0
	if won {
		reward = multiplier * cost
	}

	if err := env.Ledger.AddPoints(ctx, user, cost, reward-cost, string(cmd.Kind), cmd.IsLogEnabled); err != nil {
		slog.Error("slot payout failed", slog.String("user", user.UserID), slog.Any("err", err))
		return false
	}

	env.Chat.Send(bot.Render(message, map[string]string{
		"slots":      slotsStr,
		"user":       user.Username,
		"cost":       itoa(cost),
		"reward":     itoa(reward),
		"multiplier": itoa(multiplier),
		"currency":   env.Currency,
	}))
	return true
}

func (Slot) DefaultConfig() models.Command {
	opts := &models.SlotOpts{
		MultiS:     2,
		MultiM:     4,
		MultiL:     30,
		MultiJ:     300,
		EmoteList:  []string{"CurseLit", "FootBall", "MorphinTime", "duDudu", "PopCorn", "TwitchSings"},
		SuperEmote: "FootGoal",
	}
	opts.Messages.WonS = "$user pulled the lever [ $slots ] and won (x$multiplier) $reward $currency! PogChamp"
	opts.Messages.WonM = "$user pulled the lever [ $slots ] and won (x$multiplier) $reward $currency! Kreygasm"
	opts.Messages.WonL = "$user pulled the lever [ $slots ] and won (x$multiplier) $reward $currency! Kappa"
	opts.Messages.WonJ = "$user pulled the lever [ $slots ] and won (x$multiplier) $reward $currency! KappaPride"
	opts.Messages.Lost = "$user pulled the lever [ $slots ] and lost $cost $currency LUL"
	return models.Command{
		Name:          "!slot",
		Kind:          models.KindSlot,
		Cost:          10,
		CustomCost:    true,
		UserCd:        1800,
		GlobalCd:      1200,
		CdMessage:     "$user You can use $command after $cd seconds!",
		ShowCdMessage: false,
		IsEnabled:     true,
		OnlyOnline:    true,
		Permissions:   models.AllRoles,
		LastCalledAt:  epoch,
		IsLogEnabled:  true,
		Opts:          opts,
	}
}
