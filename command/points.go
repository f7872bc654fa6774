package command

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Points is the balance command: plain invocation reports the caller's
// balance through tiered messages, "top" prints the leaderboard, admins
// can add/set/remove another user's points, and the streamer can reset
// every balance and the audit trail.
type Points struct{}

func (Points) Kind() models.CommandKind { return models.KindPoints }

func (Points) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.PointsOpts)
	if !ok {
		return false
	}
	modifier, username := arg(params, 0), arg(params, 1)
	value := 0
	if n, err := strconv.ParseFloat(arg(params, 2), 64); err == nil {
		value = int(math.Abs(math.Floor(n)))
	}

	if user.IsAdmin && username != "" && value != 0 &&
		(modifier == "add" || modifier == "set" || modifier == "remove") {
		target, err := env.Stores.Users.GetByUsername(ctx, strings.TrimPrefix(username, "@"))
		if err != nil {
			slog.Error("points target lookup failed", slog.String("target", username), slog.Any("err", err))
			return false
		}
		if target == nil {
			return false
		}
		switch modifier {
		case "add":
			err = env.Ledger.AddPoints(ctx, target, 0, value, string(cmd.Kind), cmd.IsLogEnabled)
		case "set":
			err = env.Ledger.SetPoints(ctx, target, 0, value, string(cmd.Kind), cmd.IsLogEnabled)
		case "remove":
			err = env.Ledger.RemovePoints(ctx, target, 0, value, string(cmd.Kind), cmd.IsLogEnabled)
		}
		if err != nil {
			slog.Error("points adjustment failed", slog.String("target", target.UserID), slog.Any("err", err))
			return false
		}
		return true
	}

	if modifier == "top" {
		top, err := env.Stores.Users.TopUsers(ctx)
		if err != nil {
			slog.Error("points leaderboard failed", slog.Any("err", err))
			return false
		}
		entries := make([]string, 0, len(top))
		for i, u := range top {
			entries = append(entries, "["+itoa(i+1)+"] "+u.Username+" ("+itoa(u.Points)+")")
		}
		env.Chat.Send(strings.Join(entries, " | "))
		return true
	}

	if user.IsStreamer && modifier == "reset" {
		if err := env.Stores.Logs.Reset(ctx); err != nil {
			slog.Error("points log reset failed", slog.Any("err", err))
			return false
		}
		if err := env.Stores.Users.ResetPoints(ctx, env.DefaultPoints); err != nil {
			slog.Error("points balance reset failed", slog.Any("err", err))
			return false
		}
		return true
	}

	tiers := append([]models.PointsMessage{}, opts.PointsMessages...)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinPoints > tiers[j].MinPoints })
	for _, tier := range tiers {
		if user.Points >= tier.MinPoints {
			env.Chat.Send(bot.Render(tier.Message, map[string]string{
				"user":     user.Username,
				"points":   itoa(user.Points),
				"currency": env.Currency,
			}))
			return true
		}
	}
	return false
}

func (Points) DefaultConfig() models.Command {
	opts := &models.PointsOpts{
		PointsMessages: []models.PointsMessage{
			{MinPoints: 0, Message: "$user you have $points $currency NotLikeThis"},
			{MinPoints: 100, Message: "$user you have $points $currency LUL"},
			{MinPoints: 500, Message: "$user you have $points $currency SeemsGood"},
			{MinPoints: 2500, Message: "$user you have $points $currency Kappa"},
			{MinPoints: 10000, Message: "$user you have $points $currency KappaPride"},
		},
	}
	return models.Command{
		Name:          "!points",
		Kind:          models.KindPoints,
		CdMessage:     "$user You can use $command after $cd seconds!",
		ShowCdMessage: true,
		IsEnabled:     true,
		Permissions:   models.AllRoles,
		LastCalledAt:  epoch,
		Opts:          opts,
	}
}
