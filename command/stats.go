package command

import (
	"context"
	"log/slog"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Stats reports a user's lifetime stake and net profit across all
// balance-affecting commands, passive rewards excluded.
type Stats struct{}

func (Stats) Kind() models.CommandKind { return models.KindStats }

func (Stats) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.StatsOpts)
	if !ok {
		return false
	}
	logs, err := env.Stores.Logs.UserGameLogs(ctx, user.UserID)
	if err != nil {
		slog.Error("stats log query failed", slog.String("user", user.UserID), slog.Any("err", err))
		return false
	}

	var stake, profit int
	for _, l := range logs {
		stake += l.Cost
		profit += l.Points
	}
	if stake < 0 {
		stake = -stake
	}

	message := opts.Messages.Negative
	if profit >= 0 {
		message = opts.Messages.Positive
	}
	env.Chat.Send(bot.Render(message, map[string]string{
		"user":     user.Username,
		"stake":    itoa(stake),
		"profit":   itoa(profit),
		"currency": env.Currency,
	}))
	return true
}

func (Stats) DefaultConfig() models.Command {
	opts := &models.StatsOpts{}
	opts.Messages.Positive = "$user with all your stakes of $stake $currency you are ahead with $profit $currency SeemsGood"
	opts.Messages.Negative = "$user with all your stakes of $stake $currency you are behind with $profit $currency LUL"
	return models.Command{
		Name:          "!stats",
		Kind:          models.KindStats,
		UserCd:        60,
		CdMessage:     "$user You can use $command after $cd seconds!",
		ShowCdMessage: true,
		IsEnabled:     true,
		Permissions:   models.AllRoles,
		LastCalledAt:  epoch,
		Opts:          opts,
	}
}
