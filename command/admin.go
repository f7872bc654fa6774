package command

import (
	"context"
	"log/slog"
	"strings"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Admin grants or revokes the admin flag on another user. The flag is
// owned here exclusively; the sighting sync never writes it.
type Admin struct{}

func (Admin) Kind() models.CommandKind { return models.KindAdmin }

func (Admin) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.AdminOpts)
	if !ok {
		return false
	}
	modifier, username := arg(params, 0), arg(params, 1)
	if modifier == "" || username == "" {
		return false
	}

	userID := strings.ToLower(strings.TrimPrefix(username, "@"))
	target, err := env.Stores.Users.GetByID(ctx, userID)
	if err != nil {
		slog.Error("admin target lookup failed", slog.String("target", userID), slog.Any("err", err))
		return false
	}
	if target == nil {
		return false
	}

	var message string
	switch modifier {
	case "add":
		message = opts.Messages.Add
		target.IsAdmin = true
	case "remove":
		message = opts.Messages.Remove
		target.IsAdmin = false
	default:
		return false
	}

	if err := env.Stores.Users.Update(ctx, target); err != nil {
		slog.Error("admin flag update failed", slog.String("target", userID), slog.Any("err", err))
		return false
	}

	env.Chat.Send(bot.Render(message, map[string]string{
		"user":   user.Username,
		"target": target.Username,
	}))
	return true
}

func (Admin) DefaultConfig() models.Command {
	opts := &models.AdminOpts{}
	opts.Messages.Add = "$user added $target as admin"
	opts.Messages.Remove = "$user removed $target from admins"
	return models.Command{
		Name:          "!admin",
		Kind:          models.KindAdmin,
		CdMessage:     "$user You can use $command after $cd seconds!",
		ShowCdMessage: true,
		IsEnabled:     true,
		Permissions:   []models.Role{models.RoleStreamer},
		LastCalledAt:  epoch,
		Opts:          opts,
	}
}
