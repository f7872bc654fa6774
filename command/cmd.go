package command

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Cmd toggles other commands and adjusts their cooldowns from chat.
// The admin command itself is off limits.
type Cmd struct{}

func (Cmd) Kind() models.CommandKind { return models.KindCmd }

func (Cmd) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.CmdOpts)
	if !ok {
		return false
	}
	modifier, name := arg(params, 0), arg(params, 1)
	if modifier == "" || name == "" {
		return false
	}
	cd, cdErr := strconv.Atoi(arg(params, 2))

	target, err := env.Stores.Commands.FetchByName(ctx, name)
	if err != nil {
		slog.Error("cmd target lookup failed", slog.String("name", name), slog.Any("err", err))
		return false
	}
	if target == nil || target.Kind == models.KindAdmin {
		return false
	}

	var message string
	switch modifier {
	case "enable":
		message = opts.Messages.Enable
		target.IsEnabled = true
	case "disable":
		message = opts.Messages.Disable
		target.IsEnabled = false
	case "ucd":
		if cdErr != nil || cd < 0 {
			return false
		}
		message = opts.Messages.UserCd
		target.UserCd = cd
	case "gcd":
		if cdErr != nil || cd < 0 {
			return false
		}
		message = opts.Messages.GlobalCd
		target.GlobalCd = cd
	default:
		return false
	}

	if err := env.Stores.Commands.Update(ctx, target); err != nil {
		slog.Error("cmd update failed", slog.String("name", name), slog.Any("err", err))
		return false
	}

	env.Chat.Send(bot.Render(message, map[string]string{
		"user":    user.Username,
		"command": target.Name,
		"cd":      itoa(cd),
	}))
	return true
}

func (Cmd) DefaultConfig() models.Command {
	opts := &models.CmdOpts{}
	opts.Messages.Enable = "$user enabled the command $command"
	opts.Messages.Disable = "$user disabled the command $command"
	opts.Messages.UserCd = "$user changed the user CD for $command to $cd"
	opts.Messages.GlobalCd = "$user changed the global CD for $command to $cd"
	return models.Command{
		Name:          "!cmd",
		Kind:          models.KindCmd,
		CdMessage:     "$user You can use $command after $cd seconds!",
		ShowCdMessage: true,
		IsEnabled:     true,
		Permissions:   []models.Role{models.RoleStreamer, models.RoleAdmin, models.RoleMod},
		LastCalledAt:  epoch,
		Opts:          opts,
	}
}
