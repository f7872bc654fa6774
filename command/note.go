package command

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Note manages canned MESSAGE commands from chat: add creates one on the
// fly, set rewrites its template, remove deletes it, and the remaining
// modifiers toggle or retime it. Only MESSAGE-kind commands are managed.
type Note struct{}

func (Note) Kind() models.CommandKind { return models.KindNote }

func (Note) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.NoteOpts)
	if !ok {
		return false
	}
	modifier, name := arg(params, 0), arg(params, 1)
	if name == "" {
		return false
	}
	value := strings.Join(params[2:], " ")
	cd, cdErr := strconv.Atoi(value)
	if cd < 0 {
		cd = -cd
	}

	target, err := env.Stores.Commands.FetchByName(ctx, name)
	if err != nil {
		slog.Error("note target lookup failed", slog.String("name", name), slog.Any("err", err))
		return false
	}
	if modifier == "add" && target == nil {
		if target, err = env.Stores.Commands.CreateNewMessage(ctx, name, value); err != nil {
			slog.Error("note create failed", slog.String("name", name), slog.Any("err", err))
			return false
		}
	}
	if target == nil || target.Kind != models.KindMessage {
		return false
	}
	msgOpts, ok := target.Opts.(*models.MessageOpts)
	if !ok {
		return false
	}

	var message string
	switch modifier {
	case "add":
		message = opts.Messages.Add
	case "remove":
		message = opts.Messages.Remove
		if err := env.Stores.Commands.DeleteByID(ctx, target.ID); err != nil {
			slog.Error("note delete failed", slog.String("name", name), slog.Any("err", err))
			return false
		}
	case "enable":
		message = opts.Messages.Enable
		target.IsEnabled = true
	case "disable":
		message = opts.Messages.Disable
		target.IsEnabled = false
	case "ucd":
		if cdErr != nil {
			return false
		}
		message = opts.Messages.UserCd
		target.UserCd = cd
	case "gcd":
		if cdErr != nil {
			return false
		}
		message = opts.Messages.GlobalCd
		target.GlobalCd = cd
	case "set":
		message = opts.Messages.Set
		msgOpts.Message = value
	default:
		return false
	}

	if modifier != "add" && modifier != "remove" {
		if err := env.Stores.Commands.Update(ctx, target); err != nil {
			slog.Error("note update failed", slog.String("name", name), slog.Any("err", err))
			return false
		}
	}

	env.Chat.Send(bot.Render(message, map[string]string{
		"user":    user.Username,
		"command": target.Name,
		"message": msgOpts.Message,
		"cd":      itoa(cd),
	}))
	return true
}

func (Note) DefaultConfig() models.Command {
	opts := &models.NoteOpts{}
	opts.Messages.Add = "$user added the command $command - $message"
	opts.Messages.Set = "$user set the command $command - $message"
	opts.Messages.Remove = "$user removed the command $command - $message"
	opts.Messages.Enable = "$user enabled the command $command - $message"
	opts.Messages.Disable = "$user disabled the command $command - $message"
	opts.Messages.UserCd = "$user changed the user CD $command to $cd seconds"
	opts.Messages.GlobalCd = "$user changed the global CD $command to $cd seconds"
	return models.Command{
		Name:          "!note",
		Kind:          models.KindNote,
		CdMessage:     "$user You can use $command after $cd seconds!",
		ShowCdMessage: true,
		IsEnabled:     true,
		Permissions:   []models.Role{models.RoleStreamer, models.RoleAdmin, models.RoleMod},
		LastCalledAt:  epoch,
		Opts:          opts,
	}
}
