package command

import (
	"context"
	"strings"

	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/models"
)

// Message sends a canned template. Positional $targetN placeholders are
// filled from the invocation arguments; an unfilled placeholder aborts
// the send.
type Message struct{}

func (Message) Kind() models.CommandKind { return models.KindMessage }

func (Message) Execute(ctx context.Context, env *bot.Env, user *models.User, params []string, cmd *models.Command) bool {
	opts, ok := cmd.Opts.(*models.MessageOpts)
	if !ok {
		return false
	}
	message := opts.Message
	for i, target := range params {
		placeholder := "$target" + itoa(i+1)
		message = strings.ReplaceAll(message, placeholder, strings.TrimPrefix(target, "@"))
	}
	if strings.Contains(message, "$target") {
		return false
	}

	env.Chat.Send(bot.Render(message, map[string]string{"user": user.Username}))
	return true
}

func (Message) DefaultConfig() models.Command {
	return models.Command{
		Name:          "!slap",
		Kind:          models.KindMessage,
		UserCd:        60,
		CdMessage:     "$user You can use $command after $cd seconds!",
		ShowCdMessage: true,
		IsEnabled:     true,
		Permissions:   models.AllRoles,
		LastCalledAt:  epoch,
		Opts:          &models.MessageOpts{Message: "$user slapped $target1"},
	}
}
