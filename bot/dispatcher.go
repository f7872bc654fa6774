package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/telemetry"
)

// Dispatcher resolves inbound messages to command variants through a
// kind-keyed lookup table and guards execution with the permission and
// cooldown gate. It is the only writer of cooldown timestamps.
type Dispatcher struct {
	env      *Env
	registry map[models.CommandKind]Handler
}

// NewDispatcher builds a dispatcher over the given variants.
func NewDispatcher(env *Env, handlers []Handler) *Dispatcher {
	registry := make(map[models.CommandKind]Handler, len(handlers))
	for _, h := range handlers {
		registry[h.Kind()] = h
	}
	return &Dispatcher{env: env, registry: registry}
}

// HandleMessage processes one chat line to completion: sync the sender,
// record chat participation, resolve the command and run it under the
// gate. Unknown tokens, disabled commands and failed authorization are
// silent no-ops. Returns whether a command executed successfully.
func (d *Dispatcher) HandleMessage(ctx context.Context, msg ChatMessage) bool {
	ctx = telemetry.WithCorrelation(ctx, uuid.New().String())
	log := telemetry.LoggerWithCorr(ctx)
	telemetry.MessagesSeen.Inc()

	user, err := d.env.Stores.Users.Sync(ctx, msg.Sighting(), d.env.DefaultPoints)
	if err != nil {
		log.Error("user sync failed", slog.String("user", msg.UserID), slog.Any("err", err))
		return false
	}
	if _, err := d.env.Stores.Crons.MarkChatter(ctx, user.UserID); err != nil {
		log.Warn("mark chatter failed", slog.String("user", msg.UserID), slog.Any("err", err))
	}

	params := strings.Fields(msg.Text)
	if len(params) == 0 {
		return false
	}
	name := params[0]
	params = params[1:]

	cmd, err := d.env.Stores.Commands.FetchByName(ctx, name)
	if err != nil {
		log.Error("command lookup failed", slog.String("name", name), slog.Any("err", err))
		return false
	}
	if cmd == nil {
		return false
	}
	handler, ok := d.registry[cmd.Kind]
	if !ok {
		log.Error("no handler registered", slog.String("kind", string(cmd.Kind)))
		return false
	}

	authorized, err := d.authorize(ctx, cmd, user)
	if err != nil {
		log.Error("authorization failed", slog.String("name", name), slog.Any("err", err))
		return false
	}
	if !authorized {
		telemetry.CommandsRefused.Inc()
		return false
	}

	done := telemetry.TimeCommand()
	ok = handler.Execute(ctx, d.env, user, params, cmd)
	done()
	if !ok {
		telemetry.CommandsRefused.Inc()
		return false
	}
	telemetry.CommandsExecuted.Inc()

	if err := d.stampCooldowns(ctx, cmd, user); err != nil {
		log.Error("cooldown stamp failed", slog.String("name", name), slog.Any("err", err))
	}
	return true
}

// authorize applies the gate: role membership, enablement and live
// status, then the per-user and shared cooldowns. When only a cooldown
// blocks and the command is configured to say so, the cooldown notice is
// sent even though execution is refused.
func (d *Dispatcher) authorize(ctx context.Context, cmd *models.Command, user *models.User) (bool, error) {
	now := d.env.Now()

	status, err := d.env.Stores.Crons.Fetch(ctx, models.CronStatus)
	if err != nil {
		return false, err
	}
	statusOpts, ok := status.Opts.(*models.StatusOpts)
	if !ok {
		return false, fmt.Errorf("cron %s: unexpected opts type", status.Kind)
	}

	liveOk := cmd.IsEnabled && (!cmd.OnlyOnline || statusOpts.IsOnline)
	roleOk := cmd.Permitted(user.Role())

	userElapsed := now.Sub(user.Commands[cmd.Kind]).Seconds()
	globalElapsed := now.Sub(cmd.LastCalledAt).Seconds()
	userCdOk := userElapsed >= float64(cmd.UserCd)
	globalCdOk := globalElapsed >= float64(cmd.GlobalCd)

	if liveOk && roleOk && !(userCdOk && globalCdOk) && cmd.ShowCdMessage {
		remaining := float64(cmd.UserCd) - userElapsed
		d.env.Chat.Send(Render(cmd.CdMessage, map[string]string{
			"cd":      fmt.Sprintf("%.0f", remaining),
			"command": cmd.Name,
			"user":    user.Username,
		}))
	}

	return liveOk && roleOk && userCdOk && globalCdOk, nil
}

// stampCooldowns commits the shared and per-user cooldown anchors after a
// successful execution.
func (d *Dispatcher) stampCooldowns(ctx context.Context, cmd *models.Command, user *models.User) error {
	now := d.env.Now()
	cmd.LastCalledAt = now
	if user.Commands == nil {
		user.Commands = map[models.CommandKind]time.Time{}
	}
	user.Commands[cmd.Kind] = now

	if err := d.env.Stores.Users.Update(ctx, user); err != nil {
		return err
	}
	return d.env.Stores.Commands.Update(ctx, cmd)
}
