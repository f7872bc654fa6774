package command_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onnwee/pointsbot/command"
	"github.com/onnwee/pointsbot/models"
)

func TestCmdEnableDisable(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	mod := newUser(t, env, "mod", "TheMod")
	cmd := fetchCommand(t, env, models.KindCmd)

	require.True(t, command.Cmd{}.Execute(ctx, env, mod, []string{"disable", "!dice"}, cmd))
	assert.Equal(t, "TheMod disabled the command !dice", sender.Last())
	dice := fetchCommand(t, env, models.KindDice)
	assert.False(t, dice.IsEnabled)

	require.True(t, command.Cmd{}.Execute(ctx, env, mod, []string{"enable", "!dice"}, cmd))
	dice = fetchCommand(t, env, models.KindDice)
	assert.True(t, dice.IsEnabled)
}

func TestCmdCooldownChanges(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	mod := newUser(t, env, "mod", "TheMod")
	cmd := fetchCommand(t, env, models.KindCmd)

	require.True(t, command.Cmd{}.Execute(ctx, env, mod, []string{"ucd", "!dice", "120"}, cmd))
	assert.Equal(t, "TheMod changed the user CD for !dice to 120", sender.Last())

	require.True(t, command.Cmd{}.Execute(ctx, env, mod, []string{"gcd", "!dice", "30"}, cmd))
	assert.Equal(t, "TheMod changed the global CD for !dice to 30", sender.Last())

	dice := fetchCommand(t, env, models.KindDice)
	assert.Equal(t, 120, dice.UserCd)
	assert.Equal(t, 30, dice.GlobalCd)
}

func TestCmdRefusals(t *testing.T) {
	env, sender := newEnv(t)
	ctx := context.Background()
	mod := newUser(t, env, "mod", "TheMod")
	cmd := fetchCommand(t, env, models.KindCmd)

	// Unknown target, non-numeric or negative cooldowns, unknown modifier.
	assert.False(t, command.Cmd{}.Execute(ctx, env, mod, []string{"disable", "!nothing"}, cmd))
	assert.False(t, command.Cmd{}.Execute(ctx, env, mod, []string{"ucd", "!dice", "soon"}, cmd))
	assert.False(t, command.Cmd{}.Execute(ctx, env, mod, []string{"ucd", "!dice", "-5"}, cmd))
	assert.False(t, command.Cmd{}.Execute(ctx, env, mod, []string{"explode", "!dice"}, cmd))
	// The admin command cannot be managed from chat.
	assert.False(t, command.Cmd{}.Execute(ctx, env, mod, []string{"disable", "!admin"}, cmd))
	assert.Empty(t, sender.Sent)
}
