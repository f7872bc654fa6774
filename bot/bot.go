// Package bot wires inbound chat messages to command execution: the
// collaborator interfaces, the injected environment handed to every
// command and job, templated message rendering, and the dispatcher with
// its permission/cooldown gate.
package bot

import (
	"context"
	"math/rand"
	"time"

	"github.com/onnwee/pointsbot/ledger"
	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/store"
)

// Sender is the outbound chat transport.
type Sender interface {
	Send(text string)
}

// StatusAPI is the platform status collaborator. Implementations must
// fail fast on unreachable endpoints and return the zero value so
// scheduling state is not corrupted.
type StatusAPI interface {
	IsStreamOnline(ctx context.Context) (bool, error)
	GetViewerUserIDs(ctx context.Context) ([]string, error)
}

// ChatMessage is one parsed inbound chat line: identity, text and the
// role flags observed on it.
type ChatMessage struct {
	UserID     string
	Username   string
	Text       string
	Color      string
	IsSub      bool
	IsVip      bool
	IsMod      bool
	IsStreamer bool
}

// Sighting converts the message's identity snapshot for the user store.
// The broadcaster badge implies admin, matching the platform's parser.
func (m ChatMessage) Sighting() models.UserSighting {
	return models.UserSighting{
		UserID:     m.UserID,
		Username:   m.Username,
		Color:      m.Color,
		IsSub:      m.IsSub,
		IsVip:      m.IsVip,
		IsMod:      m.IsMod,
		IsAdmin:    m.IsStreamer,
		IsStreamer: m.IsStreamer,
	}
}

// Env is the explicit dependency bundle handed to commands and jobs:
// stores, ledger, collaborators, currency naming, clock and randomness.
// Tests substitute an in-memory database, a fake sender and a seeded Rand.
type Env struct {
	Stores        *store.Stores
	Ledger        *ledger.Ledger
	Chat          Sender
	Status        StatusAPI
	Currency      string
	DefaultPoints int
	Rand          *rand.Rand
	Now           func() time.Time
}

// Handler is one closed command variant: a stable kind, the game or
// admin logic, and the configuration record seeded on first boot.
type Handler interface {
	Kind() models.CommandKind
	Execute(ctx context.Context, env *Env, user *models.User, params []string, cmd *models.Command) bool
	DefaultConfig() models.Command
}
