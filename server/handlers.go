// Package server exposes the bot's operational HTTP surface: liveness
// and readiness probes, a status snapshot, and Prometheus metrics. It
// injects correlation IDs into request contexts for consistent logging.
package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/store"
)

// Handlers holds dependencies for all HTTP handlers.
type Handlers struct {
	db        *sql.DB
	stores    *store.Stores
	startedAt time.Time
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(db *sql.DB, stores *store.Stores) *Handlers {
	return &Handlers{db: db, stores: stores, startedAt: time.Now()}
}

// HandleStatus reports a snapshot of the bot's state: uptime, the last
// observed stream-live state and the open raffle pot.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	}
	if cron, err := h.stores.Crons.Fetch(r.Context(), models.CronStatus); err == nil {
		if opts, ok := cron.Opts.(*models.StatusOpts); ok {
			out["stream_online"] = opts.IsOnline
			out["status_checked_at"] = cron.LastCalledAt
		}
	}
	if cron, err := h.stores.Crons.Fetch(r.Context(), models.CronRaffle); err == nil {
		if state, ok := cron.Opts.(*models.RaffleState); ok {
			out["raffle_open"] = state.IsBettingOpen
			out["raffle_pot"] = state.Pot
			out["raffle_bets"] = len(state.Bets)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
