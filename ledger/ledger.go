// Package ledger is the only mutator of points balances and the only
// writer of audit rows. Callers that accept a user-chosen stake must
// enforce cost <= points before debiting; the ledger itself applies
// whatever delta it is given.
package ledger

import (
	"context"

	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/store"
)

// Ledger mutates balances through the user store and records audit rows
// through the log store. The in-memory user is kept in step with the
// stored balance so callers can render the post-mutation value.
type Ledger struct {
	users *store.Users
	logs  *store.Logs
}

// New builds a ledger over the given stores.
func New(users *store.Users, logs *store.Logs) *Ledger {
	return &Ledger{users: users, logs: logs}
}

// AddPoints applies a net delta (reward minus cost; may be negative) to
// the user's balance. When audit is set, one Log row captures the cost,
// the delta and the resulting balance.
func (l *Ledger) AddPoints(ctx context.Context, user *models.User, cost, delta int, kind string, audit bool) error {
	if err := l.users.IncrementPoints(ctx, user.UserID, delta); err != nil {
		return err
	}
	user.Points += delta
	if audit {
		if _, err := l.logs.Insert(ctx, kind, user.UserID, cost, delta, user.Points); err != nil {
			return err
		}
	}
	return nil
}

// SetPoints stores an absolute balance. The audit row carries a zero
// delta and the new balance snapshot.
func (l *Ledger) SetPoints(ctx context.Context, user *models.User, cost, points int, kind string, audit bool) error {
	if err := l.users.SetPoints(ctx, user.UserID, points); err != nil {
		return err
	}
	user.Points = points
	if audit {
		if _, err := l.logs.Insert(ctx, kind, user.UserID, cost, 0, points); err != nil {
			return err
		}
	}
	return nil
}

// RemovePoints debits the user's balance by delta.
func (l *Ledger) RemovePoints(ctx context.Context, user *models.User, cost, delta int, kind string, audit bool) error {
	return l.AddPoints(ctx, user, cost, -delta, kind, audit)
}

// AddPointsInBulk applies one set-based increment across many users with
// no per-row audit trail. Returns how many balances changed.
func (l *Ledger) AddPointsInBulk(ctx context.Context, userIDs []string, delta int) (int, error) {
	return l.users.IncrementPointsBulk(ctx, userIDs, delta)
}
