package models

import "time"

// Log is an immutable audit row for a balance-affecting event: the cost
// paid, the net delta applied and the balance snapshot after it. Written
// only by the ledger, bulk-erased only by an explicit reset.
type Log struct {
	ID        int64
	Type      string // command or job kind
	UserID    string
	Cost      int
	Points    int // net delta
	AllPoints int // balance after the delta
	CreatedAt time.Time
	UpdatedAt time.Time
}
