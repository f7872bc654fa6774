package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CronKind tags a background job record.
type CronKind string

const (
	CronStatus CronKind = "STATUS"
	CronReward CronKind = "REWARD"
	CronTrivia CronKind = "TRIVIA"
	CronRaffle CronKind = "RAFFLE"
)

// Cron is a persisted background job: cadence, mutual-exclusion flag and
// kind-specific state. At most one execution of a job may be in flight;
// CallAt strictly increases after each completed run.
type Cron struct {
	ID           int64
	Kind         CronKind
	Interval     int // seconds, job-owned default cadence
	IsEnabled    bool
	IsExecuting  bool
	IsLogEnabled bool
	LastCalledAt time.Time
	CallAt       time.Time // next eligible run time
	Opts         CronOpts
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NextCallAt computes the next due time from now, using the override when
// given (seconds) and the job's own interval otherwise.
func (c *Cron) NextCallAt(now time.Time, override ...float64) time.Time {
	secs := float64(c.Interval)
	if len(override) > 0 {
		secs = override[0]
	}
	return now.Add(time.Duration(secs * float64(time.Second)))
}

// CronOpts is the sealed set of per-kind job state payloads.
type CronOpts interface {
	cronOpts()
}

// StatusOpts holds the last observed stream-live state.
type StatusOpts struct {
	IsOnline bool `json:"isOnline"`
}

// RoleReward maps roles to a per-tick point grant.
type RoleReward map[Role]int

// RewardOpts accumulates chat participation between reward runs and holds
// the per-role view/chat grants.
type RewardOpts struct {
	Chatters map[string]bool `json:"chatters"`
	View     RoleReward      `json:"view"`
	Chat     RoleReward      `json:"chat"`
}

// TriviaState is the live trivia question plus rotation history. Question,
// Answers and Prize are empty between questions.
type TriviaState struct {
	Question          string          `json:"question,omitempty"`
	Answers           []string        `json:"answers,omitempty"`
	Prize             int             `json:"prize,omitempty"`
	PreviousQuestions map[string]bool `json:"previousQuestions"`
}

// RaffleBet is one entry in the open raffle: the bettor and the cumulative
// pot after their stake (a prefix sum, not the individual bet).
type RaffleBet struct {
	UserID string `json:"userId"`
	Ticket int    `json:"ticket"`
}

// RaffleState is the open raffle round: pot, prefix-sum bet list and
// whether betting is currently open.
type RaffleState struct {
	Pot           int         `json:"pot"`
	Bets          []RaffleBet `json:"userList"`
	IsBettingOpen bool        `json:"isBettingOpened"`
}

func (*StatusOpts) cronOpts()  {}
func (*RewardOpts) cronOpts()  {}
func (*TriviaState) cronOpts() {}
func (*RaffleState) cronOpts() {}

// DecodeCronOpts unmarshals a stored job state blob into the concrete
// payload for the given kind, failing fast on mismatch.
func DecodeCronOpts(kind CronKind, raw []byte) (CronOpts, error) {
	var opts CronOpts
	switch kind {
	case CronStatus:
		opts = &StatusOpts{}
	case CronReward:
		opts = &RewardOpts{}
	case CronTrivia:
		opts = &TriviaState{}
	case CronRaffle:
		opts = &RaffleState{}
	default:
		return nil, fmt.Errorf("unknown cron kind %q", kind)
	}
	if err := json.Unmarshal(raw, opts); err != nil {
		return nil, fmt.Errorf("decode %s opts: %w", kind, err)
	}
	return opts, nil
}
