package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CommandKind tags a command configuration record. The set is closed; the
// dispatcher resolves game/admin logic through a lookup table keyed by it.
type CommandKind string

const (
	KindAdmin   CommandKind = "ADMIN"
	KindCmd     CommandKind = "CMD"
	KindDice    CommandKind = "DICE"
	KindFlip    CommandKind = "FLIP"
	KindMessage CommandKind = "MESSAGE"
	KindNote    CommandKind = "NOTE"
	KindPoints  CommandKind = "POINTS"
	KindRaffle  CommandKind = "RAFFLE"
	KindSlot    CommandKind = "SLOT"
	KindStats   CommandKind = "STATS"
	KindTrivia  CommandKind = "TRIVIA"
)

// Command is a persisted command configuration. Opts carries the
// kind-specific payload; its concrete type is fully determined by Kind.
type Command struct {
	ID            int64
	Name          string // invocation token, e.g. "!dice"
	Kind          CommandKind
	IsEnabled     bool
	IsLogEnabled  bool
	LastCalledAt  time.Time // shared cooldown anchor
	Cost          int
	CustomCost    bool
	UserCd        int // seconds
	GlobalCd      int // seconds
	CdMessage     string
	ShowCdMessage bool
	OnlyOnline    bool
	Permissions   []Role
	Opts          CommandOpts
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Permitted reports whether the role is in the command's permission set.
func (c *Command) Permitted(role Role) bool {
	for _, r := range c.Permissions {
		if r == role {
			return true
		}
	}
	return false
}

// CommandOpts is the sealed set of per-kind option payloads.
type CommandOpts interface {
	commandOpts()
}

// AdminOpts configures the admin-management command.
type AdminOpts struct {
	Messages struct {
		Add    string `json:"add"`
		Remove string `json:"remove"`
	} `json:"messages"`
}

// CmdOpts configures the command-management command. The user and global
// cooldown confirmations are independently configurable.
type CmdOpts struct {
	Messages struct {
		Enable   string `json:"enable"`
		Disable  string `json:"disable"`
		UserCd   string `json:"userCd"`
		GlobalCd string `json:"globalCd"`
	} `json:"messages"`
}

// DiceOpts configures the three-dice game: multiplier tiers by roll sum.
type DiceOpts struct {
	MultiS   int `json:"multiS"`
	MultiM   int `json:"multiM"`
	MultiL   int `json:"multiL"`
	MultiJ   int `json:"multiJ"`
	Messages struct {
		Won  string `json:"won"`
		Lost string `json:"lost"`
	} `json:"messages"`
}

// FlipOpts configures the coin flip game.
type FlipOpts struct {
	Multi    int `json:"multi"`
	Messages struct {
		Won  string `json:"won"`
		Lost string `json:"lost"`
	} `json:"messages"`
}

// MessageOpts holds a canned message template ($targetN placeholders).
type MessageOpts struct {
	Message string `json:"message"`
}

// NoteOpts configures the canned-message management command.
type NoteOpts struct {
	Messages struct {
		Add      string `json:"add"`
		Set      string `json:"set"`
		Remove   string `json:"remove"`
		Enable   string `json:"enable"`
		Disable  string `json:"disable"`
		UserCd   string `json:"userCd"`
		GlobalCd string `json:"globalCd"`
	} `json:"messages"`
}

// PointsMessage is one tier of the balance-report message.
type PointsMessage struct {
	MinPoints int    `json:"minPoints"`
	Message   string `json:"message"`
}

// PointsOpts configures the points command.
type PointsOpts struct {
	PointsMessages []PointsMessage `json:"pointsMessages"`
}

// RaffleOpts configures raffle stakes, timing and messaging.
type RaffleOpts struct {
	MinBet         int `json:"minBet"`
	MaxBet         int `json:"maxBet"`
	BetCountdown   int `json:"betCountdown"`   // seconds the betting window stays open
	StartCountdown int `json:"startCountdown"` // seconds between raffles
	Messages       struct {
		NoBets        string `json:"noBets"`
		UserWon       string `json:"userWon"`
		Started       string `json:"started"`
		NotOpened     string `json:"notOpened"`
		UserBetted    string `json:"userBetted"`
		InvalidAmount string `json:"invalidAmount"`
		AlreadyBetted string `json:"alreadyBetted"`
	} `json:"messages"`
	ShowMessages struct {
		NoBets        bool `json:"noBets"`
		NotOpened     bool `json:"notOpened"`
		UserBetted    bool `json:"userBetted"`
		InvalidAmount bool `json:"invalidAmount"`
		AlreadyBetted bool `json:"alreadyBetted"`
	} `json:"showMessages"`
}

// SlotOpts configures the slot machine symbols and payout tiers.
type SlotOpts struct {
	MultiS     int      `json:"multiS"`
	MultiM     int      `json:"multiM"`
	MultiL     int      `json:"multiL"`
	MultiJ     int      `json:"multiJ"`
	EmoteList  []string `json:"emoteList"`
	SuperEmote string   `json:"superEmote"`
	Messages   struct {
		WonS string `json:"wonS"`
		WonM string `json:"wonM"`
		WonL string `json:"wonL"`
		WonJ string `json:"wonJ"`
		Lost string `json:"lost"`
	} `json:"messages"`
}

// StatsOpts configures the stake/profit report.
type StatsOpts struct {
	Messages struct {
		Positive string `json:"positive"`
		Negative string `json:"negative"`
	} `json:"messages"`
}

// TriviaQuestion is one pool entry: a question and its accepted answers.
type TriviaQuestion struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// TriviaOpts configures the trivia game: reward band, question pacing and
// the question pool.
type TriviaOpts struct {
	MinReward           int              `json:"minReward"`
	MaxReward           int              `json:"maxReward"`
	MinQuestionInterval int              `json:"minQuestionInterval"`
	MaxQuestionInterval int              `json:"maxQuestionInterval"`
	NewQuestionOnAnswer bool             `json:"newQuestionOnAnswer"`
	Questions           []TriviaQuestion `json:"questions"`
	Messages            struct {
		Won         string `json:"won"`
		Lost        string `json:"lost"`
		NotReady    string `json:"notReady"`
		NewQuestion string `json:"newQuestion"`
		RightAnswer string `json:"rightAnswer"`
	} `json:"messages"`
	ShowMessages struct {
		Lost        bool `json:"lost"`
		NotReady    bool `json:"notReady"`
		RightAnswer bool `json:"rightAnswer"`
	} `json:"showMessages"`
}

func (o *TriviaOpts) validate() error {
	if o.MaxReward < o.MinReward {
		return fmt.Errorf("reward band inverted: min %d > max %d", o.MinReward, o.MaxReward)
	}
	if o.MaxQuestionInterval < o.MinQuestionInterval {
		return fmt.Errorf("question interval band inverted: min %d > max %d", o.MinQuestionInterval, o.MaxQuestionInterval)
	}
	return nil
}

func (o *RaffleOpts) validate() error {
	if o.MaxBet < o.MinBet {
		return fmt.Errorf("bet band inverted: min %d > max %d", o.MinBet, o.MaxBet)
	}
	return nil
}

func (*AdminOpts) commandOpts()   {}
func (*CmdOpts) commandOpts()     {}
func (*DiceOpts) commandOpts()    {}
func (*FlipOpts) commandOpts()    {}
func (*MessageOpts) commandOpts() {}
func (*NoteOpts) commandOpts()    {}
func (*PointsOpts) commandOpts()  {}
func (*RaffleOpts) commandOpts()  {}
func (*SlotOpts) commandOpts()    {}
func (*StatsOpts) commandOpts()   {}
func (*TriviaOpts) commandOpts()  {}

// DecodeCommandOpts unmarshals a stored opts blob into the concrete payload
// for the given kind. An unknown kind or malformed payload is an integrity
// error; callers must not proceed with a partial record.
func DecodeCommandOpts(kind CommandKind, raw []byte) (CommandOpts, error) {
	var opts CommandOpts
	switch kind {
	case KindAdmin:
		opts = &AdminOpts{}
	case KindCmd:
		opts = &CmdOpts{}
	case KindDice:
		opts = &DiceOpts{}
	case KindFlip:
		opts = &FlipOpts{}
	case KindMessage:
		opts = &MessageOpts{}
	case KindNote:
		opts = &NoteOpts{}
	case KindPoints:
		opts = &PointsOpts{}
	case KindRaffle:
		opts = &RaffleOpts{}
	case KindSlot:
		opts = &SlotOpts{}
	case KindStats:
		opts = &StatsOpts{}
	case KindTrivia:
		opts = &TriviaOpts{}
	default:
		return nil, fmt.Errorf("unknown command kind %q", kind)
	}
	if err := json.Unmarshal(raw, opts); err != nil {
		return nil, fmt.Errorf("decode %s opts: %w", kind, err)
	}
	// Value sanity is checked here too, so a bad stored band surfaces as
	// an integrity error on load instead of blowing up a game later.
	if v, ok := opts.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("decode %s opts: %w", kind, err)
		}
	}
	return opts, nil
}
