// Package command implements the closed set of chat command variants.
// Every variant follows the same shape: narrow the record's opts to the
// concrete kind, apply the game or admin logic against the ledger and
// entity stores, and render a templated chat message. Validation and
// domain refusals return false with no side effect.
package command

import (
	"strconv"
	"time"

	"github.com/onnwee/pointsbot/bot"
)

// All returns one handler per command kind, in seed order.
func All() []bot.Handler {
	return []bot.Handler{
		Admin{}, Cmd{}, Dice{}, Flip{}, Message{}, Note{},
		Points{}, Raffle{}, Slot{}, Stats{}, Trivia{},
	}
}

// epoch is the zero cooldown anchor used in default configurations.
var epoch = time.Unix(0, 0).UTC()

func arg(params []string, i int) string {
	if i < len(params) {
		return params[i]
	}
	return ""
}

func itoa(n int) string { return strconv.Itoa(n) }
