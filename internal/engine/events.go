// Random yearly shocks: drought, plague, bounty, trade and festival.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/outpost/internal/economy"
)

// Event magnitudes.
const (
	DroughtFoodLoss   = 300
	BountyFoodGain    = 500
	TradeToolsGain    = 50
	FestivalHappiness = 20
)

// EventKind enumerates the shocks that can hit a town in a year.
type EventKind uint8

const (
	EventDrought EventKind = iota
	EventPlague
	EventBounty
	EventTrade
	EventFestival
)

// NumEventKinds is the number of event kinds.
const NumEventKinds = 5

// String returns the lowercase event name.
func (k EventKind) String() string {
	switch k {
	case EventDrought:
		return "drought"
	case EventPlague:
		return "plague"
	case EventBounty:
		return "bounty"
	case EventTrade:
		return "trade"
	case EventFestival:
		return "festival"
	default:
		return "unknown"
	}
}

// Event is a notable occurrence in the town.
type Event struct {
	Year        int       `json:"year"`
	Kind        EventKind `json:"kind"`
	Description string    `json:"description"`
}

// handleEvents fires at most one event per year, with probability
// EventProbability, choosing the kind uniformly.
func (t *Town) handleEvents() {
	if t.src.Float64() >= t.params.EventProbability {
		return
	}
	t.ApplyEvent(EventKind(t.src.IntN(NumEventKinds)))
}

// ApplyEvent applies the effect of kind to the town and logs it. A plague
// on an empty town does nothing and logs nothing.
func (t *Town) ApplyEvent(kind EventKind) {
	var desc string

	switch kind {
	case EventDrought:
		t.Stock.Add(economy.Food, -DroughtFoodLoss)
		desc = "Drought occurred, food reduced!"
	case EventPlague:
		if len(t.Population) == 0 {
			return
		}
		// A town of one still loses its last citizen.
		affected := 1 + t.src.IntN(max(1, len(t.Population)/2))
		lost := t.cull(affected)
		desc = fmt.Sprintf("Plague occurred, %d citizens lost!", lost)
	case EventBounty:
		t.Stock.Add(economy.Food, BountyFoodGain)
		desc = "Bounty! Food increased!"
	case EventTrade:
		t.Stock.Add(economy.Tools, TradeToolsGain)
		desc = "Successful trade! Tools gained."
	case EventFestival:
		for _, c := range t.Population {
			c.Happiness += FestivalHappiness
		}
		desc = "Festival! Happiness increased for citizens."
	default:
		return
	}

	t.Events = append(t.Events, Event{
		Year:        t.Year,
		Kind:        kind,
		Description: desc,
	})
	slog.Debug("event", "year", t.Year, "kind", kind.String(), "description", desc)
}
