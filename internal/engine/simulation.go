// Town ties together the settlement state and runs the yearly transition.
package engine

import (
	"log/slog"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/entropy"
)

// Town is the aggregate root of one settlement.
type Town struct {
	Population    []*agents.Citizen
	Stock         economy.Stockpile
	Buildings     []economy.Building
	Year          int
	InsuranceFund int
	Events        []Event // accumulates across years, cleared only by Reset
	History       History

	params  Params
	src     entropy.Source
	spawner *agents.Spawner
}

// NewTown creates an empty town: no citizens, no stock, no buildings.
// Call Reset before simulating.
func NewTown(p Params, src entropy.Source) *Town {
	return &Town{
		params:  p,
		src:     src,
		spawner: agents.NewSpawner(src, p.Skills),
	}
}

// AddCitizen appends a citizen to the end of the population.
func (t *Town) AddCitizen(c *agents.Citizen) {
	t.Population = append(t.Population, c)
}

// AddResource sets the stockpile slot for r's kind, overwriting any earlier value.
func (t *Town) AddResource(r economy.Resource) {
	t.Stock.Set(r.Kind, r.Quantity)
}

// AddBuilding appends a building.
func (t *Town) AddBuilding(b economy.Building) {
	t.Buildings = append(t.Buildings, b)
}

// Reset restores the starting population, stock, insurance fund and year,
// and clears the event log and history. Buildings are kept.
func (t *Town) Reset() {
	t.Population = t.spawner.SpawnPopulation(t.params.PopulationSize)
	t.Stock = t.params.InitialResources
	t.InsuranceFund = t.params.InitialInsurance
	t.Year = 0
	t.Events = nil
	t.History = History{}
}

// Food returns the current food quantity.
func (t *Town) Food() int {
	return t.Stock.Get(economy.Food)
}

// Alive reports whether the town can be simulated for another year:
// food is non-negative and at least one citizen remains.
func (t *Town) Alive() bool {
	return t.Food() >= 0 && len(t.Population) > 0
}

// ShouldStop reports whether food has fallen below the stop threshold.
func (t *Town) ShouldStop() bool {
	return t.Food() < t.params.StopThreshold
}

// SimulateYear advances the town by one year: consumption, starvation,
// insurance, events, welfare, history, then the year counter.
func (t *Town) SimulateYear() {
	n := len(t.Population)
	t.Stock.Add(economy.Food, -n*t.params.FoodPerCapita)
	t.Stock.Add(economy.Firewood, -n*t.params.FirewoodPerCapita)

	starved := 0
	if t.Food() < 0 {
		starved = t.cull(len(t.Population) / 2)
	}

	// Claims are recorded against the fund only; food is not replenished.
	if t.Food() < 0 && t.InsuranceFund > 0 {
		t.InsuranceFund -= t.params.InsuranceClaim
	}

	t.handleEvents()
	t.manageCitizens()
	t.History.record(t)
	t.Year++

	slog.Debug("year simulated",
		"year", t.Year,
		"food", t.Food(),
		"firewood", t.Stock.Get(economy.Firewood),
		"tools", t.Stock.Get(economy.Tools),
		"population", len(t.Population),
		"starved", starved,
		"insurance_fund", t.InsuranceFund,
	)
}

// EventLog returns the human-readable descriptions of every event so far.
func (t *Town) EventLog() []string {
	out := make([]string, len(t.Events))
	for i, e := range t.Events {
		out[i] = e.Description
	}
	return out
}

// cull removes the trailing k citizens and returns how many were removed.
func (t *Town) cull(k int) int {
	if k <= 0 {
		return 0
	}
	if k > len(t.Population) {
		k = len(t.Population)
	}
	keep := len(t.Population) - k
	clear(t.Population[keep:])
	t.Population = t.Population[:keep]
	return k
}
