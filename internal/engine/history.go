package engine

import (
	"math"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
)

// Series names exposed to plotting and export.
const (
	SeriesFood       = "Food"
	SeriesFirewood   = "Firewood"
	SeriesTools      = "Tools"
	SeriesPopulation = "Population"
	SeriesHappiness  = "Happiness"
)

// SeriesNames lists the history series in recording order.
func SeriesNames() []string {
	return []string{SeriesFood, SeriesFirewood, SeriesTools, SeriesPopulation, SeriesHappiness}
}

// History is the per-year record of one trial. Happiness is NaN for any
// year that ended with no citizens.
type History struct {
	Food       []int     `json:"food"`
	Firewood   []int     `json:"firewood"`
	Tools      []int     `json:"tools"`
	Population []int     `json:"population"`
	Happiness  []float64 `json:"happiness"`
}

// Len returns the number of recorded years.
func (h History) Len() int {
	return len(h.Food)
}

// Series returns every series as float64 values keyed by series name.
func (h History) Series() map[string][]float64 {
	return map[string][]float64{
		SeriesFood:       toFloats(h.Food),
		SeriesFirewood:   toFloats(h.Firewood),
		SeriesTools:      toFloats(h.Tools),
		SeriesPopulation: toFloats(h.Population),
		SeriesHappiness:  append([]float64(nil), h.Happiness...),
	}
}

func (h *History) record(t *Town) {
	h.Food = append(h.Food, t.Stock.Get(economy.Food))
	h.Firewood = append(h.Firewood, t.Stock.Get(economy.Firewood))
	h.Tools = append(h.Tools, t.Stock.Get(economy.Tools))
	h.Population = append(h.Population, len(t.Population))
	h.Happiness = append(h.Happiness, MeanHappiness(t.Population))
}

// MeanHappiness returns the arithmetic mean happiness, or NaN for an
// empty population.
func MeanHappiness(pop []*agents.Citizen) float64 {
	if len(pop) == 0 {
		return math.NaN()
	}
	total := 0
	for _, c := range pop {
		total += c.Happiness
	}
	return float64(total) / float64(len(pop))
}

func toFloats(in []int) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
