package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/entropy"
)

// noEvents never fires an event and always assigns the first role.
func noEvents() *entropy.Sequence {
	return entropy.Constant(0.99, 0)
}

func newResetTown(t *testing.T, p Params, src entropy.Source) *Town {
	t.Helper()
	require.NoError(t, p.Validate())
	town := NewTown(p, src)
	town.Reset()
	return town
}

func TestNewTownIsEmpty(t *testing.T) {
	town := NewTown(DefaultParams(), noEvents())

	assert.Empty(t, town.Population)
	assert.Equal(t, economy.Stockpile{}, town.Stock)
	assert.Equal(t, 0, town.InsuranceFund)
	assert.Equal(t, 0, town.Year)
	assert.Equal(t, 0, town.History.Len())
}

func TestResetStartingState(t *testing.T) {
	town := newResetTown(t, DefaultParams(), noEvents())

	require.Len(t, town.Population, 10)
	for _, c := range town.Population {
		assert.Equal(t, 100, c.Health)
		assert.Equal(t, 100, c.Happiness)
		assert.Equal(t, agents.Skills{"farming": 5}, c.Skills)
	}
	assert.Equal(t, 1000, town.Stock.Get(economy.Food))
	assert.Equal(t, 500, town.Stock.Get(economy.Firewood))
	assert.Equal(t, 100, town.Stock.Get(economy.Tools))
	assert.Equal(t, 50, town.Stock.Get(economy.Medicine))
	assert.Equal(t, 500, town.InsuranceFund)
	assert.Equal(t, 0, town.Year)
	assert.Empty(t, town.Events)
	assert.Equal(t, 0, town.History.Len())
}

func TestResetIdempotent(t *testing.T) {
	once := newResetTown(t, DefaultParams(), noEvents())

	twice := newResetTown(t, DefaultParams(), noEvents())
	twice.SimulateYear()
	twice.ApplyEvent(EventTrade)
	twice.Reset()
	twice.Reset()

	assert.Equal(t, once.Stock, twice.Stock)
	assert.Equal(t, once.InsuranceFund, twice.InsuranceFund)
	assert.Equal(t, once.Year, twice.Year)
	assert.Equal(t, len(once.Population), len(twice.Population))
	assert.Equal(t, once.Events, twice.Events)
	assert.Equal(t, once.History, twice.History)
	for i := range once.Population {
		assert.Equal(t, once.Population[i].Health, twice.Population[i].Health)
		assert.Equal(t, once.Population[i].Happiness, twice.Population[i].Happiness)
	}
}

func TestResetKeepsBuildings(t *testing.T) {
	town := NewTown(DefaultParams(), noEvents())
	town.AddBuilding(economy.NewBuilding(economy.BuildingHospital, 20))
	town.Reset()
	assert.Len(t, town.Buildings, 1)
}

func TestAddResourceOverwrites(t *testing.T) {
	town := NewTown(DefaultParams(), noEvents())
	town.AddResource(economy.Resource{Kind: economy.Food, Quantity: 1000})
	town.AddResource(economy.Resource{Kind: economy.Food, Quantity: 30})
	assert.Equal(t, 30, town.Food())
}

func TestStarvationScenario(t *testing.T) {
	town := newResetTown(t, DefaultParams(), noEvents())
	first := town.Population[0]

	town.SimulateYear()

	// 1000 - 10*200 = -1000, half the town starves.
	assert.Equal(t, -1000, town.Food())
	assert.Equal(t, 0, town.Stock.Get(economy.Firewood))
	require.Len(t, town.Population, 5)
	assert.Same(t, first, town.Population[0], "cull removes from the tail")
	assert.Equal(t, 400, town.InsuranceFund)
	assert.Equal(t, 1, town.Year)
	assert.False(t, town.Alive())

	// Hardship applies after the cull.
	for _, c := range town.Population {
		assert.Equal(t, 90, c.Happiness)
		assert.Equal(t, 95, c.Health)
	}
	assert.Equal(t, []int{5}, town.History.Population)
	assert.Equal(t, []float64{90}, town.History.Happiness)
}

func TestStarvationCullUsesFloorHalf(t *testing.T) {
	p := DefaultParams()
	p.PopulationSize = 7
	town := newResetTown(t, p, noEvents())

	town.SimulateYear()
	assert.Len(t, town.Population, 4) // 7 - 7/2
}

func TestInsuranceDoesNotReplenishFood(t *testing.T) {
	town := newResetTown(t, DefaultParams(), noEvents())
	town.InsuranceFund = 0

	town.SimulateYear()
	assert.Equal(t, 0, town.InsuranceFund)
	assert.Equal(t, -1000, town.Food())
}

func TestHistoryLengthsTrackYear(t *testing.T) {
	p := DefaultParams()
	p.PopulationSize = 2
	p.FoodPerCapita = 10
	town := newResetTown(t, p, entropy.Ambient())

	for i := 1; i <= 30 && town.Alive(); i++ {
		town.SimulateYear()
		h := town.History
		assert.Equal(t, i, town.Year)
		for _, n := range []int{len(h.Food), len(h.Firewood), len(h.Tools), len(h.Population), len(h.Happiness)} {
			assert.Equal(t, town.Year, n)
		}
	}
}

func TestPopulationNeverIncreases(t *testing.T) {
	p := DefaultParams()
	p.FoodPerCapita = 20
	p.EventProbability = 1

	for trial := 0; trial < 50; trial++ {
		town := newResetTown(t, p, entropy.Ambient())
		prev := len(town.Population)
		for town.Alive() && town.Year < 200 {
			town.SimulateYear()
			require.LessOrEqual(t, len(town.Population), prev)
			prev = len(town.Population)
		}
	}
}

func TestEmptyPopulationRecordsNaNHappiness(t *testing.T) {
	town := NewTown(DefaultParams(), noEvents())
	town.AddResource(economy.Resource{Kind: economy.Food, Quantity: 500})

	town.SimulateYear()

	require.Equal(t, 1, town.History.Len())
	assert.True(t, math.IsNaN(town.History.Happiness[0]))
	assert.Equal(t, 0, town.History.Population[0])
}

func TestEventLogAccumulatesWithinTrial(t *testing.T) {
	// Every year fires; kinds: bounty, trade, festival.
	src := entropy.NewSequence([]float64{0}, []int{0, 0, int(EventBounty), int(EventTrade), int(EventFestival)})
	p := DefaultParams()
	p.PopulationSize = 2
	p.FoodPerCapita = 0
	town := newResetTown(t, p, src)

	town.SimulateYear()
	town.SimulateYear()
	town.SimulateYear()

	assert.Equal(t, []string{
		"Bounty! Food increased!",
		"Successful trade! Tools gained.",
		"Festival! Happiness increased for citizens.",
	}, town.EventLog())
	assert.Equal(t, []int{0, 1, 2}, []int{town.Events[0].Year, town.Events[1].Year, town.Events[2].Year})
	assert.Equal(t, 3, town.History.Len())
}

