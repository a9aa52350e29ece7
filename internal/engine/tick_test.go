package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/entropy"
)

// slowBurnParams gives a two-citizen town that eats 200 food a year and
// runs for exactly five years from 1000 food with no events.
func slowBurnParams(agg Aggregation) Params {
	p := DefaultParams()
	p.PopulationSize = 2
	p.FoodPerCapita = 100
	p.Aggregation = agg
	return p
}

func TestRunDefaultTownStarvesInOneYear(t *testing.T) {
	d, err := NewDriver(DefaultParams(), noEvents())
	require.NoError(t, err)

	res, err := d.Run(4)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1, 1, 1}, res.Samples)
	assert.Equal(t, 1.0, res.Mean)
	assert.Equal(t, 0.0, res.StdDev)
	assert.Equal(t, 4, res.YearsSimulated)
	assert.NotEmpty(t, res.RunID)
}

func TestRunDeterministicPerYear(t *testing.T) {
	d, err := NewDriver(slowBurnParams(AggregatePerYear), noEvents())
	require.NoError(t, err)

	res, err := d.Run(3)
	require.NoError(t, err)

	// Food: 1000 → 800 → 600 → 400 → 200 → 0, then the stop check fires.
	want := []int{1, 2, 3, 4, 5, 1, 2, 3, 4, 5, 1, 2, 3, 4, 5}
	assert.Equal(t, want, res.Samples)
	assert.InDelta(t, 3.0, res.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt2, res.StdDev, 1e-12)
	assert.Equal(t, 15, res.YearsSimulated)
	assert.Equal(t, 5, res.LastHistory.Len())
}

func TestRunDeterministicPerTrial(t *testing.T) {
	d, err := NewDriver(slowBurnParams(AggregatePerTrial), noEvents())
	require.NoError(t, err)

	res, err := d.Run(3)
	require.NoError(t, err)

	assert.Equal(t, []int{5, 5, 5}, res.Samples)
	assert.Equal(t, 5.0, res.Mean)
	assert.Equal(t, 0.0, res.StdDev)
}

func TestRunScriptedBountyExtendsFirstTrial(t *testing.T) {
	// Trial 1 rolls a bounty in year one (+500 food); every later roll misses.
	// Ints: two roles, bounty, two roles for trial 2.
	script := func() *entropy.Sequence {
		return entropy.NewSequence(
			[]float64{0.1, 0.9},
			[]int{0, 0, int(EventBounty), 0, 0},
		)
	}

	t.Run("per trial", func(t *testing.T) {
		p := slowBurnParams(AggregatePerTrial)
		p.EventProbability = 0.5
		d, err := NewDriver(p, script())
		require.NoError(t, err)

		res, err := d.Run(2)
		require.NoError(t, err)

		assert.Equal(t, []int{7, 5}, res.Samples)
		assert.InDelta(t, 6.0, res.Mean, 1e-12)
		assert.InDelta(t, 1.0, res.StdDev, 1e-12)
	})

	t.Run("per year", func(t *testing.T) {
		p := slowBurnParams(AggregatePerYear)
		p.EventProbability = 0.5
		d, err := NewDriver(p, script())
		require.NoError(t, err)

		res, err := d.Run(2)
		require.NoError(t, err)

		assert.Len(t, res.Samples, 12)
		assert.InDelta(t, 43.0/12.0, res.Mean, 1e-12)
		assert.InDelta(t, math.Sqrt(491.0/144.0), res.StdDev, 1e-12)
		assert.Equal(t, 12, res.YearsSimulated)
		assert.Empty(t, res.LastEvents, "last trial had no events")
	})
}

func TestRunStopsImmediatelyWithoutSamples(t *testing.T) {
	p := DefaultParams()
	p.StopThreshold = 5000

	for _, agg := range []Aggregation{AggregatePerYear, AggregatePerTrial} {
		p.Aggregation = agg
		d, err := NewDriver(p, noEvents())
		require.NoError(t, err)

		res, err := d.Run(3)
		assert.ErrorIs(t, err, ErrNoSamples)
		assert.Empty(t, res.Samples)
		assert.Equal(t, 0, res.YearsSimulated)
	}
}

func TestRunRejectsInvalidTrials(t *testing.T) {
	d, err := NewDriver(DefaultParams(), noEvents())
	require.NoError(t, err)

	_, err = d.Run(0)
	assert.ErrorIs(t, err, ErrInvalidTrials)
}

func TestRunTrialsAreIndependent(t *testing.T) {
	p := slowBurnParams(AggregatePerTrial)
	p.Buildings = []economy.Building{economy.NewBuilding(economy.BuildingHospital, 10)}
	d, err := NewDriver(p, noEvents())
	require.NoError(t, err)

	first, _ := d.RunTrial(0)
	second, _ := d.RunTrial(1)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Year, second.Year)
	assert.Len(t, second.Buildings, 1, "buildings are not duplicated across trials")
	assert.Equal(t, first.History, second.History)
}

func TestOnYearHook(t *testing.T) {
	d, err := NewDriver(slowBurnParams(AggregatePerYear), noEvents())
	require.NoError(t, err)

	var seen []int
	d.OnYear = func(trial int, town *Town) {
		seen = append(seen, trial*10+town.Year)
	}

	_, err = d.Run(2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 11, 12, 13, 14, 15}, seen)
}

func TestNewDriverRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		field  string
	}{
		{"negative population", func(p *Params) { p.PopulationSize = -1 }, "population_size"},
		{"negative food rate", func(p *Params) { p.FoodPerCapita = -1 }, "food_per_capita"},
		{"negative firewood rate", func(p *Params) { p.FirewoodPerCapita = -2 }, "firewood_per_capita"},
		{"probability above one", func(p *Params) { p.EventProbability = 1.5 }, "event_probability"},
		{"probability below zero", func(p *Params) { p.EventProbability = -0.1 }, "event_probability"},
		{"unknown aggregation", func(p *Params) { p.Aggregation = "per_decade" }, "aggregation"},
		{"unnamed building", func(p *Params) { p.Buildings = []economy.Building{{Capacity: 3}} }, "buildings[0].type"},
		{"zero year cap", func(p *Params) { p.MaxYears = 0 }, "max_years"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)

			_, err := NewDriver(p, noEvents())
			var pe *ParamError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestRunTrialStopsAtYearCap(t *testing.T) {
	// Nobody eats and nothing happens, so only the cap ends the trial.
	p := DefaultParams()
	p.FoodPerCapita = 0
	p.EventProbability = 0
	p.MaxYears = 50

	for _, agg := range []Aggregation{AggregatePerYear, AggregatePerTrial} {
		t.Run(string(agg), func(t *testing.T) {
			p.Aggregation = agg
			d, err := NewDriver(p, noEvents())
			require.NoError(t, err)

			town, samples := d.RunTrial(0)
			assert.Equal(t, 50, town.Year)
			assert.Equal(t, 50, town.History.Len())
			assert.Equal(t, 1000, town.Food())
			assert.True(t, town.Alive())

			if agg == AggregatePerTrial {
				assert.Equal(t, []int{50}, samples)
			} else {
				assert.Len(t, samples, 50)
			}
		})
	}
}

func TestThresholdsAcceptAnyValue(t *testing.T) {
	p := slowBurnParams(AggregatePerTrial)
	p.StopThreshold = -1_000_000
	p.WelfareThreshold = -5
	p.MaxYears = 20

	d, err := NewDriver(p, noEvents())
	require.NoError(t, err)

	// The stop check never fires; the town runs until food goes negative.
	res, err := d.Run(2)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 6}, res.Samples)
}

func TestMeanStdDev(t *testing.T) {
	mean, std := meanStdDev([]int{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 5.0, mean)
	assert.Equal(t, 2.0, std)

	mean, std = meanStdDev(nil)
	assert.True(t, math.IsNaN(mean))
	assert.True(t, math.IsNaN(std))
}
