package engine

import (
	"fmt"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
)

// Aggregation selects what the Monte Carlo driver records as a sample.
type Aggregation string

const (
	// AggregatePerYear records the town's year after every simulated year,
	// so the sample count equals the total years simulated across trials.
	AggregatePerYear Aggregation = "per_year"
	// AggregatePerTrial records each trial's final year once.
	AggregatePerTrial Aggregation = "per_trial"
)

// Valid reports whether a is a known aggregation mode.
func (a Aggregation) Valid() bool {
	return a == AggregatePerYear || a == AggregatePerTrial
}

// DefaultMaxYears caps a trial whose town never runs out of food.
const DefaultMaxYears = 10000

// Params holds every tunable of the yearly transition and the trial loop.
// StopThreshold and WelfareThreshold take any value, negative included;
// MaxYears bounds the trial whatever they are.
type Params struct {
	PopulationSize    int
	Skills            agents.Skills
	FoodPerCapita     int
	FirewoodPerCapita int
	EventProbability  float64
	StopThreshold     int // trial ends early once Food drops below this
	WelfareThreshold  int // citizens suffer once Food drops below this
	InitialResources  economy.Stockpile
	InitialInsurance  int
	InsuranceClaim    int
	Buildings         []economy.Building
	Aggregation       Aggregation
	MaxYears          int // years after which a trial is cut off
}

// DefaultParams returns the reference settlement: ten farmers, a winter's
// worth of stores, and a one-in-ten chance of an event each year.
func DefaultParams() Params {
	var stock economy.Stockpile
	stock.Set(economy.Food, 1000)
	stock.Set(economy.Firewood, 500)
	stock.Set(economy.Tools, 100)
	stock.Set(economy.Medicine, 50)

	return Params{
		PopulationSize:    10,
		Skills:            agents.Skills{"farming": 5},
		FoodPerCapita:     200,
		FirewoodPerCapita: 50,
		EventProbability:  0.1,
		StopThreshold:     200,
		WelfareThreshold:  200,
		InitialResources:  stock,
		InitialInsurance:  500,
		InsuranceClaim:    100,
		Aggregation:       AggregatePerYear,
		MaxYears:          DefaultMaxYears,
	}
}

// ParamError describes a parameter that cannot drive a simulation.
type ParamError struct {
	Field  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks that the parameters describe a runnable settlement.
func (p Params) Validate() error {
	if p.PopulationSize < 0 {
		return &ParamError{"population_size", fmt.Sprintf("must be non-negative, got %d", p.PopulationSize)}
	}
	if p.FoodPerCapita < 0 {
		return &ParamError{"food_per_capita", fmt.Sprintf("must be non-negative, got %d", p.FoodPerCapita)}
	}
	if p.FirewoodPerCapita < 0 {
		return &ParamError{"firewood_per_capita", fmt.Sprintf("must be non-negative, got %d", p.FirewoodPerCapita)}
	}
	if p.EventProbability < 0 || p.EventProbability > 1 {
		return &ParamError{"event_probability", fmt.Sprintf("must be between 0 and 1, got %g", p.EventProbability)}
	}
	if p.InitialInsurance < 0 {
		return &ParamError{"initial_insurance", fmt.Sprintf("must be non-negative, got %d", p.InitialInsurance)}
	}
	if p.InsuranceClaim < 0 {
		return &ParamError{"insurance_claim", fmt.Sprintf("must be non-negative, got %d", p.InsuranceClaim)}
	}
	for i, b := range p.Buildings {
		if b.Type == "" {
			return &ParamError{fmt.Sprintf("buildings[%d].type", i), "must not be empty"}
		}
		if b.Capacity < 0 {
			return &ParamError{fmt.Sprintf("buildings[%d].capacity", i), fmt.Sprintf("must be non-negative, got %d", b.Capacity)}
		}
	}
	if p.MaxYears < 1 {
		return &ParamError{"max_years", fmt.Sprintf("must be at least 1, got %d", p.MaxYears)}
	}
	if !p.Aggregation.Valid() {
		return &ParamError{"aggregation", fmt.Sprintf("must be %q or %q, got %q", AggregatePerYear, AggregatePerTrial, p.Aggregation)}
	}
	return nil
}
