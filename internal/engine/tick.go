// Package engine provides the settlement state machine and the Monte Carlo
// driver that runs it to termination over many trials.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/talgya/outpost/internal/entropy"
)

var (
	// ErrInvalidTrials is returned when a run is asked for fewer than one trial.
	ErrInvalidTrials = errors.New("number of trials must be at least 1")
	// ErrNoSamples is returned when no trial simulated a single year.
	ErrNoSamples = errors.New("no trial simulated any year")
)

// Driver runs independent trials, each on a fresh Town.
type Driver struct {
	params Params
	src    entropy.Source

	// OnYear, when non-nil, is called after every simulated year.
	OnYear func(trial int, t *Town)
}

// Result summarizes a Monte Carlo run.
type Result struct {
	RunID          string      `json:"run_id"`
	Trials         int         `json:"trials"`
	Aggregation    Aggregation `json:"aggregation"`
	YearsSimulated int         `json:"years_simulated"`
	Samples        []int       `json:"samples"`
	Mean           float64     `json:"mean"`
	StdDev         float64     `json:"std_dev"`

	// State of the final trial, for plotting.
	LastHistory History `json:"last_history"`
	LastEvents  []Event `json:"last_events"`
}

// NewDriver validates p and creates a driver drawing from src.
func NewDriver(p Params, src entropy.Source) (*Driver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Driver{params: p, src: src}, nil
}

// Params returns the driver's parameters.
func (d *Driver) Params() Params {
	return d.params
}

// NewTown builds a fresh town with the configured buildings and resets it.
func (d *Driver) NewTown() *Town {
	t := NewTown(d.params, d.src)
	for _, b := range d.params.Buildings {
		t.AddBuilding(b)
	}
	t.Reset()
	return t
}

// RunTrial runs one trial until the town fails, food drops below the stop
// threshold, or MaxYears have been simulated. It returns the final town and
// the samples it contributes under the driver's aggregation mode.
func (d *Driver) RunTrial(trial int) (*Town, []int) {
	t := d.NewTown()

	var samples []int
	for t.Alive() {
		if t.ShouldStop() {
			break
		}
		if t.Year >= d.params.MaxYears {
			slog.Warn("trial cut off at year cap",
				"trial", trial,
				"max_years", d.params.MaxYears,
				"food", t.Food(),
				"population", len(t.Population),
			)
			break
		}
		t.SimulateYear()
		if d.OnYear != nil {
			d.OnYear(trial, t)
		}
		if d.params.Aggregation == AggregatePerYear {
			samples = append(samples, t.Year)
		}
	}

	if d.params.Aggregation == AggregatePerTrial && t.Year > 0 {
		samples = append(samples, t.Year)
	}
	return t, samples
}

// Run executes trials sequentially and returns the mean and population
// standard deviation of the collected samples.
func (d *Driver) Run(trials int) (Result, error) {
	if trials < 1 {
		return Result{}, fmt.Errorf("%w, got %d", ErrInvalidTrials, trials)
	}

	res := Result{
		RunID:       uuid.NewString(),
		Trials:      trials,
		Aggregation: d.params.Aggregation,
	}

	slog.Info("monte carlo run started",
		"run_id", res.RunID,
		"trials", trials,
		"aggregation", string(d.params.Aggregation),
		"population", d.params.PopulationSize,
	)

	var last *Town
	for i := 0; i < trials; i++ {
		t, samples := d.RunTrial(i)
		res.Samples = append(res.Samples, samples...)
		res.YearsSimulated += t.Year
		last = t

		slog.Debug("trial finished",
			"run_id", res.RunID,
			"trial", i,
			"years", t.Year,
			"food", t.Food(),
			"population", len(t.Population),
			"events", len(t.Events),
		)
	}

	res.LastHistory = last.History
	res.LastEvents = last.Events

	if len(res.Samples) == 0 {
		return res, ErrNoSamples
	}
	res.Mean, res.StdDev = meanStdDev(res.Samples)

	slog.Info("monte carlo run finished",
		"run_id", res.RunID,
		"samples", len(res.Samples),
		"years_simulated", res.YearsSimulated,
		"mean", fmt.Sprintf("%.3f", res.Mean),
		"std_dev", fmt.Sprintf("%.3f", res.StdDev),
	)
	return res, nil
}
