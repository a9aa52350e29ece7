// Package decision provides an epsilon-greedy chooser over scored options.
// It holds no state beyond its epsilon and random source.
package decision

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/outpost/internal/entropy"
)

// ErrNoOptions is returned when Choose is given an empty option list.
var ErrNoOptions = errors.New("no options to choose from")

// Option is a labelled action with an estimated value.
type Option struct {
	Label string  `json:"label" yaml:"label"`
	Value float64 `json:"value" yaml:"value"`
}

// Chooser picks the best-valued option, exploring at random with
// probability Epsilon.
type Chooser struct {
	epsilon float64
	src     entropy.Source
}

// NewChooser creates a chooser. Epsilon must lie in [0, 1].
func NewChooser(epsilon float64, src entropy.Source) (*Chooser, error) {
	if epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("epsilon must be between 0 and 1, got %g", epsilon)
	}
	return &Chooser{epsilon: epsilon, src: src}, nil
}

// Epsilon returns the exploration probability.
func (c *Chooser) Epsilon() float64 {
	return c.epsilon
}

// Choose returns a uniformly random option with probability epsilon,
// otherwise the first option holding the maximum value.
func (c *Chooser) Choose(options []Option) (Option, error) {
	if len(options) == 0 {
		return Option{}, ErrNoOptions
	}

	if c.src.Float64() < c.epsilon {
		return options[c.src.IntN(len(options))], nil
	}
	return Best(options), nil
}

// Best returns the first option with the maximum value. NaN values never
// win unless every value is NaN, in which case the first option is returned.
// It panics on an empty slice.
func Best(options []Option) Option {
	best := -1
	for i, o := range options {
		if math.IsNaN(o.Value) {
			continue
		}
		if best < 0 || o.Value > options[best].Value {
			best = i
		}
	}
	if best < 0 {
		return options[0]
	}
	return options[best]
}

// DefaultOptions returns the settlement's standing build choices.
func DefaultOptions() []Option {
	return []Option{
		{Label: "Build Farm", Value: 10},
		{Label: "Build Hospital", Value: 8},
		{Label: "Build School", Value: 5},
	}
}
