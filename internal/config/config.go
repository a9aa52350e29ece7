// Package config provides unified configuration loading for outpost.
// It supports loading from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/outpost/internal/agents"
	"github.com/talgya/outpost/internal/economy"
	"github.com/talgya/outpost/internal/engine"
)

// Config contains all outpost configuration settings.
type Config struct {
	// Simulation holds the settlement and trial parameters.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Decision configures the epsilon-greedy build chooser.
	Decision DecisionConfig `json:"decision" yaml:"decision"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Storage locates the scenario catalog.
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Entropy selects the random source.
	Entropy EntropyConfig `json:"entropy" yaml:"entropy"`
}

// SimulationConfig is the file form of engine.Params plus the trial count.
type SimulationConfig struct {
	PopulationSize    int                `json:"population_size" yaml:"population_size"`
	Skills            map[string]int     `json:"skills" yaml:"skills"`
	FoodPerCapita     int                `json:"food_per_capita" yaml:"food_per_capita"`
	FirewoodPerCapita int                `json:"firewood_per_capita" yaml:"firewood_per_capita"`
	EventProbability  float64            `json:"event_probability" yaml:"event_probability"`
	StopThreshold     int                `json:"stop_threshold" yaml:"stop_threshold"`
	WelfareThreshold  int                `json:"welfare_threshold" yaml:"welfare_threshold"`
	InitialInsurance  int                `json:"initial_insurance" yaml:"initial_insurance"`
	InsuranceClaim    int                `json:"insurance_claim" yaml:"insurance_claim"`
	InitialResources  map[string]int     `json:"initial_resources" yaml:"initial_resources"`
	Buildings         []economy.Building `json:"buildings,omitempty" yaml:"buildings,omitempty"`

	// Aggregation is "per_year" (every simulated year is a sample) or
	// "per_trial" (each trial's final year is a sample).
	Aggregation string `json:"aggregation" yaml:"aggregation"`

	// MaxYears cuts off a trial whose town never runs out of food.
	MaxYears int `json:"max_years" yaml:"max_years"`

	// Trials is the default number of Monte Carlo trials.
	Trials int `json:"trials" yaml:"trials"`
}

// DecisionConfig configures the epsilon-greedy chooser.
type DecisionConfig struct {
	// Epsilon is the exploration probability. Range: 0.0 to 1.0
	Epsilon float64 `json:"epsilon" yaml:"epsilon"`
}

// LoggingConfig configures outpost's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "debug", "info" (default), "warn" or "error".
	Level string `json:"level" yaml:"level"`
}

// StorageConfig locates the SQLite scenario catalog.
type StorageConfig struct {
	Path string `json:"path" yaml:"path"`
}

// EntropyConfig selects the random source.
type EntropyConfig struct {
	// RandomOrgAPIKey enables the random.org pool. Supports ${VAR} syntax.
	// Empty uses crypto/rand.
	RandomOrgAPIKey string `json:"random_org_api_key,omitempty" yaml:"random_org_api_key,omitempty"`
}

// ConfigError reports an option that cannot be used.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// DefaultSimulation returns the reference settlement in file form.
func DefaultSimulation() SimulationConfig {
	return FromParams(engine.DefaultParams(), 100)
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Simulation: DefaultSimulation(),
		Decision:   DecisionConfig{Epsilon: 0.1},
		Logging:    LoggingConfig{Level: "info"},
		Storage:    StorageConfig{Path: defaultStoragePath()},
	}
}

// FromParams converts engine parameters to their file form.
func FromParams(p engine.Params, trials int) SimulationConfig {
	resources := make(map[string]int, economy.NumResources)
	for _, r := range p.InitialResources.Resources() {
		resources[r.Name()] = r.Quantity
	}
	return SimulationConfig{
		PopulationSize:    p.PopulationSize,
		Skills:            p.Skills.Clone(),
		FoodPerCapita:     p.FoodPerCapita,
		FirewoodPerCapita: p.FirewoodPerCapita,
		EventProbability:  p.EventProbability,
		StopThreshold:     p.StopThreshold,
		WelfareThreshold:  p.WelfareThreshold,
		InitialInsurance:  p.InitialInsurance,
		InsuranceClaim:    p.InsuranceClaim,
		InitialResources:  resources,
		Buildings:         append([]economy.Building(nil), p.Buildings...),
		Aggregation:       string(p.Aggregation),
		MaxYears:          p.MaxYears,
		Trials:            trials,
	}
}

// Params converts the file form into validated engine parameters.
func (s SimulationConfig) Params() (engine.Params, error) {
	stock, err := economy.StockpileFromNames(s.InitialResources)
	if err != nil {
		return engine.Params{}, &ConfigError{Field: "simulation.initial_resources", Reason: err.Error(), Err: err}
	}

	p := engine.Params{
		PopulationSize:    s.PopulationSize,
		Skills:            agents.Skills(s.Skills).Clone(),
		FoodPerCapita:     s.FoodPerCapita,
		FirewoodPerCapita: s.FirewoodPerCapita,
		EventProbability:  s.EventProbability,
		StopThreshold:     s.StopThreshold,
		WelfareThreshold:  s.WelfareThreshold,
		InitialResources:  stock,
		InitialInsurance:  s.InitialInsurance,
		InsuranceClaim:    s.InsuranceClaim,
		Buildings:         append([]economy.Building(nil), s.Buildings...),
		Aggregation:       engine.Aggregation(s.Aggregation),
		MaxYears:          s.MaxYears,
	}

	if err := p.Validate(); err != nil {
		var pe *engine.ParamError
		if errors.As(err, &pe) {
			return engine.Params{}, &ConfigError{Field: "simulation." + pe.Field, Reason: pe.Reason, Err: err}
		}
		return engine.Params{}, err
	}
	return p, nil
}

// Load loads configuration from the given file, or from the default
// location when path is empty, then applies environment variables.
// Order: defaults -> config file -> environment variables
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(homeDir, ".outpost", "config.yaml")
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
			}
		}
	}

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Fields
// absent from the file keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.Entropy.RandomOrgAPIKey = expandEnvVars(config.Entropy.RandomOrgAPIKey)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Simulation.Params(); err != nil {
		return err
	}

	if c.Simulation.Trials < 1 {
		return &ConfigError{Field: "simulation.trials", Reason: fmt.Sprintf("must be at least 1, got %d", c.Simulation.Trials)}
	}

	if c.Decision.Epsilon < 0 || c.Decision.Epsilon > 1 {
		return &ConfigError{Field: "decision.epsilon", Reason: fmt.Sprintf("must be between 0 and 1, got %g", c.Decision.Epsilon)}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if c.Logging.Level != "" && !validLevels[strings.ToLower(c.Logging.Level)] {
		return &ConfigError{Field: "logging.level", Reason: fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", c.Logging.Level)}
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) error {
	if v := os.Getenv("OUTPOST_TRIALS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "OUTPOST_TRIALS", Reason: "not an integer", Err: err}
		}
		config.Simulation.Trials = n
	}

	if v := os.Getenv("OUTPOST_POPULATION_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "OUTPOST_POPULATION_SIZE", Reason: "not an integer", Err: err}
		}
		config.Simulation.PopulationSize = n
	}

	if v := os.Getenv("OUTPOST_EVENT_PROBABILITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &ConfigError{Field: "OUTPOST_EVENT_PROBABILITY", Reason: "not a number", Err: err}
		}
		config.Simulation.EventProbability = f
	}

	if v := os.Getenv("OUTPOST_MAX_YEARS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigError{Field: "OUTPOST_MAX_YEARS", Reason: "not an integer", Err: err}
		}
		config.Simulation.MaxYears = n
	}

	if v := os.Getenv("OUTPOST_AGGREGATION"); v != "" {
		config.Simulation.Aggregation = v
	}

	if v := os.Getenv("OUTPOST_EPSILON"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &ConfigError{Field: "OUTPOST_EPSILON", Reason: "not a number", Err: err}
		}
		config.Decision.Epsilon = f
	}

	if v := os.Getenv("OUTPOST_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("OUTPOST_DB"); v != "" {
		config.Storage.Path = v
	}

	if v := os.Getenv("RANDOM_ORG_API_KEY"); v != "" && config.Entropy.RandomOrgAPIKey == "" {
		config.Entropy.RandomOrgAPIKey = v
	}

	return nil
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}

func defaultStoragePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "outpost.db"
	}
	return filepath.Join(homeDir, ".outpost", "outpost.db")
}
