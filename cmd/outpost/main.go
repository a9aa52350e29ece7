// Command outpost runs Monte Carlo survival trials for a small settlement
// and picks build actions with an epsilon-greedy chooser.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/entropy"
	"github.com/talgya/outpost/internal/logging"
	"github.com/talgya/outpost/internal/persistence"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "outpost",
		Short: "Settlement survival Monte Carlo",
		Long: `outpost simulates a small settlement year by year under food and
firewood consumption, starvation, insurance claims and random events,
and reports how many years it survives across many trials.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.outpost/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("db", "", "Scenario catalog path (default ~/.outpost/outpost.db)")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newTraceCmd(),
		newDecideCmd(),
		newScenarioCmd(),
	)
	return rootCmd
}

// runtimeEnv is the resolved configuration shared by subcommands.
type runtimeEnv struct {
	cfg     *config.Config
	src     entropy.Source
	jsonOut bool
}

// loadEnv resolves configuration from file, environment and global flags,
// installs the logger and selects the random source.
func loadEnv(cmd *cobra.Command) (*runtimeEnv, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Setup(cfg.Logging.Level, cmd.ErrOrStderr())

	var src entropy.Source = entropy.Ambient()
	if client := entropy.NewClient(cfg.Entropy.RandomOrgAPIKey); client.Enabled() {
		src = client
		slog.Debug("using random.org entropy pool")
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	return &runtimeEnv{cfg: cfg, src: src, jsonOut: jsonOut}, nil
}

// openCatalog opens the scenario catalog at the configured path.
func (e *runtimeEnv) openCatalog() (*persistence.DB, error) {
	db, err := persistence.Open(e.cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("open scenario catalog: %w", err)
	}
	slog.Debug("scenario catalog opened", "path", e.cfg.Storage.Path)
	return db, nil
}

// simulation returns the configured simulation, or the named scenario's
// when name is non-empty.
func (e *runtimeEnv) simulation(name string) (config.SimulationConfig, error) {
	if name == "" {
		return e.cfg.Simulation, nil
	}

	db, err := e.openCatalog()
	if err != nil {
		return config.SimulationConfig{}, err
	}
	defer db.Close()

	sc, err := db.LoadScenario(name)
	if err != nil {
		return config.SimulationConfig{}, err
	}
	slog.Info("scenario loaded", "name", sc.Name, "id", sc.ID)
	return sc.Simulation, nil
}
