package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/outpost/internal/engine"
	"github.com/talgya/outpost/internal/report"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run Monte Carlo trials and report years survived",
		Example: `  outpost run --trials 1000
  outpost run --scenario harsh-winter --aggregation per_trial
  outpost run --history last-trial.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			scenario, _ := cmd.Flags().GetString("scenario")
			sim, err := env.simulation(scenario)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("trials") {
				sim.Trials, _ = cmd.Flags().GetInt("trials")
			}
			if agg, _ := cmd.Flags().GetString("aggregation"); agg != "" {
				sim.Aggregation = agg
			}

			params, err := sim.Params()
			if err != nil {
				return err
			}
			driver, err := engine.NewDriver(params, env.src)
			if err != nil {
				return err
			}

			res, err := driver.Run(sim.Trials)
			if err != nil {
				if errors.Is(err, engine.ErrNoSamples) {
					return fmt.Errorf("%w: the settlement starts below the stop threshold", err)
				}
				return err
			}

			if historyPath, _ := cmd.Flags().GetString("history"); historyPath != "" {
				if err := writeHistoryFile(historyPath, res.LastHistory); err != nil {
					return err
				}
				slog.Info("history exported", "path", historyPath, "years", res.LastHistory.Len())
			}

			if env.jsonOut {
				return report.WriteJSON(cmd.OutOrStdout(), report.NewSummary(res))
			}
			return report.WriteSummary(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().Int("trials", 0, "Number of trials (default from config)")
	cmd.Flags().String("scenario", "", "Run a saved scenario from the catalog")
	cmd.Flags().String("history", "", "Write the last trial's history to this file (.json or .yaml)")
	cmd.Flags().String("aggregation", "", "Sample aggregation: per_year or per_trial")

	return cmd
}

func writeHistoryFile(path string, h engine.History) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create history file: %w", err)
	}
	if err := report.WriteHistory(f, h, report.FormatForPath(path)); err != nil {
		f.Close()
		return fmt.Errorf("write history: %w", err)
	}
	return f.Close()
}
