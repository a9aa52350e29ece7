package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/outpost/internal/engine"
	"github.com/talgya/outpost/internal/report"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Run a single trial and print the town's state each year",
		Args:  cobra.NoArgs,
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
			params, err := sim.Params()
			if err != nil {
				return err
			}
			driver, err := engine.NewDriver(params, env.src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if env.jsonOut {
				town, _ := driver.RunTrial(0)
				return report.WriteHistory(out, town.History, report.FormatJSON)
			}

			tr := report.NewTrace(out)
			driver.OnYear = func(_ int, t *engine.Town) { tr.Year(t) }
			town, _ := driver.RunTrial(0)
			if err := tr.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			for _, e := range town.Events {
				fmt.Fprintf(out, "year %d: %s\n", e.Year+1, e.Description)
			}
			fmt.Fprintf(out, "Survived %d years\n", town.Year)
			return nil
		},
	}

	cmd.Flags().String("scenario", "", "Trace a saved scenario from the catalog")

	return cmd
}
