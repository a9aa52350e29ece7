package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/persistence"
	"github.com/talgya/outpost/internal/report"
)

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Manage saved simulation scenarios",
	}

	cmd.AddCommand(
		newScenarioSaveCmd(),
		newScenarioListCmd(),
		newScenarioShowCmd(),
		newScenarioDeleteCmd(),
	)
	return cmd
}

// scenarioView is the JSON form of a stored scenario.
type scenarioView struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Simulation  config.SimulationConfig `json:"simulation"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

func viewOf(s *persistence.Scenario) scenarioView {
	return scenarioView{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Simulation:  s.Simulation,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func newScenarioSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the current simulation settings under a name",
		Long: `Save the effective simulation settings (config file plus environment)
under NAME, or the simulation section of another config file with --from.
An existing scenario with the same name is replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			sim := env.cfg.Simulation
			if from, _ := cmd.Flags().GetString("from"); from != "" {
				fileCfg, err := config.LoadFromFile(from)
				if err != nil {
					return err
				}
				sim = fileCfg.Simulation
			}
			description, _ := cmd.Flags().GetString("description")

			db, err := env.openCatalog()
			if err != nil {
				return err
			}
			defer db.Close()

			sc, err := db.SaveScenario(args[0], description, sim)
			if err != nil {
				return err
			}

			if env.jsonOut {
				return report.WriteJSON(cmd.OutOrStdout(), viewOf(sc))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved scenario %q (%s)\n", sc.Name, sc.ID)
			return nil
		},
	}

	cmd.Flags().String("from", "", "Read the simulation section from this config file")
	cmd.Flags().String("description", "", "Short description")

	return cmd
}

func newScenarioListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			db, err := env.openCatalog()
			if err != nil {
				return err
			}
			defer db.Close()

			scenarios, err := db.ListScenarios()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if env.jsonOut {
				views := make([]scenarioView, len(scenarios))
				for i, s := range scenarios {
					views[i] = viewOf(s)
				}
				return report.WriteJSON(out, views)
			}

			if len(scenarios) == 0 {
				fmt.Fprintln(out, "No scenarios saved.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPOPULATION\tTRIALS\tUPDATED\tDESCRIPTION")
			for _, s := range scenarios {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n",
					s.Name,
					s.Simulation.PopulationSize,
					s.Simulation.Trials,
					s.UpdatedAt.Format(time.DateTime),
					s.Description,
				)
			}
			return tw.Flush()
		},
	}
}

func newScenarioShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print a saved scenario's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			db, err := env.openCatalog()
			if err != nil {
				return err
			}
			defer db.Close()

			sc, err := db.LoadScenario(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if env.jsonOut {
				return report.WriteJSON(out, viewOf(sc))
			}

			fmt.Fprintf(out, "# %s (%s)\n", sc.Name, sc.ID)
			if sc.Description != "" {
				fmt.Fprintf(out, "# %s\n", sc.Description)
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(map[string]config.SimulationConfig{"simulation": sc.Simulation}); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func newScenarioDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			db, err := env.openCatalog()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteScenario(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted scenario %q\n", args[0])
			return nil
		},
	}
}
