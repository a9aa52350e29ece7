package main

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talgya/outpost/internal/decision"
	"github.com/talgya/outpost/internal/report"
)

func newDecideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Pick a build action with an epsilon-greedy chooser",
		Example: `  outpost decide
  outpost decide --epsilon 0 --option "Build Farm=10" --option "Build Well=12"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			epsilon := env.cfg.Decision.Epsilon
			if cmd.Flags().Changed("epsilon") {
				epsilon, _ = cmd.Flags().GetFloat64("epsilon")
			}

			raw, _ := cmd.Flags().GetStringArray("option")
			options := decision.DefaultOptions()
			if len(raw) > 0 {
				options, err = parseOptions(raw)
				if err != nil {
					return err
				}
			}

			chooser, err := decision.NewChooser(epsilon, env.src)
			if err != nil {
				return err
			}
			chosen, err := chooser.Choose(options)
			if err != nil {
				return err
			}
			slog.Debug("action chosen", "label", chosen.Label, "value", chosen.Value, "epsilon", epsilon)

			if env.jsonOut {
				return report.WriteJSON(cmd.OutOrStdout(), map[string]any{
					"chosen":  chosen,
					"epsilon": epsilon,
					"options": options,
				})
			}
			return report.WriteChoice(cmd.OutOrStdout(), chosen.Label)
		},
	}

	cmd.Flags().Float64("epsilon", 0, "Exploration probability (default from config)")
	cmd.Flags().StringArray("option", nil, `Candidate action as "Label=Value" (repeatable)`)

	return cmd
}

// parseOptions parses "Label=Value" pairs. The value follows the last '='.
func parseOptions(raw []string) ([]decision.Option, error) {
	out := make([]decision.Option, 0, len(raw))
	for _, s := range raw {
		i := strings.LastIndex(s, "=")
		if i <= 0 {
			return nil, fmt.Errorf("invalid option %q: want Label=Value", s)
		}
		label := strings.TrimSpace(s[:i])
		if label == "" {
			return nil, fmt.Errorf("invalid option %q: empty label", s)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(s[i+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid option %q: %w", s, err)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("invalid option %q: value must be finite", s)
		}
		out = append(out, decision.Option{Label: label, Value: value})
	}
	return out, nil
}
