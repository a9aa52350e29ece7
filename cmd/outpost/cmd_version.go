package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talgya/outpost/internal/report"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return report.WriteJSON(cmd.OutOrStdout(), map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "outpost version %s (commit: %s, built: %s)\n", version, commit, date)
			return nil
		},
	}
}
