package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/report"
)

func midsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mids FILE",
		Short: "List the merchants in a file by transaction count",
		Args:  cobra.ExactArgs(1),
		RunE:  runMIDs,
	}

	cmd.Flags().Int("limit", 20, "number of MIDs to list")

	return cmd
}

func runMIDs(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	s, err := loadSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := requireRows(s); err != nil {
		return err
	}

	totals := analytics.RankMIDs(s.View(), limit)
	return report.WriteMIDs(cmd.OutOrStdout(), totals, len(s.UniqueMIDs()))
}
