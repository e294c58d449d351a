package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/common"
	"github.com/Veraticus/midscope/internal/report"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the transaction report for one merchant",
		Long: `Load FILE and print every view for one MID: summary totals, monthly
and daily trends, payment modes, status and category breakdowns, the most
frequent cards and UPI handles, round-figure amounts, time-of-day windows and
the largest transactions.

The MID must match exactly after surrounding whitespace is removed.`,
		Args: cobra.ExactArgs(1),
		RunE: runInspect,
	}

	cmd.Flags().String("mid", "", "merchant identifier to inspect (required)")
	cmd.Flags().Int("top", analytics.DefaultTopN, "rows in card and UPI handle tables")
	cmd.Flags().Int("rows", analytics.MainTableLimit, "maximum rows in transaction tables")
	cmd.Flags().String("format", report.FormatText, "output format (text, json)")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	mid, err := requireMID(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	opts, err := reportOptions(cmd)
	if err != nil {
		return err
	}

	s, err := loadSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	r := analytics.InspectWith(s.View(), mid, opts)
	common.LogDebug("Inspected MID", common.Fields{
		"mid":     mid,
		"matched": r.Matched,
		"file":    s.FileName,
	})

	return report.Write(cmd.OutOrStdout(), r, format)
}
