package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/cli"
	"github.com/Veraticus/midscope/internal/common"
	"github.com/Veraticus/midscope/internal/config"
	"github.com/Veraticus/midscope/internal/report"
)

func chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart FILE",
		Short: "Render PNG charts for one merchant",
		Long: `Render the monthly trend line, the daily volume bars and the payment
mode pie for one MID as PNG files. Charts without data are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runChart,
	}

	cmd.Flags().String("mid", "", "merchant identifier to chart (required)")
	cmd.Flags().String("out", "", "output directory (default: export.dir)")

	return cmd
}

func runChart(cmd *cobra.Command, args []string) error {
	mid, err := requireMID(cmd)
	if err != nil {
		return err
	}
	dir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if dir == "" {
		dir = settings.ExportDir
	}
	dir = config.ExpandPath(dir)

	s, err := loadSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	r := analytics.InspectWith(s.View(), mid, settings.ReportOptions())
	if r.Matched == 0 {
		return common.NewUserError(fmt.Sprintf("%s has no rows for MID %s", s.FileName, mid), common.ErrMIDNotFound)
	}

	files, err := report.RenderCharts(dir, r, slog.Default())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(files) == 0 {
		_, err = fmt.Fprintln(out, cli.FormatWarning("No chart had data to draw"))
		return err
	}
	for _, f := range files {
		if _, err := fmt.Fprintln(out, cli.FormatSuccess("Wrote "+f)); err != nil {
			return err
		}
	}
	return nil
}
