package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/midscope/internal/common"
	"github.com/Veraticus/midscope/internal/config"
	"github.com/Veraticus/midscope/internal/tui"
	"github.com/Veraticus/midscope/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard [FILE]",
		Short: "Browse a file interactively",
		Long: `Open the interactive dashboard. Press / to search for a MID, Tab to
switch between tables, o to open another file and q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDashboard,
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")

	return cmd
}

func runDashboard(cmd *cobra.Command, args []string) error {
	theme, err := cmd.Flags().GetString("theme")
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = config.ExpandPath(args[0])
	}

	// Log lines would be drawn over the full-screen view.
	logger := common.NewLogger(io.Discard, settings.LogLevel, settings.LogFormat)

	return tui.Run(cmd.Context(),
		tui.WithLoader(newLoader(logger)),
		tui.WithPath(path),
		tui.WithTheme(themes.GetTheme(theme)),
		tui.WithReportOptions(settings.ReportOptions()),
	)
}
