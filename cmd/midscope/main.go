package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/midscope/internal/cli"
	"github.com/Veraticus/midscope/internal/config"
	"github.com/Veraticus/midscope/internal/common"
)

var (
	cfgFile  string
	version  = "dev"
	settings config.Settings
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "midscope",
		Short: "🔎 Merchant transaction inspector",
		Long: `midscope loads a CSV, XLSX or XLS export of merchant transactions,
normalizes its columns, and shows what one merchant (MID) has been doing:
totals, monthly and daily trends, payment modes, off-hour activity,
repeated cards and UPI handles, and round-figure amounts.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/midscope/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))

	// Add commands
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(midsCmd())
	rootCmd.AddCommand(chartCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(dashboardCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel() // Always cleanup

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		if hint := common.Hint(err); hint != "" {
			fmt.Fprintln(os.Stderr, cli.FormatInfo(hint))
		}
		os.Exit(common.ExitCode(err))
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		dir, err := config.Dir()
		if err != nil {
			return err
		}

		// Search for config in standard locations
		viper.AddConfigPath(dir)
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("MIDSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	settings = loaded

	common.SetupLogger(settings.LogLevel, settings.LogFormat)
	common.LogDebug("Configuration loaded", common.Fields{
		"config":   viper.ConfigFileUsed(),
		"timezone": settings.Location.String(),
		"encoding": settings.CSVEncoding,
	})

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			slog.Info("midscope version", "version", version)
		},
	}
}
