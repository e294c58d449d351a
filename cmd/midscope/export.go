package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/cli"
	"github.com/Veraticus/midscope/internal/common"
	"github.com/Veraticus/midscope/internal/config"
	"github.com/Veraticus/midscope/internal/export"
	"github.com/Veraticus/midscope/internal/model"
	"github.com/Veraticus/midscope/internal/session"
)

// Export targets.
const (
	targetXLSX   = "xlsx"
	targetSQLite = "sqlite"
	targetSheets = "sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export normalized transactions to XLSX, SQLite or Google Sheets",
		Long: `Export the normalized rows of FILE.

Targets:
  xlsx    workbook with a Transactions sheet and a Summary sheet
  sqlite  appends the rows as a new batch to a SQLite database
  sheets  writes the report of one MID to a Google Sheets spreadsheet

With --mid only that merchant's rows are exported. The sheets target
requires --mid and Google credentials (see sheets.* in the config file or
the GOOGLE_SHEETS_* environment variables).`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().String("to", targetXLSX, "export target (xlsx, sqlite, sheets)")
	cmd.Flags().String("mid", "", "export only this merchant")
	cmd.Flags().String("out", "", "output file (default: inside export.dir)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	target, err := cmd.Flags().GetString("to")
	if err != nil {
		return err
	}
	target = strings.ToLower(strings.TrimSpace(target))
	mid, err := cmd.Flags().GetString("mid")
	if err != nil {
		return err
	}
	mid = strings.TrimSpace(mid)
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	switch target {
	case targetXLSX, targetSQLite:
	case targetSheets:
		if mid == "" {
			return common.NewUserError("The sheets target exports one MID report; pass --mid", common.ErrMIDRequired)
		}
	default:
		return common.NewUserError(fmt.Sprintf("Cannot export to %q; use xlsx, sqlite or sheets", target), common.ErrUnknownTarget)
	}

	s, err := loadSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := requireRows(s); err != nil {
		return err
	}

	txns := s.View()
	if mid != "" {
		txns = s.Search(mid)
		if len(txns) == 0 {
			return common.NewUserError(fmt.Sprintf("%s has no rows for MID %s", s.FileName, mid), common.ErrMIDNotFound)
		}
	}

	w := cmd.OutOrStdout()
	switch target {
	case targetXLSX:
		path := outputPath(out, s, mid, ".xlsx")
		if err := exportXLSX(path, txns); err != nil {
			return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
		}
		_, err = fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Wrote %d transactions to %s", len(txns), path)))
		return err

	case targetSQLite:
		path := out
		if path == "" {
			path = filepath.Join(settings.ExportDir, "midscope.db")
		}
		return exportSQLite(cmd, config.ExpandPath(path), s.FileName, txns)

	default:
		return exportSheets(cmd.Context(), w, analytics.InspectWith(s.View(), mid, settings.ReportOptions()))
	}
}

// outputPath derives the export file name from the input file and MID when
// --out is not given.
func outputPath(out string, s session.Session, mid, ext string) string {
	if out != "" {
		return config.ExpandPath(out)
	}
	name := strings.TrimSuffix(s.FileName, filepath.Ext(s.FileName))
	if mid != "" {
		name += "-" + fileSafe(mid)
	}
	return filepath.Join(settings.ExportDir, name+ext)
}

// fileSafe keeps mid inside a single path element.
func fileSafe(mid string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, mid)
}

func exportXLSX(path string, txns []model.Transaction) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return export.WriteXLSX(f, txns)
}

func exportSQLite(cmd *cobra.Command, path, sourceFile string, txns []model.Transaction) error {
	w := cmd.OutOrStdout()

	store, err := export.OpenSQLite(path, slog.Default())
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			common.LogError(err, "Failed to close database", common.Fields{"path": path})
		}
	}()

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx, stop := handler.HandleInterrupts(cmd.Context(), "Export")
	defer stop()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}

	batchID := uuid.NewString()
	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(txns), "Saving transactions")
	if err := store.SaveTransactions(ctx, batchID, sourceFile, txns, cli.ProgressFunc(bar)); err != nil {
		if handler.WasInterrupted() || errors.Is(err, context.Canceled) {
			return common.NewUserError("Export interrupted; the batch was rolled back", err)
		}
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}

	common.LogInfo("Exported batch", common.Fields{
		"batch_id": batchID,
		"path":     path,
		"rows":     len(txns),
	})

	totals, err := store.Summary(ctx, batchID)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}
	stored, err := store.CountByMID(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}
	_, err = fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf(
		"Saved %d transactions for %d MIDs to %s (batch %s); the database holds %d MIDs",
		len(txns), len(totals), path, batchID, len(stored))))
	return err
}

func exportSheets(ctx context.Context, w io.Writer, r analytics.Report) error {
	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError("Google Sheets is not configured", fmt.Errorf("%w: %w", common.ErrMissingConfig, err))
	}

	writer, err := export.NewSheetsWriter(ctx, *cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}

	id, err := writer.Write(ctx, r)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}

	_, err = fmt.Fprintln(w, cli.FormatSuccess("Wrote report to https://docs.google.com/spreadsheets/d/"+id))
	return err
}
