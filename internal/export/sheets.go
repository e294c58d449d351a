package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/common"
)

// SheetsConfig holds the configuration for the Google Sheets writer.
type SheetsConfig struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultSheetsConfig returns a SheetsConfig with sensible defaults.
func DefaultSheetsConfig() SheetsConfig {
	return SheetsConfig{
		SpreadsheetName:  "MID Report",
		TimeZone:         "Asia/Kolkata",
		EnableFormatting: true,
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// Validate checks if the configuration is valid.
func (c *SheetsConfig) Validate() error {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	hasServiceAccount := c.ServiceAccountPath != ""

	if !hasOAuth && !hasServiceAccount {
		return errors.New("no authentication method configured")
	}
	if hasOAuth && hasServiceAccount {
		return errors.New("multiple authentication methods configured; use either OAuth2 or service account")
	}
	if c.BatchSize <= 0 {
		return errors.New("batch size must be positive")
	}
	if c.RetryAttempts < 0 {
		return errors.New("retry attempts cannot be negative")
	}
	if c.RetryDelay < 0 {
		return errors.New("retry delay cannot be negative")
	}
	return nil
}

// SheetsWriter writes MID reports to a Google spreadsheet.
type SheetsWriter struct {
	service *sheets.Service
	logger  *slog.Logger
	config  SheetsConfig
}

// NewSheetsWriter authenticates against the Sheets API and returns a writer.
func NewSheetsWriter(ctx context.Context, config SheetsConfig, logger *slog.Logger) (*SheetsWriter, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return NewSheetsWriterWithService(srv, config, logger), nil
}

// NewSheetsWriterWithService wraps an existing service. Tests point it at a
// local endpoint.
func NewSheetsWriterWithService(srv *sheets.Service, config SheetsConfig, logger *slog.Logger) *SheetsWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultSheetsConfig().BatchSize
	}
	return &SheetsWriter{service: srv, config: config, logger: logger}
}

// Write replaces the sheet contents with the rows of report and returns the
// spreadsheet ID.
func (w *SheetsWriter) Write(ctx context.Context, report analytics.Report) (string, error) {
	w.logger.Info("Starting sheets export", "mid", report.MID, "transactions", report.Matched)

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	retry := func(operation string, call func() error) error {
		return common.WithRetry(ctx, func() error {
			return classifyAPIError(call())
		}, common.RetryOptions{
			ShouldRetry:  common.IsRetryable,
			Logger:       w.logger,
			Operation:    operation,
			MaxAttempts:  max(w.config.RetryAttempts, 1),
			InitialDelay: w.config.RetryDelay,
			MaxDelay:     30 * time.Second,
		})
	}

	if err := retry("clear sheet", func() error {
		return w.clearSheet(ctx, spreadsheetID)
	}); err != nil {
		return "", fmt.Errorf("failed to clear sheet: %w", err)
	}

	values := ReportRows(report)
	if err := retry("write rows", func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}); err != nil {
		return "", fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		if err := retry("format sheet", func() error {
			return w.applyFormatting(ctx, spreadsheetID, len(values))
		}); err != nil {
			w.logger.Warn("Failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("Sheets export completed", "spreadsheet_id", spreadsheetID, "rows_written", len(values))
	return spreadsheetID, nil
}

func createSheetsService(ctx context.Context, config SheetsConfig) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

func (w *SheetsWriter) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		if _, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	created, err := w.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: "Report"}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("Created new spreadsheet", "id", created.SpreadsheetId, "url", created.SpreadsheetUrl)
	return created.SpreadsheetId, nil
}

// classifyAPIError tags a Sheets API failure for common.IsRetryable. Quota
// errors become ErrRateLimit; 5xx and transport errors stay retryable.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return &common.RetryableError{Err: err, Retryable: true}
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return &common.RetryableError{Err: err, Retryable: false}
	}
}

func (w *SheetsWriter) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// valueInputOption stores cells as sent. Sheets would otherwise strip the
// leading zeros of card digits and MIDs and evaluate text starting with "=".
const valueInputOption = "RAW"

func (w *SheetsWriter) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))
		batch := values[i:end]

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("A%d", i+1), &sheets.ValueRange{Values: batch}).
			ValueInputOption(valueInputOption).
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("Wrote batch", "start_row", i+1, "rows", len(batch))
	}
	return nil
}

func (w *SheetsWriter) applyFormatting(ctx context.Context, spreadsheetID string, totalRows int) error {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{StartRowIndex: 0, EndRowIndex: 1, StartColumnIndex: 0, EndColumnIndex: 2},
				Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
					TextFormat: &sheets.TextFormat{Bold: true, FontSize: 14},
				}},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{StartRowIndex: 2, EndRowIndex: int64(totalRows), StartColumnIndex: 0, EndColumnIndex: 1},
				Cell: &sheets.CellData{UserEnteredFormat: &sheets.CellFormat{
					TextFormat: &sheets.TextFormat{Bold: true},
				}},
				Fields: "userEnteredFormat.textFormat",
			},
		},
		{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{Dimension: "COLUMNS", StartIndex: 0, EndIndex: int64(len(Columns))},
			},
		},
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).Context(ctx).Do()
	return err
}

// ReportRows lays out a MID report as spreadsheet rows: a title, headline
// figures, monthly buckets, payment-mode counts and the transaction table.
func ReportRows(report analytics.Report) [][]any {
	values := make([][]any, 0, 16+len(report.Monthly)+len(report.PaymentModes)+len(report.Rows))

	values = append(values,
		[]any{"MID Report", report.MID},
		[]any{},
		[]any{"Summary"},
		[]any{"Transactions", report.Summary.Count},
		[]any{"Total Amount", report.Summary.TotalAmount.InexactFloat64()},
		[]any{"Average Amount", report.Summary.AvgAmount.Round(2).InexactFloat64()},
		[]any{"Total Settled", report.Summary.TotalSettled.InexactFloat64()},
		[]any{"Round Amounts", report.Rounds.RoundCount},
		[]any{"Round Amount %", roundPct(report.Rounds)},
		[]any{},
		[]any{"Monthly Trend"},
		[]any{"Month", "Count", "Amount", "Settled"},
	)
	for _, b := range report.Monthly {
		values = append(values, []any{b.Period, b.Count, b.TotalAmount.InexactFloat64(), b.TotalSettled.InexactFloat64()})
	}

	values = append(values,
		[]any{},
		[]any{"Payment Modes"},
		[]any{"Mode", "Count"},
	)
	for _, s := range report.PaymentModes {
		values = append(values, []any{s.Name, s.Value})
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	values = append(values, []any{}, []any{"Transaction Details"}, header)
	for i := range report.Rows {
		values = append(values, Row(&report.Rows[i]))
	}

	return values
}
