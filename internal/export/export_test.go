package export

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/common"
	"github.com/Veraticus/midscope/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sample() []model.Transaction {
	amount := func(v float64) *float64 { return &v }
	date := func(s string) *time.Time {
		t, err := time.Parse("2006-01-02 15:04", s)
		if err != nil {
			panic(err)
		}
		return &t
	}
	return []model.Transaction{
		{MID: "M1", Amount: amount(500), SettledAmount: amount(490), TransactionDate: date("2024-03-15 10:30"), PaymentMode: model.ModeUPI, CustomerVPA: "a@upi"},
		{MID: "M1", Amount: amount(123.45), TransactionDate: date("2024-04-01 23:10"), PaymentMode: model.ModeCreditCard, CardLast4: "4242"},
		{MID: "M2", Status: "FAILED"},
	}
}

func TestRow(t *testing.T) {
	txns := sample()

	row := Row(&txns[0])
	require.Len(t, row, len(Columns))
	assert.Equal(t, "M1", row[0])
	assert.Equal(t, "2024-03-15 10:30:00", row[1])
	assert.InDelta(t, 500.0, row[2], 1e-9)
	assert.InDelta(t, 490.0, row[3], 1e-9)
	assert.Equal(t, "UPI", row[4])
	assert.Equal(t, "a@upi", row[5])
	assert.Equal(t, "", row[14])

	empty := Row(&txns[2])
	assert.Equal(t, "", empty[1])
	assert.Equal(t, "", empty[2])
	assert.Equal(t, "FAILED", empty[7])
}

func TestStringRow(t *testing.T) {
	txns := sample()

	row := StringRow(&txns[1])
	require.Len(t, row, len(Columns))
	assert.Equal(t, "123.45", row[2])
	assert.Equal(t, "", row[3])
	assert.Equal(t, "4242", row[6])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sample()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{TransactionsSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(TransactionsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "M1", rows[1][0])
	assert.Equal(t, "500", rows[1][2])
	assert.Equal(t, "M2", rows[3][0])

	summary, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value"}, summary[0])
	assert.Equal(t, []string{"Transactions", "3"}, summary[1])
	assert.Equal(t, []string{"Unique MIDs", "2"}, summary[2])
	assert.Equal(t, []string{"Round amounts", "1"}, summary[6])
	assert.Equal(t, []string{"2024-03", "1", "500", "490"}, summary[10])
	assert.Equal(t, []string{"2024-04", "1", "123.45", "0"}, summary[11])
}

func TestWriteXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(TransactionsSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func openMemory(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(":memory:", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestSQLiteStore_SaveAndCount(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)

	var calls []int
	err := store.SaveTransactions(ctx, "batch-1", "txns.csv", sample(), func(done, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, calls)

	counts, err := store.CountByMID(ctx)
	require.NoError(t, err)
	assert.Equal(t, []MIDCount{{MID: "M1", Count: 2}, {MID: "M2", Count: 1}}, counts)

	totals, err := store.Summary(ctx, "batch-1")
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, "M1", totals[0].MID)
	assert.Equal(t, 2, totals[0].Count)
	assert.InDelta(t, 623.45, totals[0].TotalAmount, 1e-9)
	assert.InDelta(t, 490.0, totals[0].TotalSettled, 1e-9)
	assert.InDelta(t, 0.0, totals[1].TotalAmount, 1e-9)
}

func TestSQLiteStore_MigrateIsIdempotent(t *testing.T) {
	store := openMemory(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSQLiteStore_DuplicateBatchRollsBack(t *testing.T) {
	ctx := context.Background()
	store := openMemory(t)

	require.NoError(t, store.SaveTransactions(ctx, "b", "a.csv", sample(), nil))
	err := store.SaveTransactions(ctx, "b", "a.csv", sample(), nil)
	require.Error(t, err)

	counts, err := store.CountByMID(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[0].Count)
}

func TestSQLiteStore_EmptyBatchID(t *testing.T) {
	store := openMemory(t)
	err := store.SaveTransactions(context.Background(), "", "a.csv", sample(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatchID)
}

func TestOpenSQLite_File(t *testing.T) {
	path := t.TempDir() + "/nested/out.db"
	store, err := OpenSQLite(path, nil)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Migrate(context.Background()))
	require.NoError(t, store.SaveTransactions(context.Background(), "b", "x.csv", sample()[:1], nil))
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	_, err := OpenSQLite("", nil)
	assert.Error(t, err)
}

func TestSheetsConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		errMsg string
		config SheetsConfig
	}{
		{
			name:   "oauth",
			config: SheetsConfig{ClientID: "id", ClientSecret: "secret", RefreshToken: "token", BatchSize: 10},
		},
		{
			name:   "service account with zero retries",
			config: SheetsConfig{ServiceAccountPath: "/key.json", BatchSize: 10},
		},
		{
			name:   "partial oauth credentials",
			config: SheetsConfig{ClientID: "id", RefreshToken: "token", BatchSize: 10},
			errMsg: "no authentication method configured",
		},
		{
			name:   "both methods",
			config: SheetsConfig{ClientID: "id", ClientSecret: "s", RefreshToken: "t", ServiceAccountPath: "/key.json", BatchSize: 10},
			errMsg: "multiple authentication methods configured",
		},
		{
			name:   "zero batch size",
			config: SheetsConfig{ServiceAccountPath: "/key.json"},
			errMsg: "batch size must be positive",
		},
		{
			name:   "negative retries",
			config: SheetsConfig{ServiceAccountPath: "/key.json", BatchSize: 1, RetryAttempts: -1},
			errMsg: "retry attempts cannot be negative",
		},
		{
			name:   "negative delay",
			config: SheetsConfig{ServiceAccountPath: "/key.json", BatchSize: 1, RetryDelay: -time.Second},
			errMsg: "retry delay cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDefaultSheetsConfig(t *testing.T) {
	cfg := DefaultSheetsConfig()
	cfg.ServiceAccountPath = "/key.json"
	assert.NoError(t, cfg.Validate())
}

func TestReportRows(t *testing.T) {
	report := analytics.Inspect(sample(), "M1")
	rows := ReportRows(report)

	assert.Equal(t, []any{"MID Report", "M1"}, rows[0])
	assert.Equal(t, []any{"Transactions", 2}, rows[3])
	assert.Equal(t, []any{"Round Amounts", 1}, rows[7])
	assert.Equal(t, []any{"Round Amount %", 50.0}, rows[8])
	assert.Equal(t, "2024-03", rows[12][0])
	assert.Equal(t, "2024-04", rows[13][0])

	last := rows[len(rows)-1]
	assert.Equal(t, "M1", last[0])
	assert.InDelta(t, 123.45, last[2], 1e-9)
	assert.Len(t, rows, 14+3+2+3+2)
}

type fakeSheets struct {
	mu         sync.Mutex
	updates    []string
	inputOpts  []string
	values     [][]any
	rows       int
	clears     int
	failClears int
	clearCode  int
	batches    int
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		f.clears++
		if f.clears <= f.failClears {
			code := cmp.Or(f.clearCode, http.StatusServiceUnavailable)
			w.WriteHeader(code)
			_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":"clear failed"}}`, code)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		f.batches++
		_, _ = w.Write([]byte(`{}`))
	case r.Method == http.MethodPut:
		var vr sheets.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.updates = append(f.updates, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
		f.inputOpts = append(f.inputOpts, r.URL.Query().Get("valueInputOption"))
		f.values = append(f.values, vr.Values...)
		f.rows += len(vr.Values)
		_, _ = w.Write([]byte(`{}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newFakeWriter(t *testing.T, fake *fakeSheets, cfg SheetsConfig) *SheetsWriter {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)
	return NewSheetsWriterWithService(srv, cfg, discardLogger())
}

func TestSheetsWriter_Write(t *testing.T) {
	fake := &fakeSheets{}
	writer := newFakeWriter(t, fake, SheetsConfig{
		SpreadsheetID:    "sheet-1",
		BatchSize:        5,
		RetryAttempts:    1,
		EnableFormatting: true,
	})

	report := analytics.Inspect(sample(), "M1")
	id, err := writer.Write(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, "sheet-1", id)

	total := len(ReportRows(report))
	assert.Equal(t, total, fake.rows)
	assert.Equal(t, "A1", fake.updates[0])
	assert.Equal(t, "A6", fake.updates[1])
	assert.Len(t, fake.updates, (total+4)/5)
	assert.Equal(t, 1, fake.clears)
	assert.Equal(t, 1, fake.batches)
}

func TestSheetsWriter_WritesIdentifiersVerbatim(t *testing.T) {
	fake := &fakeSheets{}
	writer := newFakeWriter(t, fake, SheetsConfig{
		SpreadsheetID: "sheet-1",
		BatchSize:     4,
		RetryAttempts: 1,
	})

	txns := sample()
	txns[0].CustomerVPA = "=HYPERLINK(\"x\")"
	txns[1].CardLast4 = "0042"
	_, err := writer.Write(context.Background(), analytics.Inspect(txns, "M1"))
	require.NoError(t, err)

	require.NotEmpty(t, fake.inputOpts)
	for _, opt := range fake.inputOpts {
		assert.Equal(t, "RAW", opt)
	}

	var cards, vpas []any
	for _, row := range fake.values {
		if len(row) == len(Columns) && row[0] == "M1" {
			cards = append(cards, row[6])
			vpas = append(vpas, row[5])
		}
	}
	assert.Contains(t, cards, "0042")
	assert.Contains(t, vpas, "=HYPERLINK(\"x\")")
}

func TestSheetsWriter_RetriesClear(t *testing.T) {
	fake := &fakeSheets{failClears: 1}
	writer := newFakeWriter(t, fake, SheetsConfig{
		SpreadsheetID: "sheet-1",
		BatchSize:     100,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	})

	_, err := writer.Write(context.Background(), analytics.Inspect(sample(), "M1"))
	require.NoError(t, err)
	assert.Equal(t, 2, fake.clears)
	assert.Zero(t, fake.batches)
}

func TestSheetsWriter_PermanentErrorNotRetried(t *testing.T) {
	fake := &fakeSheets{failClears: 5, clearCode: http.StatusBadRequest}
	writer := newFakeWriter(t, fake, SheetsConfig{
		SpreadsheetID: "sheet-1",
		BatchSize:     100,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	})

	_, err := writer.Write(context.Background(), analytics.Inspect(sample(), "M1"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrMaxRetries)
	assert.Equal(t, 1, fake.clears)
	assert.Zero(t, fake.rows)
}

func TestSheetsWriter_GivesUpAfterRetries(t *testing.T) {
	fake := &fakeSheets{failClears: 5}
	writer := newFakeWriter(t, fake, SheetsConfig{
		SpreadsheetID: "sheet-1",
		BatchSize:     100,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	})

	_, err := writer.Write(context.Background(), analytics.Inspect(sample(), "M1"))
	require.ErrorIs(t, err, common.ErrMaxRetries)
	assert.Contains(t, err.Error(), "clear sheet")
	assert.Equal(t, 2, fake.clears)
}

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"quota", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"server", &googleapi.Error{Code: http.StatusBadGateway}, true},
		{"bad request", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, false},
		{"transport", errors.New("connection reset"), true},
		{"canceled", context.Canceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, common.IsRetryable(classifyAPIError(tt.err)))
		})
	}
	assert.NoError(t, classifyAPIError(nil))
	assert.ErrorIs(t, classifyAPIError(&googleapi.Error{Code: http.StatusTooManyRequests}), common.ErrRateLimit)
}
