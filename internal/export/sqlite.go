package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/Veraticus/midscope/internal/model"
)

// SchemaVersion is the latest schema version of exported databases.
const SchemaVersion = 2

// ErrEmptyBatchID is returned when SaveTransactions gets no batch identifier.
var ErrEmptyBatchID = errors.New("batch id must not be empty")

// Migration is one schema step of the export database.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Transactions and batches",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS batches (
					id TEXT PRIMARY KEY,
					source_file TEXT NOT NULL,
					row_count INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE TABLE IF NOT EXISTS transactions (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					batch_id TEXT NOT NULL,
					mid TEXT NOT NULL,
					transaction_date DATETIME,
					amount REAL,
					settled_amount REAL,
					payment_mode TEXT,
					customer_vpa TEXT,
					card_last4 TEXT,
					status TEXT,
					merchant_name TEXT,
					kyb_id TEXT,
					category TEXT,
					sub_category TEXT,
					entity_type TEXT,
					risk_category TEXT,
					onboarding_date DATETIME,
					FOREIGN KEY (batch_id) REFERENCES batches(id)
				)`,
				`CREATE INDEX idx_transactions_mid ON transactions(mid)`,
				`CREATE INDEX idx_transactions_date ON transactions(transaction_date)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Per-MID summary view",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE VIEW IF NOT EXISTS mid_summary AS
				SELECT batch_id, mid,
					COUNT(*) AS txn_count,
					COALESCE(SUM(amount), 0) AS total_amount,
					COALESCE(SUM(settled_amount), 0) AS total_settled,
					MIN(transaction_date) AS first_seen,
					MAX(transaction_date) AS last_seen
				FROM transactions
				GROUP BY batch_id, mid`)
			return err
		},
	},
}

// SQLiteStore writes normalized transactions to a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	path   string
}

// OpenSQLite opens or creates the database at path. ":memory:" opens a
// private in-memory database.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", os.ErrInvalid)
	}
	if logger == nil {
		logger = slog.Default()
	}

	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate applies pending schema migrations.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		s.logger.Debug("Applied migration", "version", m.Version, "description", m.Description)
	}

	var final int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&final); err != nil {
		return fmt.Errorf("failed to verify schema version: %w", err)
	}
	if final != SchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", SchemaVersion, final)
	}
	return nil
}

// Progress is called after each saved row with the running and total counts.
type Progress func(done, total int)

// SaveTransactions stores txns under batchID in a single SQL transaction.
func (s *SQLiteStore) SaveTransactions(ctx context.Context, batchID, sourceFile string, txns []model.Transaction, progress Progress) error {
	if batchID == "" {
		return ErrEmptyBatchID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO batches (id, source_file, row_count) VALUES (?, ?, ?)`,
		batchID, sourceFile, len(txns)); err != nil {
		return fmt.Errorf("failed to record batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (
			batch_id, mid, transaction_date, amount, settled_amount,
			payment_mode, customer_vpa, card_last4, status, merchant_name,
			kyb_id, category, sub_category, entity_type, risk_category, onboarding_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range txns {
		t := &txns[i]
		if _, err := stmt.ExecContext(ctx,
			batchID, t.MID, nullTime(t.TransactionDate), nullFloat(t.Amount), nullFloat(t.SettledAmount),
			t.PaymentMode, t.CustomerVPA, t.CardLast4, t.Status, t.MerchantName,
			t.KYBID, t.Category, t.SubCategory, t.EntityType, t.RiskCategory, nullTime(t.OnboardingDate),
		); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
		if progress != nil {
			progress(i+1, len(txns))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}

	s.logger.Info("Saved transactions", "batch", batchID, "rows", len(txns), "path", s.path)
	return nil
}

// MIDCount is the number of stored rows of one MID.
type MIDCount struct {
	MID   string
	Count int
}

// CountByMID returns stored row counts per MID, most frequent first.
func (s *SQLiteStore) CountByMID(ctx context.Context) ([]MIDCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mid, COUNT(*) AS n FROM transactions GROUP BY mid ORDER BY n DESC, mid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []MIDCount
	for rows.Next() {
		var c MIDCount
		if err := rows.Scan(&c.MID, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// MIDTotals is the stored aggregate of one MID within a batch.
type MIDTotals struct {
	BatchID      string
	MID          string
	TotalAmount  float64
	TotalSettled float64
	Count        int
}

// Summary reads the per-MID summary view for batchID.
func (s *SQLiteStore) Summary(ctx context.Context, batchID string) ([]MIDTotals, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id, mid, txn_count, total_amount, total_settled
		FROM mid_summary WHERE batch_id = ? ORDER BY mid`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []MIDTotals
	for rows.Next() {
		var m MIDTotals
		if err := rows.Scan(&m.BatchID, &m.MID, &m.Count, &m.TotalAmount, &m.TotalSettled); err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
