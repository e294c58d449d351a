// Package session holds the loaded dataset as immutable snapshots. Each load
// is tagged with a generation number so that a slow load finishing after a
// newer one can never replace the newer result.
package session

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/model"
	"github.com/Veraticus/midscope/internal/normalize"
	"github.com/Veraticus/midscope/internal/source"
)

// Session is one loaded file. A Session is never modified after creation.
type Session struct {
	LoadedAt     time.Time
	Err          error
	ID           string
	FileName     string
	transactions []model.Transaction
	uniqueMIDs   []string
	Generation   uint64
	RawCount     int
}

// Empty returns the session shown before any file is loaded.
func Empty() Session {
	return Session{}
}

// New builds a session from already normalized transactions. The slice is
// copied. The session has generation 0 and so never wins Accept.
func New(fileName string, rawCount int, txns []model.Transaction) Session {
	s := Session{
		ID:           uuid.NewString(),
		FileName:     fileName,
		RawCount:     rawCount,
		LoadedAt:     time.Now(),
		transactions: make([]model.Transaction, len(txns)),
	}
	copy(s.transactions, txns)
	s.uniqueMIDs = analytics.UniqueMIDs(s.transactions)
	return s
}

// View returns the transactions without copying. Callers must not modify it.
func (s Session) View() []model.Transaction {
	return s.transactions
}

// NormalizedCount is the number of rows that carried a MID.
func (s Session) NormalizedCount() int {
	return len(s.transactions)
}

// UniqueMIDs returns the distinct MIDs in ascending order.
func (s Session) UniqueMIDs() []string {
	out := make([]string, len(s.uniqueMIDs))
	copy(out, s.uniqueMIDs)
	return out
}

// Loaded reports whether the session holds a successfully parsed file.
func (s Session) Loaded() bool {
	return s.Err == nil && s.FileName != ""
}

// Search returns the transactions of one MID.
func (s Session) Search(mid string) []model.Transaction {
	return analytics.FilterByMID(s.transactions, mid)
}

// Ticket identifies one pending load.
type Ticket struct {
	FileName   string
	Generation uint64
}

// Loader reads files into sessions. It is safe for concurrent use.
type Loader struct {
	normalizer *normalize.Normalizer
	logger     *slog.Logger
	now        func() time.Time
	opts       source.Options
	issued     atomic.Uint64
	accepted   atomic.Uint64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithNormalizer sets the row normalizer.
func WithNormalizer(n *normalize.Normalizer) LoaderOption {
	return func(l *Loader) {
		if n != nil {
			l.normalizer = n
		}
	}
}

// WithSourceOptions sets the reader options.
func WithSourceOptions(o source.Options) LoaderOption {
	return func(l *Loader) {
		l.opts = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		normalizer: normalize.New(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Begin issues the ticket for a new load. Every ticket is newer than all
// earlier ones.
func (l *Loader) Begin(path string) Ticket {
	return Ticket{
		Generation: l.issued.Add(1),
		FileName:   filepath.Base(path),
	}
}

// Latest returns the generation of the most recently issued ticket.
func (l *Loader) Latest() uint64 {
	return l.issued.Load()
}

// Load reads and normalizes the file at path. Failures are reported through
// Session.Err; such a session carries no transactions.
func (l *Loader) Load(ctx context.Context, ticket Ticket, path string) Session {
	s := Session{
		ID:         uuid.NewString(),
		Generation: ticket.Generation,
		FileName:   ticket.FileName,
	}

	records, err := source.Open(ctx, path, l.opts)
	if err != nil {
		l.logger.Warn("Failed to load file",
			"file", ticket.FileName,
			"generation", ticket.Generation,
			"error", err)
		s.Err = err
		s.LoadedAt = l.now()
		return s
	}

	res := l.normalizer.Normalize(records)
	s.RawCount = len(records)
	s.transactions = res.Transactions
	s.uniqueMIDs = analytics.UniqueMIDs(res.Transactions)
	s.LoadedAt = l.now()

	l.logger.Info("Loaded session",
		"file", ticket.FileName,
		"generation", ticket.Generation,
		"raw", s.RawCount,
		"normalized", len(s.transactions),
		"dropped", res.Dropped,
		"unique_mids", len(s.uniqueMIDs))

	return s
}

// LoadFile issues a ticket and loads path in one call.
func (l *Loader) LoadFile(ctx context.Context, path string) Session {
	return l.Load(ctx, l.Begin(path), path)
}

// Accept decides which session to display once next has finished loading.
// next wins only when it is newer than every session accepted so far,
// including failed ones; otherwise current is kept and next is discarded.
func (l *Loader) Accept(current, next Session) Session {
	for {
		seen := l.accepted.Load()
		if next.Generation <= seen {
			l.logger.Debug("Discarding stale load",
				"file", next.FileName,
				"generation", next.Generation,
				"accepted", seen)
			return current
		}
		if l.accepted.CompareAndSwap(seen, next.Generation) {
			return next
		}
	}
}
