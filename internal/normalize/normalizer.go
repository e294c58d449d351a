// Package normalize maps raw spreadsheet rows with heterogeneous headers onto
// the fixed transaction schema.
package normalize

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/midscope/internal/coerce"
	"github.com/Veraticus/midscope/internal/model"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanKey trims a header, lowercases it and replaces each whitespace run
// with a single underscore.
func CleanKey(k string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(k)), "_")
}

// Result holds the normalized transactions and the number of dropped rows.
type Result struct {
	Transactions []model.Transaction
	Dropped      int
}

// Normalizer converts raw records into transactions according to a schema.
type Normalizer struct {
	loc    *time.Location
	logger *slog.Logger
	schema Schema
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithSchema replaces the default header synonyms.
func WithSchema(s Schema) Option {
	return func(n *Normalizer) {
		n.schema = s
	}
}

// WithLocation sets the zone used for calendar dates and hour buckets.
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.loc = loc
		}
	}
}

// WithLogger sets the logger for drop statistics.
func WithLogger(l *slog.Logger) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.logger = l
		}
	}
}

// New creates a Normalizer using DefaultSchema and the local time zone.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		schema: DefaultSchema(),
		loc:    time.Local,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts records in order. Records without a MID are dropped.
func (n *Normalizer) Normalize(records []model.RawRecord) Result {
	result := Result{
		Transactions: make([]model.Transaction, 0, len(records)),
	}

	for _, rec := range records {
		tx, ok := n.Record(rec)
		if !ok {
			result.Dropped++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	if result.Dropped > 0 {
		n.logger.Debug("Dropped rows without MID",
			"dropped", result.Dropped,
			"kept", len(result.Transactions))
	}

	return result
}

// Record normalizes a single raw record. It returns false when the record
// carries no MID.
func (n *Normalizer) Record(rec model.RawRecord) (model.Transaction, bool) {
	index := make(map[string]any, len(rec))
	for _, f := range rec {
		index[CleanKey(f.Name)] = f.Value
	}

	var tx model.Transaction
	for _, entry := range n.schema {
		v, ok := pick(index, entry.Synonyms)
		if !ok {
			continue
		}
		assign(&tx, entry.Field, entry.Kind, v, n.loc)
	}

	if tx.MID == "" {
		return model.Transaction{}, false
	}

	tx.Source = model.NewSource(rec)
	return tx, true
}

// pick returns the value of the first synonym present in the index.
// A value is present when it is non-nil and not blank.
func pick(index map[string]any, synonyms []string) (any, bool) {
	for _, syn := range synonyms {
		v, ok := index[syn]
		if !ok || v == nil {
			continue
		}
		if coerce.String(v) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}
