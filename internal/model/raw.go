package model

// RawField is one cell of an input row, keyed by its original header.
type RawField struct {
	Value any
	Name  string
}

// RawRecord is one input row in source column order.
// Values are nil, string, bool, time.Time or a Go numeric kind.
type RawRecord []RawField

// Source is an opaque handle to the raw record a transaction came from.
// Only presentation code reads it.
type Source struct {
	record RawRecord
}

// NewSource wraps a raw record. The record is copied.
func NewSource(r RawRecord) Source {
	cp := make(RawRecord, len(r))
	copy(cp, r)
	return Source{record: cp}
}

// Fields returns a copy of the original fields.
func (s Source) Fields() []RawField {
	cp := make([]RawField, len(s.record))
	copy(cp, s.record)
	return cp
}
