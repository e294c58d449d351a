// Package coerce converts loosely typed spreadsheet cell values into strings,
// numbers and timestamps. Every function is total: malformed input yields an
// empty string or an absent result, never an error or a panic.
package coerce

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// maxSerial is 9999-12-31 in the 1900 date system.
const maxSerial = 2958465

var dayMonthYear = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})`)

// String stringifies v and trims surrounding whitespace. nil becomes "".
func String(v any) string {
	return strings.TrimSpace(stringify(v))
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}

// Number parses v as a decimal number after removing thousands separators.
// The second result is false when the value is empty or not a finite number.
func Number(v any) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(stringify(v), ",", ""))
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// Date interprets v as a point in time. Rules are tried in order, strictest
// first: native timestamps, spreadsheet serial numbers, a general date/time
// parse, and finally a day-month-year pattern. Calendar dates without a zone
// are built in loc; a nil loc means time.Local.
func Date(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}

	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t, true
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case bool:
		return time.Time{}, false
	}

	if serial, ok := numeric(v); ok {
		if t, ok := Serial(serial); ok {
			return t, true
		}
	}

	s := String(v)
	if s == "" {
		return time.Time{}, false
	}

	if t, ok := parseAny(s, loc); ok {
		return t, true
	}

	return parseDayMonthYear(s, loc)
}

// Serial converts a spreadsheet date serial (days since the 1900 epoch, with
// the fraction as time of day) into a UTC timestamp rounded to the second.
func Serial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || serial < 0 || serial > maxSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	t = t.Round(time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), true
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// parseAny wraps dateparse, which panics on a handful of malformed inputs.
func parseAny(s string, loc *time.Location) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, loc)
	if err != nil || parsed.IsZero() {
		return time.Time{}, false
	}
	return parsed, true
}

func parseDayMonthYear(s string, loc *time.Location) (time.Time, bool) {
	m := dayMonthYear.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	yearText := m[3]
	if len(yearText) == 2 {
		yearText = "20" + yearText
	}
	year, _ := strconv.Atoi(yearText)

	// time.Date normalizes out-of-range days and months (31/02 → 02/03).
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), true
}
