package coerce

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"trimmed string", "  MID001 \t", "MID001"},
		{"whole float", 12345.0, "12345"},
		{"fractional float", 12.5, "12.5"},
		{"int", 42, "42"},
		{"bool", true, "true"},
		{"time", ts, "2024-03-15T10:30:00Z"},
		{"zero time", time.Time{}, ""},
		{"unknown type", struct{ A int }{7}, "{7}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.input))
		})
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   float64
		wantOK bool
	}{
		{"nil", nil, 0, false},
		{"empty", "", 0, false},
		{"blank", "   ", 0, false},
		{"plain", "100", 100, true},
		{"thousands separators", "1,234.50", 1234.5, true},
		{"indian grouping", "1,00,000", 100000, true},
		{"negative", "-20", -20, true},
		{"float value", 99.99, 99.99, true},
		{"int value", 7, 7, true},
		{"not a number", "abc", 0, false},
		{"currency prefix", "Rs 100", 0, false},
		{"nan text", "NaN", 0, false},
		{"infinity text", "Inf", 0, false},
		{"nan value", math.NaN(), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	native := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name   string
		input  any
		want   time.Time
		wantOK bool
	}{
		{"nil", nil, time.Time{}, false},
		{"empty", "", time.Time{}, false},
		{"bool", true, time.Time{}, false},
		{"native time", native, native, true},
		{"native pointer", &native, native, true},
		{"zero time", time.Time{}, time.Time{}, false},
		{"serial", 45366.0, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"serial with time", 45366.5, time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), true},
		{"int serial", 45366, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"iso date", "2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, loc), true},
		{"iso date time", "2024-03-15 23:15:00", time.Date(2024, 3, 15, 23, 15, 0, 0, loc), true},
		{"rfc3339", "2024-03-15T10:00:00Z", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), true},
		{"day first slash", "15/03/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, loc), true},
		{"day first dash two digit year", "15-03-24", time.Date(2024, 3, 15, 0, 0, 0, 0, loc), true},
		{"day first with trailing time", "25/12/2023 garbage", time.Date(2023, 12, 25, 0, 0, 0, 0, loc), true},
		{"garbage", "not a date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.input, loc)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDate_NilLocationUsesLocal(t *testing.T) {
	got, ok := Date("15/03/2024", nil)
	require.True(t, ok)
	assert.Equal(t, time.Local, got.Location())
}

func TestDate_LenientDayMonth(t *testing.T) {
	got, ok := Date("31/02/2024", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestSerial_RoundTrip(t *testing.T) {
	for serial := 100; serial <= 60000; serial += 997 {
		got, ok := Serial(float64(serial))
		require.True(t, ok, "serial %d", serial)

		excelEpoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
		days := got.Sub(excelEpoch).Hours() / 24
		assert.InDelta(t, float64(serial), days, 1e-9, "serial %d decoded to %s", serial, got)
	}
}

func TestSerial_OutOfRange(t *testing.T) {
	for _, serial := range []float64{-1, maxSerial + 1, math.NaN(), math.Inf(1)} {
		_, ok := Serial(serial)
		assert.False(t, ok, "serial %v", serial)
	}
}

func TestDate_OutOfRangeSerialFallsThrough(t *testing.T) {
	_, ok := Date(float64(maxSerial+10), time.UTC)
	assert.False(t, ok)
}

func TestTotality(t *testing.T) {
	inputs := []any{
		nil, "", " ", "0", "-0", "1e400", "1,,2", "//", "99/99/9999", "00-00-00",
		"2024-13-45", "T", "+", "Jan", "12:00", "0000-00-00 00:00:00", "\x00\xff",
		"9999999999999999999999", math.MaxFloat64, -math.MaxFloat64, math.Inf(-1),
		int64(math.MaxInt64), uint64(math.MaxUint64), []byte("x"), map[string]int{},
		struct{}{}, false, time.Time{},
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_ = String(in)
			_, _ = Number(in)
			_, _ = Date(in, time.UTC)
		}, "input %#v", in)
	}
}
