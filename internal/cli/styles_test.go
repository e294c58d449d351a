package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		format func(string) string
		name   string
		icon   string
	}{
		{name: "success", format: FormatSuccess, icon: LevelSuccess.Icon()},
		{name: "error", format: FormatError, icon: LevelError.Icon()},
		{name: "warning", format: FormatWarning, icon: LevelWarning.Icon()},
		{name: "info", format: FormatInfo, icon: LevelInfo.Icon()},
		{name: "title", format: FormatTitle, icon: reportIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("hello")
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "hello")
		})
	}
}

func TestLevelIconsDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, l := range []Level{LevelInfo, LevelSuccess, LevelWarning, LevelError} {
		assert.NotEmpty(t, l.Icon())
		assert.False(t, seen[l.Icon()], "duplicate icon %q", l.Icon())
		seen[l.Icon()] = true
	}
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Summary", FormatMetric("Transactions", "42"))
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "Transactions")
	assert.Contains(t, out, "42")
}

func TestProgressFunc(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf, 3, "Saving rows")
	update := ProgressFunc(bar)

	update(1, 3)
	update(3, 3)

	assert.True(t, bar.IsFinished())
}
