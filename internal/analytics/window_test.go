package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/midscope/internal/model"
)

func TestWindowOf(t *testing.T) {
	want := map[int]Window{
		0: Night, 5: Night, 6: Morning, 11: Morning,
		12: AfternoonEvening, 21: AfternoonEvening, 22: Night, 23: Night,
	}

	for hour, w := range want {
		ts := time.Date(2024, 1, 1, hour, 59, 59, 0, time.UTC)
		assert.Equal(t, w, WindowOf(ts), "hour %d", hour)
	}
}

func TestInWindow_ExhaustiveAndExclusive(t *testing.T) {
	var txns []model.Transaction
	for h := 0; h < 24; h++ {
		txns = append(txns, tx(fmt.Sprintf("H%02d", h), withDate(fmt.Sprintf("2024-01-01 %02d:30", h))))
	}
	txns = append(txns, tx("UNDATED"))

	seen := make(map[string]int)
	for _, w := range Windows {
		for _, got := range InWindow(txns, w) {
			seen[got.MID]++
		}
	}

	require.Len(t, seen, 24)
	for mid, n := range seen {
		assert.Equal(t, 1, n, "mid %s", mid)
	}
	assert.NotContains(t, seen, "UNDATED")
	assert.Len(t, InWindow(txns, Night), 8)
	assert.Len(t, InWindow(txns, Morning), 6)
	assert.Len(t, InWindow(txns, AfternoonEvening), 10)
}

func TestWindowString(t *testing.T) {
	assert.Equal(t, "Night (22:00-06:00)", Night.String())
	assert.Equal(t, "Unknown", Window(9).String())
}
