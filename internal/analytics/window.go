package analytics

import (
	"time"

	"github.com/Veraticus/midscope/internal/model"
)

// Window is a time-of-day bucket.
type Window int

// Time-of-day windows. Every hour belongs to exactly one.
const (
	Night Window = iota
	Morning
	AfternoonEvening
)

// Windows lists every window in display order.
var Windows = []Window{Night, Morning, AfternoonEvening}

func (w Window) String() string {
	switch w {
	case Night:
		return "Night (22:00-06:00)"
	case Morning:
		return "Morning (06:00-12:00)"
	case AfternoonEvening:
		return "Afternoon/Evening (12:00-22:00)"
	default:
		return "Unknown"
	}
}

// WindowOf returns the window containing the hour of t in its location.
func WindowOf(t time.Time) Window {
	h := t.Hour()
	switch {
	case h >= 22 || h < 6:
		return Night
	case h < 12:
		return Morning
	default:
		return AfternoonEvening
	}
}

// InWindow returns the dated transactions whose hour falls in w.
func InWindow(txns []model.Transaction, w Window) []model.Transaction {
	out := []model.Transaction{}
	for i := range txns {
		if !txns[i].HasDate() {
			continue
		}
		if WindowOf(*txns[i].TransactionDate) == w {
			out = append(out, txns[i])
		}
	}
	return out
}
