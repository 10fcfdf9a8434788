package livemetrics

import (
	"fmt"
	"slices"
	"time"
)

// hourlyMaturity is how old a window must be before hourly rollups report
// a start boundary.
const hourlyMaturity = time.Hour

// CaptureWindow is the span of captured data. A nil bound is absent.
type CaptureWindow struct {
	First *time.Time `json:"first"`
	Last  *time.Time `json:"last"`
}

// IsZero reports whether both bounds are absent.
func (w CaptureWindow) IsZero() bool {
	return w.First == nil && w.Last == nil
}

// AdjustTimestamps turns raw per-metric bounds in epoch milliseconds into a
// capture window: the earliest first and the latest last, as UTC instants
// truncated to the second. For the hourly interval the first bound is
// dropped until it is more than an hour older than now.
func AdjustTimestamps(firsts, lasts []int64, intervalName string, now time.Time) (CaptureWindow, error) {
	if len(firsts) == 0 || len(lasts) == 0 {
		return CaptureWindow{}, fmt.Errorf("no capture bounds: %d firsts, %d lasts", len(firsts), len(lasts))
	}

	first := millisToUTC(slices.Min(firsts))
	last := millisToUTC(slices.Max(lasts))

	window := CaptureWindow{First: &first, Last: &last}
	if Interval(intervalName) == IntervalHourly && now.Sub(first) <= hourlyMaturity {
		window.First = nil
	}
	return window, nil
}

func millisToUTC(ms int64) time.Time {
	return time.Unix(ms/1000, 0).UTC()
}
