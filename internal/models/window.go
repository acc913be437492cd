package models

import (
	"fmt"
	"time"
)

// DefaultWindowMinutes is the relative span used when no window has been
// selected: five days.
const DefaultWindowMinutes = 5 * 24 * 60

// TimeWindow selects which readings feed the chart pipeline. Exactly one of
// the two forms is active: a relative span of minutes ending now, or an
// explicit calendar date range. Building one form discards the other.
type TimeWindow struct {
	minutes  int
	from, to time.Time
	explicit bool
}

// RelativeWindow builds a relative span of the given minutes. Non-positive
// minutes fall back to the default span.
func RelativeWindow(minutes int) TimeWindow {
	if minutes <= 0 {
		minutes = DefaultWindowMinutes
	}
	return TimeWindow{minutes: minutes}
}

// RangeWindow builds an explicit date range. From is normalized to the
// start of its day and to to the last millisecond of its day, so both end
// days are included in full.
func RangeWindow(from, to time.Time) TimeWindow {
	from = startOfDay(from)
	to = startOfDay(to).Add(24*time.Hour - time.Millisecond)
	return TimeWindow{from: from, to: to, explicit: true}
}

// DefaultWindow returns the five-day relative span.
func DefaultWindow() TimeWindow {
	return RelativeWindow(DefaultWindowMinutes)
}

// Explicit reports whether the window is an explicit date range.
func (w TimeWindow) Explicit() bool {
	return w.explicit
}

// Minutes returns the relative span, zero for explicit ranges.
func (w TimeWindow) Minutes() int {
	if w.explicit {
		return 0
	}
	return w.minutes
}

// Bounds returns the inclusive time interval the window covers at the given
// reference time.
func (w TimeWindow) Bounds(now time.Time) (time.Time, time.Time) {
	if w.explicit {
		return w.from, w.to
	}
	return now.Add(-time.Duration(w.minutes) * time.Minute), now
}

// Contains reports whether a reading timestamp falls inside the window at
// the given reference time. Both bounds are inclusive.
func (w TimeWindow) Contains(t, now time.Time) bool {
	from, to := w.Bounds(now)
	return !t.Before(from) && !t.After(to)
}

// MinuteGranularity reports whether the window is narrow enough that point
// labels should include seconds.
func (w TimeWindow) MinuteGranularity() bool {
	return !w.explicit && w.minutes < 60
}

// Label returns the window's display label, used in export file names:
// "30m", "24h", "5d" for relative spans, "20240101-20240107" for ranges.
func (w TimeWindow) Label() string {
	if w.explicit {
		return w.from.Format("20060102") + "-" + w.to.Format("20060102")
	}
	switch {
	case w.minutes%(24*60) == 0:
		return fmt.Sprintf("%dd", w.minutes/(24*60))
	case w.minutes%60 == 0:
		return fmt.Sprintf("%dh", w.minutes/60)
	default:
		return fmt.Sprintf("%dm", w.minutes)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
