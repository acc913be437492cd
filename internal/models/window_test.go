package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeWindow_DefaultOnNonPositive(t *testing.T) {
	assert.Equal(t, DefaultWindowMinutes, RelativeWindow(0).Minutes())
	assert.Equal(t, DefaultWindowMinutes, RelativeWindow(-5).Minutes())
	assert.Equal(t, 30, RelativeWindow(30).Minutes())
}

func TestRelativeWindow_Contains(t *testing.T) {
	now := time.Unix(1700000000, 0)
	w := RelativeWindow(5)

	assert.True(t, w.Contains(now.Add(-2*time.Minute), now))
	assert.True(t, w.Contains(now.Add(-5*time.Minute), now), "lower bound is inclusive")
	assert.True(t, w.Contains(now, now), "upper bound is inclusive")
	assert.False(t, w.Contains(now.Add(-10*time.Minute), now))
	assert.False(t, w.Contains(now.Add(time.Second), now))
}

func TestRangeWindow_FullDaysInclusive(t *testing.T) {
	from := time.Date(2024, 1, 1, 13, 45, 0, 0, time.UTC)
	to := time.Date(2024, 1, 7, 9, 10, 0, 0, time.UTC)
	w := RangeWindow(from, to)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, w.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, w.Contains(time.Date(2024, 1, 7, 23, 59, 59, 999_000_000, time.UTC), now))
	assert.False(t, w.Contains(time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, w.Contains(time.Date(2023, 12, 31, 23, 59, 59, 999_000_000, time.UTC), now))
}

func TestTimeWindow_Label(t *testing.T) {
	assert.Equal(t, "5d", DefaultWindow().Label())
	assert.Equal(t, "24h", RelativeWindow(24*60).Label())
	assert.Equal(t, "90m", RelativeWindow(90).Label())
	assert.Equal(t, "30m", RelativeWindow(30).Label())

	w := RangeWindow(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, "20240101-20240107", w.Label())
}

func TestTimeWindow_MinuteGranularity(t *testing.T) {
	assert.True(t, RelativeWindow(30).MinuteGranularity())
	assert.False(t, RelativeWindow(60).MinuteGranularity())
	assert.False(t, DefaultWindow().MinuteGranularity())
	assert.False(t, RangeWindow(time.Now(), time.Now()).MinuteGranularity())
}
