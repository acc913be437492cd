// Package pipeline transforms raw telemetry records into chart-ready series.
// Every stage is a pure function: validation, timestamp normalization,
// window filtering, chronological sort, per-point derivation and the latest
// snapshot views. Malformed input is dropped, never raised.
package pipeline

import (
	"sort"
	"time"

	"github.com/sebasr/sensores-dashboard/internal/models"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// MaxPointsPerView caps how many readings a single device view processes.
const MaxPointsPerView = 1000

// Chart width sizing bounds, in pixels.
const (
	MinChartWidth  = 800
	MaxChartWidth  = 3000
	pixelsPerPoint = 40
)

// Point is one chart point: the averaged axes plus the derived magnitudes
// and a display label.
type Point struct {
	ID       string      `json:"id"`
	At       time.Time   `json:"at"`
	Label    string      `json:"label"`
	Accel    models.Vec3 `json:"accel"`
	Gyro     models.Vec3 `json:"gyro"`
	AccelMag float64     `json:"accelMag"`
	GyroMag  float64     `json:"gyroMag"`
}

// RadarView holds the absolute axis values of the latest reading, one spoke
// per axis per instrument.
type RadarView struct {
	Accel models.Vec3 `json:"accel"`
	Gyro  models.Vec3 `json:"gyro"`
}

// RadialView holds the two magnitude scalars of the latest chart point.
type RadialView struct {
	AccelMag float64 `json:"accelMag"`
	GyroMag  float64 `json:"gyroMag"`
}

// ChartData is the pipeline output consumed by the chart renderers and the
// JSON chart endpoint.
type ChartData struct {
	Points      []Point     `json:"points"`
	Radar       *RadarView  `json:"radar,omitempty"`
	Radial      *RadialView `json:"radial,omitempty"`
	Width       int         `json:"width"`
	NeedsScroll bool        `json:"needsScroll"`
	Empty       bool        `json:"empty"`
	WindowLabel string      `json:"windowLabel"`
}

// ParseReadings validates raw records and drops the malformed ones. It
// never fails: a batch mixing well-formed and broken documents yields the
// well-formed subset.
func ParseReadings(records []store.Record) []models.SensorReading {
	readings := make([]models.SensorReading, 0, len(records))
	for _, rec := range records {
		if r, ok := models.ReadingFromRecord(rec); ok {
			readings = append(readings, r)
		}
	}
	return readings
}

// FilterWindow keeps the readings whose timestamp falls inside the window
// at the reference time. Bounds are inclusive on both ends.
func FilterWindow(readings []models.SensorReading, w models.TimeWindow, now time.Time) []models.SensorReading {
	out := make([]models.SensorReading, 0, len(readings))
	for _, r := range readings {
		if w.Contains(r.Timestamp, now) {
			out = append(out, r)
		}
	}
	return out
}

// SortChronological orders readings ascending by timestamp. Ties keep their
// original relative order.
func SortChronological(readings []models.SensorReading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
}

// Build runs the full pipeline over raw records for one window. The result
// always renders: an empty filtered set is flagged so the caller can show a
// no-data placeholder instead of an empty chart.
func Build(records []store.Record, w models.TimeWindow, now time.Time) ChartData {
	readings := ParseReadings(records)
	readings = FilterWindow(readings, w, now)
	SortChronological(readings)
	if len(readings) > MaxPointsPerView {
		readings = readings[len(readings)-MaxPointsPerView:]
	}

	data := ChartData{
		Points:      make([]Point, len(readings)),
		WindowLabel: w.Label(),
	}
	for i, r := range readings {
		data.Points[i] = Point{
			ID:       r.ID,
			At:       r.Timestamp,
			Label:    timeLabel(r.Timestamp, w),
			Accel:    r.Avg.Accel,
			Gyro:     r.Avg.Gyro,
			AccelMag: r.Avg.Accel.Magnitude(),
			GyroMag:  r.Avg.Gyro.Magnitude(),
		}
	}

	if len(readings) == 0 {
		data.Empty = true
		data.Width = MinChartWidth
		return data
	}

	latest := readings[len(readings)-1]
	data.Radar = &RadarView{
		Accel: latest.Avg.Accel.Abs(),
		Gyro:  latest.Avg.Gyro.Abs(),
	}
	last := data.Points[len(data.Points)-1]
	data.Radial = &RadialView{AccelMag: last.AccelMag, GyroMag: last.GyroMag}

	data.Width, data.NeedsScroll = chartWidth(len(data.Points))
	return data
}

// chartWidth maps point count to pixel width, monotonic and clamped to
// [MinChartWidth, MaxChartWidth]. Anything over the minimum needs
// horizontal scrolling in the UI.
func chartWidth(points int) (int, bool) {
	width := points * pixelsPerPoint
	if width <= MinChartWidth {
		return MinChartWidth, false
	}
	if width > MaxChartWidth {
		width = MaxChartWidth
	}
	return width, true
}

// UnclampedWidth is the sizing used by image export, where the width
// ceiling is lifted so every point stays legible.
func UnclampedWidth(points int) int {
	width := points * pixelsPerPoint
	if width < MinChartWidth {
		return MinChartWidth
	}
	return width
}

// timeLabel formats a point's display label. Seconds only appear for
// minute-granularity windows.
func timeLabel(t time.Time, w models.TimeWindow) string {
	if w.MinuteGranularity() {
		return t.Format("15:04:05")
	}
	return t.Format("02/01 15:04")
}

// LatestTimestamp returns the newest valid reading timestamp in a raw
// record set, for device status derivation. Ok is false when no record
// parses.
func LatestTimestamp(records []store.Record) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, r := range ParseReadings(records) {
		if !found || r.Timestamp.After(latest) {
			latest = r.Timestamp
			found = true
		}
	}
	return latest, found
}
