// Package models contains data models for the sensores dashboard.
package models

import (
	"math"
	"time"

	"github.com/sebasr/sensores-dashboard/internal/store"
)

// Vec3 is a 3-axis sample from one instrument.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Magnitude returns the Euclidean norm of the vector.
func (v Vec3) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Abs returns the vector with each axis replaced by its absolute value.
func (v Vec3) Abs() Vec3 {
	return Vec3{X: math.Abs(v.X), Y: math.Abs(v.Y), Z: math.Abs(v.Z)}
}

// MotionSnapshot is one accelerometer + gyroscope sample.
type MotionSnapshot struct {
	// Accelerometer axes in m/s²
	Accel Vec3 `json:"accel"`

	// Gyroscope axes in rad/s
	Gyro Vec3 `json:"gyro"`

	// Device-local timestamp in epoch milliseconds, zero when absent
	DeviceTime int64 `json:"deviceTime,omitempty"`
}

// SensorReading is a validated telemetry document: an instantaneous
// snapshot, a windowed-average snapshot and the upload timestamp.
type SensorReading struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Last      MotionSnapshot `json:"last"`
	Avg       MotionSnapshot `json:"avg"`
}

// ReadingFromRecord validates and converts a raw store record. It returns
// ok=false when the record is missing required sub-structure (avg.accel,
// avg.gyro, last.accel, last.gyro, ts, id) or carries an unrecognized
// timestamp shape; such records are excluded from the pipeline without
// raising an error.
func ReadingFromRecord(rec store.Record) (SensorReading, bool) {
	if rec.ID == "" {
		return SensorReading{}, false
	}

	raw, ok := rec.Fields["ts"]
	if !ok {
		return SensorReading{}, false
	}
	ts, ok := NormalizeTimestamp(raw)
	if !ok {
		return SensorReading{}, false
	}

	last, ok := snapshotFromField(rec, "last")
	if !ok {
		return SensorReading{}, false
	}
	avg, ok := snapshotFromField(rec, "avg")
	if !ok {
		return SensorReading{}, false
	}

	return SensorReading{
		ID:        rec.ID,
		Timestamp: ts,
		Last:      last,
		Avg:       avg,
	}, true
}

// ReadingFields flattens a reading into store fields for ingestion. The
// inverse of ReadingFromRecord, minus the server-assigned parts.
func ReadingFields(deviceID string, at time.Time, last, avg MotionSnapshot) store.Fields {
	fields := store.Fields{
		"deviceId": deviceID,
		"ts":       at.UnixMilli(),
		"last":     snapshotFields(last, true),
		"avg":      snapshotFields(avg, false),
	}
	return fields
}

func snapshotFields(s MotionSnapshot, withDeviceTime bool) map[string]interface{} {
	out := map[string]interface{}{
		"accel": map[string]interface{}{"x": s.Accel.X, "y": s.Accel.Y, "z": s.Accel.Z},
		"gyro":  map[string]interface{}{"x": s.Gyro.X, "y": s.Gyro.Y, "z": s.Gyro.Z},
	}
	if withDeviceTime && s.DeviceTime != 0 {
		out["ts"] = s.DeviceTime
	}
	return out
}

func snapshotFromField(rec store.Record, field string) (MotionSnapshot, bool) {
	m, ok := rec.Map(field)
	if !ok {
		return MotionSnapshot{}, false
	}

	accel, ok := vecFromMap(m, "accel")
	if !ok {
		return MotionSnapshot{}, false
	}
	gyro, ok := vecFromMap(m, "gyro")
	if !ok {
		return MotionSnapshot{}, false
	}

	snap := MotionSnapshot{Accel: accel, Gyro: gyro}
	if raw, ok := m["ts"]; ok {
		if t, ok := NormalizeTimestamp(raw); ok {
			snap.DeviceTime = t.UnixMilli()
		}
	}
	return snap, true
}

func vecFromMap(m map[string]interface{}, key string) (Vec3, bool) {
	raw, ok := m[key]
	if !ok {
		return Vec3{}, false
	}
	axes, ok := raw.(map[string]interface{})
	if !ok {
		return Vec3{}, false
	}

	x, okX := asFloat(axes["x"])
	y, okY := asFloat(axes["y"])
	z, okZ := asFloat(axes["z"])
	if !okX || !okY || !okZ {
		return Vec3{}, false
	}
	return Vec3{X: x, Y: y, Z: z}, true
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
