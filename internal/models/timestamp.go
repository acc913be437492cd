package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimestampKind tags the accepted shapes of a reading timestamp.
type TimestampKind int

// Recognized timestamp shapes. Devices have uploaded store-native datetimes,
// plain dates and epoch-millisecond numbers at different firmware versions,
// so all three remain accepted.
const (
	TimestampUnknown TimestampKind = iota
	TimestampNative
	TimestampTime
	TimestampEpochMillis
)

// ClassifyTimestamp reports which accepted shape the raw value has.
func ClassifyTimestamp(v interface{}) TimestampKind {
	switch v.(type) {
	case primitive.DateTime:
		return TimestampNative
	case time.Time:
		return TimestampTime
	case int64, int32, int, float64:
		return TimestampEpochMillis
	default:
		return TimestampUnknown
	}
}

// NormalizeTimestamp converts a raw timestamp value to time.Time. An
// unrecognized shape returns ok=false and the reading is dropped by the
// pipeline; it is never silently replaced with the current time, which
// would let bad input masquerade as a fresh reading.
func NormalizeTimestamp(v interface{}) (time.Time, bool) {
	switch ts := v.(type) {
	case primitive.DateTime:
		return ts.Time(), true
	case time.Time:
		return ts, true
	case int64:
		return time.UnixMilli(ts), true
	case int32:
		return time.UnixMilli(int64(ts)), true
	case int:
		return time.UnixMilli(int64(ts)), true
	case float64:
		return time.UnixMilli(int64(ts)), true
	default:
		return time.Time{}, false
	}
}
