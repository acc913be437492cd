package models

import (
	"time"

	"github.com/sebasr/sensores-dashboard/internal/store"
)

// OnlineWindow is how recent a device's latest reading must be for the
// device to count as online.
const OnlineWindow = 3 * time.Minute

// Status is the derived online/offline state of a device. It is never
// stored; it is recomputed from the most recent reading timestamp.
type Status string

// Device statuses.
const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
)

// Device represents a registered sensor device. DeviceID is the stable
// identifier devices report with; ID is the store document key.
type Device struct {
	ID           string     `json:"id"`
	DeviceID     string     `json:"deviceId"`
	Name         string     `json:"name"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// StatusAt derives the device status from its most recent reading
// timestamp. A zero lastReading means the device has never reported and is
// offline.
func StatusAt(lastReading time.Time, now time.Time) Status {
	if lastReading.IsZero() {
		return StatusOffline
	}
	if now.Sub(lastReading) <= OnlineWindow {
		return StatusOnline
	}
	return StatusOffline
}

// DeviceFromRecord converts a raw store record into a Device. A record
// without a name still yields a device; the identifier is what matters.
func DeviceFromRecord(rec store.Record) Device {
	d := Device{
		ID:        rec.ID,
		DeviceID:  rec.ID,
		CreatedAt: time.UnixMilli(rec.CreatedAt),
		UpdatedAt: time.UnixMilli(rec.UpdatedAt),
	}
	if deviceID, ok := rec.String("deviceId"); ok {
		d.DeviceID = deviceID
	}
	if name, ok := rec.String("name"); ok {
		d.Name = name
	}
	if raw, ok := rec.Fields["lastActiveAt"]; ok {
		if t, ok := NormalizeTimestamp(raw); ok {
			d.LastActiveAt = &t
		}
	}
	return d
}
