package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sebasr/sensores-dashboard/internal/binding"
	"github.com/sebasr/sensores-dashboard/internal/models"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// LiveHandler streams a device's latest reading over server-sent events
type LiveHandler struct {
	gateway store.Gateway
	now     func() time.Time
}

// NewLiveHandler creates a new live stream handler
func NewLiveHandler(gateway store.Gateway) *LiveHandler {
	return &LiveHandler{
		gateway: gateway,
		now:     time.Now,
	}
}

// LiveEvent is one SSE payload: the latest reading, if any, plus the
// device's derived status at emission time.
type LiveEvent struct {
	DeviceID string                `json:"deviceId"`
	Status   models.Status         `json:"status"`
	Reading  *models.SensorReading `json:"reading,omitempty"`
}

// Stream subscribes to the device's latest reading and forwards every
// change until the client disconnects
// GET /api/v1/devices/:id/live
func (h *LiveHandler) Stream(c *gin.Context) {
	deviceID := c.Param("id")

	live := binding.NewLiveBinding(h.gateway)
	defer live.Close()

	live.Watch(c.Request.Context(), ReadingsCollection, []store.Constraint{
		store.Where("deviceId", store.OpEqual, deviceID),
		store.OrderBy("ts", store.Descending),
		store.Limit(1),
	})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	// Re-derive status periodically so a silent device flips to offline
	// without a new document arriving.
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-live.Updates():
			c.SSEvent("reading", h.event(deviceID, live.Data()))
			return true
		case <-ticker.C:
			c.SSEvent("status", h.event(deviceID, live.Data()))
			return true
		}
	})
}

func (h *LiveHandler) event(deviceID string, records []store.Record) LiveEvent {
	ev := LiveEvent{DeviceID: deviceID, Status: models.StatusOffline}
	for _, rec := range records {
		if reading, ok := models.ReadingFromRecord(rec); ok {
			ev.Reading = &reading
			ev.Status = models.StatusAt(reading.Timestamp, h.now())
			break
		}
	}
	return ev
}
