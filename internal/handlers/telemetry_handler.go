package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sebasr/sensores-dashboard/internal/binding"
	"github.com/sebasr/sensores-dashboard/internal/models"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// TelemetryHandler handles sensor reading ingestion
type TelemetryHandler struct {
	mutator *binding.Mutator
	now     func() time.Time
}

// NewTelemetryHandler creates a new telemetry handler
func NewTelemetryHandler(mutator *binding.Mutator) *TelemetryHandler {
	return &TelemetryHandler{
		mutator: mutator,
		now:     time.Now,
	}
}

// SnapshotPayload is one instrument sample in a telemetry request
type SnapshotPayload struct {
	Accel models.Vec3 `json:"accel" binding:"required"`
	Gyro  models.Vec3 `json:"gyro" binding:"required"`
	Ts    int64       `json:"ts"`
}

// TelemetryRequest represents the reading ingestion request body
type TelemetryRequest struct {
	DeviceID string          `json:"deviceId" binding:"required"`
	Ts       int64           `json:"ts"`
	Last     SnapshotPayload `json:"last" binding:"required"`
	Avg      SnapshotPayload `json:"avg" binding:"required"`
}

// HandlePost ingests a sensor reading
// POST /api/v1/telemetry
func (h *TelemetryHandler) HandlePost(c *gin.Context) {
	var req TelemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	at := h.now()
	if req.Ts > 0 {
		at = time.UnixMilli(req.Ts)
	}

	last := models.MotionSnapshot{Accel: req.Last.Accel, Gyro: req.Last.Gyro, DeviceTime: req.Last.Ts}
	avg := models.MotionSnapshot{Accel: req.Avg.Accel, Gyro: req.Avg.Gyro, DeviceTime: req.Avg.Ts}

	id, err := h.mutator.Create(c.Request.Context(), ReadingsCollection,
		models.ReadingFields(req.DeviceID, at, last, avg))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to store reading",
		})
		return
	}

	h.touchDevice(c, req.DeviceID, at)

	c.JSON(http.StatusCreated, gin.H{
		"id":        id,
		"timestamp": at.UTC().Format(time.RFC3339),
	})
}

// touchDevice records the device's last activity, registering the device on
// first contact. Failures are logged; ingestion has already succeeded.
func (h *TelemetryHandler) touchDevice(c *gin.Context, deviceID string, at time.Time) {
	ctx := c.Request.Context()
	fields := store.Fields{"lastActiveAt": at.UnixMilli()}

	records, err := h.mutator.Gateway().ReadMany(ctx, DevicesCollection, []store.Constraint{
		store.Where("deviceId", store.OpEqual, deviceID),
		store.Limit(1),
	})
	if err != nil {
		logrus.WithError(err).WithField("device", deviceID).Warn("device lookup failed")
		return
	}

	if len(records) == 0 {
		fields["deviceId"] = deviceID
		fields["name"] = deviceID
		if _, err := h.mutator.Create(ctx, DevicesCollection, fields); err != nil {
			logrus.WithError(err).WithField("device", deviceID).Warn("device registration failed")
		}
		return
	}

	if err := h.mutator.Update(ctx, DevicesCollection, records[0].ID, fields); err != nil {
		logrus.WithError(err).WithField("device", deviceID).Warn("device update failed")
	}
}
