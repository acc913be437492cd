package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sebasr/sensores-dashboard/internal/binding"
	"github.com/sebasr/sensores-dashboard/internal/models"
	"github.com/sebasr/sensores-dashboard/internal/pipeline"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// DeviceHandler handles device-related requests
type DeviceHandler struct {
	reader *binding.Reader
	now    func() time.Time
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(reader *binding.Reader) *DeviceHandler {
	return &DeviceHandler{
		reader: reader,
		now:    time.Now,
	}
}

// DeviceResponse represents a device in API responses. Status is derived
// from the most recent reading timestamp at response time, never stored.
type DeviceResponse struct {
	ID            string        `json:"id"`
	DeviceID      string        `json:"deviceId"`
	Name          string        `json:"name"`
	Status        models.Status `json:"status"`
	LastReadingAt *time.Time    `json:"lastReadingAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ListDevices retrieves all devices with their derived status
// GET /api/v1/devices
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	records, err := h.reader.ReadMany(c.Request.Context(), DevicesCollection, []store.Constraint{
		store.OrderBy("name", store.Ascending),
	}, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to retrieve devices",
		})
		return
	}

	now := h.now()
	response := make([]DeviceResponse, len(records))
	for i, rec := range records {
		device := models.DeviceFromRecord(rec)
		response[i] = h.deviceResponse(c, device, now)
	}

	c.JSON(http.StatusOK, gin.H{"devices": response})
}

// GetDevice retrieves a single device with its derived status
// GET /api/v1/devices/:id
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	records, err := h.reader.ReadMany(c.Request.Context(), DevicesCollection, []store.Constraint{
		store.Where("deviceId", store.OpEqual, c.Param("id")),
		store.Limit(1),
	}, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to retrieve device",
		})
		return
	}
	if len(records) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Device not found",
		})
		return
	}

	device := models.DeviceFromRecord(records[0])
	c.JSON(http.StatusOK, h.deviceResponse(c, device, h.now()))
}

// deviceResponse resolves the latest reading for the device and derives its
// status. A failed lookup leaves the device offline rather than failing the
// whole response.
func (h *DeviceHandler) deviceResponse(c *gin.Context, device models.Device, now time.Time) DeviceResponse {
	resp := DeviceResponse{
		ID:        device.ID,
		DeviceID:  device.DeviceID,
		Name:      device.Name,
		Status:    models.StatusOffline,
		CreatedAt: device.CreatedAt,
		UpdatedAt: device.UpdatedAt,
	}

	records, err := h.reader.ReadMany(c.Request.Context(), ReadingsCollection, []store.Constraint{
		store.Where("deviceId", store.OpEqual, device.DeviceID),
		store.OrderBy("ts", store.Descending),
		store.Limit(1),
	}, false)
	if err == nil {
		if last, ok := pipeline.LatestTimestamp(records); ok {
			resp.LastReadingAt = &last
			resp.Status = models.StatusAt(last, now)
		}
	}
	return resp
}
