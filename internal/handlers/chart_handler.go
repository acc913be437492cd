package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sebasr/sensores-dashboard/internal/binding"
	"github.com/sebasr/sensores-dashboard/internal/chart"
	"github.com/sebasr/sensores-dashboard/internal/models"
	"github.com/sebasr/sensores-dashboard/internal/pipeline"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

const dateLayout = "2006-01-02"

// ChartHandler handles chart data, rendering and export requests
type ChartHandler struct {
	reader   *binding.Reader
	exporter *chart.Exporter
	now      func() time.Time
}

// NewChartHandler creates a new chart handler
func NewChartHandler(reader *binding.Reader, exporter *chart.Exporter) *ChartHandler {
	return &ChartHandler{
		reader:   reader,
		exporter: exporter,
		now:      time.Now,
	}
}

// ChartDataResponse wraps the pipeline output with the selected chart type
type ChartDataResponse struct {
	ChartType chart.Type `json:"chartType"`
	pipeline.ChartData
}

// GetChartData returns the transformed series for a device
// GET /api/v1/devices/:id/chart
func (h *ChartHandler) GetChartData(c *gin.Context) {
	typ, window, ok := h.parseParams(c)
	if !ok {
		return
	}

	data, ok := h.buildChart(c, window)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, ChartDataResponse{ChartType: typ, ChartData: data})
}

// GetChartPNG renders the chart as a PNG at its on-screen width
// GET /api/v1/devices/:id/chart.png
func (h *ChartHandler) GetChartPNG(c *gin.Context) {
	typ, window, ok := h.parseParams(c)
	if !ok {
		return
	}

	data, ok := h.buildChart(c, window)
	if !ok {
		return
	}

	c.Header("Content-Type", "image/png")
	if err := chart.Render(data, typ, data.Width, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to render chart",
		})
	}
}

// ExportChart renders the chart to the export directory and returns the
// generated filename
// POST /api/v1/devices/:id/chart/export
func (h *ChartHandler) ExportChart(c *gin.Context) {
	typ, window, ok := h.parseParams(c)
	if !ok {
		return
	}

	data, ok := h.buildChart(c, window)
	if !ok {
		return
	}

	filename, err := h.exporter.Export(c.Param("id"), data, typ)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to export chart",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"filename": filename})
}

// parseParams reads the chart type and time window from the query string.
// Writes the error response itself when the input is invalid.
func (h *ChartHandler) parseParams(c *gin.Context) (chart.Type, models.TimeWindow, bool) {
	typ, err := chart.ParseType(c.Query("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_chart_type",
			"message": err.Error(),
		})
		return "", models.TimeWindow{}, false
	}

	window, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_window",
			"message": err.Error(),
		})
		return "", models.TimeWindow{}, false
	}

	return typ, window, true
}

// parseWindow resolves the window query parameters. An explicit from/to date
// pair wins over a relative minutes count; with neither, the default window
// applies.
func parseWindow(c *gin.Context) (models.TimeWindow, error) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr != "" || toStr != "" {
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return models.TimeWindow{}, err
		}
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return models.TimeWindow{}, err
		}
		return models.RangeWindow(from, to), nil
	}

	if minutesStr := c.Query("minutes"); minutesStr != "" {
		minutes, err := strconv.Atoi(minutesStr)
		if err != nil {
			return models.TimeWindow{}, err
		}
		return models.RelativeWindow(minutes), nil
	}

	return models.DefaultWindow(), nil
}

// buildChart fetches the device's readings inside the window and runs them
// through the transformation pipeline. Writes the error response itself on
// failure.
func (h *ChartHandler) buildChart(c *gin.Context, window models.TimeWindow) (pipeline.ChartData, bool) {
	now := h.now()
	from, to := window.Bounds(now)

	records, err := h.reader.ReadMany(c.Request.Context(), ReadingsCollection, []store.Constraint{
		store.Where("deviceId", store.OpEqual, c.Param("id")),
		store.Where("ts", store.OpGreaterEqual, from.UnixMilli()),
		store.Where("ts", store.OpLessEqual, to.UnixMilli()),
		store.OrderBy("ts", store.Ascending),
	}, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to retrieve readings",
		})
		return pipeline.ChartData{}, false
	}

	return pipeline.Build(records, window, now), true
}
