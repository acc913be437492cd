package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sebasr/sensores-dashboard/internal/binding"
	"github.com/sebasr/sensores-dashboard/internal/store"
)

// Theme values accepted from clients. "system" is stored as-is and resolved
// against the configured default on read.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// PreferencesHandler handles UI preference requests
type PreferencesHandler struct {
	reader       *binding.Reader
	mutator      *binding.Mutator
	defaultTheme string
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(reader *binding.Reader, mutator *binding.Mutator, defaultTheme string) *PreferencesHandler {
	return &PreferencesHandler{
		reader:       reader,
		mutator:      mutator,
		defaultTheme: defaultTheme,
	}
}

// ThemeRequest represents the theme update request body
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark system"`
}

// ThemeResponse represents the stored theme plus its resolved value
type ThemeResponse struct {
	Theme    string `json:"theme"`
	Resolved string `json:"resolved"`
}

// GetTheme returns the stored theme preference
// GET /api/v1/preferences/theme
func (h *PreferencesHandler) GetTheme(c *gin.Context) {
	rec, ok := h.themeRecord(c)
	if !ok {
		return
	}

	theme := ThemeSystem
	if rec != nil {
		if v, found := rec.String("value"); found {
			theme = v
		}
	}

	c.JSON(http.StatusOK, ThemeResponse{Theme: theme, Resolved: h.resolve(theme)})
}

// PutTheme stores the theme preference
// PUT /api/v1/preferences/theme
func (h *PreferencesHandler) PutTheme(c *gin.Context) {
	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	rec, ok := h.themeRecord(c)
	if !ok {
		return
	}

	fields := store.Fields{"key": "theme", "value": req.Theme}
	var err error
	if rec == nil {
		_, err = h.mutator.Create(c.Request.Context(), PreferencesCollection, fields)
	} else {
		err = h.mutator.Update(c.Request.Context(), PreferencesCollection, rec.ID, fields)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to store theme",
		})
		return
	}

	c.JSON(http.StatusOK, ThemeResponse{Theme: req.Theme, Resolved: h.resolve(req.Theme)})
}

// themeRecord finds the stored theme preference document, nil when absent.
// Writes the error response itself on lookup failure.
func (h *PreferencesHandler) themeRecord(c *gin.Context) (*store.Record, bool) {
	records, err := h.reader.ReadMany(c.Request.Context(), PreferencesCollection, []store.Constraint{
		store.Where("key", store.OpEqual, "theme"),
		store.Limit(1),
	}, false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to read preferences",
		})
		return nil, false
	}
	if len(records) == 0 {
		return nil, true
	}
	return &records[0], true
}

// resolve maps "system" to the configured default theme.
func (h *PreferencesHandler) resolve(theme string) string {
	if theme == ThemeSystem || theme == "" {
		return h.defaultTheme
	}
	return theme
}
