package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mlvisio/track-api/internal/service"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
	"github.com/mlvisio/track-api/pkg/response"
)

// SettingsHandler exposes attendance defaults management.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Attendance godoc
// @Summary Get effective attendance settings
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/attendance [get]
func (h *SettingsHandler) Attendance(c *gin.Context) {
	settings, err := h.settings.Attendance(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings)
}

// UpdateAttendance godoc
// @Summary Update attendance settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body service.UpdateAttendanceSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /settings/attendance [put]
func (h *SettingsHandler) UpdateAttendance(c *gin.Context) {
	var req service.UpdateAttendanceSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.settings.UpdateAttendance(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, settings, "settings updated")
}
