package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mlvisio/track-api/internal/models"
	"github.com/mlvisio/track-api/internal/service"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
	"github.com/mlvisio/track-api/pkg/response"
)

// ScheduleHandler exposes timetable endpoints.
type ScheduleHandler struct {
	schedule *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule}
}

// Today godoc
// @Summary List today's scheduled classes
// @Tags Schedule
// @Produce json
// @Param department query string false "Filter by department"
// @Param year query string false "Filter by year"
// @Success 200 {object} response.Envelope
// @Router /schedule/today [get]
func (h *ScheduleHandler) Today(c *gin.Context) {
	entries, err := h.schedule.Today(c.Request.Context(), scheduleFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// Weekly godoc
// @Summary List the weekly timetable
// @Tags Schedule
// @Produce json
// @Param department query string false "Filter by department"
// @Param year query string false "Filter by year"
// @Param day query int false "Filter by weekday (0=Sunday)"
// @Success 200 {object} response.Envelope
// @Router /schedule/weekly [get]
func (h *ScheduleHandler) Weekly(c *gin.Context) {
	entries, err := h.schedule.Weekly(c.Request.Context(), scheduleFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// Create godoc
// @Summary Create a schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.ScheduleEntryRequest true "Schedule payload"
// @Success 201 {object} response.Envelope
// @Router /schedule/create [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.ScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.schedule.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update a schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Param payload body service.ScheduleEntryRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/update/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.ScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.schedule.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// Delete godoc
// @Summary Delete a schedule entry
// @Tags Schedule
// @Produce json
// @Param id path string true "Schedule entry ID"
// @Success 200 {object} response.Envelope
// @Router /schedule/delete/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedule.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, nil, "schedule entry deleted")
}

func scheduleFilterFromQuery(c *gin.Context) models.ScheduleFilter {
	filter := models.ScheduleFilter{
		Department: c.Query("department"),
		Year:       c.Query("year"),
	}
	if raw := c.Query("day"); raw != "" {
		if day, err := strconv.Atoi(raw); err == nil && day >= 0 && day <= 6 {
			filter.DayOfWeek = &day
		}
	}
	return filter
}
