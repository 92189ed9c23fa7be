package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mlvisio/track-api/internal/models"
	"github.com/mlvisio/track-api/internal/service"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
	"github.com/mlvisio/track-api/pkg/export"
	"github.com/mlvisio/track-api/pkg/response"
)

// AttendanceHandler exposes attendance marking and reporting endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
	metrics    *service.MetricsService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService, metrics *service.MetricsService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, metrics: metrics}
}

// Mark godoc
// @Summary Mark attendance for a single student
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.MarkAttendanceRequest true "Attendance payload"
// @Success 200 {object} response.Envelope
// @Router /attendance/mark [post]
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req service.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	markedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		markedBy = claims.UserID
	}

	record, err := h.attendance.Mark(c.Request.Context(), markedBy, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveMark(string(record.Status))
	}
	response.Message(c, http.StatusOK, record, "attendance recorded")
}

// StudentHistory godoc
// @Summary List a student's attendance with summary
// @Tags Attendance
// @Produce json
// @Param registrationNumber path string true "Registration number"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/student/{registrationNumber} [get]
func (h *AttendanceHandler) StudentHistory(c *gin.Context) {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		response.Error(c, err)
		return
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		response.Error(c, err)
		return
	}

	records, summary, err := h.attendance.StudentHistory(c.Request.Context(), c.Param("registrationNumber"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"records": records, "summary": summary})
}

// Report godoc
// @Summary Review attendance across students
// @Tags Attendance
// @Produce json
// @Param department query string false "Filter by department"
// @Param subjectCode query string false "Filter by subject"
// @Param status query string false "Filter by status"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /attendance/report [get]
func (h *AttendanceHandler) Report(c *gin.Context) {
	filter, err := reportFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	rows, err := h.attendance.Report(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows)
}

// Export godoc
// @Summary Export the attendance report as CSV or PDF
// @Tags Attendance
// @Produce octet-stream
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Router /attendance/report/export [get]
func (h *AttendanceHandler) Export(c *gin.Context) {
	filter, err := reportFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	table, err := h.attendance.ReportTable(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("attendance-report-%s", time.Now().UTC().Format("20060102"))
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := export.CSV(table)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := export.PDF(table, "Attendance Report")
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf"))
	}
}

func reportFilterFromQuery(c *gin.Context) (models.AttendanceFilter, error) {
	filter := models.AttendanceFilter{
		RegistrationNumber: c.Query("registrationNumber"),
		SubjectCode:        c.Query("subjectCode"),
		Department:         c.Query("department"),
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseStatus(raw)
		if !ok {
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown attendance status")
		}
		filter.Status = &status
	}
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return filter, err
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return filter, err
	}
	filter.DateFrom = from
	filter.DateTo = to
	return filter, nil
}

func parseDateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be formatted as YYYY-MM-DD", name))
	}
	return &parsed, nil
}
