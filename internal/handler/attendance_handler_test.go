package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvisio/track-api/internal/middleware"
	"github.com/mlvisio/track-api/internal/models"
	"github.com/mlvisio/track-api/internal/service"
)

type markRepoStub struct {
	saved *models.AttendanceRecord
}

func (s *markRepoStub) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	s.saved = record
	return record, nil
}

func (s *markRepoStub) ListForStudent(ctx context.Context, regNumber string, from, to *time.Time) ([]models.AttendanceRecord, error) {
	return nil, nil
}

func (s *markRepoStub) Report(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceReportRow, error) {
	return nil, nil
}

func (s *markRepoStub) SummaryForStudent(ctx context.Context, regNumber string) (*models.AttendanceSummary, error) {
	return &models.AttendanceSummary{}, nil
}

type studentLookupStub struct{}

func (studentLookupStub) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return &models.User{
		ID:                 "u-1",
		RegistrationNumber: identifier,
		Role:               models.RoleStudent,
		Active:             true,
	}, nil
}

type courseLookupStub struct{}

func (courseLookupStub) FindByCode(ctx context.Context, code string) (*models.Subject, error) {
	return &models.Subject{CourseCode: code}, nil
}

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Message string                 `json:"message"`
}

func newMarkHandler(t *testing.T) (*AttendanceHandler, *markRepoStub) {
	t.Helper()
	repo := &markRepoStub{}
	svc := service.NewAttendanceService(repo, studentLookupStub{}, courseLookupStub{}, nil, nil, nil)
	return NewAttendanceHandler(svc, nil), repo
}

func TestMarkHandlerSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newMarkHandler(t)

	body, _ := json.Marshal(map[string]string{
		"registrationNumber": "HNDIT-001",
		"subjectCode":        "IT101",
		"status":             "Present",
		"location":           "Lab 01",
		"date":               "2024-03-01",
		"arrivalTime":        "08:30",
	})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/mark", bytes.NewReader(body))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})

	handler.Mark(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "attendance recorded", env.Message)
	require.NotNil(t, repo.saved)
	assert.Equal(t, "admin-1", repo.saved.MarkedBy)
}

func TestMarkHandlerRejectsBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newMarkHandler(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/mark", bytes.NewReader([]byte("{not json")))

	handler.Mark(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Nil(t, repo.saved)
}

func TestMarkHandlerRejectsUnknownStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, repo := newMarkHandler(t)

	body, _ := json.Marshal(map[string]string{
		"registrationNumber": "HNDIT-001",
		"subjectCode":        "IT101",
		"status":             "Perhaps",
		"date":               "2024-03-01",
	})
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/mark", bytes.NewReader(body))

	handler.Mark(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, repo.saved)
}

func TestReportHandlerRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newMarkHandler(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/report?from=01-03-2024", nil)

	handler.Report(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerServesCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newMarkHandler(t)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/report/export?format=csv", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".csv")
}
