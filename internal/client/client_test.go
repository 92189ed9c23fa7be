package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvisio/track-api/internal/models"
)

func writeEnvelope(w http.ResponseWriter, status int, success bool, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": success,
		"data":    data,
		"message": message,
	})
}

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "admin@track.test", req.Email)

		writeEnvelope(w, http.StatusOK, true, models.LoginResponse{
			Token: "token-123",
			User:  &models.User{Email: req.Email, Role: models.RoleAdmin},
		}, "")
	}))
	t.Cleanup(server.Close)

	c := New(server.URL)
	resp, err := c.Login(context.Background(), "admin@track.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-123", resp.Token)
	assert.Equal(t, "token-123", c.token)
}

func TestListStudentsSendsRoleAndBearer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/list", r.URL.Path)
		assert.Equal(t, "student", r.URL.Query().Get("role"))
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		writeEnvelope(w, http.StatusOK, true, []models.User{
			{ID: "u-1", Name: "Amara Silva", RegistrationNumber: "HNDIT-001", Role: models.RoleStudent},
		}, "")
	}))
	t.Cleanup(server.Close)

	c := New(server.URL, WithToken("token-123"))
	students, err := c.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "HNDIT-001", students[0].RegistrationNumber)
}

func TestListSubjectsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subjects", r.URL.Path)
		assert.Equal(t, "HNDIT", r.URL.Query().Get("department"))
		writeEnvelope(w, http.StatusOK, true, []models.Subject{{CourseCode: "IT101"}}, "")
	}))
	t.Cleanup(server.Close)

	c := New(server.URL)
	subjects, err := c.ListSubjects(context.Background(), "HNDIT", "")
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "IT101", subjects[0].CourseCode)
}

func TestMarkAttendance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/attendance/mark", r.URL.Path)

		var req MarkAttendanceRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Present", req.Status)

		writeEnvelope(w, http.StatusCreated, true, models.AttendanceRecord{
			RegistrationNumber: req.RegistrationNumber,
			Status:             models.StatusPresent,
		}, "attendance marked")
	}))
	t.Cleanup(server.Close)

	c := New(server.URL)
	record, err := c.MarkAttendance(context.Background(), MarkAttendanceRequest{
		RegistrationNumber: "HNDIT-001",
		SubjectCode:        "IT101",
		Status:             "Present",
		Date:               "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "HNDIT-001", record.RegistrationNumber)
}

func TestEnvelopeFailureBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, false, nil, "student not found")
	}))
	t.Cleanup(server.Close)

	c := New(server.URL)
	_, err := c.MarkAttendance(context.Background(), MarkAttendanceRequest{RegistrationNumber: "ghost"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "student not found", apiErr.Message)
}

func TestSuccessFalseWith200IsStillAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, false, nil, "something went wrong")
	}))
	t.Cleanup(server.Close)

	c := New(server.URL)
	_, err := c.ListStudents(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "something went wrong", apiErr.Message)
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := New(server.URL)
	_, err := c.ListStudents(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
