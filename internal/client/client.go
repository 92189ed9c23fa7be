// Package client is a typed HTTP client for the track API. The manual
// attendance workflow and the attendctl CLI use it to load rosters and
// subjects and to push marked records back to the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mlvisio/track-api/internal/models"
)

const defaultTimeout = 15 * time.Second

// APIError is a non-success response decoded from the server envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.StatusCode)
}

// MarkAttendanceRequest is the wire payload for POST /attendance/mark.
type MarkAttendanceRequest struct {
	RegistrationNumber string `json:"registrationNumber"`
	SubjectCode        string `json:"subjectCode"`
	Status             string `json:"status"`
	Location           string `json:"location"`
	Date               string `json:"date"`
	ArrivalTime        string `json:"arrivalTime,omitempty"`
	Remarks            string `json:"remarks,omitempty"`
}

// Client talks to the track API over its JSON envelope contract.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a Client for the given base URL, e.g. "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, typically after Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and stores the issued token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp, nil
}

// ListUsers fetches users matching the filter.
func (c *Client) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	query := url.Values{}
	if filter.Role != nil {
		query.Set("role", string(*filter.Role))
	}
	if filter.Department != "" {
		query.Set("department", filter.Department)
	}
	if filter.Year != "" {
		query.Set("year", filter.Year)
	}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/users/list", query, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListStudents fetches every student account. The workflow filters the
// result client side.
func (c *Client) ListStudents(ctx context.Context) ([]models.User, error) {
	role := models.RoleStudent
	return c.ListUsers(ctx, models.UserFilter{Role: &role})
}

// ListSubjects fetches active subjects, optionally scoped to a department
// and semester.
func (c *Client) ListSubjects(ctx context.Context, department, semester string) ([]models.Subject, error) {
	query := url.Values{}
	if department != "" {
		query.Set("department", department)
	}
	if semester != "" {
		query.Set("semester", semester)
	}

	var subjects []models.Subject
	if err := c.do(ctx, http.MethodGet, "/subjects", query, nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// MarkAttendance posts a single attendance record.
func (c *Client) MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	if err := c.do(ctx, http.MethodPost, "/attendance/mark", nil, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response for %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", env.Message),
		)
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode payload for %s %s: %w", method, path, err)
		}
	}
	return nil
}
