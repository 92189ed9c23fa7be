package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mlvisio/track-api/internal/models"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
	"github.com/mlvisio/track-api/pkg/export"
)

type attendanceRepository interface {
	Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	ListForStudent(ctx context.Context, regNumber string, from, to *time.Time) ([]models.AttendanceRecord, error)
	Report(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceReportRow, error)
	SummaryForStudent(ctx context.Context, regNumber string) (*models.AttendanceSummary, error)
}

type attendanceUserLookup interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
}

type attendanceSubjectLookup interface {
	FindByCode(ctx context.Context, code string) (*models.Subject, error)
}

type dashboardInvalidator interface {
	Delete(ctx context.Context, keys ...string) error
}

// MarkAttendanceRequest is the payload accepted by POST /attendance/mark.
// Status accepts the canonical vocabulary plus the legacy boolean and
// lowercase forms.
type MarkAttendanceRequest struct {
	RegistrationNumber string `json:"registrationNumber" validate:"required"`
	SubjectCode        string `json:"subjectCode" validate:"required"`
	Status             string `json:"status" validate:"required,attendance_status"`
	Location           string `json:"location"`
	Date               string `json:"date" validate:"required"`
	ArrivalTime        string `json:"arrivalTime"`
	Remarks            string `json:"remarks"`
}

// AttendanceService coordinates attendance marking and reporting.
type AttendanceService struct {
	repo      attendanceRepository
	users     attendanceUserLookup
	subjects  attendanceSubjectLookup
	cache     dashboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, users attendanceUserLookup, subjects attendanceSubjectLookup, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AttendanceService{repo: repo, users: users, subjects: subjects, cache: cache, validator: validate, logger: logger}
	registerDomainValidations(svc.validator)
	return svc
}

// Mark upserts a single attendance record after resolving the student and
// subject. Absent records never carry an arrival time.
func (s *AttendanceService) Mark(ctx context.Context, markedBy string, req MarkAttendanceRequest) (*models.AttendanceRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	status, _ := models.ParseStatus(req.Status)

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted as YYYY-MM-DD")
	}

	student, err := s.users.FindByIdentifier(ctx, req.RegistrationNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	if !student.IsStudent() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "registration number does not belong to a student")
	}

	if _, err := s.subjects.FindByCode(ctx, req.SubjectCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch subject")
	}

	arrivalTime := strings.TrimSpace(req.ArrivalTime)
	if status == models.StatusAbsent {
		arrivalTime = ""
	}

	record := &models.AttendanceRecord{
		RegistrationNumber: student.RegistrationNumber,
		SubjectCode:        strings.ToUpper(strings.TrimSpace(req.SubjectCode)),
		Status:             status,
		Location:           req.Location,
		Date:               date,
		ArrivalTime:        arrivalTime,
		Remarks:            req.Remarks,
		MarkedBy:           markedBy,
	}

	saved, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save attendance")
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
		}
	}

	s.logger.Info("attendance marked",
		zap.String("registration_number", saved.RegistrationNumber),
		zap.String("subject_code", saved.SubjectCode),
		zap.String("status", string(saved.Status)),
		zap.String("date", req.Date),
	)
	return saved, nil
}

// StudentHistory returns a student's records plus the aggregated summary.
func (s *AttendanceService) StudentHistory(ctx context.Context, regNumber string, from, to *time.Time) ([]models.AttendanceRecord, *models.AttendanceSummary, error) {
	records, err := s.repo.ListForStudent(ctx, regNumber, from, to)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	summary, err := s.repo.SummaryForStudent(ctx, regNumber)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise attendance")
	}
	return records, summary, nil
}

// Report returns attendance joined with student metadata.
func (s *AttendanceService) Report(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceReportRow, error) {
	rows, err := s.repo.Report(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build report")
	}
	return rows, nil
}

// ReportTable shapes report rows for the CSV/PDF renderers.
func (s *AttendanceService) ReportTable(ctx context.Context, filter models.AttendanceFilter) (export.Table, error) {
	rows, err := s.Report(ctx, filter)
	if err != nil {
		return export.Table{}, err
	}

	table := export.Table{
		Columns: []string{"Date", "Registration No", "Student", "Department", "Subject", "Status", "Arrival", "Location", "Remarks"},
	}
	for _, row := range rows {
		table.AddRow(
			row.Date.Format("2006-01-02"),
			row.RegistrationNumber,
			row.StudentName,
			string(row.Department),
			row.SubjectCode,
			string(row.Status),
			row.ArrivalTime,
			row.Location,
			row.Remarks,
		)
	}
	return table, nil
}
