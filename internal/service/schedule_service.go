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
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

// ScheduleEntryRequest carries create/update fields for a weekly slot.
type ScheduleEntryRequest struct {
	SubjectCode  string `json:"subjectCode" validate:"required"`
	SubjectName  string `json:"subjectName" validate:"required"`
	Department   string `json:"department" validate:"required,department"`
	Year         string `json:"year" validate:"required,study_year"`
	DayOfWeek    int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	Location     string `json:"location" validate:"required"`
	LecturerName string `json:"lecturerName"`
}

// ScheduleService manages the weekly timetable.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ScheduleService{repo: repo, validator: validate, logger: logger, now: time.Now}
	registerDomainValidations(svc.validator)
	return svc
}

// Weekly returns the full weekly timetable for the filter.
func (s *ScheduleService) Weekly(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error) {
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}
	return entries, nil
}

// Today returns the slots scheduled for the current weekday.
func (s *ScheduleService) Today(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleEntry, error) {
	day := int(s.now().Weekday())
	filter.DayOfWeek = &day
	return s.Weekly(ctx, filter)
}

// Create adds a new slot to the timetable.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := validateSlotTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	entry := &models.ScheduleEntry{
		SubjectCode:  strings.ToUpper(strings.TrimSpace(req.SubjectCode)),
		SubjectName:  strings.TrimSpace(req.SubjectName),
		Department:   models.Department(req.Department),
		Year:         models.Year(req.Year),
		DayOfWeek:    req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		LecturerName: req.LecturerName,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	return entry, nil
}

// Update modifies an existing slot.
func (s *ScheduleService) Update(ctx context.Context, id string, req ScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if err := validateSlotTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule entry")
	}

	entry.SubjectCode = strings.ToUpper(strings.TrimSpace(req.SubjectCode))
	entry.SubjectName = strings.TrimSpace(req.SubjectName)
	entry.Department = models.Department(req.Department)
	entry.Year = models.Year(req.Year)
	entry.DayOfWeek = req.DayOfWeek
	entry.StartTime = req.StartTime
	entry.EndTime = req.EndTime
	entry.Location = req.Location
	entry.LecturerName = req.LecturerName

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}
	return entry, nil
}

// Delete removes a slot.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	return nil
}

func validateSlotTimes(start, end string) error {
	startT, err := time.Parse("15:04", start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "startTime must be formatted as HH:MM")
	}
	endT, err := time.Parse("15:04", end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "endTime must be formatted as HH:MM")
	}
	if !endT.After(startT) {
		return appErrors.Clone(appErrors.ErrValidation, "endTime must be after startTime")
	}
	return nil
}
