package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mlvisio/track-api/internal/models"
	"github.com/mlvisio/track-api/pkg/config"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, key, value string) error
}

// UpdateAttendanceSettingsRequest carries admin edits to attendance defaults.
type UpdateAttendanceSettingsRequest struct {
	GoalPercent        int    `json:"requiredPercentage" validate:"min=0,max=100"`
	DefaultArrivalTime string `json:"defaultArrivalTime" validate:"required"`
	DefaultLocation    string `json:"defaultLocation" validate:"required"`
}

// SettingsService exposes the attendance defaults, falling back to the
// configured values when no override is stored.
type SettingsService struct {
	repo      settingsRepository
	defaults  config.AttendanceConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, defaults config.AttendanceConfig, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, defaults: defaults, validator: validate, logger: logger}
}

// Attendance returns the effective attendance settings.
func (s *SettingsService) Attendance(ctx context.Context) (*models.AttendanceSettings, error) {
	settings := &models.AttendanceSettings{
		GoalPercent:        80,
		DefaultArrivalTime: s.defaults.DefaultArrivalTime,
		DefaultLocation:    s.defaults.DefaultLocation,
	}

	if value, err := s.lookup(ctx, models.SettingAttendanceGoal); err != nil {
		return nil, err
	} else if value != "" {
		if goal, err := strconv.Atoi(value); err == nil {
			settings.GoalPercent = goal
		}
	}
	if value, err := s.lookup(ctx, models.SettingDefaultArrivalTime); err != nil {
		return nil, err
	} else if value != "" {
		settings.DefaultArrivalTime = value
	}
	if value, err := s.lookup(ctx, models.SettingDefaultLocation); err != nil {
		return nil, err
	} else if value != "" {
		settings.DefaultLocation = value
	}

	return settings, nil
}

// UpdateAttendance stores admin overrides for the attendance defaults.
func (s *SettingsService) UpdateAttendance(ctx context.Context, req UpdateAttendanceSettingsRequest) (*models.AttendanceSettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	if _, err := time.Parse("15:04", req.DefaultArrivalTime); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "defaultArrivalTime must be formatted as HH:MM")
	}

	if err := s.repo.Set(ctx, models.SettingAttendanceGoal, strconv.Itoa(req.GoalPercent)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store settings")
	}
	if err := s.repo.Set(ctx, models.SettingDefaultArrivalTime, req.DefaultArrivalTime); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store settings")
	}
	if err := s.repo.Set(ctx, models.SettingDefaultLocation, req.DefaultLocation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store settings")
	}

	return s.Attendance(ctx)
}

func (s *SettingsService) lookup(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read settings")
	}
	return setting.Value, nil
}
