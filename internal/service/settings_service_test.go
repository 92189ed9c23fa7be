package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvisio/track-api/internal/models"
	"github.com/mlvisio/track-api/pkg/config"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
)

type settingsRepoStub struct {
	values map[string]string
}

func (s *settingsRepoStub) Get(ctx context.Context, key string) (*models.Setting, error) {
	value, ok := s.values[key]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.Setting{Key: key, Value: value}, nil
}

func (s *settingsRepoStub) Set(ctx context.Context, key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

func settingsDefaults() config.AttendanceConfig {
	return config.AttendanceConfig{
		DefaultArrivalTime: "08:30",
		DefaultLocation:    "Lab 01",
	}
}

func TestAttendanceSettingsFallBackToDefaults(t *testing.T) {
	svc := NewSettingsService(&settingsRepoStub{}, settingsDefaults(), nil, nil)

	settings, err := svc.Attendance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 80, settings.GoalPercent)
	assert.Equal(t, "08:30", settings.DefaultArrivalTime)
	assert.Equal(t, "Lab 01", settings.DefaultLocation)
}

func TestAttendanceSettingsStoredOverridesWin(t *testing.T) {
	repo := &settingsRepoStub{values: map[string]string{
		models.SettingAttendanceGoal:     "90",
		models.SettingDefaultLocation:    "Lab 02",
		models.SettingDefaultArrivalTime: "09:00",
	}}
	svc := NewSettingsService(repo, settingsDefaults(), nil, nil)

	settings, err := svc.Attendance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 90, settings.GoalPercent)
	assert.Equal(t, "09:00", settings.DefaultArrivalTime)
	assert.Equal(t, "Lab 02", settings.DefaultLocation)
}

func TestUpdateAttendanceSettings(t *testing.T) {
	repo := &settingsRepoStub{}
	svc := NewSettingsService(repo, settingsDefaults(), nil, nil)

	settings, err := svc.UpdateAttendance(context.Background(), UpdateAttendanceSettingsRequest{
		GoalPercent:        75,
		DefaultArrivalTime: "08:45",
		DefaultLocation:    "Lecture Hall A",
	})
	require.NoError(t, err)
	assert.Equal(t, 75, settings.GoalPercent)
	assert.Equal(t, "08:45", repo.values[models.SettingDefaultArrivalTime])
}

func TestUpdateAttendanceSettingsRejectsBadTime(t *testing.T) {
	svc := NewSettingsService(&settingsRepoStub{}, settingsDefaults(), nil, nil)

	_, err := svc.UpdateAttendance(context.Background(), UpdateAttendanceSettingsRequest{
		GoalPercent:        75,
		DefaultArrivalTime: "late morning",
		DefaultLocation:    "Lab 01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
