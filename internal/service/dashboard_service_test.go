package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvisio/track-api/internal/models"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
)

type dashboardUsersStub struct {
	students []models.User
}

func (s dashboardUsersStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	return s.students, nil
}

type dashboardSubjectsStub struct {
	count int
}

func (s dashboardSubjectsStub) Count(ctx context.Context) (int, error) {
	return s.count, nil
}

type dashboardAttendanceStub struct {
	counts map[models.AttendanceStatus]int
}

func (s dashboardAttendanceStub) CountByDate(ctx context.Context, date time.Time) (map[models.AttendanceStatus]int, error) {
	return s.counts, nil
}

type cacheStub struct {
	stored map[string]*models.DashboardStats
	sets   int
}

func (s *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	stats, ok := s.stored[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	*dest.(*models.DashboardStats) = *stats
	return nil
}

func (s *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.stored == nil {
		s.stored = make(map[string]*models.DashboardStats)
	}
	s.stored[key] = value.(*models.DashboardStats)
	s.sets++
	return nil
}

func TestDashboardStatsBuildsAndCaches(t *testing.T) {
	cache := &cacheStub{}
	svc := NewDashboardService(
		dashboardUsersStub{students: []models.User{
			{ID: "u-1", Department: models.DepartmentHNDIT},
			{ID: "u-2", Department: models.DepartmentHNDIT},
			{ID: "u-3", Department: models.DepartmentHNDA},
		}},
		dashboardSubjectsStub{count: 12},
		dashboardAttendanceStub{counts: map[models.AttendanceStatus]int{
			models.StatusPresent: 2,
			models.StatusAbsent:  1,
		}},
		cache,
		time.Minute,
		nil,
	)

	stats, cacheHit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 3, stats.TotalStudents)
	assert.Equal(t, 12, stats.TotalSubjects)
	assert.Equal(t, 3, stats.MarkedToday)
	assert.Equal(t, 2, stats.PresentToday)
	assert.Equal(t, 2, stats.ByDepartment["HNDIT"])
	assert.Equal(t, 1, cache.sets)

	// Second read is served from cache without rebuilding.
	again, cacheHit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, cacheHit)
	assert.Equal(t, stats.TotalStudents, again.TotalStudents)
	assert.Equal(t, 1, cache.sets)
}

func TestDashboardStatsWithoutCache(t *testing.T) {
	svc := NewDashboardService(
		dashboardUsersStub{},
		dashboardSubjectsStub{count: 5},
		dashboardAttendanceStub{},
		nil,
		time.Minute,
		nil,
	)

	stats, cacheHit, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 5, stats.TotalSubjects)
	assert.Zero(t, stats.MarkedToday)
}
