package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mlvisio/track-api/internal/models"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:stats"

type dashboardUserRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
}

type dashboardSubjectRepository interface {
	Count(ctx context.Context) (int, error)
}

type dashboardAttendanceRepository interface {
	CountByDate(ctx context.Context, date time.Time) (map[models.AttendanceStatus]int, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardService assembles (and caches) the admin dashboard snapshot.
type DashboardService struct {
	users      dashboardUserRepository
	subjects   dashboardSubjectRepository
	attendance dashboardAttendanceRepository
	cache      dashboardCache
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(users dashboardUserRepository, subjects dashboardSubjectRepository, attendance dashboardAttendanceRepository, cache dashboardCache, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		users:      users,
		subjects:   subjects,
		attendance: attendance,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Stats returns the dashboard snapshot, serving from cache when fresh. The
// second return reports whether the snapshot was a cache hit.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	if s.cache != nil {
		var cached models.DashboardStats
		if err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil {
			return &cached, true, nil
		}
	}

	stats, err := s.build(ctx)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, false, nil
}

func (s *DashboardService) build(ctx context.Context) (*models.DashboardStats, error) {
	role := models.RoleStudent
	active := true
	students, err := s.users.List(ctx, models.UserFilter{Role: &role, Active: &active})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	subjectCount, err := s.subjects.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count subjects")
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	counts, err := s.attendance.CountByDate(ctx, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count attendance")
	}

	byDepartment := make(map[string]int)
	for _, student := range students {
		byDepartment[string(student.Department)]++
	}

	marked := 0
	for _, n := range counts {
		marked += n
	}

	return &models.DashboardStats{
		TotalStudents:   len(students),
		TotalSubjects:   subjectCount,
		MarkedToday:     marked,
		PresentToday:    counts[models.StatusPresent],
		AbsentToday:     counts[models.StatusAbsent],
		LateToday:       counts[models.StatusLate],
		ByDepartment:    byDepartment,
		StatusBreakdown: counts,
		GeneratedAt:     s.now().UTC().Format(time.RFC3339),
	}, nil
}
