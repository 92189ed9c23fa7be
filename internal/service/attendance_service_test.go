package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvisio/track-api/internal/models"
	appErrors "github.com/mlvisio/track-api/pkg/errors"
)

type attendanceRepoStub struct {
	saved   *models.AttendanceRecord
	records []models.AttendanceRecord
	summary *models.AttendanceSummary
}

func (s *attendanceRepoStub) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	s.saved = record
	return record, nil
}

func (s *attendanceRepoStub) ListForStudent(ctx context.Context, regNumber string, from, to *time.Time) ([]models.AttendanceRecord, error) {
	return s.records, nil
}

func (s *attendanceRepoStub) Report(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceReportRow, error) {
	return nil, nil
}

func (s *attendanceRepoStub) SummaryForStudent(ctx context.Context, regNumber string) (*models.AttendanceSummary, error) {
	return s.summary, nil
}

type userLookupStub struct {
	user *models.User
	err  error
}

func (s userLookupStub) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type subjectLookupStub struct {
	err error
}

func (s subjectLookupStub) FindByCode(ctx context.Context, code string) (*models.Subject, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Subject{CourseCode: code}, nil
}

type invalidatorStub struct {
	deleted []string
}

func (s *invalidatorStub) Delete(ctx context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys...)
	return nil
}

func markTestService(repo *attendanceRepoStub, users userLookupStub, subjects subjectLookupStub, cache *invalidatorStub) *AttendanceService {
	return NewAttendanceService(repo, users, subjects, cache, nil, nil)
}

func studentFixture() *models.User {
	return &models.User{
		ID:                 "u-1",
		Name:               "Amara Silva",
		RegistrationNumber: "HNDIT-001",
		Role:               models.RoleStudent,
		Active:             true,
	}
}

func TestMarkUpsertsAndInvalidatesDashboard(t *testing.T) {
	repo := &attendanceRepoStub{}
	cache := &invalidatorStub{}
	svc := markTestService(repo, userLookupStub{user: studentFixture()}, subjectLookupStub{}, cache)

	record, err := svc.Mark(context.Background(), "admin", MarkAttendanceRequest{
		RegistrationNumber: "HNDIT-001",
		SubjectCode:        "it101",
		Status:             "present",
		Location:           "Lab 01",
		Date:               "2024-03-01",
		ArrivalTime:        "08:45",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPresent, record.Status)
	assert.Equal(t, "IT101", record.SubjectCode)
	assert.Equal(t, "08:45", record.ArrivalTime)
	assert.Equal(t, "admin", record.MarkedBy)
	assert.Equal(t, []string{dashboardCacheKey}, cache.deleted)
}

func TestMarkAbsentDropsArrivalTime(t *testing.T) {
	repo := &attendanceRepoStub{}
	svc := markTestService(repo, userLookupStub{user: studentFixture()}, subjectLookupStub{}, &invalidatorStub{})

	record, err := svc.Mark(context.Background(), "admin", MarkAttendanceRequest{
		RegistrationNumber: "HNDIT-001",
		SubjectCode:        "IT101",
		Status:             "Absent",
		Date:               "2024-03-01",
		ArrivalTime:        "08:30",
	})
	require.NoError(t, err)
	assert.Empty(t, record.ArrivalTime)
}

func TestMarkAcceptsLegacyBooleanStatus(t *testing.T) {
	repo := &attendanceRepoStub{}
	svc := markTestService(repo, userLookupStub{user: studentFixture()}, subjectLookupStub{}, &invalidatorStub{})

	record, err := svc.Mark(context.Background(), "admin", MarkAttendanceRequest{
		RegistrationNumber: "HNDIT-001",
		SubjectCode:        "IT101",
		Status:             "true",
		Date:               "2024-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPresent, record.Status)
}

func TestMarkRejectsUnknownStudent(t *testing.T) {
	svc := markTestService(&attendanceRepoStub{}, userLookupStub{err: sql.ErrNoRows}, subjectLookupStub{}, &invalidatorStub{})

	_, err := svc.Mark(context.Background(), "admin", MarkAttendanceRequest{
		RegistrationNumber: "GHOST-001",
		SubjectCode:        "IT101",
		Status:             "Present",
		Date:               "2024-03-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMarkRejectsNonStudent(t *testing.T) {
	admin := &models.User{ID: "u-9", Role: models.RoleAdmin, Active: true}
	svc := markTestService(&attendanceRepoStub{}, userLookupStub{user: admin}, subjectLookupStub{}, &invalidatorStub{})

	_, err := svc.Mark(context.Background(), "admin", MarkAttendanceRequest{
		RegistrationNumber: "u-9",
		SubjectCode:        "IT101",
		Status:             "Present",
		Date:               "2024-03-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMarkRejectsBadDate(t *testing.T) {
	svc := markTestService(&attendanceRepoStub{}, userLookupStub{user: studentFixture()}, subjectLookupStub{}, &invalidatorStub{})

	_, err := svc.Mark(context.Background(), "admin", MarkAttendanceRequest{
		RegistrationNumber: "HNDIT-001",
		SubjectCode:        "IT101",
		Status:             "Present",
		Date:               "01/03/2024",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentHistoryReturnsSummary(t *testing.T) {
	repo := &attendanceRepoStub{
		records: []models.AttendanceRecord{{RegistrationNumber: "HNDIT-001", Status: models.StatusPresent}},
		summary: &models.AttendanceSummary{Present: 1, Total: 1, Percent: 100},
	}
	svc := markTestService(repo, userLookupStub{user: studentFixture()}, subjectLookupStub{}, &invalidatorStub{})

	records, summary, err := svc.StudentHistory(context.Background(), "HNDIT-001", nil, nil)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, summary.Present)
}
