package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvisio/track-api/internal/models"
)

func TestAttendanceUpsert(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec("INSERT INTO attendance").WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.AttendanceRecord{
		RegistrationNumber: "HNDIT-001",
		SubjectCode:        "IT101",
		Status:             models.StatusPresent,
		Location:           "Lab 01",
		Date:               time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ArrivalTime:        "08:30",
		MarkedBy:           "admin",
	}
	saved, err := repo.Upsert(context.Background(), record)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceListForStudentWithRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "registration_number", "subject_code", "status", "location", "date", "arrival_time", "remarks", "marked_by", "created_at", "updated_at"}).
		AddRow("a-1", "HNDIT-001", "IT101", "Present", "Lab 01", from, "08:30", "", "admin", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(registration_number) = LOWER($1) AND date >= $2 AND date <= $3 ORDER BY date DESC, subject_code ASC")).
		WithArgs("HNDIT-001", from, to).
		WillReturnRows(rows)

	records, err := repo.ListForStudent(context.Background(), "HNDIT-001", &from, &to)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusPresent, records[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceReportFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "registration_number", "subject_code", "status", "location", "date", "arrival_time", "remarks", "marked_by", "created_at", "updated_at", "student_name", "department", "year"}).
		AddRow("a-1", "HNDIT-001", "IT101", "Late", "Lab 01", now, "08:45", "", "admin", now, now, "Amara Silva", "HNDIT", "1st Year")
	mock.ExpectQuery(regexp.QuoteMeta("AND LOWER(a.subject_code) = LOWER($1) AND u.department = $2 ORDER BY a.date DESC, u.name ASC")).
		WithArgs("IT101", "HNDIT").
		WillReturnRows(rows)

	report, err := repo.Report(context.Background(), models.AttendanceFilter{
		SubjectCode: "IT101",
		Department:  "HNDIT",
	})
	require.NoError(t, err)
	require.Len(t, report, 1)
	assert.Equal(t, "Amara Silva", report[0].StudentName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceSummaryForStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"present", "absent", "late", "excused", "total"}).
		AddRow(7, 2, 1, 0, 10)
	mock.ExpectQuery("FROM attendance WHERE LOWER\\(registration_number\\)").
		WithArgs("HNDIT-001").
		WillReturnRows(rows)

	summary, err := repo.SummaryForStudent(context.Background(), "HNDIT-001")
	require.NoError(t, err)
	assert.Equal(t, 10, summary.Total)
	assert.InDelta(t, 80, summary.Percent, 0.01)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceCountByDate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("Present", 12).
		AddRow("Absent", 3)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM attendance WHERE date = $1 GROUP BY status")).
		WithArgs(date).
		WillReturnRows(rows)

	counts, err := repo.CountByDate(context.Background(), date)
	require.NoError(t, err)
	assert.Equal(t, 12, counts[models.StatusPresent])
	assert.Equal(t, 3, counts[models.StatusAbsent])
	assert.NoError(t, mock.ExpectationsWereMet())
}
