package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mlvisio/track-api/internal/models"
)

// AttendanceRepository manages persistence for attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert inserts or replaces the record for the student/subject/date key.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	const query = `INSERT INTO attendance (id, registration_number, subject_code, status, location, date, arrival_time, remarks, marked_by, created_at, updated_at)
        VALUES (:id, :registration_number, :subject_code, :status, :location, :date, :arrival_time, :remarks, :marked_by, :created_at, :updated_at)
        ON CONFLICT (registration_number, subject_code, date)
        DO UPDATE SET status = EXCLUDED.status, location = EXCLUDED.location, arrival_time = EXCLUDED.arrival_time,
            remarks = EXCLUDED.remarks, marked_by = EXCLUDED.marked_by, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}
	return record, nil
}

// ListForStudent returns a student's records, newest first, optionally
// bounded by a date range.
func (r *AttendanceRepository) ListForStudent(ctx context.Context, regNumber string, from, to *time.Time) ([]models.AttendanceRecord, error) {
	query := `SELECT id, registration_number, subject_code, status, location, date, arrival_time, remarks, marked_by, created_at, updated_at
        FROM attendance WHERE LOWER(registration_number) = LOWER($1)`
	args := []interface{}{regNumber}

	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", len(args)+1)
		args = append(args, *from)
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", len(args)+1)
		args = append(args, *to)
	}
	query += " ORDER BY date DESC, subject_code ASC"

	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list student attendance: %w", err)
	}
	return records, nil
}

// Report joins attendance rows with student metadata for review and export.
func (r *AttendanceRepository) Report(ctx context.Context, filter models.AttendanceFilter) ([]models.AttendanceReportRow, error) {
	query := `SELECT a.id, a.registration_number, a.subject_code, a.status, a.location, a.date, a.arrival_time, a.remarks, a.marked_by,
        a.created_at, a.updated_at, u.name AS student_name, u.department, u.year
        FROM attendance a
        JOIN users u ON LOWER(u.registration_number) = LOWER(a.registration_number)
        WHERE 1=1`
	var args []interface{}

	if filter.RegistrationNumber != "" {
		query += fmt.Sprintf(" AND LOWER(a.registration_number) = LOWER($%d)", len(args)+1)
		args = append(args, filter.RegistrationNumber)
	}
	if filter.SubjectCode != "" {
		query += fmt.Sprintf(" AND LOWER(a.subject_code) = LOWER($%d)", len(args)+1)
		args = append(args, filter.SubjectCode)
	}
	if filter.Department != "" {
		query += fmt.Sprintf(" AND u.department = $%d", len(args)+1)
		args = append(args, filter.Department)
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND a.status = $%d", len(args)+1)
		args = append(args, string(*filter.Status))
	}
	if filter.DateFrom != nil {
		query += fmt.Sprintf(" AND a.date >= $%d", len(args)+1)
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query += fmt.Sprintf(" AND a.date <= $%d", len(args)+1)
		args = append(args, *filter.DateTo)
	}
	query += " ORDER BY a.date DESC, u.name ASC"

	var rows []models.AttendanceReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("attendance report: %w", err)
	}
	return rows, nil
}

// SummaryForStudent aggregates a student's attendance counts.
func (r *AttendanceRepository) SummaryForStudent(ctx context.Context, regNumber string) (*models.AttendanceSummary, error) {
	const query = `SELECT
        COUNT(*) FILTER (WHERE status = 'Present') AS present,
        COUNT(*) FILTER (WHERE status = 'Absent') AS absent,
        COUNT(*) FILTER (WHERE status = 'Late') AS late,
        COUNT(*) FILTER (WHERE status = 'Excused') AS excused,
        COUNT(*) AS total
        FROM attendance WHERE LOWER(registration_number) = LOWER($1)`

	var summary struct {
		Present int `db:"present"`
		Absent  int `db:"absent"`
		Late    int `db:"late"`
		Excused int `db:"excused"`
		Total   int `db:"total"`
	}
	if err := r.db.GetContext(ctx, &summary, query, regNumber); err != nil {
		return nil, fmt.Errorf("attendance summary: %w", err)
	}

	result := &models.AttendanceSummary{
		Present: summary.Present,
		Absent:  summary.Absent,
		Late:    summary.Late,
		Excused: summary.Excused,
		Total:   summary.Total,
	}
	if result.Total > 0 {
		attended := result.Present + result.Late
		result.Percent = float64(attended) / float64(result.Total) * 100
	}
	return result, nil
}

// CountByDate returns today's per-status counts for the dashboard.
func (r *AttendanceRepository) CountByDate(ctx context.Context, date time.Time) (map[models.AttendanceStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM attendance WHERE date = $1 GROUP BY status`

	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, date); err != nil {
		return nil, fmt.Errorf("count attendance by date: %w", err)
	}

	counts := make(map[models.AttendanceStatus]int, len(rows))
	for _, row := range rows {
		counts[models.AttendanceStatus(row.Status)] = row.Count
	}
	return counts, nil
}
