package models

import (
	"strings"
	"time"
)

// AttendanceStatus is the canonical status vocabulary. Earlier clients used a
// boolean present flag or a lowercase present/late/absent triple; ParseStatus
// maps those legacy forms at the boundary.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
	StatusLate    AttendanceStatus = "Late"
	StatusExcused AttendanceStatus = "Excused"
)

// Valid reports whether the status is a supported canonical value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	default:
		return false
	}
}

// CountsAsPresent reports whether the status implies the student arrived.
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == StatusPresent || s == StatusLate
}

// ParseStatus normalises any of the historical status vocabularies into the
// canonical one. Unknown input yields ok=false.
func ParseStatus(raw string) (AttendanceStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "present", "true":
		return StatusPresent, true
	case "absent", "false":
		return StatusAbsent, true
	case "late":
		return StatusLate, true
	case "excused":
		return StatusExcused, true
	default:
		return "", false
	}
}

// AttendanceRecord is a persisted attendance row. A record is unique per
// registration number, subject code and date.
type AttendanceRecord struct {
	ID                 string           `db:"id" json:"id"`
	RegistrationNumber string           `db:"registration_number" json:"registrationNumber"`
	SubjectCode        string           `db:"subject_code" json:"subjectCode"`
	Status             AttendanceStatus `db:"status" json:"status"`
	Location           string           `db:"location" json:"location"`
	Date               time.Time        `db:"date" json:"date"`
	ArrivalTime        string           `db:"arrival_time" json:"arrivalTime"`
	Remarks            string           `db:"remarks" json:"remarks"`
	MarkedBy           string           `db:"marked_by" json:"markedBy"`
	CreatedAt          time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time        `db:"updated_at" json:"updatedAt"`
}

// AttendanceFilter scopes attendance listings and reports.
type AttendanceFilter struct {
	RegistrationNumber string
	SubjectCode        string
	Department         string
	Status             *AttendanceStatus
	DateFrom           *time.Time
	DateTo             *time.Time
}

// AttendanceReportRow joins an attendance record with student metadata for
// review and export.
type AttendanceReportRow struct {
	AttendanceRecord
	StudentName string     `db:"student_name" json:"studentName"`
	Department  Department `db:"department" json:"department"`
	Year        Year       `db:"year" json:"year"`
}

// AttendanceSummary aggregates a student's attendance for goal tracking.
type AttendanceSummary struct {
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Excused int     `json:"excused"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}
