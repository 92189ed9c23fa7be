package models

import "time"

// ScheduleEntry is a recurring weekly class slot.
type ScheduleEntry struct {
	ID           string     `db:"id" json:"id"`
	SubjectCode  string     `db:"subject_code" json:"subjectCode"`
	SubjectName  string     `db:"subject_name" json:"subjectName"`
	Department   Department `db:"department" json:"department"`
	Year         Year       `db:"year" json:"year"`
	DayOfWeek    int        `db:"day_of_week" json:"dayOfWeek"`
	StartTime    string     `db:"start_time" json:"startTime"`
	EndTime      string     `db:"end_time" json:"endTime"`
	Location     string     `db:"location" json:"location"`
	LecturerName string     `db:"lecturer_name" json:"lecturerName"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// ScheduleFilter scopes schedule listings.
type ScheduleFilter struct {
	Department string
	Year       string
	DayOfWeek  *int
}
