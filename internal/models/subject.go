package models

import "time"

// Subject represents a course taught in a department semester.
type Subject struct {
	ID           string     `db:"id" json:"id"`
	CourseCode   string     `db:"course_code" json:"courseCode"`
	CourseName   string     `db:"course_name" json:"courseName"`
	Department   Department `db:"department" json:"department"`
	Semester     string     `db:"semester" json:"semester"`
	Credits      int        `db:"credits" json:"credits"`
	LecturerName *string    `db:"lecturer_name" json:"lecturerName,omitempty"`
	Active       bool       `db:"active" json:"active"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// SubjectFilter scopes subject listing.
type SubjectFilter struct {
	Department string
	Semester   string
	Search     string
}
