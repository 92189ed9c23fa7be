package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleLecturer UserRole = "lecturer"
	RoleStudent  UserRole = "student"
)

// Department is one of the four higher-national-diploma programmes.
type Department string

const (
	DepartmentHNDIT Department = "HNDIT"
	DepartmentHNDA  Department = "HNDA"
	DepartmentHNDM  Department = "HNDM"
	DepartmentHNDE  Department = "HNDE"
)

// Valid reports whether the department is a supported value.
func (d Department) Valid() bool {
	switch d {
	case DepartmentHNDIT, DepartmentHNDA, DepartmentHNDM, DepartmentHNDE:
		return true
	default:
		return false
	}
}

// Year is the student's academic year.
type Year string

const (
	YearFirst  Year = "1st Year"
	YearSecond Year = "2nd Year"
	YearThird  Year = "3rd Year"
)

// Valid reports whether the year is a supported value.
func (y Year) Valid() bool {
	switch y {
	case YearFirst, YearSecond, YearThird:
		return true
	default:
		return false
	}
}

// Semesters returns the semesters taught during the year. Subjects are
// labelled per semester, so a year maps to the pair of semesters it spans.
func (y Year) Semesters() []string {
	switch y {
	case YearFirst:
		return []string{"1st Semester", "2nd Semester"}
	case YearSecond:
		return []string{"3rd Semester", "4th Semester"}
	case YearThird:
		return []string{"5th Semester", "6th Semester"}
	default:
		return nil
	}
}

// StudyType distinguishes full-time from part-time students.
type StudyType string

const (
	StudyFullTime StudyType = "Full Time"
	StudyPartTime StudyType = "Part Time"
)

// Valid reports whether the study type is a supported value.
func (t StudyType) Valid() bool {
	return t == StudyFullTime || t == StudyPartTime
}

// User represents an application user stored in the users table. Students
// carry the registration number, department, year and study type used by the
// attendance workflow; staff accounts leave them empty.
type User struct {
	ID                 string     `db:"id" json:"id"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	Name               string     `db:"name" json:"name"`
	RegistrationNumber string     `db:"registration_number" json:"registrationNumber,omitempty"`
	Department         Department `db:"department" json:"department,omitempty"`
	Year               Year       `db:"year" json:"year,omitempty"`
	Type               StudyType  `db:"type" json:"type,omitempty"`
	Role               UserRole   `db:"role" json:"role"`
	Active             bool       `db:"active" json:"active"`
	LastLogin          *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updatedAt"`
}

// IsStudent reports whether the user participates in attendance marking.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role       *UserRole
	Department string
	Year       string
	Type       string
	Active     *bool
	Search     string
}
