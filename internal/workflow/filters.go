// Package workflow implements the manual attendance entry session: filter
// selection, roster loading, the in-memory attendance ledger, bulk operators
// with bounded undo, and the concurrent batch submitter.
package workflow

import "github.com/mlvisio/track-api/internal/models"

// FilterSelection holds the roster filters for a session. Fields are unset
// when empty. No validation happens here; the submitter checks its own
// preconditions.
type FilterSelection struct {
	Department  string
	Year        string
	StudyType   string
	SubjectCode string
	Date        string // YYYY-MM-DD
}

// SetDepartment selects a department. The subject belongs to the previous
// department scope, so it is cleared.
func (f *FilterSelection) SetDepartment(department string) {
	if f.Department == department {
		return
	}
	f.Department = department
	f.SubjectCode = ""
}

// SetYear selects a year. Subjects are semester-scoped per year, so the
// selected subject is cleared.
func (f *FilterSelection) SetYear(year string) {
	if f.Year == year {
		return
	}
	f.Year = year
	f.SubjectCode = ""
}

// SetStudyType selects full-time or part-time.
func (f *FilterSelection) SetStudyType(studyType string) {
	f.StudyType = studyType
}

// SetSubject selects the subject code.
func (f *FilterSelection) SetSubject(code string) {
	f.SubjectCode = code
}

// SetDate selects the attendance date (YYYY-MM-DD).
func (f *FilterSelection) SetDate(date string) {
	f.Date = date
}

// semesters returns the semesters covered by the selected year, or nil when
// no year is chosen.
func (f FilterSelection) semesters() []string {
	return models.Year(f.Year).Semesters()
}
