package workflow

import (
	"strings"

	"github.com/mlvisio/track-api/internal/models"
)

// Roster holds the students and subjects fetched for the current filter
// selection. Free-text search narrows the visible set in memory without
// refetching.
type Roster struct {
	students []models.User
	subjects []models.Subject
	search   string
}

// SetSearch updates the free-text query. Search and sort never trigger a
// fetch; they operate on the already loaded roster.
func (r *Roster) SetSearch(query string) {
	r.search = strings.TrimSpace(query)
}

// Search returns the active free-text query.
func (r *Roster) Search() string {
	return r.search
}

// Students returns the full fetched roster, ignoring search.
func (r *Roster) Students() []models.User {
	return r.students
}

// Subjects returns the subjects eligible under the current filters.
func (r *Roster) Subjects() []models.Subject {
	return r.subjects
}

// Visible returns the students passing the active search query.
func (r *Roster) Visible() []models.User {
	if r.search == "" {
		return r.students
	}
	visible := make([]models.User, 0, len(r.students))
	for _, s := range r.students {
		if matchesSearch(s, r.search) {
			visible = append(visible, s)
		}
	}
	return visible
}

func matchesSearch(u models.User, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(u.Name), q) ||
		strings.Contains(strings.ToLower(u.RegistrationNumber), q) ||
		strings.Contains(strings.ToLower(u.Email), q)
}

// filterStudents narrows the full user list to active students matching the
// selection. The backend serves the complete list; scoping is client side.
func filterStudents(users []models.User, f FilterSelection) []models.User {
	students := make([]models.User, 0, len(users))
	for _, u := range users {
		if !u.IsStudent() || !u.Active {
			continue
		}
		if f.Department != "" && string(u.Department) != f.Department {
			continue
		}
		if f.Year != "" && string(u.Year) != f.Year {
			continue
		}
		if f.StudyType != "" && string(u.Type) != f.StudyType {
			continue
		}
		students = append(students, u)
	}
	return students
}

// filterSubjectsByYear keeps only subjects taught in the semesters the
// selected year spans. With no year selected, all subjects pass.
func filterSubjectsByYear(subjects []models.Subject, f FilterSelection) []models.Subject {
	semesters := f.semesters()
	if len(semesters) == 0 {
		return subjects
	}
	filtered := make([]models.Subject, 0, len(subjects))
	for _, subject := range subjects {
		for _, semester := range semesters {
			if subject.Semester == semester {
				filtered = append(filtered, subject)
				break
			}
		}
	}
	return filtered
}
