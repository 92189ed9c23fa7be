package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mlvisio/track-api/internal/client"
	"github.com/mlvisio/track-api/internal/models"
)

// User-facing precondition messages. These are part of the session contract;
// callers display them verbatim.
const (
	MsgSelectDate       = "Please select a date"
	MsgSelectSubject    = "Please select a subject"
	MsgSelectFilters    = "Please select department, year and type"
	MsgMarkAtLeastOne   = "Please mark attendance for at least one student"
	MsgNothingToUndo    = "Nothing to undo"
	MsgFetchInProgress  = "Roster is still loading"
	MsgSubmitInProgress = "Submission already in progress"
)

// Notice is a non-fatal, user-facing precondition failure. It never reaches
// the network.
type Notice struct {
	Message string
}

func (n *Notice) Error() string {
	return n.Message
}

// IsNotice reports whether err is a user-facing notice.
func IsNotice(err error) bool {
	var n *Notice
	return errors.As(err, &n)
}

type apiClient interface {
	ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error)
	ListSubjects(ctx context.Context, department, semester string) ([]models.Subject, error)
	MarkAttendance(ctx context.Context, req client.MarkAttendanceRequest) (*models.AttendanceRecord, error)
}

// Config carries the session defaults, typically sourced from
// config.AttendanceConfig and config.SubmitConfig.
type Config struct {
	DefaultArrivalTime string
	DefaultLocation    string
	PerCallTimeout     time.Duration
	MaxInFlight        int
	// StrictFilters additionally requires department, year and type to be
	// selected before submission.
	StrictFilters bool
	UndoDepth     int
}

// SubmitResult aggregates the fan-out outcome of one submission.
type SubmitResult struct {
	Submitted    int
	SuccessCount int
	// Failed lists the registration numbers whose calls did not succeed,
	// so the caller can offer a targeted retry.
	Failed []string
}

// Session is one manual attendance entry instance. All mutation happens from
// the caller's goroutine; the only internal concurrency is the submit
// fan-out. Sessions are not safe for concurrent use.
type Session struct {
	api     apiClient
	cfg     Config
	logger  *zap.Logger
	filters FilterSelection
	roster  *Roster
	ledger  *Ledger
	history *History

	fetching   bool
	submitting bool
}

// NewSession builds a session against the given API client.
func NewSession(api apiClient, cfg Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PerCallTimeout <= 0 {
		cfg.PerCallTimeout = 10 * time.Second
	}
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = 8
	}
	return &Session{
		api:     api,
		cfg:     cfg,
		logger:  logger,
		roster:  &Roster{},
		ledger:  NewLedger(cfg.DefaultArrivalTime),
		history: NewHistory(cfg.UndoDepth),
	}
}

// Filters returns the current filter selection.
func (s *Session) Filters() FilterSelection {
	return s.filters
}

// SetDepartment selects a department, clearing the selected subject.
func (s *Session) SetDepartment(department string) { s.filters.SetDepartment(department) }

// SetYear selects a year, clearing the selected subject.
func (s *Session) SetYear(year string) { s.filters.SetYear(year) }

// SetStudyType selects full-time or part-time.
func (s *Session) SetStudyType(studyType string) { s.filters.SetStudyType(studyType) }

// SetSubject selects the subject code.
func (s *Session) SetSubject(code string) { s.filters.SetSubject(code) }

// SetDate selects the attendance date.
func (s *Session) SetDate(date string) { s.filters.SetDate(date) }

// SetSearch narrows the visible set in memory. Never triggers a fetch.
func (s *Session) SetSearch(query string) { s.roster.SetSearch(query) }

// Subjects returns the subjects eligible under the current filters.
func (s *Session) Subjects() []models.Subject { return s.roster.Subjects() }

// Roster returns the full fetched student roster.
func (s *Session) Roster() []models.User { return s.roster.Students() }

// Visible returns the students passing the active search.
func (s *Session) Visible() []models.User { return s.roster.Visible() }

// Entry returns a copy of one student's ledger entry.
func (s *Session) Entry(studentID string) (EntryRecord, bool) { return s.ledger.Get(studentID) }

// LedgerSnapshot returns a point-in-time copy of the whole ledger.
func (s *Session) LedgerSnapshot() map[string]EntryRecord { return s.ledger.Snapshot() }

// LoadRoster fetches subjects and students for the current filters and seeds
// a fresh ledger. A fetch failure leaves empty sets but keeps the session
// usable; the returned error is the user-visible notice.
func (s *Session) LoadRoster(ctx context.Context) error {
	if s.fetching {
		return &Notice{Message: MsgFetchInProgress}
	}
	s.fetching = true
	defer func() { s.fetching = false }()

	subjects, err := s.api.ListSubjects(ctx, s.filters.Department, "")
	if err != nil {
		s.logger.Warn("subject fetch failed", zap.Error(err))
		s.roster.subjects = nil
		s.roster.students = nil
		s.ledger.Seed(nil)
		return err
	}

	users, err := s.api.ListUsers(ctx, models.UserFilter{})
	if err != nil {
		s.logger.Warn("student fetch failed", zap.Error(err))
		s.roster.subjects = nil
		s.roster.students = nil
		s.ledger.Seed(nil)
		return err
	}

	s.roster.subjects = filterSubjectsByYear(subjects, s.filters)
	s.roster.students = filterStudents(users, s.filters)
	s.ledger.Seed(s.roster.students)
	s.history.Clear()

	s.logger.Info("roster loaded",
		zap.Int("students", len(s.roster.students)),
		zap.Int("subjects", len(s.roster.subjects)),
		zap.String("department", s.filters.Department),
		zap.String("year", s.filters.Year),
	)
	return nil
}

// SetStatus marks one student's status.
func (s *Session) SetStatus(studentID string, status models.AttendanceStatus) bool {
	return s.ledger.SetStatus(studentID, status)
}

// SetArrivalTime records an explicit arrival time for one student.
func (s *Session) SetArrivalTime(studentID, arrivalTime string) bool {
	return s.ledger.SetArrivalTime(studentID, arrivalTime)
}

// SetRemarks records remarks for one student.
func (s *Session) SetRemarks(studentID, remarks string) bool {
	return s.ledger.SetRemarks(studentID, remarks)
}

// MarkAllVisible applies the status to every student passing the current
// search, leaving the rest of the roster untouched.
func (s *Session) MarkAllVisible(status models.AttendanceStatus) {
	visible := s.roster.Visible()
	if len(visible) == 0 {
		return
	}
	s.history.Push(s.ledger.Snapshot())
	for _, student := range visible {
		s.ledger.SetStatus(student.ID, status)
	}
}

// ClearAll resets every visible student to the default record.
func (s *Session) ClearAll() {
	visible := s.roster.Visible()
	if len(visible) == 0 {
		return
	}
	s.history.Push(s.ledger.Snapshot())
	ids := make([]string, len(visible))
	for i, student := range visible {
		ids[i] = student.ID
	}
	s.ledger.Reset(ids...)
}

// Undo restores the ledger to the snapshot taken before the most recent bulk
// operation. With no history it returns a notice.
func (s *Session) Undo() error {
	snapshot, ok := s.history.Pop()
	if !ok {
		return &Notice{Message: MsgNothingToUndo}
	}
	s.ledger.Restore(snapshot)
	return nil
}

// Submit validates the preconditions, then dispatches one call per marked
// entry concurrently and waits for all of them. Succeeded entries are reset
// to the unmarked default and the undo history is cleared; failed entries
// stay marked so the operator can resubmit just those. With no successes the
// whole ledger is kept intact.
func (s *Session) Submit(ctx context.Context) (*SubmitResult, error) {
	if s.submitting {
		return nil, &Notice{Message: MsgSubmitInProgress}
	}
	if s.filters.Date == "" {
		return nil, &Notice{Message: MsgSelectDate}
	}
	if s.filters.SubjectCode == "" {
		return nil, &Notice{Message: MsgSelectSubject}
	}
	if s.cfg.StrictFilters && (s.filters.Department == "" || s.filters.Year == "" || s.filters.StudyType == "") {
		return nil, &Notice{Message: MsgSelectFilters}
	}

	batch := s.buildBatch()
	if len(batch) == 0 {
		return nil, &Notice{Message: MsgMarkAtLeastOne}
	}

	s.submitting = true
	defer func() { s.submitting = false }()

	type outcome struct {
		studentID string
		regNumber string
		err       error
	}

	var wg sync.WaitGroup
	outcomes := make([]outcome, len(batch))
	sem := make(chan struct{}, s.cfg.MaxInFlight)

	for i, item := range batch {
		wg.Add(1)
		go func(i int, item submitItem) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			callCtx, cancel := context.WithTimeout(ctx, s.cfg.PerCallTimeout)
			defer cancel()

			_, err := s.api.MarkAttendance(callCtx, item.req)
			outcomes[i] = outcome{studentID: item.studentID, regNumber: item.req.RegistrationNumber, err: err}
		}(i, item)
	}
	wg.Wait()

	result := &SubmitResult{Submitted: len(batch)}
	succeeded := make([]string, 0, len(batch))
	for _, o := range outcomes {
		if o.err != nil {
			result.Failed = append(result.Failed, o.regNumber)
			s.logger.Warn("attendance submit failed",
				zap.String("registration_number", o.regNumber),
				zap.Error(o.err),
			)
			continue
		}
		result.SuccessCount++
		succeeded = append(succeeded, o.studentID)
	}

	s.logger.Info("attendance batch submitted",
		zap.Int("submitted", result.Submitted),
		zap.Int("succeeded", result.SuccessCount),
		zap.Int("failed", len(result.Failed)),
	)

	if result.SuccessCount > 0 {
		s.ledger.Reset(succeeded...)
		s.history.Clear()
	}
	return result, nil
}

type submitItem struct {
	studentID string
	req       client.MarkAttendanceRequest
}

// buildBatch serialises every marked entry into a mark request. The whole
// batch shares the default location; unset arrival times fall back to the
// default except for Absent records.
func (s *Session) buildBatch() []submitItem {
	batch := make([]submitItem, 0, s.ledger.Len())
	for _, student := range s.roster.Students() {
		entry, ok := s.ledger.Get(student.ID)
		if !ok || !entry.Marked {
			continue
		}

		arrivalTime := entry.ArrivalTime
		if entry.Status == models.StatusAbsent {
			arrivalTime = ""
		} else if arrivalTime == "" {
			arrivalTime = s.cfg.DefaultArrivalTime
		}

		batch = append(batch, submitItem{
			studentID: student.ID,
			req: client.MarkAttendanceRequest{
				RegistrationNumber: student.RegistrationNumber,
				SubjectCode:        s.filters.SubjectCode,
				Status:             string(entry.Status),
				Location:           s.cfg.DefaultLocation,
				Date:               s.filters.Date,
				ArrivalTime:        arrivalTime,
				Remarks:            entry.Remarks,
			},
		})
	}
	return batch
}
