package workflow

import "github.com/mlvisio/track-api/internal/models"

// EntryRecord is the in-memory attendance state for one student. Records are
// seeded Absent and unmarked when a roster loads; any mutation marks them.
// Only marked records are submitted.
type EntryRecord struct {
	Status      models.AttendanceStatus
	ArrivalTime string
	Remarks     string
	Marked      bool

	// timeExplicit is set when the user typed an arrival time, so that a
	// later status change does not stomp it with the default.
	timeExplicit bool
}

func defaultRecord() EntryRecord {
	return EntryRecord{Status: models.StatusAbsent}
}

// Ledger maps student IDs to their attendance entries for one session. It is
// mutated only from the session's goroutine.
type Ledger struct {
	defaultArrival string
	entries        map[string]EntryRecord
}

// NewLedger builds an empty ledger using the given default arrival time.
func NewLedger(defaultArrival string) *Ledger {
	return &Ledger{
		defaultArrival: defaultArrival,
		entries:        make(map[string]EntryRecord),
	}
}

// Seed replaces the ledger with default records for the given students. Any
// in-progress marks for students no longer in the roster are discarded.
func (l *Ledger) Seed(students []models.User) {
	l.entries = make(map[string]EntryRecord, len(students))
	for _, s := range students {
		l.entries[s.ID] = defaultRecord()
	}
}

// SetStatus sets a student's status. Presence-like statuses receive the
// default arrival time unless one was explicitly set; Absent clears the
// arrival time. Unknown students are ignored and reported false.
func (l *Ledger) SetStatus(studentID string, status models.AttendanceStatus) bool {
	entry, ok := l.entries[studentID]
	if !ok {
		return false
	}
	entry.Status = status
	entry.Marked = true
	switch {
	case status == models.StatusAbsent:
		entry.ArrivalTime = ""
		entry.timeExplicit = false
	case status.CountsAsPresent() && !entry.timeExplicit:
		entry.ArrivalTime = l.defaultArrival
	}
	l.entries[studentID] = entry
	return true
}

// SetArrivalTime records an explicit arrival time. Rejected while the
// student is Absent.
func (l *Ledger) SetArrivalTime(studentID, arrivalTime string) bool {
	entry, ok := l.entries[studentID]
	if !ok || entry.Status == models.StatusAbsent {
		return false
	}
	entry.ArrivalTime = arrivalTime
	entry.timeExplicit = true
	entry.Marked = true
	l.entries[studentID] = entry
	return true
}

// SetRemarks records free-text remarks.
func (l *Ledger) SetRemarks(studentID, remarks string) bool {
	entry, ok := l.entries[studentID]
	if !ok {
		return false
	}
	entry.Remarks = remarks
	entry.Marked = true
	l.entries[studentID] = entry
	return true
}

// Reset reinitialises the listed students to the default record.
func (l *Ledger) Reset(studentIDs ...string) {
	for _, id := range studentIDs {
		if _, ok := l.entries[id]; ok {
			l.entries[id] = defaultRecord()
		}
	}
}

// Get returns a copy of the student's entry.
func (l *Ledger) Get(studentID string) (EntryRecord, bool) {
	entry, ok := l.entries[studentID]
	return entry, ok
}

// Len reports the number of students in the ledger.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// MarkedCount reports how many entries have been explicitly marked.
func (l *Ledger) MarkedCount() int {
	count := 0
	for _, entry := range l.entries {
		if entry.Marked {
			count++
		}
	}
	return count
}

// Snapshot returns a point-in-time copy of every entry.
func (l *Ledger) Snapshot() map[string]EntryRecord {
	snapshot := make(map[string]EntryRecord, len(l.entries))
	for id, entry := range l.entries {
		snapshot[id] = entry
	}
	return snapshot
}

// Restore replaces the ledger contents with the given snapshot.
func (l *Ledger) Restore(snapshot map[string]EntryRecord) {
	l.entries = make(map[string]EntryRecord, len(snapshot))
	for id, entry := range snapshot {
		l.entries[id] = entry
	}
}
