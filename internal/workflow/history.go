package workflow

// defaultUndoDepth bounds how many ledger snapshots are retained.
const defaultUndoDepth = 10

// History is a bounded LIFO of ledger snapshots. Pushing beyond capacity
// evicts the oldest snapshot. There is no redo.
type History struct {
	capacity int
	stack    []map[string]EntryRecord
}

// NewHistory builds a history with the given capacity (defaulted when <= 0).
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = defaultUndoDepth
	}
	return &History{capacity: capacity}
}

// Push records a snapshot, evicting the oldest when full.
func (h *History) Push(snapshot map[string]EntryRecord) {
	if len(h.stack) == h.capacity {
		copy(h.stack, h.stack[1:])
		h.stack = h.stack[:h.capacity-1]
	}
	h.stack = append(h.stack, snapshot)
}

// Pop removes and returns the most recent snapshot.
func (h *History) Pop() (map[string]EntryRecord, bool) {
	if len(h.stack) == 0 {
		return nil, false
	}
	snapshot := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]
	return snapshot, true
}

// Len reports how many snapshots are retained.
func (h *History) Len() int {
	return len(h.stack)
}

// Clear discards all snapshots.
func (h *History) Clear() {
	h.stack = nil
}
