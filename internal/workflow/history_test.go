package workflow

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvisio/track-api/internal/models"
)

func snapshotWithRemark(remark string) map[string]EntryRecord {
	return map[string]EntryRecord{"u-1": {Status: models.StatusPresent, Remarks: remark}}
}

func TestHistoryEvictsOldestBeyondCapacity(t *testing.T) {
	history := NewHistory(10)
	for i := 0; i < 15; i++ {
		history.Push(snapshotWithRemark(strconv.Itoa(i)))
	}
	assert.Equal(t, 10, history.Len())

	// Strict LIFO: most recent first, ending at the eviction boundary.
	for i := 14; i >= 5; i-- {
		snapshot, ok := history.Pop()
		require.True(t, ok)
		assert.Equal(t, strconv.Itoa(i), snapshot["u-1"].Remarks)
	}
	_, ok := history.Pop()
	assert.False(t, ok)
}

func TestHistoryDefaultCapacity(t *testing.T) {
	history := NewHistory(0)
	for i := 0; i < 25; i++ {
		history.Push(snapshotWithRemark(strconv.Itoa(i)))
	}
	assert.Equal(t, defaultUndoDepth, history.Len())
}

func TestLedgerResetOnlyTouchesNamedStudents(t *testing.T) {
	ledger := NewLedger("08:30")
	ledger.Seed([]models.User{{ID: "u-1"}, {ID: "u-2"}})

	ledger.SetStatus("u-1", models.StatusPresent)
	ledger.SetStatus("u-2", models.StatusLate)
	ledger.Reset("u-1")

	first, _ := ledger.Get("u-1")
	assert.Equal(t, models.StatusAbsent, first.Status)
	assert.False(t, first.Marked)

	second, _ := ledger.Get("u-2")
	assert.Equal(t, models.StatusLate, second.Status)
	assert.True(t, second.Marked)
}

func TestLedgerIgnoresUnknownStudents(t *testing.T) {
	ledger := NewLedger("08:30")
	ledger.Seed([]models.User{{ID: "u-1"}})

	assert.False(t, ledger.SetStatus("ghost", models.StatusPresent))
	assert.False(t, ledger.SetRemarks("ghost", "n/a"))
	assert.Equal(t, 1, ledger.Len())
}

func TestLedgerSnapshotIsIsolated(t *testing.T) {
	ledger := NewLedger("08:30")
	ledger.Seed([]models.User{{ID: "u-1"}})
	snapshot := ledger.Snapshot()

	ledger.SetStatus("u-1", models.StatusPresent)
	assert.Equal(t, models.StatusAbsent, snapshot["u-1"].Status)

	ledger.Restore(snapshot)
	entry, _ := ledger.Get("u-1")
	assert.Equal(t, models.StatusAbsent, entry.Status)
	assert.Zero(t, ledger.MarkedCount())
}
