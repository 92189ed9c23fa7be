package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVPadsShortRows(t *testing.T) {
	table := Table{Columns: []string{"Date", "Student", "Status"}}
	table.AddRow("2026-03-02", "Amara Silva", "Present")
	table.AddRow("2026-03-02", "Bimal Fernando")

	out, err := CSV(table)
	require.NoError(t, err)

	assert.Equal(t, "Date,Student,Status\n2026-03-02,Amara Silva,Present\n2026-03-02,Bimal Fernando,\n", string(out))
}

func TestCSVRequiresColumns(t *testing.T) {
	_, err := CSV(Table{})
	assert.Error(t, err)
}

func TestPDFRendersDocument(t *testing.T) {
	table := Table{Columns: []string{"Student", "Status"}}
	table.AddRow("Amara Silva", "Present")

	out, err := PDF(table, "Attendance Report")
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
