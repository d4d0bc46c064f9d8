package workbook

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pm10meta/auditctl/pkg/audit"
)

func TestBuild_Sheets(t *testing.T) {
	f, err := Build()
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Equal(t, []string{SheetAudit, SheetRubric, SheetExample}, sheets)
}

func TestBuild_AuditHeader(t *testing.T) {
	f, err := Build()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetAudit)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, audit.Columns, rows[0])
}

func TestBuild_AuditDropdowns(t *testing.T) {
	f, err := Build()
	require.NoError(t, err)
	defer f.Close()

	dvs, err := f.GetDataValidations(SheetAudit)
	require.NoError(t, err)
	// Three enum columns plus two boolean columns.
	assert.Len(t, dvs, 5)
}

func TestBuild_RubricSheet(t *testing.T) {
	f, err := Build()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetRubric)
	require.NoError(t, err)

	var flat string
	for _, row := range rows {
		for _, cell := range row {
			flat += cell + "\n"
		}
	}
	assert.Contains(t, flat, "Temporal-order violation (+1)")
	assert.Contains(t, flat, "global-or-test-inclusive or ambiguous")
	assert.Contains(t, flat, "moderate")
}

func TestBuild_ExampleRow(t *testing.T) {
	f, err := Build()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetExample)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "C1", rows[1][0])
	assert.Equal(t, "static-chronological", rows[1][6])
	assert.Equal(t, "ambiguous", rows[1][7])
	assert.Equal(t, "no", rows[1][8])
	assert.Equal(t, "2", rows[1][9])
	assert.Equal(t, "moderate", rows[1][10])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit_form.xlsx")
	require.NoError(t, WriteFile(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), SheetAudit)
}

func TestWrite_Stream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf))
	assert.Greater(t, buf.Len(), 0)

	// xlsx files are zip archives.
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}
