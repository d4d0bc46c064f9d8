package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord() *Record {
	r := &Record{
		PaperID:  "P001",
		Author:   "Kowalski et al.",
		Year:     2019,
		Journal:  "Science of the Total Environment",
		DOI:      "10.1000/test.2019.042",
		Protocol: ProtocolRandomSplit,
		Scope:    ScopeGlobalOrTestInclusive,
		Updating: UpdatingNo,
	}
	r.Derive()
	return r
}

func TestRecordDerive(t *testing.T) {
	r := testRecord()
	assert.Equal(t, 3, r.LeakageRiskScore)
	assert.Equal(t, BandHigh, r.Band)

	// Re-deriving changes nothing.
	r.Derive()
	assert.Equal(t, 3, r.LeakageRiskScore)
}

func TestRecordValidate(t *testing.T) {
	r := testRecord()
	assert.NoError(t, r.Validate())
}

func TestRecordValidate_ScoreTampered(t *testing.T) {
	r := testRecord()
	r.LeakageRiskScore = 1
	err := r.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rubric derives 3")
}

func TestRecordValidate_BandTampered(t *testing.T) {
	r := testRecord()
	r.Band = BandLow
	assert.Error(t, r.Validate())
}

func TestRecordValidate_MissingFields(t *testing.T) {
	r := testRecord()
	r.PaperID = ""
	assert.Error(t, r.Validate())

	r = testRecord()
	r.Author = ""
	assert.Error(t, r.Validate())

	r = testRecord()
	r.Protocol = "leave-one-out"
	assert.Error(t, r.Validate())
}

func TestRecordRowRoundTrip(t *testing.T) {
	r := testRecord()
	r.Title = "A study"
	r.Notes = "scaler fit on full series"
	r.BaselineComparison = true

	row := r.Row()
	require.Len(t, row, len(Columns))

	parsed, err := ParseRow(row)
	require.NoError(t, err)
	assert.Equal(t, r, parsed)
}

func TestParseRow_WrongWidth(t *testing.T) {
	_, err := ParseRow([]string{"P001", "author"})
	assert.Error(t, err)
}

func TestParseRow_InconsistentScore(t *testing.T) {
	r := testRecord()
	row := r.Row()
	row[9] = "0" // stored score disagrees with the rubric
	_, err := ParseRow(row)
	assert.Error(t, err)
}

func TestExampleRecord(t *testing.T) {
	r := ExampleRecord()
	require.NoError(t, r.Validate())
	assert.Equal(t, "C1", r.PaperID)
	assert.Equal(t, 2, r.LeakageRiskScore)
	assert.Equal(t, BandModerate, r.Band)
}

func TestColumns(t *testing.T) {
	// The published layout is a fourteen-column contract.
	require.Len(t, Columns, 14)
	assert.Equal(t, "paper_id", Columns[0])
	assert.Equal(t, "leakage_risk_score", Columns[9])
	assert.Equal(t, "notes", Columns[13])
}
