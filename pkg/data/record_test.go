package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pm10meta/auditctl/pkg/audit"
)

func makeRecord(id string, p audit.ValidationProtocol, s audit.PreprocessingScope, d audit.DynamicUpdating) *audit.Record {
	r := &audit.Record{
		PaperID:  id,
		Author:   "Author et al.",
		Year:     2020,
		Journal:  "Atmospheric Environment",
		DOI:      "10.1000/" + id,
		Protocol: p,
		Scope:    s,
		Updating: d,
	}
	r.Derive()
	return r
}

func TestSaveAndGetRecord(t *testing.T) {
	db := setupTestDB(t)

	want := makeRecord("P001", audit.ProtocolRandomSplit, audit.ScopeAmbiguous, audit.UpdatingNo)
	require.NoError(t, SaveRecord(db, want))

	got, err := GetRecord(db, "P001")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSaveRecord_NilDB(t *testing.T) {
	err := SaveRecord(nil, makeRecord("P001", audit.ProtocolRandomSplit, audit.ScopeAmbiguous, audit.UpdatingNo))
	assert.Error(t, err)
}

func TestSaveRecord_Invalid(t *testing.T) {
	db := setupTestDB(t)

	r := makeRecord("P001", audit.ProtocolRandomSplit, audit.ScopeAmbiguous, audit.UpdatingNo)
	r.LeakageRiskScore = 0 // disagrees with rubric
	assert.Error(t, SaveRecord(db, r))
}

func TestSaveRecord_Upsert(t *testing.T) {
	db := setupTestDB(t)

	r := makeRecord("P001", audit.ProtocolStaticChronological, audit.ScopeExplicitTrainOnly, audit.UpdatingYes)
	require.NoError(t, SaveRecord(db, r))

	r.Notes = "revised after second-rater review"
	require.NoError(t, SaveRecord(db, r))

	got, err := GetRecord(db, "P001")
	require.NoError(t, err)
	assert.Equal(t, "revised after second-rater review", got.Notes)

	state, err := GetDataState(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), state["papers"])
}

func TestSaveRecords_Batch(t *testing.T) {
	db := setupTestDB(t)

	recs := []*audit.Record{
		makeRecord("P001", audit.ProtocolRandomSplit, audit.ScopeGlobalOrTestInclusive, audit.UpdatingNo),
		makeRecord("P002", audit.ProtocolRollingOriginTrainSet, audit.ScopeExplicitTrainOnly, audit.UpdatingYes),
		makeRecord("P003", audit.ProtocolStaticChronological, audit.ScopeAmbiguous, audit.UpdatingNo),
	}
	require.NoError(t, SaveRecords(db, recs))

	list, err := ListRecords(db, 100)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "P001", list[0].PaperID)

	state, err := GetDataState(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), state["papers"])
	assert.Equal(t, int64(1), state["high_risk"])
	assert.Equal(t, int64(1), state["zero_risk"])
}

func TestSaveRecords_RejectsWholeBatchOnInvalid(t *testing.T) {
	db := setupTestDB(t)

	bad := makeRecord("P002", audit.ProtocolRandomSplit, audit.ScopeAmbiguous, audit.UpdatingNo)
	bad.Band = audit.BandMinimal

	err := SaveRecords(db, []*audit.Record{
		makeRecord("P001", audit.ProtocolRandomSplit, audit.ScopeAmbiguous, audit.UpdatingNo),
		bad,
	})
	require.Error(t, err)

	list, err := ListRecords(db, 100)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetRecord_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := GetRecord(db, "missing")
	assert.Error(t, err)
}

func TestCheckConsistency(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveRecords(db, []*audit.Record{
		makeRecord("P001", audit.ProtocolRandomSplit, audit.ScopeAmbiguous, audit.UpdatingNo),
		makeRecord("P002", audit.ProtocolNotDocumented, audit.ScopeNotDocumented, audit.UpdatingNotDocumented),
	}))

	n, err := CheckConsistency(db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCheckConsistency_DetectsTampering(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, SaveRecord(db,
		makeRecord("P001", audit.ProtocolRandomSplit, audit.ScopeAmbiguous, audit.UpdatingNo)))

	// Corrupt the stored score behind the store's back.
	_, err := db.Exec("UPDATE paper SET leakage_risk_score = 0 WHERE paper_id = 'P001'")
	require.NoError(t, err)

	_, err = CheckConsistency(db)
	assert.Error(t, err)
}
