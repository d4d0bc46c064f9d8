package verify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pm10meta/auditctl/pkg/audit"
	"github.com/pm10meta/auditctl/pkg/data"
	"github.com/pm10meta/auditctl/pkg/screen"
)

func okCheck(name string) Check {
	return Check{Name: name, Run: func(context.Context) error { return nil }}
}

func TestRun_AllPass(t *testing.T) {
	var buf bytes.Buffer
	err := Run(context.Background(), &buf, []Check{okCheck("first"), okCheck("second")})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Contains(t, out, "all 2 checks passed")
}

func TestRun_FailFast(t *testing.T) {
	ran := false
	checks := []Check{
		okCheck("first"),
		{
			Name:   "broken",
			Run:    func(context.Context) error { return errors.New("boom") },
			Remedy: "turn it off and on again",
		},
		{Name: "never", Run: func(context.Context) error { ran = true; return nil }},
	}

	var buf bytes.Buffer
	err := Run(context.Background(), &buf, checks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	// Later checks never run.
	assert.False(t, ran)

	out := buf.String()
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "turn it off and on again")
	assert.NotContains(t, out, "never")
}

func TestRubricSelfTest(t *testing.T) {
	assert.NoError(t, RubricSelfTest(context.Background()))
}

func TestScreeningReruns(t *testing.T) {
	dir := t.TempDir()
	check := ScreeningReruns(dir)
	require.NoError(t, check.Run(context.Background()))

	info, err := os.Stat(filepath.Join(dir, screen.ResultsFileName))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestBundleFilesExist(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0600))

	check := BundleFilesExist(dir, []string{"a.csv"})
	assert.NoError(t, check.Run(context.Background()))

	check = BundleFilesExist(dir, []string{"a.csv", "missing.txt"})
	assert.Error(t, check.Run(context.Background()))
}

func TestBundleFilesExist_Empty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0600))

	check := BundleFilesExist(dir, []string{"empty.csv"})
	assert.Error(t, check.Run(context.Background()))
}

func TestDatasetConsistent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, data.Init(dbPath))
	db, err := data.GetDB(dbPath)
	require.NoError(t, err)
	defer db.Close()

	// Empty store passes.
	assert.NoError(t, DatasetConsistent(db).Run(context.Background()))

	rec := &audit.Record{
		PaperID:  "P001",
		Author:   "Author et al.",
		Year:     2020,
		Protocol: audit.ProtocolRandomSplit,
		Scope:    audit.ScopeAmbiguous,
		Updating: audit.UpdatingNo,
	}
	rec.Derive()
	require.NoError(t, data.SaveRecord(db, rec))
	assert.NoError(t, DatasetConsistent(db).Run(context.Background()))

	// Tampered score fails.
	_, err = db.Exec("UPDATE paper SET leakage_risk_score = 0 WHERE paper_id = 'P001'")
	require.NoError(t, err)
	assert.Error(t, DatasetConsistent(db).Run(context.Background()))
}
