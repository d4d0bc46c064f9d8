package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the app against a throwaway home dir and database.
func run(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "test.db")
	app := newApp()
	return app.Run(append([]string{name, "--db", dbPath}, args...))
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	want := []string{"auth", "audit", "workbook", "screen", "bench", "publish", "verify"}
	require.Len(t, app.Commands, len(want))
	for _, n := range want {
		assert.NotNil(t, app.Command(n), "missing command %s", n)
	}
}

func TestAuditScore(t *testing.T) {
	err := run(t, "audit", "score",
		"--protocol", "static-chronological",
		"--scope", "ambiguous",
		"--updating", "no")
	assert.NoError(t, err)
}

func TestAuditScore_UnknownProtocol(t *testing.T) {
	err := run(t, "audit", "score",
		"--protocol", "k-fold",
		"--scope", "ambiguous",
		"--updating", "no")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown validation protocol")
}

func TestAuditAddListCheck(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "test.db")

	add := []string{name, "--db", dbPath, "audit", "add",
		"--id", "P001",
		"--author", "Author et al.",
		"--year", "2020",
		"--protocol", "random-split",
		"--scope", "global-or-test-inclusive",
		"--updating", "no"}
	require.NoError(t, newApp().Run(add))

	require.NoError(t, newApp().Run([]string{name, "--db", dbPath, "audit", "list"}))
	require.NoError(t, newApp().Run([]string{name, "--db", dbPath, "audit", "check"}))
}

func TestAuditExport(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "test.db")
	out := filepath.Join(t.TempDir(), "dataset.csv")

	add := []string{name, "--db", dbPath, "audit", "add",
		"--id", "P001",
		"--author", "Author et al.",
		"--year", "2020",
		"--protocol", "rolling-origin-train-only",
		"--scope", "explicit-train-only",
		"--updating", "yes"}
	require.NoError(t, newApp().Run(add))
	require.NoError(t, newApp().Run([]string{name, "--db", dbPath, "audit", "export", "--file", out}))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWorkbookCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "test.db")
	out := filepath.Join(t.TempDir(), "form.xlsx")

	require.NoError(t, newApp().Run([]string{name, "--db", dbPath, "workbook", "--out", out}))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPublish_UnconfiguredTarget(t *testing.T) {
	// The default config has no owner or repo, the command must fail
	// before any network access.
	err := run(t, "publish", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config not ready to publish")
}
