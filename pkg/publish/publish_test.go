package publish

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-github/v83/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	opts := &Options{Owner: "lab", Repo: "bundle", Branch: "main", Tag: "v1.0.0"}
	assert.NoError(t, opts.Validate())

	assert.Error(t, (&Options{Repo: "bundle", Branch: "main", Tag: "v1"}).Validate())
	assert.Error(t, (&Options{Owner: "lab", Repo: "bundle"}).Validate())
}

func TestLoadBundle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x,y\n1,2\n"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("summary"), 0600))

	b, err := LoadBundle(dir, []string{"a.csv", "b.txt"})
	require.NoError(t, err)
	require.Len(t, b.Files, 2)
	assert.Equal(t, "a.csv", b.Files[0].Name)
	assert.Equal(t, len("x,y\n1,2\n")+len("summary"), b.TotalSize())
}

func TestLoadBundle_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadBundle(dir, []string{"missing.csv"})
	assert.Error(t, err)
}

func TestLoadBundle_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.csv"), nil, 0600))

	_, err := LoadBundle(dir, []string{"empty.csv"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

// newTestClient points the GitHub client at a local fake API.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	gh.BaseURL = base
	gh.UploadURL = base

	return &Client{gh: gh}
}

func TestRun_Pipeline(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/lab/bundle", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"bundle"}`)
	})
	mux.HandleFunc("GET /repos/lab/bundle/git/ref/heads/main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ref":"refs/heads/main","object":{"sha":"base0"}}`)
	})
	mux.HandleFunc("POST /repos/lab/bundle/git/blobs", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"blob0"}`)
	})
	mux.HandleFunc("POST /repos/lab/bundle/git/trees", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"tree0"}`)
	})
	mux.HandleFunc("GET /repos/lab/bundle/git/commits/base0", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"base0"}`)
	})
	mux.HandleFunc("POST /repos/lab/bundle/git/commits", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"sha":"commit0"}`)
	})

	var refUpdated bool
	mux.HandleFunc("PATCH /repos/lab/bundle/git/refs/heads/main", func(w http.ResponseWriter, r *http.Request) {
		refUpdated = true
		fmt.Fprint(w, `{"ref":"refs/heads/main","object":{"sha":"commit0"}}`)
	})
	mux.HandleFunc("POST /repos/lab/bundle/releases", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"tag_name":"v1.0.0","html_url":"https://github.com/lab/bundle/releases/tag/v1.0.0"}`)
	})

	c := newTestClient(t, mux)
	opts := &Options{Owner: "lab", Repo: "bundle", Branch: "main", Tag: "v1.0.0", ReleaseTitle: "Bundle"}
	b := &Bundle{Files: []BundleFile{{Name: "a.csv", Content: []byte("x,y\n")}}}

	result, err := Run(context.Background(), c, opts, b)
	require.NoError(t, err)

	assert.True(t, refUpdated)
	assert.False(t, result.RepoCreated)
	assert.Equal(t, "commit0", result.CommitSHA)
	assert.Equal(t, "lab/bundle", result.Repo)
	assert.Equal(t, 1, result.Files)
	assert.Contains(t, result.ReleaseURL, "v1.0.0")
}

func TestRun_EmptyBundle(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	opts := &Options{Owner: "lab", Repo: "bundle", Branch: "main", Tag: "v1.0.0"}

	_, err := Run(context.Background(), c, opts, &Bundle{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bundle is empty")
}

func TestReleaseBody(t *testing.T) {
	opts := &Options{
		Tag:          "v1.2.0",
		ReleaseNotes: "Audit bundle.",
	}

	body := ReleaseBody(opts)
	assert.Contains(t, body, "Audit bundle.")
	assert.Contains(t, body, "DOI")
	assert.Contains(t, body, "v1.2.0")
}
