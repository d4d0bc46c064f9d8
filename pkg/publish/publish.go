// Package publish drives the GitHub side of the release: ensure the
// repository exists, commit the bundle through the git-data API, and cut
// the tagged release that the archival (DOI) integration picks up.
package publish

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/go-github/v83/github"

	"github.com/pm10meta/auditctl/pkg/net"
)

// Options describes one publication run.
type Options struct {
	Owner        string
	Repo         string
	Branch       string
	Tag          string
	ReleaseTitle string
	ReleaseNotes string
}

func (o *Options) Validate() error {
	if o.Owner == "" || o.Repo == "" {
		return errors.New("owner and repo are required")
	}
	if o.Branch == "" || o.Tag == "" {
		return errors.New("branch and tag are required")
	}
	return nil
}

// Result summarizes what the pipeline did.
type Result struct {
	Repo        string `json:"repo"`
	RepoCreated bool   `json:"repo_created"`
	CommitSHA   string `json:"commit_sha,omitempty"`
	Tag         string `json:"tag"`
	ReleaseURL  string `json:"release_url,omitempty"`
	Files       int    `json:"files"`
}

// Client wraps the GitHub API client used by the pipeline.
type Client struct {
	gh *github.Client
}

func NewClient(ctx context.Context, token string) *Client {
	return &Client{gh: github.NewClient(net.GetOAuthClient(ctx, token))}
}

// AuthenticatedUser returns the login the token belongs to.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	usr, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("getting authenticated user: %w", err)
	}
	logRate(resp)
	return usr.GetLogin(), nil
}

// EnsureRepo returns whether the repository had to be created. New
// repositories are created public (the bundle is a published artifact)
// with an auto-initialized default branch to commit onto.
func (c *Client) EnsureRepo(ctx context.Context, opts *Options) (bool, error) {
	_, resp, err := c.gh.Repositories.Get(ctx, opts.Owner, opts.Repo)
	if err == nil {
		logRate(resp)
		return false, nil
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		return false, fmt.Errorf("checking repo %s/%s: %w", opts.Owner, opts.Repo, err)
	}

	// Creating under the authenticated user requires an empty org.
	org := opts.Owner
	if login, err := c.AuthenticatedUser(ctx); err == nil && login == opts.Owner {
		org = ""
	}

	repo := &github.Repository{
		Name:          github.Ptr(opts.Repo),
		Description:   github.Ptr("Reproducibility package: forecasting-validation literature audit"),
		Private:       github.Ptr(false),
		AutoInit:      github.Ptr(true),
		DefaultBranch: github.Ptr(opts.Branch),
	}
	_, resp, err = c.gh.Repositories.Create(ctx, org, repo)
	if err != nil {
		return false, fmt.Errorf("creating repo %s/%s: %w", opts.Owner, opts.Repo, err)
	}
	logRate(resp)

	slog.Info("repository created", "owner", opts.Owner, "repo", opts.Repo)
	return true, nil
}

// CommitBundle writes the bundle files as a single commit on the branch:
// blobs, tree on top of HEAD, commit, ref update.
func (c *Client) CommitBundle(ctx context.Context, opts *Options, b *Bundle, message string) (string, error) {
	refName := "heads/" + opts.Branch
	ref, resp, err := c.gh.Git.GetRef(ctx, opts.Owner, opts.Repo, refName)
	if err != nil {
		return "", fmt.Errorf("getting ref %s: %w", refName, err)
	}
	logRate(resp)
	baseSHA := ref.GetObject().GetSHA()

	entries := make([]*github.TreeEntry, 0, len(b.Files))
	for _, f := range b.Files {
		blob := github.Blob{
			Content:  github.Ptr(base64.StdEncoding.EncodeToString(f.Content)),
			Encoding: github.Ptr("base64"),
		}
		created, resp, err := c.gh.Git.CreateBlob(ctx, opts.Owner, opts.Repo, blob)
		if err != nil {
			return "", fmt.Errorf("creating blob for %s: %w", f.Name, err)
		}
		logRate(resp)

		entries = append(entries, &github.TreeEntry{
			Path: github.Ptr(f.Name),
			Mode: github.Ptr("100644"),
			Type: github.Ptr("blob"),
			SHA:  created.SHA,
		})
	}

	tree, resp, err := c.gh.Git.CreateTree(ctx, opts.Owner, opts.Repo, baseSHA, entries)
	if err != nil {
		return "", fmt.Errorf("creating tree: %w", err)
	}
	logRate(resp)

	parent, resp, err := c.gh.Git.GetCommit(ctx, opts.Owner, opts.Repo, baseSHA)
	if err != nil {
		return "", fmt.Errorf("getting parent commit %s: %w", baseSHA, err)
	}
	logRate(resp)

	commit := github.Commit{
		Message: github.Ptr(message),
		Tree:    tree,
		Parents: []*github.Commit{parent},
	}
	newCommit, resp, err := c.gh.Git.CreateCommit(ctx, opts.Owner, opts.Repo, commit, nil)
	if err != nil {
		return "", fmt.Errorf("creating commit: %w", err)
	}
	logRate(resp)

	update := github.UpdateRef{SHA: newCommit.GetSHA()}
	if _, resp, err = c.gh.Git.UpdateRef(ctx, opts.Owner, opts.Repo, refName, update); err != nil {
		return "", fmt.Errorf("updating ref %s: %w", refName, err)
	}
	logRate(resp)

	slog.Info("bundle committed", "files", len(entries), "sha", newCommit.GetSHA())
	return newCommit.GetSHA(), nil
}

// CreateRelease tags the commit and publishes the release. The release is
// what the archival integration watches for DOI minting.
func (c *Client) CreateRelease(ctx context.Context, opts *Options, commitSHA string) (string, error) {
	rel := &github.RepositoryRelease{
		TagName:         github.Ptr(opts.Tag),
		TargetCommitish: github.Ptr(commitSHA),
		Name:            github.Ptr(opts.ReleaseTitle),
		Body:            github.Ptr(ReleaseBody(opts)),
		Draft:           github.Ptr(false),
		Prerelease:      github.Ptr(false),
	}

	created, resp, err := c.gh.Repositories.CreateRelease(ctx, opts.Owner, opts.Repo, rel)
	if err != nil {
		return "", fmt.Errorf("creating release %s: %w", opts.Tag, err)
	}
	logRate(resp)

	slog.Info("release created", "tag", opts.Tag, "url", created.GetHTMLURL())
	return created.GetHTMLURL(), nil
}

// Run executes the full pipeline: ensure repo, commit bundle, release.
func Run(ctx context.Context, c *Client, opts *Options, b *Bundle) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(b.Files) == 0 {
		return nil, errors.New("bundle is empty")
	}

	created, err := c.EnsureRepo(ctx, opts)
	if err != nil {
		return nil, err
	}

	sha, err := c.CommitBundle(ctx, opts, b, "Add reproducibility bundle for "+opts.Tag)
	if err != nil {
		return nil, err
	}

	url, err := c.CreateRelease(ctx, opts, sha)
	if err != nil {
		return nil, err
	}

	return &Result{
		Repo:        opts.Owner + "/" + opts.Repo,
		RepoCreated: created,
		CommitSHA:   sha,
		Tag:         opts.Tag,
		ReleaseURL:  url,
		Files:       len(b.Files),
	}, nil
}

// ReleaseBody renders the release notes with the archival citation stanza.
func ReleaseBody(opts *Options) string {
	return fmt.Sprintf(`%s

Archival copy: this release is deposited for DOI minting. Cite the
archived version of tag %s once the DOI resolves.

Contents are listed in the repository README; the audit dataset and the
two analysis outputs can be regenerated from this tag alone.`,
		opts.ReleaseNotes, opts.Tag)
}

func logRate(resp *github.Response) {
	if resp == nil {
		return
	}
	slog.Debug("github api call",
		"status", resp.StatusCode,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
		"rate_reset", resp.Rate.Reset.Format("15:04"))
}
