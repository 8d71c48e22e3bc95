package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

var _ interfaces.CommitSource = (*Provider)(nil)

// Provider reads commit history from local git repositories
type Provider struct {
	cfg Config
	log logze.Logger
	now func() time.Time
}

// New creates a new local repository provider
func New(cfg Config) (*Provider, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Provider{
		cfg: cfg,
		log: logze.With("component", "provider"),
		now: time.Now,
	}, nil
}

// WithClock replaces the clock used for the day window.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// ResolveRepository expands and validates path and returns the repository root.
// The path itself or one of its parents up to SearchDepth levels must contain a .git entry.
func (p *Provider) ResolveRepository(path string) (string, error) {
	abs, err := ExpandPath(path)
	if err != nil {
		return "", err
	}

	current := abs
	for range p.cfg.SearchDepth + 1 {
		if _, err := os.Stat(filepath.Join(current, git.GitDirName)); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", &NotRepositoryError{Path: abs}
}

// ListCommits returns up to limit commits reachable from HEAD, most recent first.
// When daysBack is positive, commits older than now-daysBack are dropped from the limited set.
func (p *Provider) ListCommits(ctx context.Context, repoPath string, limit, daysBack int) ([]model.Commit, error) {
	root, err := p.ResolveRepository(repoPath)
	if err != nil {
		return nil, err
	}
	limit = lang.If(limit > 0, limit, p.cfg.DefaultLimit)

	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, &NotRepositoryError{Path: root, Err: err}
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			p.log.Debug("repository has no commits", "path", root)
			return []model.Commit{}, nil
		}
		return nil, errm.Wrap(err, "failed to resolve HEAD")
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, errm.Wrap(err, "failed to read history")
	}
	defer iter.Close()

	var cutoff time.Time
	if daysBack > 0 {
		cutoff = p.now().AddDate(0, 0, -daysBack)
	}

	out := make([]model.Commit, 0, limit)
	count := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if count >= limit {
			return storer.ErrStop
		}
		count++

		if !cutoff.IsZero() && c.Committer.When.Before(cutoff) {
			return nil
		}
		out = append(out, p.toModel(c))
		return nil
	})
	if err != nil {
		return nil, errm.Wrap(err, "failed to walk history")
	}

	p.log.Debug("listed commits", "path", root, "count", len(out), "limit", limit, "days_back", daysBack)

	return out, nil
}

func (p *Provider) toModel(c *object.Commit) model.Commit {
	out := model.Commit{
		SHA:       c.Hash.String()[:p.cfg.SHALength],
		Message:   strings.TrimSpace(c.Message),
		Author:    c.Author.Name,
		Timestamp: c.Committer.When,
	}

	stats, err := c.Stats()
	if err != nil {
		p.log.Warn("failed to get commit stats", "sha", out.SHA, "error", err)
		return out
	}
	out.FilesChanged = make([]string, 0, len(stats))
	for _, s := range stats {
		out.FilesChanged = append(out.FilesChanged, s.Name)
		out.Additions += s.Addition
		out.Deletions += s.Deletion
	}

	return out
}

// ExpandPath expands a leading ~ and returns the cleaned absolute path of an existing directory.
func ExpandPath(path string) (string, error) {
	if IsRemoteURL(path) {
		return "", &RemoteURLError{URL: path}
	}

	path = strings.TrimSpace(path)
	if path == "" {
		path = "."
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errm.Wrap(err, "failed to get home directory")
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", &InvalidPathError{Path: path, Reason: "invalid path", Err: err}
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", &InvalidPathError{Path: abs, Reason: "path does not exist", Err: err}
	}
	if !info.IsDir() {
		return "", &InvalidPathError{Path: abs, Reason: "path is not a directory"}
	}

	return abs, nil
}

// IsRemoteURL returns true for http(s), ssh and scp-like git remotes.
func IsRemoteURL(path string) bool {
	path = strings.TrimSpace(path)
	for _, prefix := range []string{"http://", "https://", "ssh://", "git://", "git@"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
