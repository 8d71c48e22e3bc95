package provider

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixtureCommit struct {
	file    string
	content string
	message string
	when    time.Time
}

func newFixtureRepo(t *testing.T, commits []fixtureCommit) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	for _, c := range commits {
		path := filepath.Join(dir, c.file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(c.content), 0o644))

		_, err = wt.Add(c.file)
		require.NoError(t, err)

		_, err = wt.Commit(c.message, &git.CommitOptions{
			Author: &object.Signature{Name: "Alice", Email: "alice@example.com", When: c.when},
		})
		require.NoError(t, err)
	}

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return resolved
}

func newTestProvider(t *testing.T, now time.Time) *Provider {
	t.Helper()
	p, err := New(Config{})
	require.NoError(t, err)
	return p.WithClock(func() time.Time { return now })
}

func TestListCommits_OrderAndLimit(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	var commits []fixtureCommit
	for i := range 5 {
		commits = append(commits, fixtureCommit{
			file:    "file.txt",
			content: string(rune('a'+i)) + "\n",
			message: "change " + string(rune('a'+i)),
			when:    base.Add(time.Duration(i) * time.Hour),
		})
	}
	dir := newFixtureRepo(t, commits)
	p := newTestProvider(t, base.Add(24*time.Hour))

	got, err := p.ListCommits(context.Background(), dir, 3, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "change e", got[0].Message)
	assert.Equal(t, "change d", got[1].Message)
	assert.Equal(t, "change c", got[2].Message)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i].Timestamp.After(got[i-1].Timestamp), "commits must be in non-increasing time order")
	}
	for _, c := range got {
		assert.Len(t, c.SHA, 7)
		assert.Equal(t, "Alice", c.Author)
		assert.Equal(t, []string{"file.txt"}, c.FilesChanged)
	}

	all, err := p.ListCommits(context.Background(), dir, 10, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestListCommits_DaysBack(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	dir := newFixtureRepo(t, []fixtureCommit{
		{file: "a.txt", content: "a\n", message: "old", when: now.AddDate(0, 0, -10)},
		{file: "b.txt", content: "b\n", message: "middle", when: now.AddDate(0, 0, -5)},
		{file: "c.txt", content: "c\n", message: "recent", when: now.AddDate(0, 0, -1)},
	})
	p := newTestProvider(t, now)

	unfiltered, err := p.ListCommits(context.Background(), dir, 10, 0)
	require.NoError(t, err)
	require.Len(t, unfiltered, 3)

	for _, days := range []int{1, 3, 7, 30} {
		got, err := p.ListCommits(context.Background(), dir, 10, days)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(got), len(unfiltered))

		cutoff := now.AddDate(0, 0, -days)
		for _, c := range got {
			assert.False(t, c.Timestamp.Before(cutoff), "commit %s older than window of %d days", c.SHA, days)
		}
	}

	got, err := p.ListCommits(context.Background(), dir, 10, 3)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "recent", got[0].Message)

	// the window never widens the fetch
	got, err = p.ListCommits(context.Background(), dir, 1, 30)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = p.ListCommits(context.Background(), dir, 10, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestListCommits_Stats(t *testing.T) {
	dir := newFixtureRepo(t, []fixtureCommit{
		{file: "main.go", content: "package main\n\nfunc main() {}\n", message: "init", when: time.Now().Add(-time.Hour)},
	})
	p := newTestProvider(t, time.Now())

	got, err := p.ListCommits(context.Background(), dir, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Additions)
	assert.Equal(t, 0, got[0].Deletions)
}

func TestListCommits_EmptyRepository(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	p := newTestProvider(t, time.Now())
	got, err := p.ListCommits(context.Background(), dir, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolveRepository(t *testing.T) {
	dir := newFixtureRepo(t, []fixtureCommit{
		{file: "a.txt", content: "a\n", message: "a", when: time.Now()},
	})
	p := newTestProvider(t, time.Now())

	t.Run("root", func(t *testing.T) {
		root, err := p.ResolveRepository(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, root)
	})

	t.Run("subdirectory", func(t *testing.T) {
		sub := filepath.Join(dir, "one", "two")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		root, err := p.ResolveRepository(sub)
		require.NoError(t, err)
		assert.Equal(t, dir, root)
	})

	t.Run("not a repository", func(t *testing.T) {
		plain := t.TempDir()
		_, err := p.ResolveRepository(plain)
		var notRepo *NotRepositoryError
		require.True(t, errors.As(err, &notRepo))
		assert.Contains(t, notRepo.Path, filepath.Base(plain))
	})

	t.Run("missing path", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing")
		_, err := p.ResolveRepository(missing)
		var invalid *InvalidPathError
		require.True(t, errors.As(err, &invalid))
		assert.Contains(t, invalid.Error(), "missing")
	})

	t.Run("file path", func(t *testing.T) {
		_, err := p.ResolveRepository(filepath.Join(dir, "a.txt"))
		var invalid *InvalidPathError
		require.True(t, errors.As(err, &invalid))
		assert.Contains(t, invalid.Error(), "not a directory")
	})

	t.Run("remote url", func(t *testing.T) {
		_, err := p.ResolveRepository("https://github.com/owner/repo")
		var remote *RemoteURLError
		require.True(t, errors.As(err, &remote))
	})
}

func TestDiff(t *testing.T) {
	dir := newFixtureRepo(t, []fixtureCommit{
		{file: "greet.txt", content: "hello\n", message: "first", when: time.Now().Add(-2 * time.Hour)},
		{file: "greet.txt", content: "hello world\n", message: "second", when: time.Now().Add(-time.Hour)},
	})
	p := newTestProvider(t, time.Now())

	commits, err := p.ListCommits(context.Background(), dir, 10, 0)
	require.NoError(t, err)
	require.Len(t, commits, 2)

	second := p.Diff(context.Background(), dir, commits[0].SHA)
	assert.Contains(t, second, "-hello\n")
	assert.Contains(t, second, "+hello world\n")

	root := p.Diff(context.Background(), dir, commits[1].SHA)
	assert.Contains(t, root, "+hello\n")
	assert.Contains(t, root, "greet.txt")

	missing := p.Diff(context.Background(), dir, "deadbee")
	assert.Contains(t, missing, "Error getting diff for commit deadbee")
}

func TestConfig(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.PrepareAndValidate())
	assert.Equal(t, 5, cfg.SearchDepth)
	assert.Equal(t, 7, cfg.SHALength)

	cfg = Config{SHALength: 64}
	err := cfg.PrepareAndValidate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 64")
}
