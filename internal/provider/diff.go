package provider

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/errm"
)

const emptyDiffMessageLength = 100

// Diff returns the unified diff of a commit against its first parent,
// or against the empty tree for a root commit.
// It never fails: on any error it returns a diagnostic text that names the commit.
func (p *Provider) Diff(ctx context.Context, repoPath, sha string) string {
	patch, message, err := p.diff(ctx, repoPath, sha)
	if err != nil {
		p.log.Warn("failed to get diff", "sha", sha, "error", err)
		return fmt.Sprintf("Error getting diff for commit %s: %s", sha, err.Error())
	}
	if patch == "" {
		return fmt.Sprintf("Commit %s: %s", sha, model.Truncate(message, emptyDiffMessageLength))
	}
	return patch
}

func (p *Provider) diff(ctx context.Context, repoPath, sha string) (string, string, error) {
	root, err := p.ResolveRepository(repoPath)
	if err != nil {
		return "", "", err
	}

	repo, err := git.PlainOpen(root)
	if err != nil {
		return "", "", errm.Wrap(err, "failed to open repository")
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(sha))
	if err != nil {
		return "", "", errm.Wrap(err, "failed to resolve revision")
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", "", errm.Wrap(err, "failed to get commit")
	}

	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	var patch *object.Patch
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return "", "", errm.Wrap(err, "failed to get parent commit")
		}
		patch, err = parent.PatchContext(ctx, commit)
		if err != nil {
			return "", "", errm.Wrap(err, "failed to build patch")
		}
	} else {
		tree, err := commit.Tree()
		if err != nil {
			return "", "", errm.Wrap(err, "failed to get tree")
		}
		patch, err = (&object.Tree{}).PatchContext(ctx, tree)
		if err != nil {
			return "", "", errm.Wrap(err, "failed to build patch")
		}
	}

	return patch.String(), commit.Message, nil
}
