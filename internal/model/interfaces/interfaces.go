package interfaces

import (
	"context"

	"github.com/maxbolgarin/docweave/internal/model"
)

// CommitSource reads commit history from a local repository
type CommitSource interface {
	ResolveRepository(path string) (string, error)
	ListCommits(ctx context.Context, repoPath string, limit, daysBack int) ([]model.Commit, error)
	Diff(ctx context.Context, repoPath, sha string) string
}

// AgentAPI defines the interface for calling text generators
type AgentAPI interface {
	CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error)
}

// Checker is implemented by generators that can report whether they are usable
type Checker interface {
	Check(ctx context.Context) error
}

// ProgressStore keeps progress of analysis jobs by job id
type ProgressStore interface {
	Get(ctx context.Context, jobID string) (model.Progress, bool, error)
	Set(ctx context.Context, p model.Progress) error
}

// Generator produces cleaned text for a prompt
type Generator interface {
	Generate(ctx context.Context, prompt model.Prompt) (string, error)
}
