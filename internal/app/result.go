package app

import (
	"time"

	"github.com/maxbolgarin/docweave/internal/model"
)

// NoCommitsMessage is reported when the repository has no commits in range.
const NoCommitsMessage = "No recent commits found in the repository"

const (
	statusEnhanced = "enhanced analysis"
	statusFallback = "fallback analysis, reason: "
)

// GeneratorStatus tells whether the text generator can be used
type GeneratorStatus struct {
	Available    bool   `json:"available"`
	Error        string `json:"error,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Result is the outcome of one analysis run
type Result struct {
	RepoPath  string
	RepoName  string
	OutputDir string

	Commits       []model.Commit
	Analyses      []model.CodeAnalysis
	Documentation model.DocumentationResult
	Generator     GeneratorStatus

	Elapsed time.Duration
}

// HasCommits returns true if the run found anything to analyze.
func (r *Result) HasCommits() bool {
	return len(r.Commits) > 0
}

// AICount returns the number of commits analyzed by the generator.
func (r *Result) AICount() int {
	n := 0
	for _, a := range r.Analyses {
		if a.IsAI() {
			n++
		}
	}
	return n
}

// FallbackReason returns why the keyword heuristic was used, or empty string if it was not.
func (r *Result) FallbackReason() string {
	if !r.Generator.Available {
		return r.Generator.Error
	}
	for _, a := range r.Analyses {
		if a.IsAI() {
			continue
		}
		if a.FallbackReason != "" {
			return a.FallbackReason
		}
		return "keyword heuristic was used"
	}
	return ""
}

// Status returns "enhanced analysis" or "fallback analysis, reason: ...".
func (r *Result) Status() string {
	if reason := r.FallbackReason(); reason != "" || !r.Generator.Available {
		return statusFallback + reason
	}
	return statusEnhanced
}
