// Package docgen assembles analyzed commits into Markdown documents.
package docgen

import (
	"context"
	"time"

	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
)

// Narrator generates repository level texts; any method may return an empty result
type Narrator interface {
	Diagrams(ctx context.Context, repoName string, commits []model.Commit, analyses []model.CodeAnalysis) []string
	Narrative(ctx context.Context, repoName string, commits []model.Commit, analyses []model.CodeAnalysis) string
	IntegrationInsights(ctx context.Context, repoName string, commits []model.Commit, analyses []model.CodeAnalysis) string
}

// Assembler builds DocumentationResult from commits and their analyses
type Assembler struct {
	narrator Narrator
	log      logze.Logger
	now      func() time.Time
}

// NewAssembler creates an assembler; narrator may be nil
func NewAssembler(narrator Narrator) *Assembler {
	return &Assembler{
		narrator: narrator,
		log:      logze.With("component", "docgen"),
		now:      time.Now,
	}
}

// WithClock replaces the clock used for GeneratedAt.
func (a *Assembler) WithClock(now func() time.Time) *Assembler {
	a.now = now
	return a
}

// Assemble renders commits with their analyses in input order.
// analyses[i] must describe commits[i]. Repository level texts are generated after the per commit part.
func (a *Assembler) Assemble(ctx context.Context, commits []model.Commit, analyses []model.CodeAnalysis, repoName string) (model.DocumentationResult, error) {
	if len(commits) != len(analyses) {
		return model.DocumentationResult{}, errm.Wrap(ErrLengthMismatch, "assemble")
	}

	result := model.DocumentationResult{
		RepoName:    repoName,
		GeneratedAt: a.now(),
		CommitCount: len(commits),
		Markdown:    renderCommits(commits, analyses),
		NextSteps:   AggregateNextSteps(analyses),
	}

	if a.narrator != nil && len(commits) > 0 {
		result.Diagrams = a.narrator.Diagrams(ctx, repoName, commits, analyses)
		result.Narrative = a.narrator.Narrative(ctx, repoName, commits, analyses)
		result.IntegrationInsights = a.narrator.IntegrationInsights(ctx, repoName, commits, analyses)
	}

	if len(result.Diagrams) == 0 && len(commits) > 0 {
		a.log.Debug("no generated diagrams, building local ones", "repo", repoName)
		result.Diagrams = FallbackDiagrams(commits, analyses)
	}

	return result, nil
}

// AggregateNextSteps merges next steps of all analyses without duplicates, keeping first occurrence order.
func AggregateNextSteps(analyses []model.CodeAnalysis) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(analyses)*3)
	for _, a := range analyses {
		for _, step := range a.NextSteps {
			if _, ok := seen[step]; ok {
				continue
			}
			seen[step] = struct{}{}
			out = append(out, step)
		}
	}
	return out
}
