package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/maxbolgarin/docweave/internal/agent"
	"github.com/maxbolgarin/docweave/internal/heuristic"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	responses []string
	err       error
	panicMsg  string
	prompts   []model.Prompt
}

func (f *fakeGenerator) Generate(_ context.Context, prompt model.Prompt) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", agent.ErrEmptyResponse
	}
	out := f.responses[0]
	if len(f.responses) > 1 {
		f.responses = f.responses[1:]
	}
	return out, nil
}

func newTestAnalyzer(t *testing.T, gen *fakeGenerator) *Analyzer {
	t.Helper()
	var a *Analyzer
	var err error
	if gen == nil {
		a, err = New(Config{}, nil)
	} else {
		a, err = New(Config{}, gen)
	}
	require.NoError(t, err)
	return a
}

func TestAnalyze_JSON(t *testing.T) {
	gen := &fakeGenerator{responses: []string{
		"```json\n{\"summary\": \"Adds cache\", \"why\": \"Speed\", \"next_steps\": [\"Bench\"], \"importance\": \"low\"}\n```",
	}}
	a := newTestAnalyzer(t, gen)

	out := a.Analyze(context.Background(), "+cache", "feat: add cache", "")
	assert.Equal(t, "Adds cache", out.Summary)
	assert.Equal(t, model.ImportanceLow, out.Importance)
	assert.True(t, out.IsAI())
	assert.Empty(t, out.FallbackReason)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0].UserPrompt, "feat: add cache")
}

func TestAnalyze_TruncatesDiffInPrompt(t *testing.T) {
	gen := &fakeGenerator{responses: []string{`{"summary": "s"}`}}
	a := newTestAnalyzer(t, gen)

	a.Analyze(context.Background(), strings.Repeat("d", 10000), "chore", "")
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0].UserPrompt, "[diff truncated: showing 6000 of 10000 characters]")
	assert.NotContains(t, gen.prompts[0].UserPrompt, strings.Repeat("d", 6001))
}

func TestAnalyze_TextFallback(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"Improves logging\nReason: easier debugging\nImportance: high"}}
	a := newTestAnalyzer(t, gen)

	out := a.Analyze(context.Background(), "", "chore: logging", "")
	assert.Equal(t, "Improves logging", out.Summary)
	assert.Equal(t, "easier debugging", out.Why)
	assert.Equal(t, model.ImportanceHigh, out.Importance)
	assert.True(t, out.IsAI())
}

func TestAnalyze_GeneratorErrors(t *testing.T) {
	for _, genErr := range []error{agent.ErrToolUnavailable, agent.ErrToolTimeout, agent.ErrToolFailure, agent.ErrEmptyResponse} {
		t.Run(genErr.Error(), func(t *testing.T) {
			a := newTestAnalyzer(t, &fakeGenerator{err: genErr})

			out := a.Analyze(context.Background(), "diff --git a/x_test.go", "fix: crash on start", "")
			want := heuristic.Classify("fix: crash on start", "diff --git a/x_test.go")
			assert.Equal(t, want.Summary, out.Summary)
			assert.Equal(t, want.Why, out.Why)
			assert.Equal(t, want.NextSteps, out.NextSteps)
			assert.Equal(t, want.Importance, out.Importance)
			assert.Equal(t, model.ProvenanceHeuristic, out.Provenance)
			assert.Equal(t, genErr.Error(), out.FallbackReason)
		})
	}
}

func TestAnalyze_NoGenerator(t *testing.T) {
	a := newTestAnalyzer(t, nil)
	out := a.Analyze(context.Background(), "", "docs: update readme", "")
	assert.Equal(t, model.ProvenanceHeuristic, out.Provenance)
	assert.Equal(t, ErrNoGenerator.Error(), out.FallbackReason)
}

func TestAnalyze_Panic(t *testing.T) {
	a := newTestAnalyzer(t, &fakeGenerator{panicMsg: "boom"})
	out := a.Analyze(context.Background(), "", "refactor: split module", "")
	assert.Equal(t, heuristic.Classify("refactor: split module", "").Summary, out.Summary)
	assert.Contains(t, out.FallbackReason, "boom")
}

func TestAnalyze_CustomChain(t *testing.T) {
	a := newTestAnalyzer(t, &fakeGenerator{responses: []string{"no json here"}})
	a.WithStrategies(JSONStrategy{MaxNextSteps: 5}, HeuristicStrategy{})

	out := a.Analyze(context.Background(), "", "feat: add export", "")
	assert.Equal(t, model.ProvenanceHeuristic, out.Provenance)
	assert.Contains(t, out.FallbackReason, "unparseable response")
}
