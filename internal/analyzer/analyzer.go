// Package analyzer turns commits into analyses using a text generator with a keyword fallback.
package analyzer

import (
	"context"
	"fmt"

	"github.com/maxbolgarin/docweave/internal/agent/prompts"
	"github.com/maxbolgarin/docweave/internal/heuristic"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
)

// ErrNoGenerator is the fallback reason when no generator is configured
var ErrNoGenerator = errm.New("text generator is not configured")

// Analyzer produces one CodeAnalysis per commit
type Analyzer struct {
	cfg        Config
	gen        interfaces.Generator
	prompts    *prompts.Builder
	strategies []Strategy
	log        logze.Logger
}

// New creates an analyzer; gen may be nil, then every analysis is heuristic
func New(cfg Config, gen interfaces.Generator) (*Analyzer, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Analyzer{
		cfg:        cfg,
		gen:        gen,
		prompts:    prompts.NewBuilder(),
		strategies: DefaultStrategies(cfg),
		log:        logze.With("component", "analyzer"),
	}, nil
}

// WithStrategies replaces the fallback chain. The last strategy should never fail.
func (a *Analyzer) WithStrategies(strategies ...Strategy) *Analyzer {
	a.strategies = strategies
	return a
}

// Analyze asks the generator for an analysis of one commit and falls back
// to keyword classification on any failure. It never returns an error.
func (a *Analyzer) Analyze(ctx context.Context, diff, message, extra string) (out model.CodeAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("recovered from panic during analysis", "panic", r)
			out = a.Fallback(message, diff, errm.Errorf("panic: %v", r))
		}
	}()

	if a.gen == nil {
		return a.Fallback(message, diff, ErrNoGenerator)
	}

	prompt := a.prompts.BuildCommitAnalysisPrompt(message, TruncateDiff(diff, a.cfg.DiffBudget), extra)

	raw, genErr := a.gen.Generate(ctx, prompt)
	if genErr != nil {
		a.log.Warn("generator failed, using fallback", "error", genErr)
		raw = ""
	}

	return a.runChain(Input{Raw: raw, Message: message, Diff: diff}, genErr)
}

// Fallback returns the keyword classification with reason recorded.
func (a *Analyzer) Fallback(message, diff string, reason error) model.CodeAnalysis {
	out := heuristic.Classify(message, diff)
	if reason != nil {
		out.FallbackReason = reason.Error()
	}
	return out
}

func (a *Analyzer) runChain(in Input, genErr error) model.CodeAnalysis {
	var failures []string
	for _, s := range a.strategies {
		out, err := s.Parse(in)
		if err != nil {
			failures = append(failures, s.Name()+": "+err.Error())
			continue
		}
		if out.Provenance != model.ProvenanceAI {
			switch {
			case genErr != nil:
				out.FallbackReason = genErr.Error()
			case len(failures) > 0:
				out.FallbackReason = fmt.Sprintf("unparseable response (%s)", failures[len(failures)-1])
			}
		}
		a.log.Debug("analysis produced", "strategy", s.Name(), "importance", out.Importance)
		return out
	}

	a.log.Warn("all strategies failed", "failures", failures)
	return a.Fallback(in.Message, in.Diff, errm.New("no strategy produced an analysis"))
}
