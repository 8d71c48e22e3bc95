package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/maxbolgarin/docweave/internal/agent"
	"github.com/maxbolgarin/docweave/internal/agent/prompts"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
)

var mermaidBlock = regexp.MustCompile("(?s)```mermaid[ \\t]*\\r?\\n(.*?)```")

// Narrator generates repository level documentation from the whole analyzed history.
// Every method returns an empty result on any failure.
type Narrator struct {
	cfg     Config
	gen     interfaces.Generator
	prompts *prompts.Builder
	log     logze.Logger
}

// NewNarrator creates a narrator; gen may be nil, then nothing is generated
func NewNarrator(cfg Config, gen interfaces.Generator) (*Narrator, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Narrator{
		cfg:     cfg,
		gen:     gen,
		prompts: prompts.NewBuilder(),
		log:     logze.With("component", "narrator"),
	}, nil
}

// Diagrams returns up to MaxDiagrams Mermaid diagram bodies without fences.
func (n *Narrator) Diagrams(ctx context.Context, repoName string, commits []model.Commit, analyses []model.CodeAnalysis) []string {
	raw := n.generate(ctx, "diagrams", n.prompts.BuildDiagramsPrompt(repoName, n.History(commits, analyses)))
	if raw == "" {
		return nil
	}
	return ExtractDiagrams(raw, n.cfg.MaxDiagrams)
}

// Narrative returns prose about the recent development without tool chatter.
func (n *Narrator) Narrative(ctx context.Context, repoName string, commits []model.Commit, analyses []model.CodeAnalysis) string {
	raw := n.generate(ctx, "narrative", n.prompts.BuildNarrativePrompt(repoName, n.History(commits, analyses)))
	return model.Truncate(agent.StripToolChatter(raw), n.cfg.NarrativeLimit)
}

// IntegrationInsights returns Markdown sections starting at the first level two heading.
func (n *Narrator) IntegrationInsights(ctx context.Context, repoName string, commits []model.Commit, analyses []model.CodeAnalysis) string {
	raw := n.generate(ctx, "integration", n.prompts.BuildIntegrationPrompt(repoName, n.History(commits, analyses)))
	text := agent.StripToolChatter(raw)
	if i := firstHeading(text); i > 0 {
		text = text[i:]
	}
	return model.Truncate(strings.TrimSpace(text), n.cfg.IntegrationLimit)
}

// History renders commits and their analyses as two capped prompt sections.
func (n *Narrator) History(commits []model.Commit, analyses []model.CodeAnalysis) string {
	var log, insights strings.Builder
	for i, c := range commits {
		fmt.Fprintf(&log, "- %s %s (%s, %s, +%d/-%d, %d files)\n",
			c.SHA, c.Subject(), c.Author, c.Timestamp.Format("2006-01-02"), c.Additions, c.Deletions, len(c.FilesChanged))
		if i < len(analyses) {
			a := analyses[i]
			fmt.Fprintf(&insights, "- %s [%s] %s. %s\n", c.SHA, a.Importance, a.Summary, a.Why)
		}
	}

	return "Commits:\n" + model.Truncate(log.String(), n.cfg.NarrationInputLimit) +
		"\nAnalyses:\n" + model.Truncate(insights.String(), n.cfg.NarrationInputLimit)
}

func (n *Narrator) generate(ctx context.Context, kind string, prompt model.Prompt) string {
	if n.gen == nil {
		return ""
	}
	raw, err := n.gen.Generate(ctx, prompt)
	if err != nil {
		n.log.Warn("failed to generate "+kind, "error", err)
		return ""
	}
	return raw
}

// ExtractDiagrams returns bodies of fenced mermaid blocks longer than a trivial shell.
func ExtractDiagrams(raw string, limit int) []string {
	var out []string
	for _, m := range mermaidBlock.FindAllStringSubmatch(raw, -1) {
		body := strings.TrimSpace(m[1])
		if len(body) <= defaultMinDiagramLength {
			continue
		}
		out = append(out, body)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func firstHeading(text string) int {
	if strings.HasPrefix(text, "## ") {
		return 0
	}
	if i := strings.Index(text, "\n## "); i >= 0 {
		return i + 1
	}
	return -1
}
