// Package console prints analysis steps for the command line.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/maxbolgarin/docweave/internal/app"
	"github.com/maxbolgarin/docweave/internal/model"
)

const subjectLength = 60

var (
	colorTitle   = lipgloss.Color("#00afff")
	colorSuccess = lipgloss.Color("#00d75f")
	colorWarning = lipgloss.Color("#ffaf00")
	colorError   = lipgloss.Color("#ff5f5f")
	colorMuted   = lipgloss.Color("#8a8a8a")
)

var _ app.Reporter = (*Printer)(nil)

// Printer writes human readable run output, it implements app.Reporter
type Printer struct {
	mu  sync.Mutex
	out io.Writer

	title   lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style

	lastStage string
}

// New creates a printer; colors are used only when out is a terminal.
func New(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		title:   r.NewStyle().Bold(true).Foreground(colorTitle),
		step:    r.NewStyle().Bold(true),
		success: r.NewStyle().Foreground(colorSuccess),
		warning: r.NewStyle().Foreground(colorWarning),
		failure: r.NewStyle().Bold(true).Foreground(colorError),
		muted:   r.NewStyle().Foreground(colorMuted),
	}
}

// Banner prints the program header.
func (p *Printer) Banner(version string) {
	header := "DocWeave - Documentation Companion"
	if version != "" {
		header += " " + version
	}
	p.println(p.title.Render(header))
	p.println(p.muted.Render(strings.Repeat("=", len(header))))
}

// Generator prints whether enhanced analysis is available and how to enable it.
func (p *Printer) Generator(s app.GeneratorStatus) {
	if s.Available {
		p.println(p.success.Render("✓ Text generator is available, using enhanced analysis"))
		return
	}
	p.println(p.warning.Render("⚠ Text generator is not available: " + s.Error))
	p.println(p.muted.Render("  Using fallback analysis based on commit messages"))
	if s.Instructions != "" {
		p.println(p.muted.Render("  " + s.Instructions))
	}
}

// Progress prints a line for every new stage and every message of the commit stage.
func (p *Printer) Progress(pr model.Progress) {
	p.mu.Lock()
	newStage := pr.Stage != p.lastStage
	p.lastStage = pr.Stage
	p.mu.Unlock()

	switch pr.Stage {
	case model.StageAnalyze:
		// per commit lines are printed by Commit
		if newStage {
			p.println(p.step.Render("→ " + pr.Message))
		}
	case model.StageDone:
		// Result reports the empty repository
		if pr.Message != app.NoCommitsMessage {
			p.println(p.success.Render("✓ " + pr.Message))
		}
	case model.StageFailed:
		p.println(p.failure.Render("✗ " + pr.Message))
	default:
		p.println(p.step.Render("→ ") + pr.Message)
	}
}

// Commit prints the analysis outcome of one commit.
func (p *Printer) Commit(index, total int, commit model.Commit, analysis model.CodeAnalysis) {
	line := fmt.Sprintf("  [%d/%d] %s - %s", index, total, commit.SHA, model.Truncate(commit.Subject(), subjectLength))
	if analysis.IsAI() {
		p.println(line + " " + p.success.Render("✓"))
		return
	}
	mark := "⚠ fallback"
	if analysis.FallbackReason != "" {
		mark += " (" + analysis.FallbackReason + ")"
	}
	p.println(line + " " + p.warning.Render(mark))
}

// Result prints the summary of a finished run.
func (p *Printer) Result(res *app.Result) {
	if !res.HasCommits() {
		p.println(p.warning.Render(app.NoCommitsMessage))
		return
	}
	p.println("")
	p.println(p.title.Render("Documentation generated"))
	p.println(fmt.Sprintf("  Repository: %s", res.RepoPath))
	p.println(fmt.Sprintf("  Commits:    %d (%d enhanced)", len(res.Commits), res.AICount()))
	p.println(fmt.Sprintf("  Analysis:   %s", res.Status()))
	p.println(fmt.Sprintf("  Output:     %s", res.OutputDir))
	p.println(p.muted.Render(fmt.Sprintf("  Finished in %s", res.Elapsed.Round(time.Millisecond))))
	if !res.Generator.Available && res.Generator.Instructions != "" {
		p.println(p.muted.Render("  For enhanced analysis: " + res.Generator.Instructions))
	}
}

// Error prints a failure with an optional hint.
func (p *Printer) Error(err error, hint string) {
	p.println(p.failure.Render("✗ Error: " + err.Error()))
	if hint != "" {
		p.println(p.muted.Render("  " + hint))
	}
}

// Info prints a plain message.
func (p *Printer) Info(msg string) {
	p.println(msg)
}

func (p *Printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, s)
}
