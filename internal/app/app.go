// Package app runs the analysis pipeline shared by the command line and the HTTP API.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/docweave/internal/analyzer"
	"github.com/maxbolgarin/docweave/internal/docgen"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
)

// ErrNoGenerator is the generator status error when no generator was created
var ErrNoGenerator = analyzer.ErrNoGenerator

// Generator is a text generator that can report its availability
type Generator interface {
	interfaces.Generator
	interfaces.Checker
	Instructions() string
}

// Reporter receives run updates, calls come from the goroutine that runs the pipeline
type Reporter interface {
	Progress(p model.Progress)
	Commit(index, total int, commit model.Commit, analysis model.CodeAnalysis)
}

// Request describes one analysis run
type Request struct {
	RepoPath string
	Limit    int
	DaysBack int
}

// App runs analysis of local repositories
type App struct {
	cfg    Config
	source interfaces.CommitSource
	log    logze.Logger

	mu     sync.RWMutex
	engine *engine
}

type engine struct {
	gen       Generator
	analyzer  *analyzer.Analyzer
	assembler *docgen.Assembler
	offline   *docgen.Assembler
}

// New creates the pipeline; gen may be nil, then only heuristic analysis is used
func New(cfg Config, source interfaces.CommitSource, gen Generator, analyzerCfg analyzer.Config) (*App, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	if source == nil {
		return nil, errm.New("commit source is nil")
	}

	a := &App{
		cfg:    cfg,
		source: source,
		log:    logze.With("component", "app"),
	}
	if err := a.Reconfigure(gen, analyzerCfg); err != nil {
		return nil, err
	}

	return a, nil
}

// Reconfigure replaces the generator and analyzer settings; running analyses keep the previous ones.
func (a *App) Reconfigure(gen Generator, analyzerCfg analyzer.Config) error {
	var textGen interfaces.Generator
	if gen != nil {
		textGen = gen
	}

	an, err := analyzer.New(analyzerCfg, textGen)
	if err != nil {
		return errm.Wrap(err, "failed to create analyzer")
	}
	narrator, err := analyzer.NewNarrator(analyzerCfg, textGen)
	if err != nil {
		return errm.Wrap(err, "failed to create narrator")
	}

	a.mu.Lock()
	a.engine = &engine{
		gen:       gen,
		analyzer:  an,
		assembler: docgen.NewAssembler(narrator),
		offline:   docgen.NewAssembler(nil),
	}
	a.mu.Unlock()

	a.log.Debug("pipeline configured", "generator", gen != nil)

	return nil
}

// ResolveRepository returns the root of the repository that contains path.
func (a *App) ResolveRepository(path string) (string, error) {
	return a.source.ResolveRepository(path)
}

// Commits returns recent commits of the repository that contains repoPath.
func (a *App) Commits(ctx context.Context, repoPath string, limit int) ([]model.Commit, error) {
	root, err := a.source.ResolveRepository(repoPath)
	if err != nil {
		return nil, err
	}
	return a.source.ListCommits(ctx, root, limit, 0)
}

// CheckGenerator reports whether the text generator can be used.
func (a *App) CheckGenerator(ctx context.Context) GeneratorStatus {
	return a.current().check(ctx)
}

// Run analyzes recent commits and writes documentation into the repository.
// Commits are analyzed one by one; when ctx is canceled nothing is written and ctx error is returned.
func (a *App) Run(ctx context.Context, req Request, rep Reporter) (*Result, error) {
	timer := abstract.StartTimer()
	rep = orNop(rep)
	eng := a.current()

	report(rep, model.StageResolve, "Detecting git repository", 0)
	root, err := a.source.ResolveRepository(req.RepoPath)
	if err != nil {
		return nil, err
	}
	res := &Result{
		RepoPath: root,
		RepoName: RepoName(root),
	}
	log := a.log.WithFields("repo", res.RepoName)

	res.Generator = eng.check(ctx)
	report(rep, model.StageResolve, generatorMessage(res.Generator), 0.05)

	report(rep, model.StageHarvest, fmt.Sprintf("Reading recent commits (limit: %d)", req.Limit), 0.1)
	commits, err := a.source.ListCommits(ctx, root, req.Limit, req.DaysBack)
	if err != nil {
		return nil, err
	}
	res.Commits = commits

	if len(commits) == 0 {
		res.Elapsed = timer.ElapsedTime()
		log.Info("no recent commits found")
		report(rep, model.StageDone, NoCommitsMessage, 1)
		return res, nil
	}

	report(rep, model.StageAnalyze, fmt.Sprintf("Found %d commit(s) to analyze", len(commits)), 0.15)

	analyses := make([]model.CodeAnalysis, 0, len(commits))
	for i, c := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		diff := a.source.Diff(ctx, root, c.SHA)

		var analysis model.CodeAnalysis
		if res.Generator.Available {
			analysis = eng.analyzer.Analyze(ctx, diff, c.Message, a.cfg.Context)
		} else {
			analysis = eng.analyzer.Fallback(c.Message, diff, errm.Errorf("%s", res.Generator.Error))
		}

		// an interrupted generator call falls back, the run is still aborted
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		analyses = append(analyses, analysis)
		rep.Commit(i+1, len(commits), c, analysis)
		report(rep, model.StageAnalyze, fmt.Sprintf("Analyzed %d/%d commits", i+1, len(commits)),
			0.15+0.65*float64(i+1)/float64(len(commits)))
	}
	res.Analyses = analyses

	report(rep, model.StageAssemble, "Generating documentation", 0.85)
	assembler := eng.assembler
	if !res.Generator.Available {
		assembler = eng.offline
	}
	doc, err := assembler.Assemble(ctx, commits, analyses, res.RepoName)
	if err != nil {
		return nil, errm.Wrap(err, "failed to assemble documentation")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Documentation = doc

	res.OutputDir = filepath.Join(root, a.cfg.OutputDir)
	report(rep, model.StagePersist, "Saving documentation to "+res.OutputDir, 0.95)
	if err := docgen.Persist(doc, res.OutputDir, res.RepoName); err != nil {
		return nil, err
	}

	res.Elapsed = timer.ElapsedTime()
	log.Info("analysis completed",
		"commits", len(commits),
		"ai_analyses", res.AICount(),
		"status", res.Status(),
		"elapsed_time", res.Elapsed.String(),
	)
	report(rep, model.StageDone, "Documentation generated successfully", 1)

	return res, nil
}

// RepoName returns the display name of a repository root.
func RepoName(root string) string {
	name := filepath.Base(filepath.Clean(root))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "repository"
	}
	return name
}

func (a *App) current() *engine {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine
}

func (e *engine) check(ctx context.Context) GeneratorStatus {
	if e.gen == nil {
		return GeneratorStatus{Error: ErrNoGenerator.Error()}
	}
	if err := e.gen.Check(ctx); err != nil {
		return GeneratorStatus{Error: err.Error(), Instructions: e.gen.Instructions()}
	}
	return GeneratorStatus{Available: true}
}

func generatorMessage(s GeneratorStatus) string {
	if s.Available {
		return "Text generator is available, using enhanced analysis"
	}
	return "Text generator is not available, using fallback analysis: " + s.Error
}

func report(rep Reporter, stage, message string, progress float64) {
	rep.Progress(model.Progress{Stage: stage, Message: message, Progress: progress})
}

type nopReporter struct{}

func (nopReporter) Progress(model.Progress)                           {}
func (nopReporter) Commit(int, int, model.Commit, model.CodeAnalysis) {}

func orNop(rep Reporter) Reporter {
	if rep == nil {
		return nopReporter{}
	}
	return rep
}
