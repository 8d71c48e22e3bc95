package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/maxbolgarin/contem"
	"github.com/maxbolgarin/docweave/internal/agent"
	"github.com/maxbolgarin/docweave/internal/app"
	"github.com/maxbolgarin/docweave/internal/clierr"
	"github.com/maxbolgarin/docweave/internal/config"
	"github.com/maxbolgarin/docweave/internal/console"
	"github.com/maxbolgarin/docweave/internal/progress"
	"github.com/maxbolgarin/docweave/internal/provider"
	"github.com/maxbolgarin/docweave/internal/server"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

var (
	Version, Branch, Commit, BuildDate string
)

var (
	cli = kingpin.New("docweave", "Generate documentation from recent git commits.")

	configPath = cli.Flag("config", "path to config file").Short('c').String()
	verbose    = cli.Flag("verbose", "enable debug logs").Short('v').Bool()

	analyzeCmd   = cli.Command("analyze", "Analyze recent commits and write documentation into the repository.").Default()
	analyzePath  = analyzeCmd.Flag("path", "path to the git repository").Short('p').Default(".").String()
	analyzeLimit = analyzeCmd.Flag("limit", "number of recent commits to analyze").Short('l').Default("10").Int()
	analyzeDays  = analyzeCmd.Flag("days", "only analyze commits from the last N days").Short('d').Default("0").Int()

	serveCmd    = cli.Command("serve", "Serve the HTTP API.")
	serveHost   = serveCmd.Flag("host", "address to listen on").String()
	servePort   = serveCmd.Flag("port", "port to listen on").Int()
	serveReload = serveCmd.Flag("reload", "reload generator settings when the config file changes").Bool()
)

func main() {
	cli.Version(lang.Check(Version, "dev"))
	command := kingpin.MustParse(cli.Parse(os.Args[1:]))

	printer := console.New(os.Stdout)

	ctx := contem.New(contem.WithLogger(logze.DefaultPtr()))
	err := run(ctx, command, printer)
	ctx.Shutdown()

	code := clierr.ExitCodeOf(err)
	switch {
	case code == clierr.CodeInterrupted:
		printer.Info("Interrupted, nothing was written")
	case err != nil:
		printer.Error(err, hint(err))
	}
	os.Exit(code)
}

func run(ctx contem.Context, command string, printer *console.Printer) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return erro.Wrap(err, "load config")
	}
	logze.Init(logze.C().WithConsole().WithLevel(logLevel(command, *verbose || cfg.Debug)))

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case serveCmd.FullCommand():
		return serve(sigCtx, ctx, cfg, printer)
	default:
		return analyze(sigCtx, cfg, printer)
	}
}

func logLevel(command string, debug bool) string {
	switch {
	case debug:
		return logze.LevelDebug
	case command == analyzeCmd.FullCommand():
		// step output goes to the printer
		return logze.LevelWarn
	default:
		return logze.LevelInfo
	}
}

func analyze(ctx context.Context, cfg config.Config, printer *console.Printer) error {
	pipeline, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	printer.Banner(Version)

	res, err := pipeline.Run(ctx, app.Request{
		RepoPath: *analyzePath,
		Limit:    *analyzeLimit,
		DaysBack: *analyzeDays,
	}, printer)
	if err != nil {
		if errm.Is(err, context.Canceled) {
			return clierr.Interrupted(err)
		}
		return clierr.Wrap(clierr.CodeError, "", err)
	}

	printer.Result(res)

	return nil
}

func serve(ctx context.Context, shutdown contem.Context, cfg config.Config, printer *console.Printer) error {
	if *serveHost != "" {
		cfg.Server.Host = *serveHost
	}
	if *servePort > 0 {
		cfg.Server.Port = *servePort
	}

	pipeline, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	store, err := progress.New(ctx, cfg.Progress)
	if err != nil {
		return erro.Wrap(err, "failed to create progress store")
	}
	if closer, ok := store.(io.Closer); ok {
		shutdown.Add(func(context.Context) error { return closer.Close() })
	}

	srv, err := server.New(cfg.Server, pipeline, store)
	if err != nil {
		return erro.Wrap(err, "failed to create server")
	}
	shutdown.Add(srv.Stop)

	printer.Banner(Version)
	printer.Generator(pipeline.CheckGenerator(ctx))

	if *serveReload {
		if *configPath == "" {
			return clierr.New(clierr.CodeError, "--reload requires --config")
		}
		log := logze.With("component", "reload")
		go func() {
			err := config.Watch(ctx, *configPath, func(next config.Config) {
				if err := pipeline.Reconfigure(newGenerator(ctx, next.Agent), next.Analyzer); err != nil {
					log.Err(err, "failed to apply reloaded config")
				}
			})
			if err != nil {
				log.Err(err, "config watcher stopped")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errCh <- err
		}
	}()

	printer.Info("Serving on http://" + cfg.Server.Address())

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return erro.Wrap(err, "failed to start server")
	}
}

func newPipeline(ctx context.Context, cfg config.Config) (*app.App, error) {
	source, err := provider.New(cfg.Provider)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create provider")
	}

	pipeline, err := app.New(cfg.App, source, newGenerator(ctx, cfg.Agent), cfg.Analyzer)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create pipeline")
	}

	return pipeline, nil
}

// newGenerator returns nil when the generator cannot be created, analysis then uses the keyword heuristic
func newGenerator(ctx context.Context, cfg agent.Config) app.Generator {
	a, err := agent.New(ctx, cfg)
	if err != nil {
		logze.With("component", "main").Warn("text generator is not available", "type", cfg.Type, "error", err)
		return nil
	}
	return a
}

func hint(err error) string {
	var notRepo *provider.NotRepositoryError
	switch {
	case errors.As(err, &notRepo):
		return "Run docweave inside a git repository or pass --path"
	case errm.Is(err, config.ErrConfigNotFound):
		return "Check the --config path or configure docweave with DOCWEAVE_* environment variables"
	}
	return ""
}
