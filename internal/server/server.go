// Package server exposes the analysis pipeline as a JSON HTTP API.
package server

import (
	"context"
	"sync"

	"github.com/maxbolgarin/docweave/internal/app"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/logze/v2"
	"github.com/maxbolgarin/servex/v2"
	"github.com/panjf2000/ants/v2"
)

const serviceName = "DocWeave"

// Pipeline runs analyses of local repositories
type Pipeline interface {
	Run(ctx context.Context, req app.Request, rep app.Reporter) (*app.Result, error)
	Commits(ctx context.Context, repoPath string, limit int) ([]model.Commit, error)
	CheckGenerator(ctx context.Context) app.GeneratorStatus
}

// Server serves the HTTP API
type Server struct {
	pipeline Pipeline
	progress interfaces.ProgressStore
	pool     *ants.Pool
	config   Config
	log      logze.Logger
	server   *servex.Server

	// jobs outlive the request that started them
	jobsCtx    context.Context
	cancelJobs context.CancelFunc
	jobs       sync.WaitGroup
}

// New creates the HTTP API server
func New(cfg Config, pipeline Pipeline, progress interfaces.ProgressStore) (*Server, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, erro.Wrap(err, "validate config")
	}
	if pipeline == nil || progress == nil {
		return nil, erro.New("pipeline and progress store are required")
	}

	log := logze.With("component", "server")

	pool, err := ants.NewPool(cfg.Workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, erro.Wrap(err, "failed to create ants pool")
	}

	server, err := servex.NewServer(
		servex.WithReadTimeout(cfg.ReadTimeout),
		servex.WithIdleTimeout(cfg.IdleTimeout),
		servex.WithLogger(log),
		servex.WithHealthEndpoint(),
		servex.WithDefaultMetrics(),
		servex.WithCertificate(cfg.Certificate),
	)
	if err != nil {
		pool.Release()
		return nil, erro.Wrap(err, "failed to create server")
	}

	jobsCtx, cancel := context.WithCancel(context.Background())

	s := &Server{
		pipeline:   pipeline,
		progress:   progress,
		pool:       pool,
		config:     cfg,
		log:        log,
		server:     server,
		jobsCtx:    jobsCtx,
		cancelJobs: cancel,
	}

	for path, h := range s.routes() {
		server.HandleFunc(path, h)
	}

	return s, nil
}

// Start starts listening on the configured address
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting server", "address", s.config.Address(), "https", s.config.EnableHTTPS)
	if s.config.EnableHTTPS {
		return s.server.StartHTTPS(s.config.Address())
	}
	return s.server.StartHTTP(s.config.Address())
}

// Stop stops accepting requests, cancels running jobs and waits for them
func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	s.cancelJobs()

	done := make(chan struct{})
	go func() {
		s.jobs.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("analysis jobs did not finish before shutdown")
	}

	s.pool.Release()
	return err
}
