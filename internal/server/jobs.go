package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/maxbolgarin/docweave/internal/app"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/logze/v2"
)

type runResult struct {
	res *app.Result
	err error
}

// runAndWait runs an analysis in the worker pool and waits for its result.
// The analysis is bound to ctx, a disconnected client cancels it.
func (s *Server) runAndWait(ctx context.Context, req app.Request) (*app.Result, error) {
	out := make(chan runResult, 1)

	s.jobs.Add(1)
	err := s.pool.Submit(func() {
		defer s.jobs.Done()
		res, err := s.pipeline.Run(ctx, req, nil)
		out <- runResult{res: res, err: err}
	})
	if err != nil {
		s.jobs.Done()
		return nil, err
	}

	select {
	case r := <-out:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// submitJob starts a background analysis and returns its job id.
func (s *Server) submitJob(ctx context.Context, req app.Request) (string, error) {
	jobID := uuid.NewString()
	rep := &jobReporter{
		jobID: jobID,
		store: s.progress,
		ctx:   s.jobsCtx,
		log:   s.log.WithFields("job_id", jobID),
	}

	if err := s.progress.Set(ctx, model.Progress{
		JobID:   jobID,
		Stage:   model.StageResolve,
		Message: "Analysis queued",
	}); err != nil {
		return "", err
	}

	s.jobs.Add(1)
	err := s.pool.Submit(func() {
		defer s.jobs.Done()
		res, err := s.pipeline.Run(s.jobsCtx, req, rep)
		rep.finish(res, err)
	})
	if err != nil {
		s.jobs.Done()
		rep.finish(nil, err)
		return "", err
	}

	rep.log.Info("analysis job started", "repo_path", req.RepoPath, "limit", req.Limit)

	return jobID, nil
}

// jobReporter writes pipeline updates of one job into the progress store
type jobReporter struct {
	jobID string
	store interfaces.ProgressStore
	ctx   context.Context
	log   logze.Logger
}

func (r *jobReporter) Progress(p model.Progress) {
	p.JobID = r.jobID
	// final state is written by finish
	if p.Stage == model.StageDone {
		p.Done = false
		p.Progress = min(p.Progress, 0.99)
	}
	r.set(p)
}

func (r *jobReporter) Commit(int, int, model.Commit, model.CodeAnalysis) {}

func (r *jobReporter) finish(res *app.Result, err error) {
	p := model.Progress{
		JobID:    r.jobID,
		Progress: 1,
		Done:     true,
	}
	switch {
	case err != nil:
		p.Stage = model.StageFailed
		p.Message = "Error analyzing repository"
		p.Error = err.Error()
		r.log.Err(err, "analysis job failed")
	case !res.HasCommits():
		p.Stage = model.StageDone
		p.Message = app.NoCommitsMessage
	default:
		p.Stage = model.StageDone
		p.Message = analyzeMessage(res)
		r.log.Info("analysis job finished", "commits", len(res.Commits), "status", res.Status())
	}
	r.set(p)
}

func (r *jobReporter) set(p model.Progress) {
	// the job context may be canceled on shutdown, the last state must still be stored
	if err := r.store.Set(context.WithoutCancel(r.ctx), p); err != nil {
		r.log.Warn("failed to store progress", "error", err)
	}
}
