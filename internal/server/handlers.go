package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/docweave/internal/app"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/provider"
	"github.com/maxbolgarin/servex/v2"
	"github.com/panjf2000/ants/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type analyzeRequest struct {
	RepoPath string `json:"repo_path"`
	Limit    int    `json:"limit"`
	DaysBack *int   `json:"days_back"`
}

type analyzeResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	CommitsCount      int    `json:"commits_count"`
	DocumentationPath string `json:"documentation_path,omitempty"`
}

type jobResponse struct {
	JobID string `json:"job_id"`
}

type healthResponse struct {
	Status                string `json:"status"`
	Service               string `json:"service"`
	ExternalToolAvailable bool   `json:"external_tool_available"`
	Error                 string `json:"error,omitempty"`
	Instructions          string `json:"instructions,omitempty"`
}

type checkResponse struct {
	Installed    bool   `json:"installed"`
	Error        string `json:"error,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) routes() map[string]http.HandlerFunc {
	routes := map[string]http.HandlerFunc{
		"/":                  s.handleIndex,
		"/api/analyze":       s.handleAnalyze,
		"/api/analyze/async": s.handleAnalyzeAsync,
		"/api/progress":      s.handleProgress,
		"/api/commits":       s.handleCommits,
		"/api/health":        s.handleHealth,
		"/api/copilot/check": s.handleGeneratorCheck,
	}
	for path, h := range s.staticRoutes() {
		routes[path] = h
	}
	return routes
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)
	if !allowMethod(ctx, r, http.MethodPost) {
		return
	}

	req, ok := s.readAnalyzeRequest(ctx)
	if !ok {
		return
	}

	res, err := s.runAndWait(r.Context(), req)
	if err != nil {
		s.writeError(ctx, err, "Error analyzing repository")
		return
	}

	ctx.Response(http.StatusOK, analyzeResultResponse(res))
}

func (s *Server) handleAnalyzeAsync(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)
	if !allowMethod(ctx, r, http.MethodPost) {
		return
	}

	req, ok := s.readAnalyzeRequest(ctx)
	if !ok {
		return
	}

	jobID, err := s.submitJob(r.Context(), req)
	if err != nil {
		s.writeError(ctx, err, "Error starting analysis")
		return
	}

	ctx.Response(http.StatusAccepted, jobResponse{JobID: jobID})
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)
	if !allowMethod(ctx, r, http.MethodGet) {
		return
	}

	jobID := strings.TrimSpace(r.URL.Query().Get("job_id"))
	if jobID == "" {
		writeDetail(ctx, http.StatusBadRequest, "job_id is required")
		return
	}

	p, found, err := s.progress.Get(r.Context(), jobID)
	if err != nil {
		s.writeError(ctx, err, "Error reading progress")
		return
	}
	if !found {
		writeDetail(ctx, http.StatusNotFound, "job not found: "+jobID)
		return
	}

	ctx.Response(http.StatusOK, p)
}

func (s *Server) handleCommits(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)
	if !allowMethod(ctx, r, http.MethodGet) {
		return
	}

	query := r.URL.Query()
	repoPath := strings.TrimSpace(query.Get("repo_path"))
	if repoPath == "" {
		writeDetail(ctx, http.StatusBadRequest, "repo_path is required")
		return
	}

	limit := s.config.DefaultLimit
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeDetail(ctx, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	commits, err := s.pipeline.Commits(r.Context(), repoPath, limit)
	if err != nil {
		s.writeError(ctx, err, "Error fetching commits")
		return
	}
	if commits == nil {
		commits = []model.Commit{}
	}

	ctx.Response(http.StatusOK, commits)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)
	if !allowMethod(ctx, r, http.MethodGet) {
		return
	}

	status := s.pipeline.CheckGenerator(r.Context())
	ctx.Response(http.StatusOK, healthResponse{
		Status:                "healthy",
		Service:               serviceName,
		ExternalToolAvailable: status.Available,
		Error:                 status.Error,
		Instructions:          status.Instructions,
	})
}

func (s *Server) handleGeneratorCheck(w http.ResponseWriter, r *http.Request) {
	ctx := servex.NewContext(w, r)
	if !allowMethod(ctx, r, http.MethodGet) {
		return
	}

	status := s.pipeline.CheckGenerator(r.Context())
	ctx.Response(http.StatusOK, checkResponse{
		Installed:    status.Available,
		Error:        status.Error,
		Instructions: status.Instructions,
	})
}

func (s *Server) readAnalyzeRequest(ctx *servex.Context) (app.Request, bool) {
	body, err := ctx.Read()
	if err != nil {
		writeDetail(ctx, http.StatusBadRequest, "failed to read request body")
		return app.Request{}, false
	}

	var req analyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeDetail(ctx, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return app.Request{}, false
	}

	req.RepoPath = strings.TrimSpace(req.RepoPath)
	switch {
	case req.RepoPath == "":
		writeDetail(ctx, http.StatusBadRequest, "repo_path is required")
		return app.Request{}, false
	case req.Limit < 0:
		writeDetail(ctx, http.StatusBadRequest, "limit must not be negative")
		return app.Request{}, false
	case req.DaysBack != nil && *req.DaysBack < 0:
		writeDetail(ctx, http.StatusBadRequest, "days_back must not be negative")
		return app.Request{}, false
	}

	out := app.Request{
		RepoPath: req.RepoPath,
		Limit:    req.Limit,
	}
	if out.Limit == 0 {
		out.Limit = s.config.DefaultLimit
	}
	if req.DaysBack != nil {
		out.DaysBack = *req.DaysBack
	}

	return out, true
}

func (s *Server) writeError(ctx *servex.Context, err error, prefix string) {
	var (
		invalid *provider.InvalidPathError
		notRepo *provider.NotRepositoryError
		remote  *provider.RemoteURLError
	)
	switch {
	case errors.As(err, &invalid), errors.As(err, &notRepo), errors.As(err, &remote):
		writeDetail(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, ants.ErrPoolOverload):
		writeDetail(ctx, http.StatusTooManyRequests, "another analysis is running, try again later")
	default:
		s.log.Err(err, strings.ToLower(prefix))
		writeDetail(ctx, http.StatusInternalServerError, fmt.Sprintf("%s: %s", prefix, err.Error()))
	}
}

func analyzeResultResponse(res *app.Result) analyzeResponse {
	if !res.HasCommits() {
		return analyzeResponse{Success: false, Message: app.NoCommitsMessage}
	}
	return analyzeResponse{
		Success:           true,
		Message:           analyzeMessage(res),
		CommitsCount:      len(res.Commits),
		DocumentationPath: res.OutputDir,
	}
}

func analyzeMessage(res *app.Result) string {
	return fmt.Sprintf("Successfully analyzed %d commit(s) and generated documentation (%s)", len(res.Commits), res.Status())
}

func allowMethod(ctx *servex.Context, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	writeDetail(ctx, http.StatusMethodNotAllowed, "method not allowed: "+r.Method)
	return false
}

func writeDetail(ctx *servex.Context, code int, detail string) {
	ctx.Response(code, errorResponse{Detail: detail})
}
