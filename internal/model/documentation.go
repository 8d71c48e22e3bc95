package model

import "time"

// DocumentationResult is the aggregate documentation of one analysis run
type DocumentationResult struct {
	RepoName            string
	GeneratedAt         time.Time
	CommitCount         int
	Markdown            string
	Diagrams            []string
	Narrative           string
	NextSteps           []string
	IntegrationInsights string
}

// Progress is a status update of an analysis job
type Progress struct {
	JobID     string    `json:"job_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Progress  float64   `json:"progress"`
	Done      bool      `json:"done"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stages of an analysis run
const (
	StageResolve  = "resolve"
	StageHarvest  = "harvest"
	StageAnalyze  = "analyze"
	StageAssemble = "assemble"
	StagePersist  = "persist"
	StageDone     = "done"
	StageFailed   = "failed"
)
