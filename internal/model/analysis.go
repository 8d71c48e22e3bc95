package model

import "strings"

// Importance is a three-level priority attached to a commit analysis
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// ParseImportance normalizes a free-form value, anything unknown becomes medium.
func ParseImportance(s string) Importance {
	switch Importance(strings.ToLower(strings.TrimSpace(s))) {
	case ImportanceLow:
		return ImportanceLow
	case ImportanceHigh:
		return ImportanceHigh
	default:
		return ImportanceMedium
	}
}

// Provenance tells which method produced an analysis
type Provenance string

const (
	ProvenanceAI        Provenance = "ai"
	ProvenanceHeuristic Provenance = "heuristic"
)

// CodeAnalysis is the analysis of a single commit
type CodeAnalysis struct {
	Summary    string     `json:"summary"`
	Why        string     `json:"why"`
	NextSteps  []string   `json:"next_steps"`
	Importance Importance `json:"importance"`

	Provenance     Provenance `json:"provenance"`
	FallbackReason string     `json:"fallback_reason,omitempty"`
}

// IsAI returns true if the analysis came from the external generator.
func (a CodeAnalysis) IsAI() bool {
	return a.Provenance == ProvenanceAI
}
