package analyzer

import "github.com/maxbolgarin/lang"

const (
	defaultDiffBudget          = 6000
	defaultMaxNextSteps        = 5
	defaultMaxTextNextSteps    = 3
	defaultSummaryLimit        = 200
	defaultWhyLimit            = 300
	defaultNarrationInputLimit = 4000
	defaultMaxDiagrams         = 4
	defaultMinDiagramLength    = 20
	defaultNarrativeLimit      = 4000
	defaultIntegrationLimit    = 3000
)

// Config represents analyzer configuration
type Config struct {
	// DiffBudget is the number of diff characters embedded into a prompt
	DiffBudget int `yaml:"diff_budget" env:"DOCWEAVE_ANALYZER_DIFF_BUDGET"`
	// MaxNextSteps caps next steps taken from a JSON response
	MaxNextSteps int `yaml:"max_next_steps" env:"DOCWEAVE_ANALYZER_MAX_NEXT_STEPS"`
	// NarrationInputLimit caps each part of the history sent for repository narration
	NarrationInputLimit int `yaml:"narration_input_limit" env:"DOCWEAVE_ANALYZER_NARRATION_INPUT_LIMIT"`
	MaxDiagrams         int `yaml:"max_diagrams" env:"DOCWEAVE_ANALYZER_MAX_DIAGRAMS"`
	NarrativeLimit      int `yaml:"narrative_limit" env:"DOCWEAVE_ANALYZER_NARRATIVE_LIMIT"`
	IntegrationLimit    int `yaml:"integration_limit" env:"DOCWEAVE_ANALYZER_INTEGRATION_LIMIT"`
}

func (c *Config) PrepareAndValidate() error {
	c.DiffBudget = lang.Check(c.DiffBudget, defaultDiffBudget)
	c.MaxNextSteps = lang.Check(c.MaxNextSteps, defaultMaxNextSteps)
	c.NarrationInputLimit = lang.Check(c.NarrationInputLimit, defaultNarrationInputLimit)
	c.MaxDiagrams = lang.Check(c.MaxDiagrams, defaultMaxDiagrams)
	c.NarrativeLimit = lang.Check(c.NarrativeLimit, defaultNarrativeLimit)
	c.IntegrationLimit = lang.Check(c.IntegrationLimit, defaultIntegrationLimit)
	return nil
}
