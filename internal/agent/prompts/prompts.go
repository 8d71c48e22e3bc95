// Package prompts builds the prompts sent to text generators.
package prompts

import (
	"fmt"
	"strings"

	"github.com/maxbolgarin/docweave/internal/model"
)

// Builder builds prompts for commit analysis and repository narration
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildCommitAnalysisPrompt creates a prompt that asks for a single JSON object
// with summary, why, next_steps and importance of one commit.
// The diff is expected to be truncated already.
func (b *Builder) BuildCommitAnalysisPrompt(message, diff, context string) model.Prompt {
	var extra string
	if context = strings.TrimSpace(context); context != "" {
		extra = fmt.Sprintf(additionalContextTemplate, context)
	}
	return model.Prompt{
		SystemPrompt: commitAnalysisSystemPrompt,
		UserPrompt:   fmt.Sprintf(commitAnalysisUserTemplate, strings.TrimSpace(message), diff, extra),
	}
}

// BuildDiagramsPrompt creates a prompt that asks for fenced Mermaid diagrams
func (b *Builder) BuildDiagramsPrompt(repoName, history string) model.Prompt {
	return model.Prompt{
		SystemPrompt: narrationSystemPrompt,
		UserPrompt:   fmt.Sprintf(diagramsUserTemplate, repoName, history),
	}
}

// BuildNarrativePrompt creates a prompt that asks for a prose narrative of the history
func (b *Builder) BuildNarrativePrompt(repoName, history string) model.Prompt {
	return model.Prompt{
		SystemPrompt: narrationSystemPrompt,
		UserPrompt:   fmt.Sprintf(narrativeUserTemplate, repoName, history),
	}
}

// BuildIntegrationPrompt creates a prompt that asks for integration insights in Markdown sections
func (b *Builder) BuildIntegrationPrompt(repoName, history string) model.Prompt {
	return model.Prompt{
		SystemPrompt: narrationSystemPrompt,
		UserPrompt:   fmt.Sprintf(integrationUserTemplate, repoName, history),
	}
}
