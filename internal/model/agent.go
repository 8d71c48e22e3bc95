package model

import "time"

// ModelConfig represents model-specific configuration
type ModelConfig struct {
	APIKey   string
	Model    string
	URL      string
	ProxyURL string
	IsTest   bool
}

// APIRequest represents a request to a text generator
type APIRequest struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float32
}

// APIResponse represents a response from a text generator
type APIResponse struct {
	CreateTime       time.Time
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Prompt represents a structured prompt for LLM
type Prompt struct {
	SystemPrompt string
	UserPrompt   string
}

// Text joins system and user prompt for generators that accept a single prompt string.
func (p Prompt) Text() string {
	if p.SystemPrompt == "" {
		return p.UserPrompt
	}
	return p.SystemPrompt + "\n\n" + p.UserPrompt
}
