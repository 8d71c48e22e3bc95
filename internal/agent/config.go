package agent

import (
	"slices"
	"time"

	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultTemperature  = 0.2
	defaultMaxTokens    = 2000
	defaultTimeout      = 60 * time.Second
	defaultCheckTimeout = 10 * time.Second
	defaultCommand      = "copilot"
	defaultUserAgent    = "docweave/0.1.0 (https://github.com/maxbolgarin/docweave)"

	// PromptPlaceholder is replaced by the prompt text in command arguments
	PromptPlaceholder = "{prompt}"
)

// AgentType represents the type of text generator
type AgentType string

// SupportedAgentTypes defines the supported text generators
const (
	Copilot AgentType = "copilot"
	Gemini  AgentType = "gemini"
	OpenAI  AgentType = "openai"
	Claude  AgentType = "claude"
)

var supportedAgentTypes = []AgentType{Copilot, Gemini, OpenAI, Claude}

var defaultArgs = []string{"-p", PromptPlaceholder}

// Config represents text generator configuration
type Config struct {
	Type AgentType `yaml:"type" env:"DOCWEAVE_AGENT_TYPE"` // copilot, gemini, openai, claude

	// Command and Args are used by the copilot generator, which runs a CLI process
	Command string   `yaml:"command" env:"DOCWEAVE_AGENT_COMMAND"`
	Args    []string `yaml:"args" env:"DOCWEAVE_AGENT_ARGS"`

	APIKey      string  `yaml:"api_key" env:"DOCWEAVE_AGENT_API_KEY"`
	Model       string  `yaml:"model" env:"DOCWEAVE_AGENT_MODEL"`
	Temperature float32 `yaml:"temperature" env:"DOCWEAVE_AGENT_TEMPERATURE"`
	MaxTokens   int     `yaml:"max_tokens" env:"DOCWEAVE_AGENT_MAX_TOKENS"`

	BaseURL      string        `yaml:"base_url" env:"DOCWEAVE_AGENT_BASE_URL"`
	ProxyURL     string        `yaml:"proxy_url" env:"DOCWEAVE_AGENT_PROXY_URL"`
	Timeout      time.Duration `yaml:"timeout" env:"DOCWEAVE_AGENT_TIMEOUT"`
	CheckTimeout time.Duration `yaml:"check_timeout" env:"DOCWEAVE_AGENT_CHECK_TIMEOUT"`
	UserAgent    string        `yaml:"user_agent" env:"DOCWEAVE_AGENT_USER_AGENT"`
	IsTest       bool          `yaml:"is_test" env:"DOCWEAVE_AGENT_IS_TEST"`
}

func (c *Config) PrepareAndValidate() error {
	c.Type = lang.Check(c.Type, Copilot)
	if !slices.Contains(supportedAgentTypes, c.Type) {
		return errm.Errorf("invalid agent type: %s", c.Type)
	}
	if c.Type != Copilot && c.APIKey == "" {
		return errm.Errorf("api key is required for %s", c.Type)
	}

	c.Command = lang.Check(c.Command, defaultCommand)
	if len(c.Args) == 0 {
		c.Args = slices.Clone(defaultArgs)
	}
	c.Temperature = lang.Check(c.Temperature, defaultTemperature)
	c.MaxTokens = lang.Check(c.MaxTokens, defaultMaxTokens)
	c.Timeout = lang.Check(c.Timeout, defaultTimeout)
	c.CheckTimeout = lang.Check(c.CheckTimeout, defaultCheckTimeout)
	c.UserAgent = lang.Check(c.UserAgent, defaultUserAgent)

	return nil
}
