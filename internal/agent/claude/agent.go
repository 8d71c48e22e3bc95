package claude

import (
	"context"
	"strings"
	"time"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
)

const (
	defaultModel      = "claude-3-5-haiku-latest"
	defaultBaseURL    = "https://api.anthropic.com"
	messagesPath      = "/v1/messages"
	anthropicVersion  = "2023-06-01"
	defaultTestTokens = 10
)

var (
	_ interfaces.AgentAPI = (*Agent)(nil)
	_ interfaces.Checker  = (*Agent)(nil)
)

// Agent generates text with the Anthropic Messages API
type Agent struct {
	cfg      model.ModelConfig
	cli      *cliex.HTTP
	endpoint string
}

// New creates a new Claude generator
func New(ctx context.Context, cli *cliex.HTTP, cfg model.ModelConfig) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, errm.New("Claude API key is required")
	}
	cfg.Model = lang.Check(cfg.Model, defaultModel)
	cfg.URL = strings.TrimRight(lang.Check(cfg.URL, defaultBaseURL), "/")

	cli.C().SetHeader("x-api-key", cfg.APIKey)
	cli.C().SetHeader("anthropic-version", anthropicVersion)

	agent := &Agent{
		cfg:      cfg,
		cli:      cli,
		endpoint: cfg.URL + messagesPath,
	}

	if cfg.IsTest {
		if err := agent.Check(ctx); err != nil {
			return nil, errm.Wrap(err, "failed to connect to Claude API")
		}
	}

	return agent, nil
}

// CallAPI sends a single user message with an optional system prompt
func (a *Agent) CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error) {
	body := messagesRequest{
		Model:       a.cfg.Model,
		System:      req.SystemPrompt,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages:    []message{{Role: "user", Content: req.Prompt}},
	}

	var resp messagesResponse
	if _, err := a.cli.Post(ctx, a.endpoint, body, &resp); err != nil {
		return model.APIResponse{}, errm.Wrap(err, "failed to make API request")
	}
	if resp.Error != nil {
		return model.APIResponse{}, errm.Errorf("Claude API error (%s): %s", resp.Error.Type, resp.Error.Message)
	}

	var text strings.Builder
	for _, c := range resp.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	if text.Len() == 0 {
		return model.APIResponse{}, errm.New("no text content in response")
	}

	return model.APIResponse{
		CreateTime:       time.Now(),
		Content:          strings.TrimSpace(text.String()),
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}, nil
}

// Check sends a tiny prompt to verify credentials and connectivity
func (a *Agent) Check(ctx context.Context) error {
	_, err := a.CallAPI(ctx, model.APIRequest{
		Prompt:    "Reply with OK.",
		MaxTokens: defaultTestTokens,
	})
	if err != nil {
		return errm.Wrap(err, "connection check failed")
	}
	return nil
}
