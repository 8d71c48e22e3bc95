package openai

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
	defaultModel      = "gpt-4o-mini"
	defaultURL        = "https://api.openai.com/v1"
	completionsPath   = "/chat/completions"
	defaultTestTokens = 10
)

var (
	_ interfaces.AgentAPI = (*Agent)(nil)
	_ interfaces.Checker  = (*Agent)(nil)
)

// Agent generates text with an OpenAI compatible chat completions API
type Agent struct {
	cli      *cliex.HTTP
	cfg      model.ModelConfig
	endpoint string
}

// New creates a new OpenAI generator
func New(ctx context.Context, cli *cliex.HTTP, cfg model.ModelConfig) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, errm.New("OpenAI API key is required")
	}
	cfg.Model = lang.Check(cfg.Model, defaultModel)
	cfg.URL = strings.TrimRight(lang.Check(cfg.URL, defaultURL), "/")

	cli.C().SetAuthToken(cfg.APIKey)

	agent := &Agent{
		cli:      cli,
		cfg:      cfg,
		endpoint: cfg.URL + completionsPath,
	}

	if cfg.IsTest {
		if err := agent.Check(ctx); err != nil {
			return nil, errm.Wrap(err, "failed to connect to OpenAI API")
		}
	}

	return agent, nil
}

// CallAPI sends system and user messages and returns the first choice
func (a *Agent) CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error) {
	messages := make([]message, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, message{Role: "user", Content: req.Prompt})

	body := chatCompletionRequest{
		Model:       a.cfg.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var resp chatCompletionResponse
	if _, err := a.cli.Post(ctx, a.endpoint, body, &resp); err != nil {
		return model.APIResponse{}, errm.Wrap(err, "failed to make API request")
	}
	if resp.Error != nil {
		return model.APIResponse{}, errm.Errorf("OpenAI API error (%s): %s", resp.Error.Type, resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return model.APIResponse{}, errm.New("no choices in response")
	}

	return model.APIResponse{
		CreateTime:       time.Unix(resp.Created, 0),
		Content:          strings.TrimSpace(resp.Choices[0].Message.Content),
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
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
