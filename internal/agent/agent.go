package agent

import (
	"context"
	"strings"

	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/docweave/internal/agent/claude"
	"github.com/maxbolgarin/docweave/internal/agent/copilot"
	"github.com/maxbolgarin/docweave/internal/agent/gemini"
	"github.com/maxbolgarin/docweave/internal/agent/openai"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

// Agent invokes a text generator with a hard timeout and cleans its output
type Agent struct {
	cfg Config
	log logze.Logger
	api interfaces.AgentAPI
}

// New creates an agent for the configured generator type
func New(ctx context.Context, cfg Config) (*Agent, error) {
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}

	modelCfg := model.ModelConfig{
		APIKey:   cfg.APIKey,
		Model:    cfg.Model,
		URL:      cfg.BaseURL,
		ProxyURL: cfg.ProxyURL,
		IsTest:   cfg.IsTest,
	}

	var (
		api interfaces.AgentAPI
		err error
	)
	switch cfg.Type {
	case Copilot:
		api, err = copilot.New(copilot.Config{
			Command:     cfg.Command,
			Args:        cfg.Args,
			Model:       cfg.Model,
			Placeholder: PromptPlaceholder,
		})
	case Gemini:
		api, err = gemini.New(ctx, modelCfg)
	case OpenAI, Claude:
		var cli *cliex.HTTP
		cli, err = cliex.NewWithConfig(cliex.Config{
			BaseURL:        cfg.BaseURL,
			UserAgent:      cfg.UserAgent,
			ProxyAddress:   cfg.ProxyURL,
			RequestTimeout: cfg.Timeout,
		})
		if err != nil {
			return nil, errm.Wrap(err, "failed to create HTTP client")
		}
		if cfg.Type == OpenAI {
			api, err = openai.New(ctx, cli, modelCfg)
		} else {
			api, err = claude.New(ctx, cli, modelCfg)
		}
	default:
		return nil, errm.Errorf("unsupported agent type: %s", cfg.Type)
	}
	if err != nil {
		return nil, errm.Wrap(err, "failed to create agent")
	}

	return NewWithAPI(cfg, api)
}

// NewWithAPI creates an agent on top of an existing generator implementation
func NewWithAPI(cfg Config, api interfaces.AgentAPI) (*Agent, error) {
	if api == nil {
		return nil, errm.New("generator is nil")
	}
	if err := cfg.PrepareAndValidate(); err != nil {
		return nil, errm.Wrap(err, "validate config")
	}
	return &Agent{
		cfg: cfg,
		log: logze.With("component", "agent", "type", cfg.Type),
		api: api,
	}, nil
}

// Type returns the configured generator type.
func (a *Agent) Type() AgentType {
	return a.cfg.Type
}

// Generate sends the prompt to the generator and returns the response without usage statistics.
// Errors are one of ErrToolUnavailable, ErrToolTimeout, ErrToolFailure or ErrEmptyResponse.
func (a *Agent) Generate(ctx context.Context, prompt model.Prompt) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	response, err := a.api.CallAPI(callCtx, model.APIRequest{
		Prompt:       prompt.UserPrompt,
		SystemPrompt: prompt.SystemPrompt,
		MaxTokens:    a.cfg.MaxTokens,
		Temperature:  a.cfg.Temperature,
	})
	if err != nil {
		return "", a.classify(ctx, callCtx, err)
	}

	content := strings.TrimSpace(StripUsageStats(response.Content))
	if content == "" {
		return "", ErrEmptyResponse
	}

	a.log.Debug("generated response", "length", len(content), "total_tokens", response.TotalTokens)

	return content, nil
}

// Check reports whether the generator can be used.
func (a *Agent) Check(ctx context.Context) error {
	checker, ok := a.api.(interfaces.Checker)
	if !ok {
		return nil
	}
	checkCtx, cancel := context.WithTimeout(ctx, a.cfg.CheckTimeout)
	defer cancel()

	if err := checker.Check(checkCtx); err != nil {
		return a.classify(ctx, checkCtx, err)
	}
	return nil
}

// Instructions returns a human readable hint on how to make the generator available.
func (a *Agent) Instructions() string {
	return Instructions(a.cfg.Type)
}

// Instructions returns installation hints for a generator type.
func Instructions(t AgentType) string {
	switch t {
	case Copilot:
		return "Install GitHub Copilot CLI with `npm install -g @github/copilot`, run `copilot` once to log in, " +
			"then make sure the `copilot` binary is in PATH"
	default:
		return lang.If(t == "", "", "Set DOCWEAVE_AGENT_API_KEY for the "+string(t)+" generator")
	}
}

func (a *Agent) classify(parent, callCtx context.Context, err error) error {
	switch {
	case errm.Is(err, ErrToolUnavailable), errm.Is(err, ErrToolTimeout), errm.Is(err, ErrToolFailure):
		return err
	case errm.Is(err, copilot.ErrNotInstalled):
		return errm.Wrap(ErrToolUnavailable, err.Error())
	case parent.Err() != nil:
		return parent.Err()
	case errm.Is(callCtx.Err(), context.DeadlineExceeded), errm.Is(err, context.DeadlineExceeded):
		return errm.Wrap(ErrToolTimeout, a.cfg.Timeout.String())
	default:
		return errm.Wrap(ErrToolFailure, err.Error())
	}
}
