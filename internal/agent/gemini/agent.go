package gemini

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/erro"
	"github.com/maxbolgarin/lang"
	"google.golang.org/genai"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultTestTokens = 10
)

var (
	_ interfaces.AgentAPI = (*Agent)(nil)
	_ interfaces.Checker  = (*Agent)(nil)
)

// Agent generates text with Google Gemini
type Agent struct {
	client *genai.Client
	model  string
}

// New creates a new Gemini generator
func New(ctx context.Context, cfg model.ModelConfig) (*Agent, error) {
	if cfg.APIKey == "" {
		return nil, erro.New("Gemini API key is required")
	}

	httpClient := &http.Client{}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, erro.Wrap(err, "failed to parse proxy URL")
		}
		httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.URL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.URL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, erro.Wrap(err, "failed to create Gemini client")
	}

	agent := &Agent{
		client: client,
		model:  lang.Check(cfg.Model, defaultModel),
	}

	if cfg.IsTest {
		if err := agent.Check(ctx); err != nil {
			return nil, erro.Wrap(err, "failed to connect to Gemini API")
		}
	}

	return agent, nil
}

// CallAPI generates content for a single prompt and concatenates the text parts of the first candidate
func (a *Agent) CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "text/plain",
		Temperature:      &req.Temperature,
		MaxOutputTokens:  int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}}
	}

	result, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}},
		config,
	)
	if err != nil {
		return model.APIResponse{}, wrapAPIError(err)
	}

	var text strings.Builder
	if len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		for _, part := range result.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}

	out := model.APIResponse{
		CreateTime: result.CreateTime,
		Content:    strings.TrimSpace(text.String()),
	}
	if result.UsageMetadata != nil {
		out.PromptTokens = int(result.UsageMetadata.PromptTokenCount)
		out.CompletionTokens = int(result.UsageMetadata.CandidatesTokenCount)
		out.TotalTokens = int(result.UsageMetadata.TotalTokenCount)
	}

	return out, nil
}

// Check sends a tiny prompt to verify credentials and connectivity
func (a *Agent) Check(ctx context.Context) error {
	_, err := a.CallAPI(ctx, model.APIRequest{
		Prompt:    "Reply with OK.",
		MaxTokens: defaultTestTokens,
	})
	return err
}

func wrapAPIError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "location is not supported"):
		return erro.New("region not supported by Gemini API")
	case strings.Contains(msg, "429"):
		return erro.New("Gemini rate limit exceeded")
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"):
		return erro.New("Gemini authentication failed")
	case strings.Contains(msg, "500"), strings.Contains(msg, "502"), strings.Contains(msg, "503"):
		return erro.New("Gemini API is unavailable")
	default:
		return erro.Wrap(err, "Gemini API error")
	}
}
