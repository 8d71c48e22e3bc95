package claude

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/maxbolgarin/cliex"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTestAgent(t *testing.T, handler http.HandlerFunc) *Agent {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cli, err := cliex.NewWithConfig(cliex.Config{BaseURL: srv.URL, RequestTimeout: 5 * time.Second})
	require.NoError(t, err)

	a, err := New(context.Background(), cli, model.ModelConfig{APIKey: "test-key", URL: srv.URL, Model: "claude-test"})
	require.NoError(t, err)
	return a
}

func TestCallAPI(t *testing.T) {
	var (
		got     messagesRequest
		path    string
		apiKey  string
		version string
	)
	a := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get("x-api-key")
		version = r.Header.Get("anthropic-version")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"content": [
				{"type": "text", "text": "First part. "},
				{"type": "tool_use", "text": "ignored"},
				{"type": "text", "text": "Second part.\n"}
			],
			"usage": {"input_tokens": 20, "output_tokens": 7}
		}`))
	})

	resp, err := a.CallAPI(context.Background(), model.APIRequest{
		Prompt:       "analyze this",
		SystemPrompt: "you are a reviewer",
		MaxTokens:    500,
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/messages", path)
	assert.Equal(t, "test-key", apiKey)
	assert.Equal(t, anthropicVersion, version)
	assert.Equal(t, "claude-test", got.Model)
	assert.Equal(t, "you are a reviewer", got.System)
	assert.Equal(t, 500, got.MaxTokens)
	assert.Equal(t, []message{{Role: "user", Content: "analyze this"}}, got.Messages)

	assert.Equal(t, "First part. Second part.", resp.Content)
	assert.Equal(t, 20, resp.PromptTokens)
	assert.Equal(t, 27, resp.TotalTokens)
}

func TestCallAPI_Errors(t *testing.T) {
	t.Run("error status", func(t *testing.T) {
		a := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type": "error", "error": {"type": "rate_limit_error", "message": "slow down"}}`))
		})
		_, err := a.CallAPI(context.Background(), model.APIRequest{Prompt: "hi"})
		assert.Error(t, err)
		assert.Error(t, a.Check(context.Background()))
	})

	t.Run("no text", func(t *testing.T) {
		a := newTestAgent(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"content": []}`))
		})
		_, err := a.CallAPI(context.Background(), model.APIRequest{Prompt: "hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no text content")
	})
}
