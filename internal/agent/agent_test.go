package agent

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxbolgarin/docweave/internal/agent/copilot"
	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/errm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	content  string
	err      error
	delay    time.Duration
	checkErr error
	last     model.APIRequest
}

func (f *fakeAPI) CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error) {
	f.last = req
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return model.APIResponse{}, ctx.Err()
		}
	}
	if f.err != nil {
		return model.APIResponse{}, f.err
	}
	return model.APIResponse{Content: f.content}, nil
}

func (f *fakeAPI) Check(context.Context) error {
	return f.checkErr
}

func newTestAgent(t *testing.T, api *fakeAPI, timeout time.Duration) *Agent {
	t.Helper()
	a, err := NewWithAPI(Config{Timeout: timeout}, api)
	require.NoError(t, err)
	return a
}

func TestConfigPrepareAndValidate(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.PrepareAndValidate())
	assert.Equal(t, Copilot, cfg.Type)
	assert.Equal(t, "copilot", cfg.Command)
	assert.Equal(t, []string{"-p", PromptPlaceholder}, cfg.Args)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 2000, cfg.MaxTokens)

	cfg = Config{Type: "unknown"}
	err := cfg.PrepareAndValidate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid agent type: unknown")

	cfg = Config{Type: OpenAI}
	assert.Error(t, cfg.PrepareAndValidate(), "api key is required")

	cfg = Config{Type: Claude, APIKey: "key"}
	assert.NoError(t, cfg.PrepareAndValidate())
}

func TestGenerate(t *testing.T) {
	api := &fakeAPI{content: "{\"summary\": \"s\"}\n\nTotal usage est: 1 Premium request\n"}
	a := newTestAgent(t, api, time.Second)

	got, err := a.Generate(context.Background(), model.Prompt{SystemPrompt: "sys", UserPrompt: "user"})
	require.NoError(t, err)
	assert.Equal(t, "{\"summary\": \"s\"}", got)
	assert.Equal(t, "sys", api.last.SystemPrompt)
	assert.Equal(t, "user", api.last.Prompt)
	assert.Equal(t, 2000, api.last.MaxTokens)
}

func TestGenerate_Errors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		a := newTestAgent(t, &fakeAPI{content: "Total usage est: 1 request"}, time.Second)
		_, err := a.Generate(context.Background(), model.Prompt{UserPrompt: "x"})
		assert.True(t, errm.Is(err, ErrEmptyResponse))
	})

	t.Run("timeout", func(t *testing.T) {
		a := newTestAgent(t, &fakeAPI{content: "late", delay: time.Second}, 20*time.Millisecond)
		start := time.Now()
		_, err := a.Generate(context.Background(), model.Prompt{UserPrompt: "x"})
		assert.True(t, errm.Is(err, ErrToolTimeout))
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("not installed", func(t *testing.T) {
		a := newTestAgent(t, &fakeAPI{err: errm.Wrap(copilot.ErrNotInstalled, "copilot")}, time.Second)
		_, err := a.Generate(context.Background(), model.Prompt{UserPrompt: "x"})
		assert.True(t, errm.Is(err, ErrToolUnavailable))
	})

	t.Run("failure", func(t *testing.T) {
		a := newTestAgent(t, &fakeAPI{err: errors.New("exit status 2")}, time.Second)
		_, err := a.Generate(context.Background(), model.Prompt{UserPrompt: "x"})
		assert.True(t, errm.Is(err, ErrToolFailure))
		assert.Contains(t, err.Error(), "exit status 2")
	})

	t.Run("parent canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		a := newTestAgent(t, &fakeAPI{content: "x", delay: time.Second}, time.Second)
		_, err := a.Generate(ctx, model.Prompt{UserPrompt: "x"})
		assert.True(t, errm.Is(err, context.Canceled))
	})
}

func TestCheck(t *testing.T) {
	a := newTestAgent(t, &fakeAPI{}, time.Second)
	assert.NoError(t, a.Check(context.Background()))

	a = newTestAgent(t, &fakeAPI{checkErr: errm.Wrap(copilot.ErrNotInstalled, "copilot")}, time.Second)
	assert.True(t, errm.Is(a.Check(context.Background()), ErrToolUnavailable))
}

func TestInstructions(t *testing.T) {
	assert.Contains(t, Instructions(Copilot), "npm install -g @github/copilot")
	assert.Contains(t, Instructions(Gemini), "DOCWEAVE_AGENT_API_KEY")
	assert.Empty(t, Instructions(""))
}

func TestCheck_MissingBinary(t *testing.T) {
	api, err := copilot.New(copilot.Config{Command: filepath.Join(t.TempDir(), "missing")})
	require.NoError(t, err)
	a, err := NewWithAPI(Config{}, api)
	require.NoError(t, err)

	err = a.Check(context.Background())
	assert.True(t, errm.Is(err, ErrToolUnavailable), err)
	assert.False(t, errm.Is(err, ErrToolFailure))

	_, err = a.Generate(context.Background(), model.Prompt{UserPrompt: "x"})
	assert.True(t, errm.Is(err, ErrToolUnavailable), err)
}
