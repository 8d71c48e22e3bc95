package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maxbolgarin/docweave/internal/agent"
	"github.com/maxbolgarin/docweave/internal/progress"
	"github.com/maxbolgarin/errm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
app:
  output_dir: docs/generated
agent:
  type: copilot
  command: my-copilot
  timeout: 30s
analyzer:
  diff_budget: 3000
server:
  port: 9000
progress:
  type: memory
  capacity: 10
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "docweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, t.TempDir(), testConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "docs/generated", cfg.App.OutputDir)
	assert.Equal(t, agent.Copilot, cfg.Agent.Type)
	assert.Equal(t, "my-copilot", cfg.Agent.Command)
	assert.Equal(t, 30*time.Second, cfg.Agent.Timeout)
	assert.Equal(t, 3000, cfg.Analyzer.DiffBudget)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, progress.MemoryStore, cfg.Progress.Type)
	assert.Equal(t, 10, cfg.Progress.Capacity)

	// defaults
	assert.Equal(t, 10, cfg.Provider.DefaultLimit)
	assert.Equal(t, 4, cfg.Analyzer.MaxDiagrams)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), testConfig)
	t.Setenv("DOCWEAVE_AGENT_COMMAND", "env-copilot")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-copilot", cfg.Agent.Command)
}

func TestLoad_EnvOnly(t *testing.T) {
	t.Setenv("DOCWEAVE_OUTPUT_DIR", "out")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.App.OutputDir)
	assert.Equal(t, agent.Copilot, cfg.Agent.Type)
}

func TestLoad_Debug(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), "debug: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Debug)

	t.Setenv("DOCWEAVE_DEBUG", "true")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Debug)

	t.Setenv("DOCWEAVE_PROVIDER_SHA_LENGTH", "12")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Provider.SHALength)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errm.Is(err, ErrConfigNotFound))

	path := writeConfig(t, t.TempDir(), "agent:\n  type: gemini\n")
	_, err = Load(path)
	assert.True(t, errm.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "api key is required")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, testConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg Config) { changes <- cfg })
	}()

	// give the watcher time to start
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, dir, "agent:\n  command: reloaded-copilot\n")

	select {
	case cfg := <-changes:
		assert.Equal(t, "reloaded-copilot", cfg.Agent.Command)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
