// Package copilot runs an AI command-line tool as a child process.
package copilot

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"github.com/maxbolgarin/docweave/internal/model"
	"github.com/maxbolgarin/docweave/internal/model/interfaces"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/lang"
	"github.com/maxbolgarin/logze/v2"
)

const (
	defaultCommand = "copilot"
	// after the context is done, the process is killed and pipes are closed after this delay
	waitDelay   = 2 * time.Second
	stderrLimit = 500
)

// ErrNotInstalled is returned when the command cannot be found in PATH
var ErrNotInstalled = errm.New("command not found")

var (
	_ interfaces.AgentAPI = (*Agent)(nil)
	_ interfaces.Checker  = (*Agent)(nil)
)

// Config represents CLI generator configuration
type Config struct {
	Command string
	// Args may contain Placeholder, which is replaced by the prompt;
	// without a placeholder the prompt is written to stdin
	Args        []string
	Model       string
	Placeholder string
}

// Agent implements AgentAPI by running a CLI process per prompt
type Agent struct {
	cfg Config
	log logze.Logger
}

// New creates a new CLI generator
func New(cfg Config) (*Agent, error) {
	cfg.Command = lang.Check(cfg.Command, defaultCommand)
	if strings.ContainsAny(cfg.Command, "\n\r") {
		return nil, errm.Errorf("invalid command: %q", cfg.Command)
	}
	return &Agent{
		cfg: cfg,
		log: logze.With("component", "copilot"),
	}, nil
}

// CallAPI runs the command with the prompt and returns its standard output.
// The process is killed when ctx is done.
func (a *Agent) CallAPI(ctx context.Context, req model.APIRequest) (model.APIResponse, error) {
	prompt := model.Prompt{SystemPrompt: req.SystemPrompt, UserPrompt: req.Prompt}.Text()
	args, useStdin := a.buildArgs(prompt)

	stdout, stderr, err := a.run(ctx, args, lang.If(useStdin, prompt, ""))
	if err != nil {
		return model.APIResponse{}, a.wrapRunError(ctx, err, stderr)
	}

	return model.APIResponse{
		CreateTime: time.Now(),
		Content:    stdout,
	}, nil
}

// Check verifies that the command exists and answers to --version.
func (a *Agent) Check(ctx context.Context) error {
	if _, err := exec.LookPath(a.cfg.Command); err != nil {
		return errm.Wrap(ErrNotInstalled, a.cfg.Command)
	}
	_, stderr, err := a.run(ctx, []string{"--version"}, "")
	if err != nil {
		return a.wrapRunError(ctx, err, stderr)
	}
	return nil
}

func (a *Agent) buildArgs(prompt string) ([]string, bool) {
	args := make([]string, 0, len(a.cfg.Args)+2)
	replaced := false
	for _, arg := range a.cfg.Args {
		if a.cfg.Placeholder != "" && strings.Contains(arg, a.cfg.Placeholder) {
			arg = strings.ReplaceAll(arg, a.cfg.Placeholder, prompt)
			replaced = true
		}
		args = append(args, arg)
	}
	if a.cfg.Model != "" {
		args = append(args, "--model", a.cfg.Model)
	}
	return args, !replaced
}

func (a *Agent) run(ctx context.Context, args []string, stdin string) (string, string, error) {
	cmd := exec.CommandContext(ctx, a.cfg.Command, args...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	a.log.Debug("running command", "command", a.cfg.Command, "args_count", len(args))

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func (a *Agent) wrapRunError(ctx context.Context, err error, stderr string) error {
	var execErr *exec.Error
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.As(err, &execErr) {
		return errm.Wrap(ErrNotInstalled, a.cfg.Command)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return errm.Errorf("%s exited with code %d: %s", a.cfg.Command, exitErr.ExitCode(),
			model.Truncate(strings.TrimSpace(stderr), stderrLimit))
	}
	return errm.Wrap(err, "failed to run "+a.cfg.Command)
}
