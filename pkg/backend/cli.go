package backend

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Process represents a running subprocess. Interface rather than *exec.Cmd
// so tests can substitute fakes.
type Process interface {
	Wait() error
	Kill() error
	Output() (string, error) // read stdout after completion
}

// Spawner creates one-shot completion subprocesses.
type Spawner interface {
	Spawn(ctx context.Context, name string, args ...string) (Process, error)
}

// ExecSpawner implements Spawner using os/exec.
type ExecSpawner struct{}

// Spawn starts the subprocess with stdout and stderr captured together.
func (s *ExecSpawner) Spawn(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var outBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &outBuf

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}
	return &execProcess{cmd: cmd, output: &outBuf}, nil
}

// execProcess wraps exec.Cmd to implement Process.
type execProcess struct {
	cmd    *exec.Cmd
	output *strings.Builder
}

// Wait waits for the subprocess to exit.
func (p *execProcess) Wait() error {
	if err := p.cmd.Wait(); err != nil {
		return fmt.Errorf("wait: %w", err)
	}
	return nil
}

// Kill sends SIGKILL to the subprocess.
func (p *execProcess) Kill() error {
	if err := p.cmd.Process.Kill(); err != nil {
		return fmt.Errorf("kill: %w", err)
	}
	return nil
}

func (p *execProcess) Output() (string, error) { return p.output.String(), nil } //nolint:revive // interface impl

// CLIBackend runs completions by spawning a prompt-mode subprocess per call,
// the same way coding-agent CLIs are driven in batch.
type CLIBackend struct {
	spawner Spawner
	command string
	model   string
	timeout time.Duration
}

// NewCLIBackend builds a CLI backend from cfg using the real ExecSpawner.
func NewCLIBackend(cfg Config) *CLIBackend {
	command := cfg.Command
	if command == "" {
		command = "claude"
	}
	return &CLIBackend{
		spawner: &ExecSpawner{},
		command: command,
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutS) * time.Second,
	}
}

// SetSpawner replaces the subprocess spawner (for testing).
func (b *CLIBackend) SetSpawner(s Spawner) { b.spawner = s }

// Complete spawns one subprocess, waits for it, and returns trimmed stdout.
// The system text is folded into the prompt since prompt-mode CLIs take a
// single instruction string.
func (b *CLIBackend) Complete(ctx context.Context, req Request) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\n" + req.Prompt
	}
	model := req.Model
	if model == "" {
		model = b.model
	}

	args := []string{"-p", prompt}
	if model != "" {
		args = append(args, "--model", model)
	}

	proc, err := b.spawner.Spawn(ctx, b.command, args...)
	if err != nil {
		return "", fmt.Errorf("start completion: %w", err)
	}
	if err := proc.Wait(); err != nil {
		out, _ := proc.Output()
		return "", fmt.Errorf("completion failed: %w (output: %s)", err, truncate(out, 200))
	}
	out, err := proc.Output()
	if err != nil {
		return "", fmt.Errorf("read completion output: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// truncate shortens s to at most n bytes for error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
