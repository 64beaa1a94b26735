// Package backend provides the text-generation backends a debate runs on:
// a one-shot CLI subprocess (claude -p style) and an OpenAI-compatible HTTP
// API. Callers hold the Backend interface and never know which one answers.
package backend

import (
	"context"
	"fmt"
)

// Request is one completion call. Model overrides the backend's configured
// default when set; MaxTokens and Temperature are passed through when the
// backend supports them.
type Request struct {
	System      string
	Prompt      string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Backend produces one completion per call.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Backend kinds accepted in configuration.
const (
	KindCLI    = "cli"
	KindOpenAI = "openai"
)

// Config selects and parameterizes a backend.
type Config struct {
	Kind     string // "cli" or "openai"
	Command  string // cli: executable name, default "claude"
	Model    string // default model for requests that don't set one
	BaseURL  string // openai: API root, default https://api.openai.com/v1
	APIKey   string // openai: bearer token, usually from env
	TimeoutS int    // per-call timeout in seconds, 0 = none
}

// UnknownBackendError represents a configuration with an unrecognized kind.
type UnknownBackendError struct {
	Kind string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown backend kind %q", e.Kind)
}

// New builds the backend named by cfg.Kind.
func New(cfg Config) (Backend, error) {
	switch cfg.Kind {
	case KindCLI, "":
		return NewCLIBackend(cfg), nil
	case KindOpenAI:
		return NewOpenAIBackend(cfg), nil
	default:
		return nil, &UnknownBackendError{Kind: cfg.Kind}
	}
}
