// Package config loads agora's TOML configuration and the YAML persona
// roster. Every setting has a compiled default; a missing file is not an
// error, so a fresh install runs with no setup.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"agora/pkg/backend"
	"agora/pkg/debate"
	"agora/pkg/dispatcher"

	"github.com/pelletier/go-toml/v2"
)

// Config is the root of config.toml.
type Config struct {
	Mode     string          `toml:"mode"` // dynamic | static
	Backend  BackendSettings `toml:"backend"`
	Rounds   RoundSettings   `toml:"rounds"`
	PacingMS int             `toml:"pacing_ms"`
}

// BackendSettings selects and parameterizes the text-generation backend.
type BackendSettings struct {
	Kind      string `toml:"kind"`
	Command   string `toml:"command"`
	Model     string `toml:"model"`
	BaseURL   string `toml:"base_url"`
	APIKeyEnv string `toml:"api_key_env"`
	TimeoutS  int    `toml:"timeout_s"`
}

// RoundSettings bounds the debate loop.
type RoundSettings struct {
	Min                   int    `toml:"min"`
	Max                   int    `toml:"max"`
	AnalysisFrequency     int    `toml:"analysis_frequency"`
	InterventionThreshold string `toml:"intervention_threshold"`
}

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		Mode: "dynamic",
		Backend: BackendSettings{
			Kind:      backend.KindCLI,
			Command:   "claude",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Rounds: RoundSettings{
			Min:                   3,
			Max:                   10,
			AnalysisFrequency:     2,
			InterventionThreshold: string(debate.TempStuck),
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// EngineConfig converts the round settings into the engine's Config.
func (c Config) EngineConfig() dispatcher.Config {
	return dispatcher.Config{
		MinRounds:             c.Rounds.Min,
		MaxRounds:             c.Rounds.Max,
		AnalysisFrequency:     c.Rounds.AnalysisFrequency,
		InterventionThreshold: threshold(c.Rounds.InterventionThreshold),
		PacingDelay:           time.Duration(c.PacingMS) * time.Millisecond,
	}
}

// threshold maps a configured temperature name to the ordinal, falling
// back to stuck for anything unrecognized.
func threshold(name string) debate.Temperature {
	t := debate.Temperature(name)
	switch t {
	case debate.TempCold, debate.TempStuck, debate.TempNeutral, debate.TempHeated:
		return t
	}
	return debate.TempStuck
}

// BackendConfig converts the backend settings, resolving the API key
// from the configured environment variable.
func (c Config) BackendConfig() backend.Config {
	return backend.Config{
		Kind:     c.Backend.Kind,
		Command:  c.Backend.Command,
		Model:    c.Backend.Model,
		BaseURL:  c.Backend.BaseURL,
		APIKey:   os.Getenv(c.Backend.APIKeyEnv),
		TimeoutS: c.Backend.TimeoutS,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agora", "config.toml")
}

// DefaultPersonasPath returns the default persona roster location.
func DefaultPersonasPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agora", "personas.yaml")
}
