package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds all resolved agora state file paths.
// Use ResolvePaths() to populate this struct with defaults + env overrides.
type Paths struct {
	AgoraHome    string // ~/.agora or AGORA_HOME
	ConfigPath   string // config.toml or AGORA_CONFIG_PATH
	PersonasPath string // personas.yaml or AGORA_PERSONAS_PATH
	DBPath       string // agora.db or AGORA_DB_PATH
}

// ResolvePaths returns all agora paths, respecting env var overrides.
// Environment variables:
//   - AGORA_HOME: base directory for all agora state (default: ~/.agora)
//   - AGORA_CONFIG_PATH: config file (default: $AGORA_HOME/config.toml)
//   - AGORA_PERSONAS_PATH: persona roster (default: $AGORA_HOME/personas.yaml)
//   - AGORA_DB_PATH: archive database (default: $AGORA_HOME/agora.db)
func ResolvePaths() (*Paths, error) {
	home, err := resolveAgoraHome()
	if err != nil {
		return nil, err
	}

	return &Paths{
		AgoraHome:    home,
		ConfigPath:   resolvePathWithEnv("AGORA_CONFIG_PATH", home, "config.toml"),
		PersonasPath: resolvePathWithEnv("AGORA_PERSONAS_PATH", home, "personas.yaml"),
		DBPath:       resolvePathWithEnv("AGORA_DB_PATH", home, "agora.db"),
	}, nil
}

// resolveAgoraHome returns the agora home directory from AGORA_HOME or ~/.agora.
func resolveAgoraHome() (string, error) {
	if v := os.Getenv("AGORA_HOME"); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".agora"), nil
}

// resolvePathWithEnv returns the path from envKey if set, otherwise joins base + suffix.
func resolvePathWithEnv(envKey, base, suffix string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return filepath.Join(base, suffix)
}

// bootstrapAgoraDir creates the agora state directory with 0700 permissions.
// Idempotent, an existing directory is a no-op.
func bootstrapAgoraDir(dir string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create agora dir %s: %w", dir, err)
	}
	return nil
}
