package config

import (
	"errors"
	"fmt"
	"os"

	"agora/pkg/debate"

	"gopkg.in/yaml.v3"
)

// personaEntry mirrors debate.Panelist in personas.yaml. Humanness is
// decided at run time by the --human flag, never stored.
type personaEntry struct {
	Name        string `yaml:"name"`
	Expertise   string `yaml:"expertise,omitempty"`
	Background  string `yaml:"background,omitempty"`
	Perspective string `yaml:"perspective,omitempty"`
	Style       string `yaml:"style,omitempty"`
}

type personasFile struct {
	Personas []personaEntry `yaml:"personas"`
}

// LoadPersonas reads a persona roster from a YAML file. A missing file
// returns nil without error; callers fall back to the default panel.
func LoadPersonas(path string) ([]debate.Panelist, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read personas %s: %w", path, err)
	}

	var f personasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse personas %s: %w", path, err)
	}

	roster := make([]debate.Panelist, 0, len(f.Personas))
	for _, p := range f.Personas {
		if p.Name == "" {
			continue
		}
		roster = append(roster, debate.Panelist{
			Name:        p.Name,
			Expertise:   p.Expertise,
			Background:  p.Background,
			Perspective: p.Perspective,
			Style:       p.Style,
		})
	}
	return roster, nil
}

// SavePersonas writes a persona roster as YAML.
func SavePersonas(path string, roster []debate.Panelist) error {
	f := personasFile{Personas: make([]personaEntry, 0, len(roster))}
	for _, p := range roster {
		f.Personas = append(f.Personas, personaEntry{
			Name:        p.Name,
			Expertise:   p.Expertise,
			Background:  p.Background,
			Perspective: p.Perspective,
			Style:       p.Style,
		})
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal personas: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write personas %s: %w", path, err)
	}
	return nil
}
