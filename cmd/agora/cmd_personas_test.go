package main

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"agora/pkg/debate"
	"agora/pkg/panel"
)

// fakePersonaSource returns a fixed roster or a fixed error.
type fakePersonaSource struct {
	roster []debate.Panelist
	err    error
}

func (f *fakePersonaSource) GeneratePersonas(_ context.Context, _ string, _ int) ([]debate.Panelist, error) {
	return f.roster, f.err
}

func TestResolveRoster_UsesGeneratedPersonas(t *testing.T) {
	want := []debate.Panelist{
		{Name: "Ada", Expertise: "economist"},
		{Name: "Bram", Expertise: "urban planner"},
	}
	src := &fakePersonaSource{roster: want}

	var buf bytes.Buffer
	got := resolveRoster(context.Background(), src, &buf, "transit", 2)

	if len(got) != 2 || got[0].Name != "Ada" || got[1].Name != "Bram" {
		t.Errorf("unexpected roster: %+v", got)
	}
	if buf.Len() != 0 {
		t.Errorf("no fallback message expected, got: %q", buf.String())
	}
}

func TestResolveRoster_FallsBackToDefaultPanel(t *testing.T) {
	src := &fakePersonaSource{err: fmt.Errorf("no personas parsed from generated text")}

	var buf bytes.Buffer
	got := resolveRoster(context.Background(), src, &buf, "transit", 4)

	if !strings.Contains(buf.String(), "using the default panel") {
		t.Errorf("expected fallback notice, got: %q", buf.String())
	}
	want := panel.DefaultPanel()
	if len(got) != len(want) {
		t.Fatalf("got %d panelists, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Name != want[i].Name {
			t.Errorf("panelist %d = %q, want %q", i, got[i].Name, want[i].Name)
		}
	}
}

func TestPrintPersonas_RendersBlocks(t *testing.T) {
	roster := []debate.Panelist{
		{
			Name:        "Ada",
			Expertise:   "economist",
			Background:  "Ran a congestion pricing pilot.",
			Perspective: "Markets allocate road space better than bans.",
			Style:       "dry, numbers-first",
		},
		{Name: "Bram"},
	}

	var buf bytes.Buffer
	printPersonas(&buf, roster)

	output := buf.String()
	if !containsAll(output,
		"Name: Ada",
		"Expertise: economist",
		"Background: Ran a congestion pricing pilot.",
		"Perspective: Markets allocate road space better than bans.",
		"Style: dry, numbers-first",
		"Name: Bram",
	) {
		t.Errorf("unexpected persona output:\n%s", output)
	}

	// Bram has no detail fields, so his block is the name line alone.
	if strings.Count(output, "Expertise:") != 1 {
		t.Errorf("empty fields should be omitted:\n%s", output)
	}

	blocks := strings.Split(strings.TrimRight(output, "\n"), "\n\n")
	if len(blocks) != 2 {
		t.Errorf("expected 2 persona blocks, got %d:\n%s", len(blocks), output)
	}
}
