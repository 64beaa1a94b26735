package panel_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"agora/pkg/debate"
	"agora/pkg/panel"
)

// fakeResponder records calls and returns fixed text.
type fakeResponder struct {
	turns []string
}

func (f *fakeResponder) Briefing(_ context.Context, topic string, _ []debate.Panelist) (string, error) {
	return "briefing on " + topic, nil
}

func (f *fakeResponder) ModeratorText(_ context.Context, _ debate.ModeratorBrief) (string, error) {
	return "moderator text", nil
}

func (f *fakeResponder) GenerateTurn(_ context.Context, p debate.Panelist, _ string) (string, error) {
	f.turns = append(f.turns, p.Name)
	return "generated line from " + p.Name, nil
}

func (f *fakeResponder) Summary(_ context.Context, _, _ string) (string, error) {
	return "summary", nil
}

func (f *fakeResponder) Conclusion(_ context.Context, _, _ string) (string, error) {
	return "conclusion", nil
}

func TestHumanBridgeReadsHumanTurn(t *testing.T) {
	next := &fakeResponder{}
	var out strings.Builder
	bridge := panel.NewHumanBridge(next, strings.NewReader("I think costs are overstated.\n"), &out)

	got, err := bridge.GenerateTurn(context.Background(), debate.Panelist{Name: "Visitor", IsHuman: true}, "What is your view?")
	if err != nil {
		t.Fatalf("GenerateTurn: %v", err)
	}
	if got != "I think costs are overstated." {
		t.Errorf("turn = %q", got)
	}
	if !strings.Contains(out.String(), "What is your view?") {
		t.Errorf("prompt not shown to human: %q", out.String())
	}
	if len(next.turns) != 0 {
		t.Errorf("backend called for a human turn: %v", next.turns)
	}
}

func TestHumanBridgeDelegatesAITurn(t *testing.T) {
	next := &fakeResponder{}
	bridge := panel.NewHumanBridge(next, strings.NewReader(""), io.Discard)

	got, err := bridge.GenerateTurn(context.Background(), debate.Panelist{Name: "Ada"}, "prompt")
	if err != nil {
		t.Fatalf("GenerateTurn: %v", err)
	}
	if got != "generated line from Ada" {
		t.Errorf("turn = %q", got)
	}
	if len(next.turns) != 1 || next.turns[0] != "Ada" {
		t.Errorf("delegation calls = %v", next.turns)
	}
}

func TestHumanBridgeEOFSurfacesError(t *testing.T) {
	bridge := panel.NewHumanBridge(&fakeResponder{}, strings.NewReader(""), io.Discard)

	_, err := bridge.GenerateTurn(context.Background(), debate.Panelist{Name: "Visitor", IsHuman: true}, "prompt")
	if !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestHumanBridgePassthroughs(t *testing.T) {
	bridge := panel.NewHumanBridge(&fakeResponder{}, strings.NewReader(""), io.Discard)
	ctx := context.Background()

	if got, _ := bridge.Briefing(ctx, "tax policy", nil); got != "briefing on tax policy" {
		t.Errorf("Briefing = %q", got)
	}
	if got, _ := bridge.ModeratorText(ctx, debate.ModeratorBrief{}); got != "moderator text" {
		t.Errorf("ModeratorText = %q", got)
	}
	if got, _ := bridge.Summary(ctx, "t", ""); got != "summary" {
		t.Errorf("Summary = %q", got)
	}
	if got, _ := bridge.Conclusion(ctx, "t", ""); got != "conclusion" {
		t.Errorf("Conclusion = %q", got)
	}
}
