package panel

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"agora/pkg/debate"
)

// Responder is the turn-generation surface the bridge wraps. It mirrors the
// engine's collaborator contract so the bridge can stand in transparently.
type Responder interface {
	Briefing(ctx context.Context, topic string, roster []debate.Panelist) (string, error)
	ModeratorText(ctx context.Context, brief debate.ModeratorBrief) (string, error)
	GenerateTurn(ctx context.Context, p debate.Panelist, prompt string) (string, error)
	Summary(ctx context.Context, topic, transcript string) (string, error)
	Conclusion(ctx context.Context, topic, transcript string) (string, error)
}

// HumanBridge wraps a Responder and intercepts turn generation for human
// panelists, reading their line from in instead of calling the backend.
// All moderator-text generation passes straight through.
type HumanBridge struct {
	next Responder
	in   *bufio.Scanner
	out  io.Writer
}

// NewHumanBridge returns a bridge reading human turns from in and printing
// turn prompts to out.
func NewHumanBridge(next Responder, in io.Reader, out io.Writer) *HumanBridge {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &HumanBridge{next: next, in: scanner, out: out}
}

// GenerateTurn reads a line from the human when p is human, otherwise
// delegates. A failed read returns an error so the engine degrades the same
// way it does for a failed backend call.
func (h *HumanBridge) GenerateTurn(ctx context.Context, p debate.Panelist, prompt string) (string, error) {
	if !p.IsHuman {
		return h.next.GenerateTurn(ctx, p, prompt)
	}
	fmt.Fprintf(h.out, "\n%s\n[%s] Your turn: ", prompt, p.Name)
	if !h.in.Scan() {
		if err := h.in.Err(); err != nil {
			return "", fmt.Errorf("read human turn: %w", err)
		}
		return "", io.EOF
	}
	return h.in.Text(), nil
}

func (h *HumanBridge) Briefing(ctx context.Context, topic string, roster []debate.Panelist) (string, error) {
	return h.next.Briefing(ctx, topic, roster)
}

func (h *HumanBridge) ModeratorText(ctx context.Context, brief debate.ModeratorBrief) (string, error) {
	return h.next.ModeratorText(ctx, brief)
}

func (h *HumanBridge) Summary(ctx context.Context, topic, transcript string) (string, error) {
	return h.next.Summary(ctx, topic, transcript)
}

func (h *HumanBridge) Conclusion(ctx context.Context, topic, transcript string) (string, error) {
	return h.next.Conclusion(ctx, topic, transcript)
}
