// Package moderator implements the generation side of a debate over a
// text-generation backend: debate-state analysis, moderator interventions,
// panelist turns, target resolution from moderator prose, persona
// generation, and the closing summary. Every method makes exactly one
// backend call; callers own the substitution policy when a call fails.
package moderator

import (
	"context"
	"fmt"

	"agora/pkg/backend"
	"agora/pkg/debate"
	"agora/pkg/panel"
)

// Token budgets per task. Turns get the most room, control-flow JSON the
// least.
const (
	tokensAnalysis   = 500
	tokensModerator  = 400
	tokensTurn       = 800
	tokensResolution = 200
	tokensSummary    = 600
	tokensPersonas   = 1200
)

// Engine turns backend completions into typed debate artifacts.
type Engine struct {
	backend backend.Backend
}

// NewEngine builds an Engine on the given backend.
func NewEngine(b backend.Backend) *Engine {
	return &Engine{backend: b}
}

// Analyze reads the debate so far and proposes the next interaction
// pattern. The raw result may carry synonyms or off-roster names; run it
// through debate.Validate before acting on it.
func (e *Engine) Analyze(ctx context.Context, topic, transcript string, lastRoundType debate.RoundType, changeAngleCooldown bool) (debate.AnalysisResult, error) {
	prompt := analysisPrompt(topic, transcript, lastRoundType, changeAngleCooldown)
	out, err := e.backend.Complete(ctx, backend.Request{
		System:    analystSystem,
		Prompt:    prompt,
		MaxTokens: tokensAnalysis,
	})
	if err != nil {
		return debate.AnalysisResult{}, fmt.Errorf("analyze debate: %w", err)
	}
	res, err := ParseAnalysis(out)
	if err != nil {
		return debate.AnalysisResult{}, fmt.Errorf("parse analysis: %w", err)
	}
	return res, nil
}

// ModeratorText generates one moderator intervention from the brief.
func (e *Engine) ModeratorText(ctx context.Context, brief debate.ModeratorBrief) (string, error) {
	out, err := e.backend.Complete(ctx, backend.Request{
		System:    moderatorSystem,
		Prompt:    moderatorPrompt(brief),
		MaxTokens: tokensModerator,
	})
	if err != nil {
		return "", fmt.Errorf("moderator text: %w", err)
	}
	return out, nil
}

// Resolve re-derives who the moderator's generated wording actually
// addresses. The text itself, not the analysis that seeded it, is the
// ground truth for who must answer.
func (e *Engine) Resolve(ctx context.Context, text string, roster []debate.Panelist) (debate.TargetResolution, error) {
	out, err := e.backend.Complete(ctx, backend.Request{
		System:    analystSystem,
		Prompt:    resolvePrompt(text, roster),
		MaxTokens: tokensResolution,
	})
	if err != nil {
		return debate.TargetResolution{}, fmt.Errorf("resolve targets: %w", err)
	}
	res, err := ParseResolution(out)
	if err != nil {
		return debate.TargetResolution{}, fmt.Errorf("parse resolution: %w", err)
	}
	return res, nil
}

// GenerateTurn produces one panelist line in that panelist's voice.
func (e *Engine) GenerateTurn(ctx context.Context, p debate.Panelist, prompt string) (string, error) {
	out, err := e.backend.Complete(ctx, backend.Request{
		System:    personaSystem(p),
		Prompt:    prompt,
		MaxTokens: tokensTurn,
	})
	if err != nil {
		return "", fmt.Errorf("turn for %s: %w", p.Name, err)
	}
	return out, nil
}

// Briefing opens the debate with a short topic introduction.
func (e *Engine) Briefing(ctx context.Context, topic string, roster []debate.Panelist) (string, error) {
	out, err := e.backend.Complete(ctx, backend.Request{
		System:    moderatorSystem,
		Prompt:    briefingPrompt(topic, roster),
		MaxTokens: tokensModerator,
	})
	if err != nil {
		return "", fmt.Errorf("topic briefing: %w", err)
	}
	return out, nil
}

// Summary condenses the debate before final statements.
func (e *Engine) Summary(ctx context.Context, topic, transcript string) (string, error) {
	out, err := e.backend.Complete(ctx, backend.Request{
		System:    moderatorSystem,
		Prompt:    summaryPrompt(topic, transcript),
		MaxTokens: tokensSummary,
	})
	if err != nil {
		return "", fmt.Errorf("debate summary: %w", err)
	}
	return out, nil
}

// Conclusion closes the debate after final statements.
func (e *Engine) Conclusion(ctx context.Context, topic, transcript string) (string, error) {
	out, err := e.backend.Complete(ctx, backend.Request{
		System:    moderatorSystem,
		Prompt:    conclusionPrompt(topic, transcript),
		MaxTokens: tokensSummary,
	})
	if err != nil {
		return "", fmt.Errorf("debate conclusion: %w", err)
	}
	return out, nil
}

// GeneratePersonas asks the backend for n debate personas on the topic.
// Returns an error when generation or parsing yields nothing usable;
// callers fall back to panel.DefaultPanel.
func (e *Engine) GeneratePersonas(ctx context.Context, topic string, n int) ([]debate.Panelist, error) {
	out, err := e.backend.Complete(ctx, backend.Request{
		System:    moderatorSystem,
		Prompt:    personasPrompt(topic, n),
		MaxTokens: tokensPersonas,
	})
	if err != nil {
		return nil, fmt.Errorf("generate personas: %w", err)
	}
	got := panel.ParsePersonas(out)
	if len(got) == 0 {
		return nil, fmt.Errorf("no personas parsed from generated text")
	}
	if len(got) > n {
		got = got[:n]
	}
	return got, nil
}
