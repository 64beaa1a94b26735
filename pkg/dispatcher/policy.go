package dispatcher

import (
	"context"
	"strings"

	"agora/pkg/debate"
)

// applyTermination evaluates the latest temperature reading after an
// iteration. Two consecutive readings at or below the intervention threshold
// end the debate early once the minimum round count is met; a heated reading
// on the final round extends the cap by one, up to 1.5x the original
// maximum. Iterations without an analysis leave the counters untouched.
// Returns true when the debate must stop before the next round.
func (d *Dispatcher) applyTermination(ctx context.Context, analysis *debate.AnalysisResult) bool {
	if analysis == nil {
		return false
	}
	s := &d.state

	if analysis.Temperature.Rank() <= d.cfg.InterventionThreshold.Rank() {
		s.ConsecutiveColdRounds++
		if s.ConsecutiveColdRounds >= 2 && s.CurrentRound >= s.MinRounds {
			d.intervene(ctx, analysis)
			return true
		}
	} else {
		s.ConsecutiveColdRounds = 0
	}

	if analysis.Temperature == debate.TempHeated && s.CurrentRound == s.MaxRounds && s.MaxRounds < d.maxRoundsCap {
		s.MaxRounds++
		d.say(ctx, s.CurrentRound, debate.Statement{
			Speaker: debate.ModeratorName,
			Stage:   debate.StageRound(s.CurrentRound),
			Content: extensionLine,
		})
		_ = d.rec.RecordEvent(ctx, debate.EventExtension, s.CurrentRound, "")
	}
	return false
}

// intervene emits the closing intervention, preferring the analyzer's own
// suggested wording when it offered one.
func (d *Dispatcher) intervene(ctx context.Context, analysis *debate.AnalysisResult) {
	text := strings.TrimSpace(analysis.InterventionText)
	if text == "" {
		text = "The discussion seems to have found its resting point. Let's begin wrapping up."
	}
	d.say(ctx, d.state.CurrentRound, debate.Statement{
		Speaker: debate.ModeratorName,
		Stage:   debate.StageRound(d.state.CurrentRound),
		Content: text,
	})
	_ = d.rec.RecordEvent(ctx, debate.EventEarlyEnd, d.state.CurrentRound, "")
}
