package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"agora/pkg/debate"
)

// runOpening delivers the moderator's topic briefing and a one-line
// introduction per panelist. Briefing failures fall back to a canned welcome.
func (d *Dispatcher) runOpening(ctx context.Context, topic string) {
	_ = d.rec.RecordEvent(ctx, debate.EventStageChanged, 0, `{"stage":"briefing"}`)

	text, err := d.resp.Briefing(ctx, topic, d.roster)
	if err != nil || strings.TrimSpace(text) == "" {
		text = fmt.Sprintf("Welcome. Today's topic: %s. Our panel will take it up from several angles.", topic)
	}
	d.say(ctx, 0, debate.Statement{Speaker: debate.ModeratorName, Stage: debate.StageBriefing, Content: text})

	for _, p := range d.roster {
		d.say(ctx, 0, debate.Statement{
			Speaker: debate.ModeratorName,
			Stage:   debate.StageIntroduction,
			Content: introLine(p),
		})
	}
}

// introLine composes the moderator's one-line introduction from the persona
// fields. No generation involved, so introductions never degrade.
func introLine(p debate.Panelist) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Joining us: %s", p.Name)
	if p.Expertise != "" {
		fmt.Fprintf(&b, ", %s", p.Expertise)
	}
	b.WriteString(".")
	if p.Perspective != "" {
		fmt.Fprintf(&b, " %s", p.Perspective)
	}
	return b.String()
}

// runConclusion closes the debate: moderator summary, one final statement
// per panelist, the moderator's conclusion, and a fixed closing line. Every
// generation failure substitutes a canned line; the stage never aborts.
func (d *Dispatcher) runConclusion(ctx context.Context, topic string) {
	round := d.state.CurrentRound
	_ = d.rec.RecordEvent(ctx, debate.EventStageChanged, round, `{"stage":"conclusion"}`)

	summary, err := d.resp.Summary(ctx, topic, d.transcript.Text())
	if err != nil || strings.TrimSpace(summary) == "" {
		summary = "We've heard a full range of positions today, with real disagreement on the fundamentals."
	}
	d.say(ctx, round, debate.Statement{Speaker: debate.ModeratorName, Stage: debate.StageSummary, Content: summary})

	// Later speakers see the final statements given before theirs.
	var finals []debate.Statement
	for _, p := range d.roster {
		text := d.speak(ctx, round, debate.StageFinal, p, finalStatementPrompt(topic, p.Name, finals))
		finals = append(finals, debate.Statement{Speaker: p.Name, Stage: debate.StageFinal, Content: text})
	}

	conclusion, err := d.resp.Conclusion(ctx, topic, d.transcript.Text())
	if err != nil || strings.TrimSpace(conclusion) == "" {
		conclusion = fmt.Sprintf("The question of %s stays open, but the fault lines are much clearer than when we started.", topic)
	}
	d.say(ctx, round, debate.Statement{Speaker: debate.ModeratorName, Stage: debate.StageConclusion, Content: conclusion})

	d.say(ctx, round, debate.Statement{Speaker: debate.ModeratorName, Stage: debate.StageClosing, Content: closingLine})
}
