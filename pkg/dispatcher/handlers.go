package dispatcher

import (
	"context"
	"strings"

	"agora/pkg/debate"
)

// runRound dispatches on the validated next action. Rounds without an
// analysis run Normal. Returns the handler outcome and the round type that
// LastRoundType should record.
func (d *Dispatcher) runRound(ctx context.Context, round int, topic string, analysis *debate.AnalysisResult) (debate.RoundOutcome, debate.RoundType) {
	action := debate.ActionContinueNormal
	if analysis != nil {
		action = analysis.NextAction
	}

	switch action {
	case debate.ActionProvokeDebate:
		return d.runTargeted(ctx, round, topic, *analysis, debate.RoundProvoke), debate.RoundProvoke
	case debate.ActionPressureEvidence:
		return d.runTargeted(ctx, round, topic, *analysis, debate.RoundEvidence), debate.RoundEvidence
	case debate.ActionFocusClash:
		return d.runClash(ctx, round, topic, analysis), debate.RoundClash
	case debate.ActionChangeAngle:
		return d.runAngleChange(ctx, round, topic, *analysis), debate.RoundAngleChange
	default:
		return d.runNormal(ctx, round, topic, analysis), debate.RoundNormal
	}
}

// runNormal has every panelist speak once in roster order. The first speaker
// gets the integrated prompt when an analysis is available; everyone else a
// plain handoff. Never fails.
func (d *Dispatcher) runNormal(ctx context.Context, round int, topic string, analysis *debate.AnalysisResult) debate.RoundOutcome {
	stage := debate.StageRound(round)
	for i, p := range d.roster {
		var prompt string
		if i == 0 && analysis != nil {
			prompt = integratedPrompt(topic, *analysis, d.transcript.Recent(recentWindow), p.Name)
		} else {
			prompt = plainHandoff(topic, d.transcript.Recent(recentWindow), p.Name)
		}
		d.speak(ctx, round, stage, p, prompt)
	}
	return debate.RoundOutcome{Completed: true}
}

// runTargeted is the shared shape of the Provoke and Evidence rounds: the
// moderator singles somebody out, the resolver decides who that actually is,
// and the named panelists answer. The moderator text is resolved BEFORE it
// is displayed; if nobody can be identified the round reports failure and
// the text is never shown.
func (d *Dispatcher) runTargeted(ctx context.Context, round int, topic string, analysis debate.AnalysisResult, kind debate.RoundType) debate.RoundOutcome {
	brief := debate.ModeratorBrief{
		Topic:    topic,
		Round:    round,
		Kind:     kind,
		Analysis: analysis,
		Recent:   d.transcript.Recent(recentWindow),
		Roster:   d.roster,
	}
	modText := d.moderatorText(ctx, brief)

	res, err := d.resolver.Resolve(ctx, modText, d.roster)
	if err != nil {
		res = debate.TargetResolution{}
	}
	if res.Unresolved() {
		return debate.RoundOutcome{}
	}
	targets := d.lookup(debate.FilterNames(res.TargetedPanels, d.roster))
	if len(targets) == 0 {
		return debate.RoundOutcome{}
	}

	stage := debate.StageRound(round)
	d.say(ctx, round, debate.Statement{Speaker: debate.ModeratorName, Stage: stage, Content: modText})

	switch {
	case res.ResponseType == debate.ResponseDebate || res.IsClash:
		d.runExchange(ctx, round, topic, targets, modText, brief)
	case res.ResponseType == debate.ResponseSequential:
		for _, p := range targets {
			d.speak(ctx, round, stage, p, positionPrompt(topic, modText))
		}
	default:
		// individual, free, or anything else: first target only.
		d.speak(ctx, round, stage, targets[0], positionPrompt(topic, modText))
		if kind == debate.RoundProvoke {
			d.inviteReactions(ctx, round, topic, targets, 2)
		}
	}
	return debate.RoundOutcome{Completed: true}
}

// runExchange runs the debate-style response: the first target states a
// position, the rest rebut it, then at most one escalation exchange.
func (d *Dispatcher) runExchange(ctx context.Context, round int, topic string, targets []debate.Panelist, modText string, brief debate.ModeratorBrief) {
	stage := debate.StageRound(round)
	first := targets[0]
	firstText := d.speak(ctx, round, stage, first, positionPrompt(topic, modText))
	for _, p := range targets[1:] {
		d.speak(ctx, round, stage, p, rebuttalPrompt(topic, first.Name, firstText))
	}
	d.attemptEscalation(ctx, round, topic, targets, brief)
}

// attemptEscalation pushes the exchange exactly one step further, at most
// once per round. The moderator's escalation line must be substantial
// (length and keyword gate) before anyone is asked to speak again.
func (d *Dispatcher) attemptEscalation(ctx context.Context, round int, topic string, targets []debate.Panelist, brief debate.ModeratorBrief) {
	brief.Escalation = true
	brief.Recent = d.transcript.Recent(recentWindow)

	text, err := d.resp.ModeratorText(ctx, brief)
	if err != nil || !escalationWorthy(text) {
		return
	}

	stage := debate.StageRound(round)
	d.say(ctx, round, debate.Statement{Speaker: debate.ModeratorName, Stage: stage, Content: text})
	_ = d.rec.RecordEvent(ctx, debate.EventEscalation, round, "")
	for _, p := range targets {
		d.speak(ctx, round, stage, p, escalationPrompt(topic, text))
	}
}

// escalationKeywords are the confrontation cues an escalation line must
// carry to be worth interrupting the round for.
var escalationKeywords = []string{
	"rebut", "disagree", "evidence", "challenge", "counter",
	"defend", "push", "wrong", "prove",
}

// escalationWorthy gates the escalation exchange on a non-trivial line.
func escalationWorthy(text string) bool {
	if len(text) <= 50 {
		return false
	}
	lower := strings.ToLower(text)
	for _, kw := range escalationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// inviteReactions asks up to max non-targeted panelists, in roster order,
// for a brief reaction. Reactions are optional: failures are skipped.
func (d *Dispatcher) inviteReactions(ctx context.Context, round int, topic string, targeted []debate.Panelist, max int) {
	asked := 0
	for _, p := range d.roster {
		if asked >= max {
			break
		}
		if hasPanelist(targeted, p.Name) {
			continue
		}
		d.react(ctx, round, p, reactionPrompt(topic, d.transcript.Recent(recentWindow)))
		asked++
	}
}

// runClash stages a head-to-head between the first two roster entries,
// ignoring any analyzer target suggestions. A roster too small to clash
// delegates to Normal; there is no independent failure mode.
func (d *Dispatcher) runClash(ctx context.Context, round int, topic string, analysis *debate.AnalysisResult) debate.RoundOutcome {
	if len(d.roster) < 2 {
		return d.runNormal(ctx, round, topic, analysis)
	}

	stage := debate.StageRound(round)
	a, b := d.roster[0], d.roster[1]

	posText := d.speak(ctx, round, stage, a, clashPositionPrompt(topic, analysis, d.transcript.Recent(recentWindow)))
	rebutText := d.speak(ctx, round, stage, b, rebuttalPrompt(topic, a.Name, posText))
	d.speak(ctx, round, stage, a, counterPrompt(topic, b.Name, rebutText))

	for _, p := range d.roster[2:] {
		d.react(ctx, round, p, reactionPrompt(topic, d.transcript.Recent(recentWindow)))
	}
	return debate.RoundOutcome{Completed: true}
}

// runAngleChange reframes the discussion around the analyzer's missing
// perspective and has every panelist speak once on it. The Dispatcher, not
// this handler, records the cooldown round.
func (d *Dispatcher) runAngleChange(ctx context.Context, round int, topic string, analysis debate.AnalysisResult) debate.RoundOutcome {
	stage := debate.StageRound(round)
	perspective := strings.TrimSpace(analysis.MissingPerspective)
	if perspective == "" {
		perspective = "an angle the panel has not explored yet"
	}

	for i, p := range d.roster {
		var prompt string
		if i == 0 {
			prompt = angleIntegratedPrompt(topic, analysis, d.transcript.Recent(recentWindow), p.Name, perspective)
		} else {
			prompt = anglePrompt(topic, perspective, d.transcript.Recent(recentWindow))
		}
		d.speak(ctx, round, stage, p, prompt)
	}
	return debate.RoundOutcome{Completed: true}
}

// lookup maps resolved names back to panelists, keeping the resolver's
// listed order: that order decides who speaks first.
func (d *Dispatcher) lookup(names []string) []debate.Panelist {
	var out []debate.Panelist
	for _, name := range names {
		for _, p := range d.roster {
			if p.Name == name {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func hasPanelist(list []debate.Panelist, name string) bool {
	for _, p := range list {
		if p.Name == name {
			return true
		}
	}
	return false
}
