// Package dispatcher implements the Agora debate engine: the core
// coordination loop that composes debate, panel, and moderator packages into
// a running panel discussion. The Dispatcher owns the round counters, the
// cooldown and failure bookkeeping, and the transcript; it decides round by
// round which interaction pattern to run next and drives the debate from the
// opening briefing through the closing line.
//
// Every external call degrades instead of failing: an analyzer error becomes
// a neutral continue-normal read, a dead moderator becomes a generic handoff,
// and a silent panelist becomes a canned apology. The debate always reaches
// its conclusion stage.
package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"agora/pkg/debate"
)

// --- Collaborator interfaces ---

// Analyzer reads the debate so far and recommends the next round shape.
// Production impl prompts the text backend and parses its JSON reply.
type Analyzer interface {
	Analyze(ctx context.Context, topic, transcript string, lastRoundType debate.RoundType, changeAngleCooldown bool) (debate.AnalysisResult, error)
}

// Responder produces all spoken text: moderator interventions, panelist
// turns, and the framing stages around the round loop.
type Responder interface {
	Briefing(ctx context.Context, topic string, roster []debate.Panelist) (string, error)
	ModeratorText(ctx context.Context, brief debate.ModeratorBrief) (string, error)
	GenerateTurn(ctx context.Context, p debate.Panelist, prompt string) (string, error)
	Summary(ctx context.Context, topic, transcript string) (string, error)
	Conclusion(ctx context.Context, topic, transcript string) (string, error)
}

// Resolver re-derives who is actually being addressed from the moderator's
// generated wording. The wording is ground truth for who must answer, which
// is why this is a second call and not a field on the analysis.
type Resolver interface {
	Resolve(ctx context.Context, text string, roster []debate.Panelist) (debate.TargetResolution, error)
}

// Sink receives every displayed statement in speaking order. It is the
// presentation boundary; implementations render to the console.
type Sink interface {
	Say(st debate.Statement)
}

// Recorder persists statements and lifecycle events for one debate.
// Recording is best-effort: failures never interrupt the debate.
type Recorder interface {
	RecordStatement(ctx context.Context, round int, st debate.Statement) error
	RecordEvent(ctx context.Context, typ string, round int, payload string) error
}

type discardSink struct{}

func (discardSink) Say(debate.Statement) {}

type nopRecorder struct{}

func (nopRecorder) RecordStatement(context.Context, int, debate.Statement) error { return nil }
func (nopRecorder) RecordEvent(context.Context, string, int, string) error       { return nil }

// --- Config ---

// Config holds Dispatcher configuration.
type Config struct {
	MinRounds             int                // Floor before early termination may trigger (default 3).
	MaxRounds             int                // Round cap; extensions may raise it to 1.5x (default 10).
	AnalysisFrequency     int                // Analyze every N rounds; round 1 is always analyzed (default 2).
	InterventionThreshold debate.Temperature // Coldest temperature tolerated before intervening (default stuck).
	PacingDelay           time.Duration      // Cosmetic pause after each statement (default 0, disabled).
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.MinRounds == 0 {
		out.MinRounds = 3
	}
	if out.MaxRounds == 0 {
		out.MaxRounds = 10
	}
	if out.AnalysisFrequency <= 0 {
		out.AnalysisFrequency = 2
	}
	if out.InterventionThreshold == "" {
		out.InterventionThreshold = debate.TempStuck
	}
	return out
}

// --- Debate state ---

// DebateState holds the loop counters for one debate. It is mutated only by
// the Dispatcher, once per iteration.
type DebateState struct {
	CurrentRound            int
	MinRounds               int
	MaxRounds               int
	ConsecutiveColdRounds   int
	ConsecutiveFailedRounds int
	LastRoundType           debate.RoundType
	LastAngleChangeRound    int
}

// --- Dispatcher ---

// Dispatcher is the debate engine. It runs strictly sequentially: every
// statement is appended to the transcript before the next prompt is built,
// so prompts always see the cumulative discussion.
type Dispatcher struct {
	cfg      Config
	analyzer Analyzer
	resp     Responder
	resolver Resolver
	sink     Sink
	rec      Recorder

	roster     []debate.Panelist
	transcript *debate.Transcript
	state      DebateState

	// maxRoundsCap bounds heated extensions at 1.5x the configured maximum.
	maxRoundsCap int

	// waitFn paces statement delivery so tests run with zero real delay.
	waitFn func(d time.Duration)
}

// New creates a Dispatcher for one debate. A nil sink discards output and a
// nil recorder skips persistence. It does not start the debate; call
// RunDynamicDebate or RunStaticDebate.
func New(cfg Config, roster []debate.Panelist, analyzer Analyzer, resp Responder, resolver Resolver, sink Sink, rec Recorder) *Dispatcher {
	resolved := cfg.withDefaults()
	if sink == nil {
		sink = discardSink{}
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Dispatcher{
		cfg:        resolved,
		analyzer:   analyzer,
		resp:       resp,
		resolver:   resolver,
		sink:       sink,
		rec:        rec,
		roster:     append([]debate.Panelist(nil), roster...),
		transcript: &debate.Transcript{},
		waitFn:     time.Sleep,
	}
}

// State returns a copy of the loop counters (for tests/monitoring).
func (d *Dispatcher) State() DebateState {
	return d.state
}

// Transcript returns a copy of all statements spoken so far.
func (d *Dispatcher) Transcript() []debate.Statement {
	return d.transcript.Entries()
}

// Roster returns a copy of the panelist roster.
func (d *Dispatcher) Roster() []debate.Panelist {
	return append([]debate.Panelist(nil), d.roster...)
}

// --- Debate runs ---

// RunDynamicDebate runs a full analyzer-driven debate on topic: opening
// briefing, the round loop with per-round pattern selection, and the
// conclusion stage. It returns an error only for an empty roster or a
// cancelled context; collaborator failures degrade without surfacing.
func (d *Dispatcher) RunDynamicDebate(ctx context.Context, topic string) error {
	if len(d.roster) == 0 {
		return &debate.EmptyRosterError{Topic: topic}
	}

	d.state = DebateState{MinRounds: d.cfg.MinRounds, MaxRounds: d.cfg.MaxRounds}
	d.maxRoundsCap = d.cfg.MaxRounds * 3 / 2
	_ = d.rec.RecordEvent(ctx, debate.EventDebateStart, 0,
		fmt.Sprintf(`{"topic":%q,"mode":"dynamic"}`, topic))

	d.runOpening(ctx, topic)

	for d.state.CurrentRound < d.state.MaxRounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, analysis := d.runIteration(ctx, topic)
		if d.applyTermination(ctx, analysis) {
			break
		}
	}

	d.runConclusion(ctx, topic)
	_ = d.rec.RecordEvent(ctx, debate.EventDebateEnd, d.state.CurrentRound, "")
	return nil
}

// RunStaticDebate runs a fixed number of Normal-shaped rounds with no
// analyzer involvement, bracketed by the same opening and conclusion stages.
// rounds <= 0 falls back to the configured maximum.
func (d *Dispatcher) RunStaticDebate(ctx context.Context, topic string, rounds int) error {
	if len(d.roster) == 0 {
		return &debate.EmptyRosterError{Topic: topic}
	}
	if rounds <= 0 {
		rounds = d.cfg.MaxRounds
	}

	d.state = DebateState{MinRounds: rounds, MaxRounds: rounds}
	_ = d.rec.RecordEvent(ctx, debate.EventDebateStart, 0,
		fmt.Sprintf(`{"topic":%q,"mode":"static","rounds":%d}`, topic, rounds))

	d.runOpening(ctx, topic)

	for d.state.CurrentRound < rounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.state.CurrentRound++
		_ = d.rec.RecordEvent(ctx, debate.EventRoundStart, d.state.CurrentRound, "")
		d.runNormal(ctx, d.state.CurrentRound, topic, nil)
		d.state.LastRoundType = debate.RoundStatic
	}

	d.runConclusion(ctx, topic)
	_ = d.rec.RecordEvent(ctx, debate.EventDebateEnd, d.state.CurrentRound, "")
	return nil
}

// runIteration advances the debate by exactly one round: periodic analysis,
// handler dispatch, and the forced-Normal fallback when targeting fails.
func (d *Dispatcher) runIteration(ctx context.Context, topic string) (debate.RoundOutcome, *debate.AnalysisResult) {
	d.state.CurrentRound++
	round := d.state.CurrentRound
	_ = d.rec.RecordEvent(ctx, debate.EventRoundStart, round, "")

	var analysis *debate.AnalysisResult
	if round == 1 || round%d.cfg.AnalysisFrequency == 0 {
		a := d.analyze(ctx, topic)
		analysis = &a
	}

	outcome, kind := d.runRound(ctx, round, topic, analysis)
	if outcome.Completed {
		d.state.ConsecutiveFailedRounds = 0
		d.state.LastRoundType = kind
		if kind == debate.RoundAngleChange {
			d.state.LastAngleChangeRound = round
		}
		return outcome, analysis
	}

	// Unresolved targeting. Run Normal once for the same round number so the
	// debate never stalls on a question nobody will answer.
	d.state.ConsecutiveFailedRounds++
	_ = d.rec.RecordEvent(ctx, debate.EventFallback, round, fmt.Sprintf(`{"attempted":%q}`, string(kind)))
	d.runNormal(ctx, round, topic, nil)
	d.state.ConsecutiveFailedRounds = 0
	d.state.LastRoundType = debate.RoundForcedNormal
	return debate.RoundOutcome{Completed: true, ForcedFallback: true}, analysis
}

// analyze calls the Analyzer, substitutes defaults on failure, validates the
// result against the roster, and enforces the change-angle cooldown.
func (d *Dispatcher) analyze(ctx context.Context, topic string) debate.AnalysisResult {
	round := d.state.CurrentRound
	cooldown := round < 3 || round-d.state.LastAngleChangeRound < 3

	raw, err := d.analyzer.Analyze(ctx, topic, d.transcript.Text(), d.state.LastRoundType, cooldown)
	if err != nil {
		raw = debate.DefaultAnalysis()
	}
	a := debate.Validate(raw, d.roster)
	if a.NextAction == debate.ActionChangeAngle && cooldown {
		a.NextAction = debate.ActionContinueNormal
	}

	if payload, err := json.Marshal(a); err == nil {
		_ = d.rec.RecordEvent(ctx, debate.EventAnalysis, round, string(payload))
	}
	return a
}

// --- Statement emission ---

// say appends the statement to the transcript, forwards it to the sink,
// persists it, and applies the configured pacing delay.
func (d *Dispatcher) say(ctx context.Context, round int, st debate.Statement) {
	d.transcript.Append(st)
	d.sink.Say(st)
	_ = d.rec.RecordStatement(ctx, round, st)
	if d.cfg.PacingDelay > 0 {
		d.waitFn(d.cfg.PacingDelay)
	}
}

// speak asks a panelist to produce a turn and emits it. A failed or empty
// generation becomes a canned apology attributed to that panelist. Returns
// the emitted content so follow-up prompts can quote it.
func (d *Dispatcher) speak(ctx context.Context, round int, stage string, p debate.Panelist, prompt string) string {
	text, err := d.resp.GenerateTurn(ctx, p, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		text = apologyLine
	}
	d.say(ctx, round, debate.Statement{Speaker: p.Name, Stage: stage, Content: text})
	return text
}

// react asks a panelist for an optional reaction. Unlike speak, a failed
// generation is skipped rather than substituted.
func (d *Dispatcher) react(ctx context.Context, round int, p debate.Panelist, prompt string) {
	text, err := d.resp.GenerateTurn(ctx, p, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		return
	}
	d.say(ctx, round, debate.Statement{Speaker: p.Name, Stage: debate.StageRound(round), Content: text})
}

// moderatorText generates the moderator's round message, substituting a
// generic continuing line on failure. The caller decides whether the text is
// ever displayed.
func (d *Dispatcher) moderatorText(ctx context.Context, brief debate.ModeratorBrief) string {
	text, err := d.resp.ModeratorText(ctx, brief)
	if err != nil || strings.TrimSpace(text) == "" {
		return continuingLine
	}
	return text
}

// --- Canned lines ---

// Substitution lines for failed generations. The debate never stops for a
// dead collaborator; it degrades to these.
const (
	apologyLine    = "I'm sorry, I'll have to gather my thoughts and come back to this point."
	continuingLine = "Let's keep going. I'd like to hear the panel's reaction to what was just said."
	extensionLine  = "We're clearly not done with this. Let's extend the debate by one more round."
	closingLine    = "That concludes today's debate. My thanks to the panel, and to you for listening."
)
