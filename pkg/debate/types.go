// Package debate defines the shared vocabulary of a panel debate: the
// roster, the transcript, the analyzer verdict, and the closed enums the
// engine dispatches on.
package debate

import "fmt"

// Panelist is one roster entry, AI or human.
type Panelist struct {
	Name        string `json:"name"`
	Expertise   string `json:"expertise,omitempty"`
	Background  string `json:"background,omitempty"`
	Perspective string `json:"perspective,omitempty"`
	Style       string `json:"style,omitempty"`
	IsHuman     bool   `json:"is_human,omitempty"`
}

// ModeratorName is the speaker attributed to moderator lines.
const ModeratorName = "Moderator"

// Statement is one transcript entry. Entries are appended in speaking order
// and never mutated; "recent context" windows are slices of this order.
type Statement struct {
	Speaker string `json:"speaker"`
	Stage   string `json:"stage"`
	Content string `json:"content"`
}

// Stage labels for statements outside numbered rounds.
const (
	StageBriefing     = "briefing"
	StageIntroduction = "introduction"
	StageSummary      = "summary"
	StageFinal        = "final"
	StageConclusion   = "conclusion"
	StageClosing      = "closing"
)

// StageRound returns the stage label for a numbered round.
func StageRound(n int) string {
	return fmt.Sprintf("round %d", n)
}

// Temperature is a coarse four-value ordinal describing debate energy.
type Temperature string

// Temperature constants, coldest first.
const (
	TempCold    Temperature = "cold"
	TempStuck   Temperature = "stuck"
	TempNeutral Temperature = "neutral"
	TempHeated  Temperature = "heated"
)

// Rank places temperatures on the total order cold < stuck < neutral < heated.
// Unknown values rank as neutral.
func (t Temperature) Rank() int {
	switch t {
	case TempCold:
		return 0
	case TempStuck:
		return 1
	case TempNeutral:
		return 2
	case TempHeated:
		return 3
	default:
		return 2
	}
}

// NextAction selects the interaction pattern for one round.
type NextAction string

// NextAction constants.
const (
	ActionContinueNormal   NextAction = "continue_normal"
	ActionProvokeDebate    NextAction = "provoke_debate"
	ActionFocusClash       NextAction = "focus_clash"
	ActionChangeAngle      NextAction = "change_angle"
	ActionPressureEvidence NextAction = "pressure_evidence"
)

// Valid reports whether a is one of the five known actions.
func (a NextAction) Valid() bool {
	switch a {
	case ActionContinueNormal, ActionProvokeDebate, ActionFocusClash,
		ActionChangeAngle, ActionPressureEvidence:
		return true
	default:
		return false
	}
}

// RoundType records which pattern a completed round actually ran.
// It matches the NextAction vocabulary plus the forced fallback.
type RoundType string

// RoundType constants.
const (
	RoundNormal       RoundType = RoundType(ActionContinueNormal)
	RoundProvoke      RoundType = RoundType(ActionProvokeDebate)
	RoundClash        RoundType = RoundType(ActionFocusClash)
	RoundAngleChange  RoundType = RoundType(ActionChangeAngle)
	RoundEvidence     RoundType = RoundType(ActionPressureEvidence)
	RoundForcedNormal RoundType = "forced_normal"
	RoundStatic       RoundType = "static"
)

// AnalysisResult is the analyzer's read of the debate so far. Raw results
// may carry synonyms or names off the roster; Validate produces the form
// the engine consumes.
type AnalysisResult struct {
	Temperature        Temperature `json:"temperature"`
	MainIssue          string      `json:"main_issue,omitempty"`
	MissingPerspective string      `json:"missing_perspective,omitempty"`
	NextAction         NextAction  `json:"next_action"`
	TargetedPanels     []string    `json:"targeted_panels,omitempty"`
	InterventionText   string      `json:"intervention_text,omitempty"`
}

// ResponseType describes how targeted panelists answer a moderator prompt.
type ResponseType string

// ResponseType constants.
const (
	ResponseDebate     ResponseType = "debate"
	ResponseSequential ResponseType = "sequential"
	ResponseIndividual ResponseType = "individual"
	ResponseFree       ResponseType = "free"
)

// AllSentinel is the literal target the resolver returns when the moderator
// addressed everyone at once. Consumers treat it the same as no target.
const AllSentinel = "all"

// TargetResolution is who the moderator's generated wording actually
// addresses, re-derived from the text itself.
type TargetResolution struct {
	TargetedPanels []string     `json:"targeted_panels"`
	ResponseType   ResponseType `json:"response_type"`
	IsClash        bool         `json:"is_clash"`
}

// Unresolved reports whether no individual panelist could be confidently
// identified: no targets at all, or the all-participants sentinel.
func (r TargetResolution) Unresolved() bool {
	if len(r.TargetedPanels) == 0 {
		return true
	}
	for _, name := range r.TargetedPanels {
		if name == AllSentinel {
			return true
		}
	}
	return false
}

// RoundOutcome is the result of running one round handler.
type RoundOutcome struct {
	Completed      bool
	ForcedFallback bool
}

// ModeratorBrief seeds the generation of one moderator intervention: the
// validated analysis enriched with the round kind and a recent transcript
// window. Escalation marks the optional second push inside one round.
type ModeratorBrief struct {
	Topic      string
	Round      int
	Kind       RoundType
	Analysis   AnalysisResult
	Recent     []Statement
	Roster     []Panelist
	Escalation bool
}

