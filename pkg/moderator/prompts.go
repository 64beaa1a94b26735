package moderator

import (
	"fmt"
	"strings"

	"agora/pkg/debate"
)

// System prompts for the two generation roles.
const (
	moderatorSystem = "You are the moderator of a live panel debate. You speak briefly, keep momentum, and never argue a side yourself."

	analystSystem = "You analyze debate transcripts and answer with compact JSON only. No prose, no code fences."
)

// section writes a titled block to the builder.
func section(b *strings.Builder, header, body string) {
	fmt.Fprintf(b, "## %s\n\n%s\n\n", header, body)
}

// personaSystem renders a panelist into a system prompt that keeps the
// backend in character.
func personaSystem(p debate.Panelist) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a panelist in a live debate.\n", p.Name)
	if p.Expertise != "" {
		fmt.Fprintf(&b, "Expertise: %s.\n", p.Expertise)
	}
	if p.Background != "" {
		fmt.Fprintf(&b, "Background: %s.\n", p.Background)
	}
	if p.Perspective != "" {
		fmt.Fprintf(&b, "Perspective: %s.\n", p.Perspective)
	}
	if p.Style != "" {
		fmt.Fprintf(&b, "Debate style: %s.\n", p.Style)
	}
	b.WriteString("Stay in character. Answer in 2-4 sentences, first person, no stage directions. Engage directly with what other panelists said rather than restating your position.")
	return b.String()
}

// analysisPrompt asks for a structured read of the debate so far.
func analysisPrompt(topic, transcript string, lastRoundType debate.RoundType, changeAngleCooldown bool) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	if transcript == "" {
		section(&b, "Transcript", "(the debate has not started)")
	} else {
		section(&b, "Transcript", transcript)
	}
	if lastRoundType != "" {
		section(&b, "Previous round", string(lastRoundType))
	}

	actions := `- "continue_normal": the discussion is productive, let it run
- "provoke_debate": panelists agree too much, provoke a confrontation
- "focus_clash": two panelists disagree, put them head to head
- "change_angle": the discussion is circling, reframe from a missing perspective
- "pressure_evidence": claims lack support, demand concrete evidence`
	if changeAngleCooldown {
		actions += "\n\"change_angle\" was used recently and is unavailable; pick another action."
	}
	section(&b, "Actions", actions)

	section(&b, "Reply", `JSON only, exactly these keys:
{"temperature": "cold|stuck|neutral|heated", "main_issue": "...", "missing_perspective": "...", "next_action": "...", "targeted_panels": ["name"], "intervention_text": "..."}`)
	return strings.TrimSuffix(b.String(), "\n")
}

// moderatorPrompt renders one intervention request from the brief.
func moderatorPrompt(brief debate.ModeratorBrief) string {
	var b strings.Builder
	section(&b, "Topic", brief.Topic)
	section(&b, "Panelists", rosterLine(brief.Roster))
	if len(brief.Recent) > 0 {
		section(&b, "Recent statements", debate.FormatStatements(brief.Recent))
	}
	if brief.Analysis.MainIssue != "" {
		section(&b, "Current issue", brief.Analysis.MainIssue)
	}

	var ask string
	switch {
	case brief.Escalation:
		ask = "The exchange above has real friction. Push it exactly one step further: one or two sentences that sharpen the disagreement the panelists just surfaced. Do not resolve it."
	case brief.Kind == debate.RoundProvoke:
		ask = "The discussion is too agreeable. Provoke a direct confrontation: challenge one or two panelists BY NAME to defend their position against its strongest objection. Two or three sentences."
		if len(brief.Analysis.TargetedPanels) > 0 {
			ask += fmt.Sprintf(" The analysis suggests targeting %s, but follow your own judgment.", strings.Join(brief.Analysis.TargetedPanels, ", "))
		}
	case brief.Kind == debate.RoundEvidence:
		ask = "Claims are floating without support. Name one or two panelists and demand concrete evidence: data, cases, or precedents for a specific claim they made. Two or three sentences."
		if len(brief.Analysis.TargetedPanels) > 0 {
			ask += fmt.Sprintf(" The analysis suggests targeting %s, but follow your own judgment.", strings.Join(brief.Analysis.TargetedPanels, ", "))
		}
	case brief.Kind == debate.RoundAngleChange:
		missing := brief.Analysis.MissingPerspective
		if missing == "" {
			missing = "a perspective the panel has ignored so far"
		}
		ask = fmt.Sprintf("The discussion is circling. Reframe it around %s and invite the panel to take the topic up from that angle. Two or three sentences.", missing)
	default:
		ask = "Briefly keep the discussion moving with a neutral handoff. One or two sentences."
	}
	section(&b, "Your intervention", ask)
	return strings.TrimSuffix(b.String(), "\n")
}

// resolvePrompt asks which panelists a moderator message actually addresses.
func resolvePrompt(text string, roster []debate.Panelist) string {
	var b strings.Builder
	section(&b, "Moderator message", text)
	section(&b, "Panelists", rosterLine(roster))
	section(&b, "Task", `Decide who this message asks to speak, from the message wording alone.
- targeted_panels: exact panelist names from the list, in the order addressed. Use ["all"] only when the message addresses everyone without naming anyone.
- response_type: "debate" when named panelists are set against each other, "sequential" when several answer in turn, "individual" when one panelist answers, "free" when anyone may pick it up.
- is_clash: true only for a direct head-to-head between exactly two named panelists.`)
	section(&b, "Reply", `JSON only: {"targeted_panels": ["name"], "response_type": "debate|sequential|individual|free", "is_clash": false}`)
	return strings.TrimSuffix(b.String(), "\n")
}

// briefingPrompt opens the debate.
func briefingPrompt(topic string, roster []debate.Panelist) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	section(&b, "Panelists", rosterLine(roster))
	section(&b, "Task", "Open the debate: two or three sentences framing why this topic is contested and what is at stake. Do not introduce the panelists; that happens separately.")
	return strings.TrimSuffix(b.String(), "\n")
}

// summaryPrompt condenses the debate before final statements.
func summaryPrompt(topic, transcript string) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	section(&b, "Transcript", transcript)
	section(&b, "Task", "Summarize the debate in 3-5 sentences: the main lines of disagreement and any points of convergence. Neutral tone, no verdicts.")
	return strings.TrimSuffix(b.String(), "\n")
}

// conclusionPrompt closes the debate after final statements.
func conclusionPrompt(topic, transcript string) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	section(&b, "Transcript", transcript)
	section(&b, "Task", "Deliver the closing conclusion: 3-4 sentences naming what the debate clarified, where the panel still divides, and one question worth carrying forward. Do not declare a winner.")
	return strings.TrimSuffix(b.String(), "\n")
}

// personasPrompt asks for n panel personas in a parseable block format.
func personasPrompt(topic string, n int) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	section(&b, "Task", fmt.Sprintf(
		"Invent %d debate panelists with genuinely conflicting viewpoints on this topic. For each, output exactly this block:\n\nName: <full name>\nExpertise: <field>\nBackground: <one sentence>\nPerspective: <one sentence>\nStyle: <one sentence>\n\nSeparate blocks with a blank line. No other text.", n))
	return strings.TrimSuffix(b.String(), "\n")
}

// rosterLine renders the roster as "Name (expertise)" joined by commas.
func rosterLine(roster []debate.Panelist) string {
	parts := make([]string, len(roster))
	for i, p := range roster {
		if p.Expertise != "" {
			parts[i] = fmt.Sprintf("%s (%s)", p.Name, p.Expertise)
		} else {
			parts[i] = p.Name
		}
	}
	return strings.Join(parts, ", ")
}
