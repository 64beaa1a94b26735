package dispatcher

import (
	"fmt"
	"strings"

	"agora/pkg/debate"
)

// recentWindow is how many trailing transcript entries a turn prompt carries.
const recentWindow = 6

func section(b *strings.Builder, header, body string) {
	fmt.Fprintf(b, "## %s\n\n%s\n\n", header, body)
}

func recentSection(b *strings.Builder, recent []debate.Statement) {
	if len(recent) == 0 {
		return
	}
	section(b, "Recent discussion", strings.TrimRight(debate.FormatStatements(recent), "\n"))
}

// integratedPrompt combines the analyst's read of the debate with the recent
// transcript and hands off to a named speaker. Used for the first speaker of
// a round when an analysis is available.
func integratedPrompt(topic string, a debate.AnalysisResult, recent []debate.Statement, speaker string) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	recentSection(&b, recent)
	if a.MainIssue != "" {
		section(&b, "Where the debate stands", a.MainIssue)
	}
	section(&b, "Your turn", fmt.Sprintf(
		"%s, pick up the discussion from here. Engage the strongest point made so far before adding your own position.", speaker))
	return b.String()
}

// plainHandoff is the unadorned turn prompt: topic, recent context, speak.
func plainHandoff(topic string, recent []debate.Statement, speaker string) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	recentSection(&b, recent)
	section(&b, "Your turn", fmt.Sprintf(
		"%s, continue the discussion. Respond to the most recent points before making your own.", speaker))
	return b.String()
}

// positionPrompt asks a targeted panelist to answer the moderator directly.
func positionPrompt(topic, modText string) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	section(&b, "The moderator said", modText)
	section(&b, "Your turn", "You were addressed directly. State your position plainly and back it up.")
	return b.String()
}

func rebuttalPrompt(topic, firstName, firstText string) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	section(&b, fmt.Sprintf("%s just argued", firstName), firstText)
	section(&b, "Your turn", fmt.Sprintf(
		"Rebut %s directly. Take on the specific claim made, not a caricature of it.", firstName))
	return b.String()
}

// counterPrompt is the third beat of a clash: the opener answers the rebuttal.
func counterPrompt(topic, rebutName, rebutText string) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	section(&b, fmt.Sprintf("%s pushed back", rebutName), rebutText)
	section(&b, "Your turn", "That was aimed at your position. Answer the rebuttal, and hold or concede ground explicitly.")
	return b.String()
}

func reactionPrompt(topic string, recent []debate.Statement) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	recentSection(&b, recent)
	section(&b, "Your turn", "Give a brief reaction to that exchange, one or two sentences. You were not addressed directly, so keep it short.")
	return b.String()
}

func escalationPrompt(topic, modText string) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	section(&b, "The moderator pushed further", modText)
	section(&b, "Your turn", "One more round on this point. Sharpen your strongest argument; do not repeat yourself.")
	return b.String()
}

// clashPositionPrompt opens a head-to-head. The analyst's main issue frames
// the disputed point when available.
func clashPositionPrompt(topic string, analysis *debate.AnalysisResult, recent []debate.Statement) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	recentSection(&b, recent)
	if analysis != nil && analysis.MainIssue != "" {
		section(&b, "The disputed point", analysis.MainIssue)
	}
	section(&b, "Your turn", "You open a head-to-head exchange. State your position on the disputed point as sharply as you honestly can.")
	return b.String()
}

func anglePrompt(topic, perspective string, recent []debate.Statement) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	recentSection(&b, recent)
	section(&b, "New angle", perspective)
	section(&b, "Your turn", "The discussion is moving to this angle. Speak to it from your own perspective rather than relitigating earlier points.")
	return b.String()
}

func angleIntegratedPrompt(topic string, a debate.AnalysisResult, recent []debate.Statement, speaker, perspective string) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	recentSection(&b, recent)
	if a.MainIssue != "" {
		section(&b, "Where the debate stands", a.MainIssue)
	}
	section(&b, "New angle", perspective)
	section(&b, "Your turn", fmt.Sprintf(
		"%s, open the new angle. Connect it to what has been said, then take the discussion somewhere it has not gone yet.", speaker))
	return b.String()
}

// finalStatementPrompt asks for a closing statement. Panelists who speak
// later see the final statements given before theirs.
func finalStatementPrompt(topic, speaker string, finals []debate.Statement) string {
	var b strings.Builder
	section(&b, "Topic", topic)
	if len(finals) > 0 {
		section(&b, "Final statements so far", strings.TrimRight(debate.FormatStatements(finals), "\n"))
	}
	section(&b, "Your turn", fmt.Sprintf(
		"%s, give your final statement: your bottom line on the topic in a few sentences. Do not open new arguments.", speaker))
	return b.String()
}
