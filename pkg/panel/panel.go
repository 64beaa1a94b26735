// Package panel manages the debate roster: built-in personas, parsing of
// generated persona text, human insertion, and the bridge that lets a human
// panelist answer from a terminal.
package panel

import (
	"agora/pkg/debate"
)

// DefaultPanel returns the four built-in personas used when persona
// generation is unavailable or fails.
func DefaultPanel() []debate.Panelist {
	return []debate.Panelist{
		{
			Name:        "Diane Reeves",
			Expertise:   "Economics",
			Background:  "University professor, twenty years researching labor markets",
			Perspective: "Weighs costs, incentives, and second-order market effects",
			Style:       "Analytical, leans on data and historical precedent",
		},
		{
			Name:        "Marcus Hale",
			Expertise:   "Sociology",
			Background:  "Field researcher studying how institutions shape communities",
			Perspective: "Centers distributional impact and social cohesion",
			Style:       "Empathetic but pointed, argues from lived cases",
		},
		{
			Name:        "Priya Nair",
			Expertise:   "Technology",
			Background:  "Startup founder turned industry analyst",
			Perspective: "Optimistic about innovation, impatient with the status quo",
			Style:       "Direct and fast, fond of concrete product examples",
		},
		{
			Name:        "Tomasz Okafor",
			Expertise:   "Public policy",
			Background:  "Former regulator who drafted national technology legislation",
			Perspective: "Focused on feasibility, enforcement, and unintended consequences",
			Style:       "Measured, steers arguments toward implementable proposals",
		},
	}
}

// InsertHuman places a human panelist into the roster and returns the new
// roster and the insertion index. For rosters larger than one the position
// is strictly interior (never first, never last) so the human neither opens
// nor closes every round; otherwise the panelist is appended. intn must
// behave like rand.Intn, returning a value in [0, n).
func InsertHuman(roster []debate.Panelist, human debate.Panelist, intn func(int) int) ([]debate.Panelist, int) {
	human.IsHuman = true
	n := len(roster)
	if n <= 1 {
		return append(append([]debate.Panelist{}, roster...), human), n
	}
	idx := 1 + intn(n-1)
	out := make([]debate.Panelist, 0, n+1)
	out = append(out, roster[:idx]...)
	out = append(out, human)
	out = append(out, roster[idx:]...)
	return out, idx
}

// Names returns the roster's names in order.
func Names(roster []debate.Panelist) []string {
	out := make([]string, len(roster))
	for i, p := range roster {
		out[i] = p.Name
	}
	return out
}
