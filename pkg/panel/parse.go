package panel

import (
	"strings"

	"agora/pkg/debate"
)

// ParsePersonas extracts panelists from generated persona text. The expected
// shape is blocks of "Key: value" lines where a Name line opens a new
// persona; list numbering and bullets in front of keys are tolerated.
// Returns nil when no usable persona is found; callers fall back to
// DefaultPanel.
func ParsePersonas(text string) []debate.Panelist {
	var out []debate.Panelist
	var cur *debate.Panelist

	for _, line := range strings.Split(text, "\n") {
		key, value, ok := splitPersonaLine(line)
		if !ok {
			continue
		}
		switch key {
		case "name":
			if cur != nil && cur.Name != "" {
				out = append(out, *cur)
			}
			cur = &debate.Panelist{Name: value}
		case "expertise":
			if cur != nil {
				cur.Expertise = value
			}
		case "background":
			if cur != nil {
				cur.Background = value
			}
		case "perspective":
			if cur != nil {
				cur.Perspective = value
			}
		case "style", "debate style":
			if cur != nil {
				cur.Style = value
			}
		}
	}
	if cur != nil && cur.Name != "" {
		out = append(out, *cur)
	}
	return out
}

// splitPersonaLine parses one "Key: value" line, stripping leading list
// markers such as "1." or "-". Returns ok=false for lines without a key.
func splitPersonaLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*0123456789.) ")

	k, v, found := strings.Cut(line, ":")
	if !found {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(k))
	value = strings.TrimSpace(v)
	if key == "" || value == "" {
		return "", "", false
	}
	return key, value, true
}
