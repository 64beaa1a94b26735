package moderator

import (
	"encoding/json"
	"fmt"
	"strings"

	"agora/pkg/debate"
)

// rawAnalysis mirrors the analysis JSON with lenient field types.
type rawAnalysis struct {
	Temperature        string     `json:"temperature"`
	MainIssue          string     `json:"main_issue"`
	MissingPerspective string     `json:"missing_perspective"`
	NextAction         string     `json:"next_action"`
	TargetedPanels     stringList `json:"targeted_panels"`
	InterventionText   string     `json:"intervention_text"`
}

// rawResolution mirrors the resolution JSON with lenient field types.
type rawResolution struct {
	TargetedPanels stringList `json:"targeted_panels"`
	ResponseType   string     `json:"response_type"`
	IsClash        bool       `json:"is_clash"`
}

// stringList accepts both a JSON array of strings and a bare string, since
// generated JSON flips between the two.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		if len(many) == 0 {
			*s = nil
			return nil
		}
		*s = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*s = nil
			return nil
		}
		// A single string may pack several comma-separated names.
		for _, part := range strings.Split(one, ",") {
			if part = strings.TrimSpace(part); part != "" {
				*s = append(*s, part)
			}
		}
		return nil
	}
	return fmt.Errorf("targeted panels: neither array nor string: %s", data)
}

// ParseAnalysis extracts an AnalysisResult from generated text. The text may
// wrap the JSON in prose or code fences; everything outside the outermost
// braces is ignored. The result is raw: run it through debate.Validate.
func ParseAnalysis(text string) (debate.AnalysisResult, error) {
	blob, err := extractJSON(text)
	if err != nil {
		return debate.AnalysisResult{}, err
	}
	var raw rawAnalysis
	if err := json.Unmarshal(blob, &raw); err != nil {
		return debate.AnalysisResult{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return debate.AnalysisResult{
		Temperature:        debate.Temperature(strings.ToLower(strings.TrimSpace(raw.Temperature))),
		MainIssue:          strings.TrimSpace(raw.MainIssue),
		MissingPerspective: strings.TrimSpace(raw.MissingPerspective),
		NextAction:         debate.NextAction(strings.ToLower(strings.TrimSpace(raw.NextAction))),
		TargetedPanels:     raw.TargetedPanels,
		InterventionText:   strings.TrimSpace(raw.InterventionText),
	}, nil
}

// ParseResolution extracts a TargetResolution from generated text. The
// result keeps the "all" sentinel and any off-roster names; the consumer
// checks Unresolved and filters against the live roster.
func ParseResolution(text string) (debate.TargetResolution, error) {
	blob, err := extractJSON(text)
	if err != nil {
		return debate.TargetResolution{}, err
	}
	var raw rawResolution
	if err := json.Unmarshal(blob, &raw); err != nil {
		return debate.TargetResolution{}, fmt.Errorf("unmarshal resolution: %w", err)
	}
	return debate.TargetResolution{
		TargetedPanels: raw.TargetedPanels,
		ResponseType:   debate.ResponseType(strings.ToLower(strings.TrimSpace(raw.ResponseType))),
		IsClash:        raw.IsClash,
	}, nil
}

// extractJSON returns the outermost {...} block in text.
func extractJSON(text string) ([]byte, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in %q", truncateForError(text))
	}
	return []byte(text[start : end+1]), nil
}

// truncateForError shortens text for inclusion in error messages.
func truncateForError(text string) string {
	const max = 80
	text = strings.TrimSpace(text)
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
