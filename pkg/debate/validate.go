package debate

// Validate sanitizes a raw analyzer result against the closed vocabulary and
// the live roster. It is the only place untrusted action strings become a
// NextAction. Pure; never fails; idempotent on already-valid input.
func Validate(raw AnalysisResult, roster []Panelist) AnalysisResult {
	out := raw
	if !out.NextAction.Valid() {
		out.NextAction = ActionContinueNormal
	}
	out.Temperature = normalizeTemperature(out.Temperature)
	out.TargetedPanels = FilterNames(out.TargetedPanels, roster)
	return out
}

// DefaultAnalysis is the substitute used when the analyzer call fails:
// keep going, nothing remarkable.
func DefaultAnalysis() AnalysisResult {
	return AnalysisResult{
		Temperature: TempNeutral,
		NextAction:  ActionContinueNormal,
	}
}

// normalizeTemperature maps synonyms onto the four known values. Anything
// unrecognized reads as neutral.
func normalizeTemperature(t Temperature) Temperature {
	switch t {
	case TempCold, TempStuck, TempNeutral, TempHeated:
		return t
	case "balanced", "normal":
		return TempNeutral
	default:
		return TempNeutral
	}
}

// FilterNames keeps only names present in the roster, preserving order.
// Unknown names are dropped silently; they are expected noise from
// free-text-derived output, not an error.
func FilterNames(names []string, roster []Panelist) []string {
	if len(names) == 0 {
		return nil
	}
	known := make(map[string]bool, len(roster))
	for _, p := range roster {
		known[p.Name] = true
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if known[n] {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
