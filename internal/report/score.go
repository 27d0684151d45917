package report

// Evaluate compares a density against the warn and fail thresholds
// (diagnostics per 100 words).
func Evaluate(density, warn, fail float64) Verdict {
	switch {
	case density >= fail:
		return VerdictFail
	case density >= warn:
		return VerdictWarn
	default:
		return VerdictClean
	}
}

// CountBy returns the number of diagnostics per category.
func CountBy(diags []Diagnostic) map[Category]int {
	counts := make(map[Category]int)
	for _, d := range diags {
		counts[d.Category]++
	}
	return counts
}
