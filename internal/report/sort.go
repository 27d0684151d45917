package report

import "sort"

// SortDiagnostics orders diagnostics by span start, then category ordinal,
// then span end. The sort is stable so equal keys keep emission order.
func SortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		di, dj := diags[i], diags[j]
		if di.Span.Start != dj.Span.Start {
			return di.Span.Start < dj.Span.Start
		}
		oi, oj := di.Category.Ordinal(), dj.Category.Ordinal()
		if oi != oj {
			return oi < oj
		}
		return di.Span.End < dj.Span.End
	})
}
