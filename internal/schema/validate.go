// Package schema validates lint reports against the text they describe.
package schema

import (
	"fmt"
	"strings"

	"github.com/dshills/dwg/internal/location"
	"github.com/dshills/dwg/internal/report"
)

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a DocumentReport against the text it was produced from:
// span bounds, location/offset agreement, snippets, enums, category counts
// and ordering.
func Validate(r *report.DocumentReport, text string) []ValidationError {
	var errs []ValidationError

	if r.Profile == "" {
		errs = append(errs, ValidationError{"profile", "required"})
	}
	if r.WordCount < 0 {
		errs = append(errs, ValidationError{"word_count", "must be >= 0"})
	}

	// Verify category counts
	expected := report.CountBy(r.Diagnostics)
	for c, n := range expected {
		if r.CategoryCounts[c] != n {
			errs = append(errs, ValidationError{"category_counts." + string(c), fmt.Sprintf("expected %d, got %d", n, r.CategoryCounts[c])})
		}
	}
	for c, n := range r.CategoryCounts {
		if _, ok := expected[c]; !ok && n != 0 {
			errs = append(errs, ValidationError{"category_counts." + string(c), fmt.Sprintf("expected 0, got %d", n)})
		}
	}

	loc := location.New(text)
	for i, d := range r.Diagnostics {
		prefix := fmt.Sprintf("diagnostics[%d]", i)
		if !d.Severity.Valid() {
			errs = append(errs, ValidationError{prefix + ".severity", fmt.Sprintf("invalid: %q", d.Severity)})
		}
		if !d.Category.Valid() {
			errs = append(errs, ValidationError{prefix + ".category", fmt.Sprintf("invalid: %q", d.Category)})
		}
		if d.Message == "" {
			errs = append(errs, ValidationError{prefix + ".message", "required"})
		}
		errs = append(errs, validateSpan(prefix, d, text, loc)...)

		if i > 0 && outOfOrder(r.Diagnostics[i-1], d) {
			errs = append(errs, ValidationError{prefix, "not sorted by span start and category"})
		}
	}

	return errs
}

func validateSpan(prefix string, d report.Diagnostic, text string, loc *location.Index) []ValidationError {
	var errs []ValidationError
	s := d.Span
	if s.Start < 0 || s.Start > s.End || s.End > len(text) {
		errs = append(errs, ValidationError{prefix + ".span", fmt.Sprintf("invalid range [%d, %d) for text of %d bytes", s.Start, s.End, len(text))})
		return errs
	}
	line, col := loc.Position(s.Start)
	if d.Location.Line != line || d.Location.Column != col {
		errs = append(errs, ValidationError{prefix + ".location", fmt.Sprintf("%d:%d does not match span start (%d:%d)", d.Location.Line, d.Location.Column, line, col)})
	}
	if want := strings.TrimSpace(text[s.Start:s.End]); d.Snippet != want {
		errs = append(errs, ValidationError{prefix + ".snippet", fmt.Sprintf("%q is not the trimmed span text %q", d.Snippet, want)})
	}
	return errs
}

func outOfOrder(prev, cur report.Diagnostic) bool {
	if prev.Span.Start != cur.Span.Start {
		return prev.Span.Start > cur.Span.Start
	}
	return prev.Category.Ordinal() > cur.Category.Ordinal()
}

// ValidateRun checks the run envelope: tool and version, per-file verdicts
// and the summary totals.
func ValidateRun(run *report.Run) []ValidationError {
	var errs []ValidationError

	if run.Tool == "" {
		errs = append(errs, ValidationError{"tool", "required"})
	}
	if run.Version == "" {
		errs = append(errs, ValidationError{"version", "required"})
	}
	if !run.Summary.Verdict.Valid() {
		errs = append(errs, ValidationError{"summary.verdict", fmt.Sprintf("invalid verdict: %q", run.Summary.Verdict)})
	}

	for i, f := range run.Files {
		prefix := fmt.Sprintf("files[%d]", i)
		if f.Path == "" {
			errs = append(errs, ValidationError{prefix + ".path", "required"})
		}
		if !f.Verdict.Valid() {
			errs = append(errs, ValidationError{prefix + ".verdict", fmt.Sprintf("invalid: %q", f.Verdict)})
		}
		if f.Report == nil {
			errs = append(errs, ValidationError{prefix + ".report", "required"})
		}
	}

	// Verify summary totals
	expected := report.ComputeSummary(run.Files)
	if run.Summary != expected {
		errs = append(errs, ValidationError{"summary", fmt.Sprintf("expected %+v, got %+v", expected, run.Summary)})
	}

	return errs
}
