// Package render produces human-readable output from a lint run.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dshills/dwg/internal/report"
)

// JSON renders a run as indented JSON with a trailing newline.
func JSON(run *report.Run) ([]byte, error) {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render.JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Markdown renders a run as a Markdown report.
func Markdown(run *report.Run) string {
	var b strings.Builder

	// Summary
	b.WriteString("# dwg report\n\n")
	fmt.Fprintf(&b, "**Verdict:** %s\n", run.Summary.Verdict)
	fmt.Fprintf(&b, "**Files:** %d checked, %d with findings\n", run.Summary.Files, run.Summary.FilesWithIssues)
	fmt.Fprintf(&b, "**Findings:** %d errors, %d warnings, %d hints\n\n",
		run.Summary.ErrorCount, run.Summary.WarningCount, run.Summary.HintCount)

	for _, f := range run.Files {
		fmt.Fprintf(&b, "## %s\n\n", f.Path)
		if f.Report == nil {
			continue
		}
		fmt.Fprintf(&b, "Profile `%s`, %d words, %.2f findings per 100 words (%s).\n\n",
			f.Report.Profile, f.Report.WordCount, f.Density, f.Verdict)

		if len(f.Report.Diagnostics) == 0 {
			b.WriteString("No findings.\n\n")
			continue
		}

		sections := []struct {
			title string
			sev   report.Severity
		}{
			{"Errors", report.SeverityError},
			{"Warnings", report.SeverityWarning},
			{"Hints", report.SeverityHint},
			{"Information", report.SeverityInformation},
		}
		for _, s := range sections {
			diags := filterDiagnostics(f.Report.Diagnostics, s.sev)
			if len(diags) == 0 {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", s.title)
			for _, d := range diags {
				renderDiagnostic(&b, d)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func filterDiagnostics(diags []report.Diagnostic, sev report.Severity) []report.Diagnostic {
	var result []report.Diagnostic
	for _, d := range diags {
		if d.Severity == sev {
			result = append(result, d)
		}
	}
	return result
}

func renderDiagnostic(b *strings.Builder, d report.Diagnostic) {
	fmt.Fprintf(b, "- **L%d:%d** [%s] %s", d.Location.Line, d.Location.Column, d.Category, d.Message)
	if d.Snippet != "" {
		fmt.Fprintf(b, " `%s`", inlineCode(d.Snippet))
	}
	b.WriteString("\n")
	if d.Suggestion != "" {
		fmt.Fprintf(b, "  - %s\n", d.Suggestion)
	}
}

// inlineCode keeps a snippet on one line and free of backticks.
func inlineCode(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "`", "'")
}
