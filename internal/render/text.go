package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/dwg/internal/report"
)

// Color palette for terminal output.
const (
	colorPath    = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorHint    = lipgloss.Color("#3B82F6")
)

type styles struct {
	path    lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	hint    lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{plain, plain, plain, plain, plain, plain}
	}
	return styles{
		path:    lipgloss.NewStyle().Bold(true).Foreground(colorPath),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		success: lipgloss.NewStyle().Foreground(colorSuccess),
		failure: lipgloss.NewStyle().Bold(true).Foreground(colorError),
		warning: lipgloss.NewStyle().Foreground(colorWarning),
		hint:    lipgloss.NewStyle().Foreground(colorHint),
	}
}

func (s styles) severity(sev report.Severity) lipgloss.Style {
	switch sev {
	case report.SeverityError:
		return s.failure
	case report.SeverityWarning:
		return s.warning
	default:
		return s.hint
	}
}

func (s styles) verdict(v report.Verdict) lipgloss.Style {
	switch v {
	case report.VerdictFail:
		return s.failure
	case report.VerdictWarn:
		return s.warning
	default:
		return s.success
	}
}

// TextOptions controls terminal rendering.
type TextOptions struct {
	Color bool
}

// Text renders a run in the compiler-style "path:line:col: severity" format
// followed by a one-line summary.
func Text(run *report.Run, opts TextOptions) string {
	st := newStyles(opts.Color)
	var b strings.Builder

	for _, f := range run.Files {
		if f.Report == nil || len(f.Report.Diagnostics) == 0 {
			continue
		}
		for _, d := range f.Report.Diagnostics {
			pos := fmt.Sprintf("%s:%d:%d:", f.Path, d.Location.Line, d.Location.Column)
			fmt.Fprintf(&b, "%s %s %s %s\n",
				st.path.Render(pos),
				st.severity(d.Severity).Render(string(d.Severity)),
				d.Message,
				st.muted.Render("["+string(d.Category)+"]"))
			if d.Suggestion != "" {
				fmt.Fprintf(&b, "    %s\n", st.muted.Render(d.Suggestion))
			}
		}
		fmt.Fprintf(&b, "%s %s\n\n",
			st.muted.Render(fmt.Sprintf("%s: %d words, %.2f per 100 words,", f.Path, f.Report.WordCount, f.Density)),
			st.verdict(f.Verdict).Render(string(f.Verdict)))
	}

	sum := run.Summary
	fmt.Fprintf(&b, "%d files, %d findings (%d errors, %d warnings, %d hints): %s\n",
		sum.Files, sum.Diagnostics, sum.ErrorCount, sum.WarningCount, sum.HintCount,
		st.verdict(sum.Verdict).Render(string(sum.Verdict)))
	return b.String()
}
