// Package report defines the diagnostic and report types produced by the analyzer.
package report

// Location is a 1-based line and column. Columns count Unicode code points.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Span is a half-open byte range [Start, End) into the analyzed text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Diagnostic is a single flagged pattern. Diagnostics are not modified after emission.
type Diagnostic struct {
	Category   Category `json:"category"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
	Location   Location `json:"location"`
	Span       Span     `json:"span"`
	Snippet    string   `json:"snippet"`
}

// DocumentReport is the result of analyzing one document under one profile.
type DocumentReport struct {
	WordCount      int              `json:"word_count"`
	Diagnostics    []Diagnostic     `json:"diagnostics"`
	CategoryCounts map[Category]int `json:"category_counts"`
	Profile        string           `json:"profile"`
}

// Density returns flagged diagnostics per 100 words. An empty document
// (zero words) reports the raw diagnostic count.
func (r *DocumentReport) Density() float64 {
	n := float64(len(r.Diagnostics))
	if r.WordCount == 0 {
		return n
	}
	return 100 * n / float64(r.WordCount)
}

// Count returns the number of diagnostics in category c.
func (r *DocumentReport) Count(c Category) int {
	return r.CategoryCounts[c]
}

// FileReport pairs a document report with the file it came from.
type FileReport struct {
	Path    string          `json:"path"`
	Hash    string          `json:"hash,omitempty"`
	Density float64         `json:"density_per_100_words"`
	Verdict Verdict         `json:"verdict"`
	Report  *DocumentReport `json:"report"`

	// Normalized marks reports whose spans index the text after BOM removal
	// and line ending conversion rather than the raw file.
	Normalized bool `json:"normalized,omitempty"`
}

// Summary aggregates a run over many files.
type Summary struct {
	Files            int     `json:"files"`
	FilesWithIssues  int     `json:"files_with_issues"`
	Diagnostics      int     `json:"diagnostics"`
	ErrorCount       int     `json:"error_count"`
	WarningCount     int     `json:"warning_count"`
	HintCount        int     `json:"hint_count"`
	InformationCount int     `json:"information_count"`
	Verdict          Verdict `json:"verdict"`
}

// Run is the top-level JSON output of a CLI invocation.
type Run struct {
	Tool    string       `json:"tool"`
	Version string       `json:"version"`
	Files   []FileReport `json:"files"`
	Summary Summary      `json:"summary"`
}
