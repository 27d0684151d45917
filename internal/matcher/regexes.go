package matcher

import (
	"fmt"
	"regexp"
	"strings"
)

// Static patterns shared by every profile.
var (
	RuleOfThree         = regexp.MustCompile(`\b\w+, \w+, (?:and|&) \w+`)
	TriRange            = regexp.MustCompile(`(?i)\bfrom \w+(?: \w+)? to \w+(?: \w+)? to \w+`)
	Passive             = regexp.MustCompile(`(?i)\b(?:is|are|was|were|be|been|being)\s+(?:\w+ly\s+)?\w+(?:ed|en)\b`)
	URL                 = regexp.MustCompile(`\bhttps?://[^\s<>"')\]]+`)
	BoldSpan            = regexp.MustCompile(`\*\*[^*\n]+?\*\*|__[^_\n]+?__`)
	ConfidencePercent   = regexp.MustCompile(`\b\d{2,}(?:\.\d+)?%`)
	MidSentenceQuestion = regexp.MustCompile(`\?\s+[a-z]`)
	NotWord             = regexp.MustCompile(`(?i)\bnot\b`)

	percentContext = regexp.MustCompile(`(?i)^\d{2,}(?:\.\d+)?%\s+(?:of|coverage|uptime|availability|requests|users|traffic|tests|cases|the|reduction|increase|decrease|faster|slower|latency|cpu|memory)\b`)
)

var (
	specificity []*regexp.Regexp
	citation    []*regexp.Regexp
)

func init() {
	specific := []string{
		// versions: 1.2, v3.4.1, v2
		`\bv?\d+\.\d+(?:\.\d+)*\b`,
		`\bv\d+\b`,
		// ticket ids: ABC-123, #42
		`\b[A-Z][A-Z0-9]+-\d+\b`,
		`#\d+\b`,
		// camelCase and PascalCase with an inner capital
		`\b[a-z]+[A-Z][A-Za-z0-9]*\b`,
		`\b[A-Z][a-z0-9]+[A-Z][A-Za-z0-9]*\b`,
		// snake_case and CONSTANT_CASE
		`\b[a-z0-9]+_[a-z0-9_]+\b`,
		`\b[A-Z][A-Z0-9]*_[A-Z0-9_]+\b`,
		// file paths and names with a known extension
		`(?:^|\s)\.{0,2}/?[\w.-]+/[\w./-]+`,
		`\b[\w-]+\.(?:go|rs|py|js|ts|tsx|jsx|md|yaml|yml|json|toml|txt|sh|c|h|cpp|java|rb|sql|html|css)\b`,
		`https?://\S+`,
		// figure and table references
		`(?i)\b(?:figure|fig\.|table|section|listing|appendix)\s+\d+`,
		// numbers with units
		`(?i)\b\d+(?:\.\d+)?\s?(?:ms|us|ns|s|sec|secs|seconds|min|mins|minutes|h|hrs|hours|days|kb|mb|gb|tb|kib|mib|gib|rps|qps|px|em|rem|x|k|m)\b`,
		`\b\d+(?:\.\d+)?%`,
	}
	for _, r := range specific {
		specificity = append(specificity, regexp.MustCompile(r))
	}

	cite := []string{
		// numeric references: [1], [2, 3], [4-6]
		`\[\d+(?:\s*[,\-]\s*\d+)*\]`,
		// markdown links
		`\[[^\]]+\]\([^)]+\)`,
		// (Author, 2020), (Smith and Jones 2019), (Lee et al., 2021a)
		`\([A-Z][A-Za-z'-]+(?: et al\.)?(?: (?:and|&) [A-Z][A-Za-z'-]+)?,? \d{4}[a-z]?\)`,
		`\b10\.\d{4,9}/\S+`,
		`(?i)\bdoi:\s*\S+`,
		`https?://\S+`,
	}
	for _, r := range cite {
		citation = append(citation, regexp.MustCompile(r))
	}
}

// HasSpecificity reports whether s contains a specificity token: a version,
// ticket id, code identifier, file path, URL, figure reference or a number
// with a unit.
func HasSpecificity(s string) bool {
	return anyMatch(specificity, s)
}

// HasCitation reports whether s contains a citation marker.
func HasCitation(s string) bool {
	return anyMatch(citation, s)
}

// PercentInContext reports whether the percentage starting at text[start:]
// is followed by a word that ties it to a measured quantity ("95% of requests").
func PercentInContext(text string, start int) bool {
	return percentContext.MatchString(text[start:])
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

// Connectors is the fixed list counted by the connector-glut check.
var Connectors = []string{
	"however", "furthermore", "moreover", "nevertheless", "nonetheless",
	"consequently", "therefore", "thus", "accordingly",
	"as a result", "in addition", "at the same time",
}

// CompileFold compiles a user-supplied pattern in case-insensitive mode.
func CompileFold(pattern string) (*regexp.Regexp, error) {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return nil, fmt.Errorf("matcher.CompileFold: empty pattern")
	}
	re, err := regexp.Compile("(?i)" + p)
	if err != nil {
		return nil, fmt.Errorf("matcher.CompileFold: %w", err)
	}
	return re, nil
}
