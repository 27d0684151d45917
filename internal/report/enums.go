package report

import "strings"

// Verdict is the outcome of comparing a document's density to the configured thresholds.
type Verdict string

const (
	VerdictClean Verdict = "clean"
	VerdictWarn  Verdict = "warn"
	VerdictFail  Verdict = "fail"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictClean, VerdictWarn, VerdictFail:
		return true
	}
	return false
}

// order returns a sort key (higher = worse).
func (v Verdict) order() int {
	switch v {
	case VerdictFail:
		return 2
	case VerdictWarn:
		return 1
	default:
		return 0
	}
}

// Worse reports whether v is a worse outcome than other.
func (v Verdict) Worse(other Verdict) bool {
	return v.order() > other.order()
}

// Severity indicates the importance of a diagnostic.
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityHint        Severity = "hint"
	SeverityInformation Severity = "information"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityHint, SeverityInformation:
		return true
	}
	return false
}

// Category classifies the pattern a diagnostic flags.
type Category string

const (
	CategoryPuffery          Category = "puffery"
	CategoryMarketing        Category = "marketing"
	CategoryTemplate         Category = "template"
	CategoryNegativeParallel Category = "negative-parallel"
	CategoryWeasel           Category = "weasel"
	CategoryBuzzword         Category = "buzzword"
	CategoryTransition       Category = "transition"
	CategoryConnectorGlut    Category = "connector-glut"
	CategoryRuleOfThree      Category = "rule-of-three"
	CategoryEmDash           Category = "em-dash"
	CategorySentenceLength   Category = "sentence-length"
	CategoryRepetition       Category = "repetition"
	CategoryCallToAction     Category = "call-to-action"
	CategoryConfidence       Category = "confidence"
	CategoryCadence          Category = "cadence"
	CategoryBroadTerm        Category = "broad-term"
	CategoryTone             Category = "tone"
	CategoryStructure        Category = "structure"
	CategoryFormatting       Category = "formatting"
	CategoryQuoteStyle       Category = "quote-style"
	CategorySectionDensity   Category = "section-density"
	CategoryTriadSlop        Category = "triad-slop"
	CategoryPattern          Category = "pattern"
)

// allCategories is in ordinal order; the index is the secondary sort key.
var allCategories = []Category{
	CategoryPuffery,
	CategoryMarketing,
	CategoryTemplate,
	CategoryNegativeParallel,
	CategoryWeasel,
	CategoryBuzzword,
	CategoryTransition,
	CategoryConnectorGlut,
	CategoryRuleOfThree,
	CategoryEmDash,
	CategorySentenceLength,
	CategoryRepetition,
	CategoryCallToAction,
	CategoryConfidence,
	CategoryCadence,
	CategoryBroadTerm,
	CategoryTone,
	CategoryStructure,
	CategoryFormatting,
	CategoryQuoteStyle,
	CategorySectionDensity,
	CategoryTriadSlop,
	CategoryPattern,
}

var categoryOrdinals = func() map[Category]int {
	m := make(map[Category]int, len(allCategories))
	for i, c := range allCategories {
		m[c] = i
	}
	return m
}()

// Categories returns every category in ordinal order.
func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

func (c Category) Valid() bool {
	_, ok := categoryOrdinals[c]
	return ok
}

// Ordinal returns the category's position in the stable ordering, or -1 if unknown.
func (c Category) Ordinal() int {
	if o, ok := categoryOrdinals[c]; ok {
		return o
	}
	return -1
}

// ParseCategory maps a directive or CLI name to a Category.
// Underscores and case are tolerated: "Connector_Glut" parses as connector-glut.
func ParseCategory(s string) (Category, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.ReplaceAll(name, "_", "-")
	c := Category(name)
	if c.Valid() {
		return c, true
	}
	return "", false
}
