package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dshills/dwg/internal/config"
	"github.com/dshills/dwg/internal/matcher"
)

// PatternError reports a user-supplied regex or glob that failed to compile.
type PatternError struct {
	Profile string
	Field   string
	Pattern string
	Cause   error
}

func (e *PatternError) Error() string {
	where := e.Field
	if e.Profile != "" {
		where = e.Profile + "." + e.Field
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid pattern %q in %s: %v", e.Pattern, where, e.Cause)
	}
	return fmt.Sprintf("invalid pattern %q in %s", e.Pattern, where)
}

func (e *PatternError) Unwrap() error {
	return e.Cause
}

// Runtime is a recipe with its regexes and phrase matchers compiled.
// It is immutable and shared by concurrent analyses.
type Runtime struct {
	Name  string
	Rules config.ProfileRules

	Templates         []*regexp.Regexp
	BannedHeadings    []*regexp.Regexp
	RequiredPatterns  []*regexp.Regexp
	ForbiddenPatterns []*regexp.Regexp

	CallToAction *matcher.PhraseMatcher
	Confidence   *matcher.PhraseMatcher
	BroadTerms   *matcher.PhraseMatcher

	RequiredHeadings []string
	CadenceStarts    map[string]bool
}

// Compile builds a runtime for r. globalTemplates are the config-wide
// template regexes; the recipe's template_phrases are appended to them.
func Compile(r *Recipe, globalTemplates []string) (*Runtime, error) {
	rt := &Runtime{
		Name:          r.Name,
		Rules:         r.Rules,
		CallToAction:  matcher.NewPhraseMatcher(r.Rules.CallToActionPhrases),
		Confidence:    matcher.NewPhraseMatcher(r.Rules.ConfidencePhrases),
		BroadTerms:    matcher.NewPhraseMatcher(r.Rules.BroadTerms),
		CadenceStarts: make(map[string]bool),
	}

	var err error
	templates := append(append([]string(nil), globalTemplates...), r.Rules.TemplatePhrases...)
	if rt.Templates, err = compileAll(r.Name, "templates", templates); err != nil {
		return nil, err
	}
	if rt.BannedHeadings, err = compileAll(r.Name, "banned_headings", r.Rules.BannedHeadings); err != nil {
		return nil, err
	}
	if rt.RequiredPatterns, err = compileAll(r.Name, "required_patterns", r.Rules.RequiredPatterns); err != nil {
		return nil, err
	}
	if rt.ForbiddenPatterns, err = compileAll(r.Name, "forbidden_patterns", r.Rules.ForbiddenPatterns); err != nil {
		return nil, err
	}

	for _, h := range r.Rules.RequiredHeadings {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			rt.RequiredHeadings = append(rt.RequiredHeadings, h)
		}
	}
	for _, w := range r.Rules.CadenceStarts {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			rt.CadenceStarts[w] = true
		}
	}
	return rt, nil
}

func compileAll(profile, field string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := matcher.CompileFold(p)
		if err != nil {
			return nil, &PatternError{Profile: profile, Field: field, Pattern: p, Cause: err}
		}
		out = append(out, re)
	}
	return out, nil
}

// Limit returns the value of an optional scalar rule.
func Limit(v *int) (int, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}
