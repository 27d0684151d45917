// Package analyzer runs the prose detectors over a document and builds its report.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/dshills/dwg/internal/config"
	"github.com/dshills/dwg/internal/disable"
	"github.com/dshills/dwg/internal/location"
	"github.com/dshills/dwg/internal/matcher"
	"github.com/dshills/dwg/internal/profile"
	"github.com/dshills/dwg/internal/report"
	"github.com/dshills/dwg/internal/segment"
)

// ProfileError is returned by Analyze for a profile name that does not exist.
type ProfileError struct {
	Name string
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("analyzer: unknown profile %q", e.Name)
}

// Analyzer holds the compiled matchers and profile runtimes for one
// configuration. It is immutable after New and safe for concurrent use.
type Analyzer struct {
	cfg *config.Config

	puffery     *matcher.PhraseMatcher
	weasel      *matcher.PhraseMatcher
	marketing   *matcher.PhraseMatcher
	buzzwords   *matcher.PhraseMatcher
	transitions *matcher.PhraseMatcher
	connectors  *matcher.PhraseMatcher

	allow    map[string]bool
	runtimes map[string]*profile.Runtime
	recipes  []*profile.Recipe
	selector *profile.Selector
}

// New validates cfg and compiles every phrase list, regex and profile.
// Built-in presets are resolved after the user's profiles.
func New(cfg *config.Config) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	builtin, err := profile.Builtins()
	if err != nil {
		return nil, fmt.Errorf("analyzer.New: %w", err)
	}
	recipes, err := profile.Resolve(cfg.ProfileDefaults, cfg.Profiles, builtin)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:         cfg,
		puffery:     matcher.NewPhraseMatcher(cfg.Puffery.Ban),
		weasel:      matcher.NewPhraseMatcher(cfg.Weasel.Ban),
		marketing:   matcher.NewPhraseMatcher(cfg.Marketing.Ban),
		buzzwords:   matcher.NewPhraseMatcher(cfg.Buzzwords.Throttle),
		transitions: matcher.NewPhraseMatcher(cfg.Transitions.Throttle),
		connectors:  matcher.NewPhraseMatcher(matcher.Connectors),
		allow:       make(map[string]bool),
		runtimes:    make(map[string]*profile.Runtime, len(recipes)),
		recipes:     recipes,
	}
	for _, list := range [][]string{cfg.Whitelist.AllowedPhrases, cfg.Whitelist.AllowedTypos} {
		for _, p := range list {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				a.allow[p] = true
			}
		}
	}
	for _, r := range recipes {
		rt, err := profile.Compile(r, cfg.Templates.Ban)
		if err != nil {
			return nil, err
		}
		a.runtimes[r.Name] = rt
	}
	if a.selector, err = profile.NewSelector(recipes); err != nil {
		return nil, err
	}
	return a, nil
}

// Config returns the configuration the analyzer was built from.
func (a *Analyzer) Config() *config.Config { return a.cfg }

// DefaultProfile returns the name of the profile that always exists.
func (a *Analyzer) DefaultProfile() string { return profile.DefaultName }

// ProfileForPath selects a profile for a relative document path by glob.
func (a *Analyzer) ProfileForPath(relative string) string {
	return a.selector.Select(relative)
}

// Profiles returns the resolved recipes in selection order, default first.
func (a *Analyzer) Profiles() []*profile.Recipe {
	out := make([]*profile.Recipe, len(a.recipes))
	copy(out, a.recipes)
	return out
}

// Recipe returns the resolved recipe for name.
func (a *Analyzer) Recipe(name string) (*profile.Recipe, bool) {
	for _, r := range a.recipes {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Analyze lints text under the named profile. The only error is an
// unknown profile; diagnostics are returned sorted by span start and
// category ordinal.
func (a *Analyzer) Analyze(text, profileName string) (*report.DocumentReport, error) {
	rt, ok := a.runtimes[profileName]
	if !ok {
		return nil, &ProfileError{Name: profileName}
	}

	loc := location.New(text)
	p := &pass{
		a:          a,
		rt:         rt,
		text:       text,
		loc:        loc,
		dis:        disable.Build(text, loc),
		sentences:  segment.Sentences(text),
		paragraphs: segment.Paragraphs(text),
		lines:      segment.Lines(text),
	}
	p.run()

	report.SortDiagnostics(p.diags)
	diags := p.diags
	if diags == nil {
		diags = []report.Diagnostic{}
	}
	return &report.DocumentReport{
		WordCount:      segment.CountWords(text),
		Diagnostics:    diags,
		CategoryCounts: report.CountBy(diags),
		Profile:        rt.Name,
	}, nil
}
