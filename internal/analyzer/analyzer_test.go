package analyzer

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/dwg/internal/config"
	"github.com/dshills/dwg/internal/disable"
	"github.com/dshills/dwg/internal/location"
	"github.com/dshills/dwg/internal/profile"
	"github.com/dshills/dwg/internal/report"
	"github.com/dshills/dwg/internal/schema"
)

func newAnalyzer(t *testing.T, mutate func(c *config.Config)) *Analyzer {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func analyzeAs(t *testing.T, a *Analyzer, text, profileName string) *report.DocumentReport {
	t.Helper()
	r, err := a.Analyze(text, profileName)
	require.NoError(t, err)
	require.Empty(t, schema.Validate(r, text), "report must be structurally valid")
	return r
}

func analyze(t *testing.T, a *Analyzer, text string) *report.DocumentReport {
	t.Helper()
	return analyzeAs(t, a, text, a.DefaultProfile())
}

func byCategory(r *report.DocumentReport, c report.Category) []report.Diagnostic {
	var out []report.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}

func TestScenarios(t *testing.T) {
	a := newAnalyzer(t, nil)

	t.Run("puffery hit", func(t *testing.T) {
		r := analyze(t, a, "This update stands as a testament to progress.")
		require.Len(t, r.Diagnostics, 1)
		assert.Equal(t, report.CategoryPuffery, r.Diagnostics[0].Category)
		assert.Equal(t, report.SeverityError, r.Diagnostics[0].Severity)
		assert.Equal(t, "stands as a testament", r.Diagnostics[0].Snippet)
	})

	t.Run("single buzzword suppressed by specificity", func(t *testing.T) {
		r := analyze(t, a, "We used a robust API v2 for the rollout.")
		assert.Empty(t, byCategory(r, report.CategoryBuzzword))
	})

	t.Run("buzzword cluster kept", func(t *testing.T) {
		r := analyze(t, a, "We used a robust, seamless API v2 to ship the update.")
		got := byCategory(r, report.CategoryBuzzword)
		require.NotEmpty(t, got)
		for _, d := range got {
			assert.Equal(t, report.SeverityWarning, d.Severity)
		}
	})

	t.Run("weasel suppressed by citation", func(t *testing.T) {
		r := analyze(t, a, "Experts say the change improved results [1].")
		assert.Empty(t, byCategory(r, report.CategoryWeasel))
	})

	t.Run("percent claim in context", func(t *testing.T) {
		r := analyze(t, a, "95% of requests succeeded in the last window.")
		assert.Empty(t, byCategory(r, report.CategoryConfidence))
	})

	t.Run("percent claim without context", func(t *testing.T) {
		r := analyze(t, a, "Our model hits 95% accuracy every time.")
		assert.Len(t, byCategory(r, report.CategoryConfidence), 1)
	})

	t.Run("ignore-line directive", func(t *testing.T) {
		text := "<!-- dwg:ignore-line -->\n" +
			"As an AI language model, I cannot access external links.\n" +
			"As an AI language model, I cannot access external links.\n"
		r := analyze(t, a, text)
		got := byCategory(r, report.CategoryTemplate)
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].Location.Line)
		assert.Empty(t, byCategory(r, report.CategoryNegativeParallel))
	})
}

const richDoc = `---
title: Sample
tags: [a, b]
---
# Getting Started With Things

This update stands as a testament to progress. We leverage robust, seamless tooling!

Experts say it works. Moreover, however, the team shipped it — fast — and cheap — really.

- **Bold** lead
- **More** bold
- **Even** more
- 🚀 launch

` + "```go\nrobust := true\n```" + `

Visit https://example.com/robust for more. Our model hits 95% accuracy. Click here to learn more.
<!-- dwg:ignore-line -->
It is vibrant.
Why does this matter? because it does. We serve everyone from startups to enterprises to governments.
It is not just fast, but also cheap. The build is green today. The build is green today.

## Summary

Short.

## Conclusion

<!-- dwg:ignore tone -->Is it done? yes it is.<!-- dwg:end-ignore -->
`

func TestDeterministic(t *testing.T) {
	a := newAnalyzer(t, nil)
	first := analyze(t, a, richDoc)
	second := analyze(t, a, richDoc)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.Diagnostics)
}

func TestConcurrentAnalysesShareAnalyzer(t *testing.T) {
	a := newAnalyzer(t, nil)
	want := analyze(t, a, richDoc)

	var wg sync.WaitGroup
	results := make([]*report.DocumentReport, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := a.Analyze(richDoc, a.DefaultProfile())
			if err == nil {
				results[i] = r
			}
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, want, r)
	}
}

func assertGateSound(t *testing.T, text string, r *report.DocumentReport) {
	t.Helper()
	dis := disable.Build(text, location.New(text))
	for _, d := range r.Diagnostics {
		assert.False(t, dis.IsDisabled(d.Span.Start), "globally disabled: %+v", d)
		assert.False(t, dis.IsCategoryDisabled(d.Span.Start, d.Category), "category disabled: %+v", d)
		assert.False(t, dis.IsLineIgnored(d.Location.Line), "ignored line: %+v", d)
		assert.True(t, d.Span.Start >= 0 && d.Span.Start <= d.Span.End && d.Span.End <= len(text))
	}
}

func TestRichDocumentProperties(t *testing.T) {
	a := newAnalyzer(t, nil)
	r := analyze(t, a, richDoc)
	assertGateSound(t, richDoc, r)

	for _, d := range r.Diagnostics {
		assert.NotContains(t, d.Snippet, "title: Sample", "frontmatter must be skipped")
		assert.NotEqual(t, "robust := true", d.Snippet, "fenced code must be skipped")
		assert.NotEqual(t, 22, d.Location.Line, "ignored line must be skipped")
	}
	assert.NotEmpty(t, byCategory(r, report.CategoryTriadSlop))
	assert.NotEmpty(t, byCategory(r, report.CategoryNegativeParallel))
	assert.NotEmpty(t, byCategory(r, report.CategoryRepetition))
	assert.NotEmpty(t, byCategory(r, report.CategoryCallToAction))

	for _, d := range byCategory(r, report.CategoryTone) {
		assert.NotContains(t, d.Snippet, "yes", "tone is ignored inside the scoped block")
	}
}

func TestDensityLaw(t *testing.T) {
	a := newAnalyzer(t, nil)
	for _, text := range []string{"", "   ", richDoc, "This is vibrant and pivotal."} {
		r := analyze(t, a, text)
		if r.WordCount == 0 {
			assert.Equal(t, float64(len(r.Diagnostics)), r.Density())
			continue
		}
		assert.InDelta(t, 100*float64(len(r.Diagnostics))/float64(r.WordCount), r.Density(), 1e-9)
	}
}

func TestWhitelist(t *testing.T) {
	a := newAnalyzer(t, func(c *config.Config) {
		c.Whitelist.AllowedPhrases = []string{"Vibrant", "stands as a testament"}
	})
	r := analyze(t, a, "This is vibrant. This update stands as a testament to progress. It is pivotal.")
	for _, d := range r.Diagnostics {
		assert.NotEqual(t, "vibrant", strings.ToLower(d.Snippet))
		assert.NotEqual(t, "stands as a testament", strings.ToLower(d.Snippet))
	}
	assert.Len(t, byCategory(r, report.CategoryPuffery), 1)
}

func TestOffDirectiveRemovesOnlyThatDiagnostic(t *testing.T) {
	a := newAnalyzer(t, nil)
	before := analyze(t, a, "Intro is fine here. This is vibrant work. Also pivotal.")
	after := analyze(t, a, "Intro is fine here. This is <!-- dwg:off -->vibrant<!-- dwg:on --> work. Also pivotal.")

	assert.Equal(t, before.Count(report.CategoryPuffery)-1, after.Count(report.CategoryPuffery))
	for c, n := range before.CategoryCounts {
		if c != report.CategoryPuffery {
			assert.Equal(t, n, after.Count(c), "category %s changed", c)
		}
	}
}

func TestScopedIgnore(t *testing.T) {
	a := newAnalyzer(t, nil)
	r := analyze(t, a, "<!-- dwg:ignore puffery -->This is vibrant.<!-- dwg:end-ignore --> And pivotal.")
	got := byCategory(r, report.CategoryPuffery)
	require.Len(t, got, 1)
	assert.Equal(t, "pivotal", got[0].Snippet)
}

// Random documents keep every report invariant, and nothing is emitted
// inside a known dwg:off block.
func TestRandomDocuments(t *testing.T) {
	pieces := []string{
		"This is vibrant. ", "We leverage robust, seamless tools. ", "Experts say so. ",
		"Experts say so [1]. ", "It hits 99% accuracy. ", "Click here now! ", "Wow! ",
		"from a to b to c ", "\n\n", "\n", "# Heading Title Case\n", "- item\n", "- 🚀 go\n",
		"`robust` ", "```\nrobust\n```\n", "https://x.y/robust ", "“quoted” ",
		"<!-- dwg:ignore-line -->\n", "It is not only good, but also great. ", "One — two — three. ",
		"**a** **b** **c** ", "fast, cheap, and good ", "Why? because. ",
	}
	a := newAnalyzer(t, func(c *config.Config) { c.QuoteStyle = config.QuoteStraight })
	rng := rand.New(rand.NewSource(3))

	for iter := 0; iter < 200; iter++ {
		var b strings.Builder
		for i := rng.Intn(12); i > 0; i-- {
			b.WriteString(pieces[rng.Intn(len(pieces))])
		}
		b.WriteString("\n\n<!-- dwg:off -->")
		offStart := b.Len()
		for i := 1 + rng.Intn(4); i > 0; i-- {
			b.WriteString(pieces[rng.Intn(len(pieces))])
		}
		offEnd := b.Len()
		b.WriteString("<!-- dwg:on -->\n\n")
		for i := rng.Intn(12); i > 0; i-- {
			b.WriteString(pieces[rng.Intn(len(pieces))])
		}
		text := b.String()

		r := analyze(t, a, text)
		assertGateSound(t, text, r)
		for _, d := range r.Diagnostics {
			if d.Span.Start >= offStart && d.Span.Start < offEnd {
				t.Fatalf("diagnostic %+v inside dwg:off block of %q", d, text)
			}
		}
	}
}

func TestAnalyzeUnknownProfile(t *testing.T) {
	a := newAnalyzer(t, nil)
	_, err := a.Analyze("text", "nope")
	var pe *ProfileError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "nope", pe.Name)
}

func TestNewErrors(t *testing.T) {
	t.Run("bad template", func(t *testing.T) {
		cfg := config.Default()
		cfg.Templates.Ban = append(cfg.Templates.Ban, "(unclosed")
		_, err := New(cfg)
		var pe *profile.PatternError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "(unclosed", pe.Pattern)
	})
	t.Run("extends cycle", func(t *testing.T) {
		cfg := config.Default()
		cfg.Profiles = []config.ProfileConfig{{Name: "a", Extends: "b"}, {Name: "b", Extends: "a"}}
		_, err := New(cfg)
		var re *profile.ResolutionError
		require.True(t, errors.As(err, &re))
	})
	t.Run("bad glob", func(t *testing.T) {
		cfg := config.Default()
		cfg.Profiles = []config.ProfileConfig{{Name: "a", Globs: []string{"[x"}}}
		_, err := New(cfg)
		var pe *profile.PatternError
		require.True(t, errors.As(err, &pe))
	})
	t.Run("invalid config", func(t *testing.T) {
		cfg := config.Default()
		cfg.HeadingStyle = "loud"
		_, err := New(cfg)
		var le *config.LoadError
		require.True(t, errors.As(err, &le))
	})
}

func TestProfileForPath(t *testing.T) {
	a := newAnalyzer(t, func(c *config.Config) {
		c.Profiles = []config.ProfileConfig{{Name: "guides", Globs: []string{"guides/**/*.md"}}}
	})
	assert.Equal(t, "default", a.DefaultProfile())
	assert.Equal(t, "guides", a.ProfileForPath("guides/a/b.md"))
	assert.Equal(t, "readme", a.ProfileForPath("README.md"))
	assert.Equal(t, "default", a.ProfileForPath("notes.txt"))

	var names []string
	for _, r := range a.Profiles() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"default", "guides", "changelog", "docs", "readme"}, names)
}
