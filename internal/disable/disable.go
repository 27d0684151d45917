// Package disable precomputes the regions of a document in which
// diagnostics must not be emitted.
package disable

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dshills/dwg/internal/location"
	"github.com/dshills/dwg/internal/report"
	"github.com/dshills/dwg/internal/segment"
)

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Contains reports whether offset lies inside the range.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

var (
	offPattern         = regexp.MustCompile(`<!--\s*dwg:off\s*-->`)
	onPattern          = regexp.MustCompile(`<!--\s*dwg:on\s*-->`)
	ignorePattern      = regexp.MustCompile(`<!--\s*dwg:ignore(?:\s+([^>]*?))?\s*-->`)
	endIgnorePattern   = regexp.MustCompile(`<!--\s*dwg:end-ignore\s*-->`)
	ignoreLinePattern  = regexp.MustCompile(`<!--\s*dwg:ignore-line\s*-->`)
	urlPattern         = regexp.MustCompile(`\bhttps?://[^\s<>"'` + "`" + `)\]]+`)
	categorySeparators = regexp.MustCompile(`[,\s]+`)
)

// Index holds the globally disabled ranges, category-scoped ranges and
// ignored lines of one document. It is read-only after Build.
type Index struct {
	global []Range
	fences []Range
	scoped map[report.Category][]Range
	lines  map[int]struct{}
}

// Build scans text for directives, frontmatter, fenced and inline code, and
// URLs. Unterminated regions extend to the end of the text.
func Build(text string, lines *location.Index) *Index {
	ix := &Index{
		scoped: make(map[report.Category][]Range),
		lines:  make(map[int]struct{}),
	}

	ix.collectOffOn(text)
	ix.collectScoped(text)
	ix.collectIgnoreLines(text, lines)

	split := segment.Lines(text)
	ix.collectFrontmatter(text, split)
	ix.collectFences(text, split)
	ix.collectInlineCode(split)
	ix.collectURLs(text)

	sort.Slice(ix.global, func(i, j int) bool {
		if ix.global[i].Start != ix.global[j].Start {
			return ix.global[i].Start < ix.global[j].Start
		}
		return ix.global[i].End < ix.global[j].End
	})
	return ix
}

// pairRanges pairs each opening match with the next closing match after it.
func pairRanges(text string, open, close *regexp.Regexp) []Range {
	var out []Range
	pos := 0
	for pos < len(text) {
		o := open.FindStringIndex(text[pos:])
		if o == nil {
			break
		}
		start := pos + o[0]
		after := pos + o[1]
		c := close.FindStringIndex(text[after:])
		if c == nil {
			out = append(out, Range{Start: start, End: len(text)})
			break
		}
		end := after + c[1]
		out = append(out, Range{Start: start, End: end})
		pos = end
	}
	return out
}

func (ix *Index) collectOffOn(text string) {
	ix.global = append(ix.global, pairRanges(text, offPattern, onPattern)...)
}

func (ix *Index) collectScoped(text string) {
	pos := 0
	for pos < len(text) {
		m := ignorePattern.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			return
		}
		start := pos + m[0]
		after := pos + m[1]
		var names string
		if m[2] >= 0 {
			names = text[pos+m[2] : pos+m[3]]
		}

		end := len(text)
		if c := endIgnorePattern.FindStringIndex(text[after:]); c != nil {
			end = after + c[1]
		}
		r := Range{Start: start, End: end}

		cats, ok := parseCategories(names)
		if !ok {
			ix.global = append(ix.global, r)
		} else {
			for _, c := range cats {
				ix.scoped[c] = append(ix.scoped[c], r)
			}
		}
		pos = end
	}
}

// parseCategories splits a directive's category list. An empty list or any
// unknown name reports false so the caller falls back to a global range.
func parseCategories(names string) ([]report.Category, bool) {
	var out []report.Category
	for _, n := range categorySeparators.Split(strings.TrimSpace(names), -1) {
		if n == "" {
			continue
		}
		c, ok := report.ParseCategory(n)
		if !ok {
			return nil, false
		}
		out = append(out, c)
	}
	return out, len(out) > 0
}

func (ix *Index) collectIgnoreLines(text string, lines *location.Index) {
	for _, m := range ignoreLinePattern.FindAllStringIndex(text, -1) {
		line := lines.Line(m[0])
		ix.lines[line] = struct{}{}
		whole := text[lines.LineStart(line):lines.LineEnd(line)]
		if strings.TrimSpace(whole) == strings.TrimSpace(text[m[0]:m[1]]) {
			ix.lines[line+1] = struct{}{}
		}
	}
}

func (ix *Index) collectFrontmatter(text string, lines []segment.Line) {
	if len(lines) == 0 || lines[0].Text != "---" {
		return
	}
	for _, l := range lines[1:] {
		t := strings.TrimSpace(l.Text)
		if t == "---" || t == "..." {
			ix.global = append(ix.global, Range{Start: 0, End: l.End()})
			return
		}
	}
	ix.global = append(ix.global, Range{Start: 0, End: len(text)})
}

func (ix *Index) collectFences(text string, lines []segment.Line) {
	open := -1
	for _, l := range lines {
		t := strings.TrimSpace(l.Text)
		if !strings.HasPrefix(t, "```") && !strings.HasPrefix(t, "~~~") {
			continue
		}
		if open < 0 {
			open = l.Start
			continue
		}
		ix.fences = append(ix.fences, Range{Start: open, End: l.End()})
		open = -1
	}
	if open >= 0 {
		ix.fences = append(ix.fences, Range{Start: open, End: len(text)})
	}
	ix.global = append(ix.global, ix.fences...)
}

func (ix *Index) collectInlineCode(lines []segment.Line) {
	for _, l := range lines {
		if ix.InFence(l.Start) {
			continue
		}
		s := l.Text
		for i := 0; i < len(s); i++ {
			if s[i] != '`' {
				continue
			}
			if strings.HasPrefix(s[i:], "```") {
				for i < len(s) && s[i] == '`' {
					i++
				}
				continue
			}
			j := strings.IndexByte(s[i+1:], '`')
			if j < 0 {
				break
			}
			end := i + 1 + j + 1
			ix.global = append(ix.global, Range{Start: l.Start + i, End: l.Start + end})
			i = end - 1
		}
	}
}

func (ix *Index) collectURLs(text string) {
	for _, m := range urlPattern.FindAllStringIndex(text, -1) {
		if ix.IsDisabled(m[0]) {
			continue
		}
		ix.global = append(ix.global, Range{Start: m[0], End: m[1]})
	}
}

// IsDisabled reports whether every check is disabled at offset.
func (ix *Index) IsDisabled(offset int) bool {
	return inAny(ix.global, offset)
}

// IsCategoryDisabled reports whether checks of category c are disabled at
// offset, either globally or by a scoped ignore.
func (ix *Index) IsCategoryDisabled(offset int, c report.Category) bool {
	return ix.IsDisabled(offset) || inAny(ix.scoped[c], offset)
}

// IsLineIgnored reports whether the 1-based line carries an ignore-line directive.
func (ix *Index) IsLineIgnored(line int) bool {
	_, ok := ix.lines[line]
	return ok
}

// InFence reports whether offset lies inside a fenced code block.
func (ix *Index) InFence(offset int) bool {
	return inAny(ix.fences, offset)
}

func inAny(ranges []Range, offset int) bool {
	for _, r := range ranges {
		if r.Contains(offset) {
			return true
		}
	}
	return false
}
