package analyzer

import (
	"sort"
	"strings"
	"unicode"

	"github.com/dshills/dwg/internal/disable"
	"github.com/dshills/dwg/internal/location"
	"github.com/dshills/dwg/internal/profile"
	"github.com/dshills/dwg/internal/report"
	"github.com/dshills/dwg/internal/segment"
)

// pass is the state of one Analyze call. Nothing in it outlives the call.
type pass struct {
	a    *Analyzer
	rt   *profile.Runtime
	text string
	loc  *location.Index
	dis  *disable.Index

	sentences  []segment.Sentence
	paragraphs []segment.Paragraph
	lines      []segment.Line
	headings   []segment.Heading

	diags []report.Diagnostic
}

func (p *pass) run() {
	p.headings = p.collectHeadings()

	p.detectBanned()
	p.detectClustered(p.a.buzzwords, report.CategoryBuzzword)
	p.detectClustered(p.a.transitions, report.CategoryTransition)
	p.detectTemplates()
	p.detectRanges()
	p.detectConnectorGlut()
	p.detectSentenceLength()
	p.detectQuestionLead()
	p.detectMidSentenceQuestion()
	p.detectExclamations()
	p.detectCadence()
	p.detectBroadTerms()
	p.detectRepetition()
	p.detectCallToAction()
	p.detectConfidence()
	p.detectStatistical()
	p.detectRuleOfThree()
	p.detectEmDashes()
	p.detectBoldSpans()
	p.detectHeadings()
	p.detectBulletGroups()
	p.detectEmojiBullets()
	p.detectPatterns()
	p.detectMinCodeBlocks()
	p.detectTriadSlop()
	p.detectSectionDensity()
	p.detectQuotes()
}

// emit appends a diagnostic unless the span start is disabled for the
// category, its line is ignored, or the snippet is allowlisted.
func (p *pass) emit(cat report.Category, sev report.Severity, start, end int, msg, suggestion string) {
	start = clamp(start, 0, len(p.text))
	end = clamp(end, start, len(p.text))

	if p.dis.IsCategoryDisabled(start, cat) {
		return
	}
	line, col := p.loc.Position(start)
	if p.dis.IsLineIgnored(line) {
		return
	}
	snippet := strings.TrimSpace(p.text[start:end])
	if p.a.allow[strings.ToLower(snippet)] {
		return
	}

	p.diags = append(p.diags, report.Diagnostic{
		Category:   cat,
		Severity:   sev,
		Message:    msg,
		Suggestion: suggestion,
		Location:   report.Location{Line: line, Column: col},
		Span:       report.Span{Start: start, End: end},
		Snippet:    snippet,
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// sentenceAt returns the index of the sentence containing offset, or -1.
func (p *pass) sentenceAt(offset int) int {
	i := sort.Search(len(p.sentences), func(i int) bool {
		return p.sentences[i].Start > offset
	}) - 1
	if i < 0 || offset >= p.sentences[i].End() {
		return -1
	}
	return i
}

// sentenceText returns the text of the sentence containing offset, or the
// text of its line when offset falls between sentences.
func (p *pass) sentenceText(offset int) string {
	if i := p.sentenceAt(offset); i >= 0 {
		return p.sentences[i].Text
	}
	line := p.loc.Line(offset)
	return p.text[p.loc.LineStart(line):p.loc.LineEnd(line)]
}

func isHeadingSentence(s segment.Sentence) bool {
	return segment.IsHeading(s.Text)
}

func isBulletSentence(s segment.Sentence) bool {
	return segment.IsBullet(s.Text)
}

// prose returns the sentences that are running text: not headings, not
// list items, not inside fenced code and not globally disabled.
func (p *pass) prose() []segment.Sentence {
	var out []segment.Sentence
	for _, s := range p.sentences {
		if isHeadingSentence(s) || isBulletSentence(s) {
			continue
		}
		if p.dis.IsDisabled(s.Start) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// anchor is the first non-space character outside any disabled range, used
// for document-level diagnostics. It returns the offset and the end of its line.
func (p *pass) anchor() (int, int) {
	for i, r := range p.text {
		if unicode.IsSpace(r) || p.dis.IsDisabled(i) {
			continue
		}
		line := p.loc.Line(i)
		return i, p.loc.LineEnd(line)
	}
	return 0, 0
}

// collectHeadings parses ATX headings outside fenced code, frontmatter and
// other disabled regions.
func (p *pass) collectHeadings() []segment.Heading {
	var out []segment.Heading
	for _, l := range p.lines {
		h, ok := segment.ParseHeading(l)
		if !ok || p.dis.IsDisabled(h.Start) {
			continue
		}
		out = append(out, h)
	}
	return out
}
