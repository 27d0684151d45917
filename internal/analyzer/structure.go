package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/dwg/internal/config"
	"github.com/dshills/dwg/internal/profile"
	"github.com/dshills/dwg/internal/report"
	"github.com/dshills/dwg/internal/segment"
)

var (
	boldOnly = regexp.MustCompile(`^(?:\*\*[^*]+\*\*|__[^_]+__):?$`)

	triadHeadings = map[string]bool{
		"future development": true,
		"summary":            true,
		"conclusion":         true,
	}

	minorWords = map[string]bool{
		"a": true, "an": true, "the": true, "and": true, "or": true, "nor": true,
		"but": true, "of": true, "to": true, "in": true, "on": true, "for": true,
		"with": true, "at": true, "by": true, "from": true, "as": true, "vs": true,
		"via": true, "per": true, "into": true,
	}
)

// isEmoji reports whether r is in the pictographic ranges flagged in
// headings and at the start of list items.
func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x1F000 && r <= 0x1F2FF:
		return true
	case r == 0x2B50 || r == 0x2B55 || r == 0x2B06 || r == 0x2B07 || r == 0x2B05 || r == 0x27A1:
		return true
	}
	return false
}

func (p *pass) detectHeadings() {
	depth, hasDepth := profile.Limit(p.rt.Rules.MaxHeadingDepth)
	style := p.a.cfg.HeadingStyle

	for _, h := range p.headings {
		if hasDepth && h.Level > depth {
			p.emit(report.CategoryStructure, report.SeverityWarning, h.Start, h.End,
				fmt.Sprintf("heading level %d exceeds the maximum depth %d", h.Level, depth),
				"Flatten the outline.")
		}
		if p.rt.Rules.ForbidRhetoricalHeadings && strings.HasSuffix(h.Text, "?") {
			p.emit(report.CategoryFormatting, report.SeverityHint, h.Start, h.End,
				"rhetorical question used as a heading", "Make the heading a statement.")
		}
		if strings.IndexFunc(h.Text, isEmoji) >= 0 {
			p.emit(report.CategoryFormatting, report.SeverityHint, h.Start, h.End,
				"emoji in heading", "Remove the emoji.")
		}
		switch style {
		case config.HeadingSentenceCase:
			if n := capitalisedWords(h.Text); n >= 2 {
				p.emit(report.CategoryFormatting, report.SeverityHint, h.Start, h.End,
					"heading uses title case", "Capitalise only the first word and proper nouns.")
			}
		case config.HeadingTitleCase:
			if n := lowercaseWords(h.Text); n >= 2 {
				p.emit(report.CategoryFormatting, report.SeverityHint, h.Start, h.End,
					"heading uses sentence case", "Capitalise each major word.")
			}
		}
	}

	p.detectBoldHeadings()

	if limit, ok := profile.Limit(p.rt.Rules.MaxHeadings); ok && len(p.headings) > limit {
		h := p.headings[limit]
		p.emit(report.CategoryStructure, report.SeverityWarning, h.Start, h.End,
			fmt.Sprintf("%d headings (limit %d)", len(p.headings), limit),
			"Merge sections.")
	}

	if len(p.rt.RequiredHeadings) > 0 {
		present := make(map[string]bool, len(p.headings))
		for _, h := range p.headings {
			present[strings.ToLower(h.Text)] = true
		}
		start, end := p.anchor()
		for _, want := range p.rt.RequiredHeadings {
			if !present[want] {
				p.emit(report.CategoryStructure, report.SeverityWarning, start, end,
					fmt.Sprintf("missing required heading %q", want),
					"Add the section.")
			}
		}
	}

	for _, re := range p.rt.BannedHeadings {
		for _, h := range p.headings {
			if re.MatchString(h.Text) {
				p.emit(report.CategoryStructure, report.SeverityWarning, h.Start, h.End,
					fmt.Sprintf("banned heading %q", h.Text), "Rename or remove the section.")
			}
		}
	}
}

// detectBoldHeadings flags lines and list items that consist only of bold
// text, which stand in for a real heading.
func (p *pass) detectBoldHeadings() {
	for _, l := range p.lines {
		if p.dis.IsDisabled(l.Start) {
			continue
		}
		content, off, ok := segment.BulletContent(l.Text)
		if !ok {
			trimmed := strings.TrimLeft(l.Text, " \t")
			content, off = trimmed, len(l.Text)-len(trimmed)
		}
		content = strings.TrimRight(content, " \t\r")
		if content == "" || !boldOnly.MatchString(content) {
			continue
		}
		start := l.Start + off
		p.emit(report.CategoryFormatting, report.SeverityHint, start, start+len(content),
			"bold text used as a heading", "Use a real heading or fold it into the paragraph.")
	}
}

// capitalisedWords counts words after the first that start with an upper
// case letter, skipping all-caps acronyms.
func capitalisedWords(text string) int {
	words := strings.Fields(text)
	n := 0
	for _, w := range words[min(1, len(words)):] {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsUpper(r) || isAcronym(w) {
			continue
		}
		n++
	}
	return n
}

// lowercaseWords counts words after the first that start with a lower case
// letter and are not minor words.
func lowercaseWords(text string) int {
	words := strings.Fields(text)
	n := 0
	for _, w := range words[min(1, len(words)):] {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsLower(r) || minorWords[strings.ToLower(w)] {
			continue
		}
		n++
	}
	return n
}

func isAcronym(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return letters >= 2
}

// bulletGroup is a run of consecutive list lines.
type bulletGroup struct {
	start    int
	end      int
	items    int
	boldLead int
}

// bulletGroups scans consecutive list lines outside fences. A line holding
// only a dwg directive comment neither counts nor ends the group.
func (p *pass) bulletGroups() []bulletGroup {
	var out []bulletGroup
	var cur *bulletGroup
	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}
	for _, l := range p.lines {
		trimmed := strings.TrimSpace(l.Text)
		if isDirectiveLine(trimmed) {
			continue
		}
		if p.dis.InFence(l.Start) {
			flush()
			continue
		}
		content, _, ok := segment.BulletContent(l.Text)
		if !ok {
			flush()
			continue
		}
		if cur == nil {
			cur = &bulletGroup{start: l.Start + len(l.Text) - len(strings.TrimLeft(l.Text, " \t"))}
		}
		cur.items++
		cur.end = l.End()
		if strings.HasPrefix(content, "**") || strings.HasPrefix(content, "__") {
			cur.boldLead++
		}
	}
	flush()
	return out
}

func isDirectiveLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "<!--") && strings.HasSuffix(trimmed, "-->") && strings.Contains(trimmed, "dwg:")
}

func (p *pass) detectBulletGroups() {
	maxItems, hasMax := profile.Limit(p.rt.Rules.MaxBulletItems)
	boldLimit := p.a.cfg.Limits.BoldLeadBulletsPerList
	for _, g := range p.bulletGroups() {
		if hasMax && g.items > maxItems {
			p.emit(report.CategoryStructure, report.SeverityHint, g.start, g.end,
				fmt.Sprintf("list has %d items (limit %d)", g.items, maxItems),
				"Group or trim the list.")
		}
		if g.boldLead >= boldLimit {
			p.emit(report.CategoryFormatting, report.SeverityHint, g.start, g.end,
				fmt.Sprintf("%d list items open with bold text", g.boldLead),
				"Drop the bold lead-ins or turn the list into prose.")
		}
	}
}

func (p *pass) detectEmojiBullets() {
	for _, l := range p.lines {
		content, off, ok := segment.BulletContent(l.Text)
		if !ok {
			continue
		}
		lead := len(content) - len(strings.TrimLeft(content, " \t"))
		content = content[lead:]
		r, size := utf8.DecodeRuneInString(content)
		if !isEmoji(r) {
			continue
		}
		start := l.Start + off + lead
		p.emit(report.CategoryFormatting, report.SeverityHint, start, start+size,
			"list item starts with an emoji", "Remove the emoji.")
	}
}

// detectPatterns applies the profile's document-wide regexes. Missing
// required patterns are reported at the first enabled character.
func (p *pass) detectPatterns() {
	if len(p.rt.RequiredPatterns) > 0 {
		start, end := p.anchor()
		for _, re := range p.rt.RequiredPatterns {
			if !re.MatchString(p.text) {
				p.emit(report.CategoryPattern, report.SeverityWarning, start, end,
					fmt.Sprintf("required pattern %q not found", re.String()), "")
			}
		}
	}
	for _, re := range p.rt.ForbiddenPatterns {
		for _, loc := range re.FindAllStringIndex(p.text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			p.emit(report.CategoryPattern, report.SeverityWarning, loc[0], loc[1],
				fmt.Sprintf("forbidden pattern %q", re.String()), "")
		}
	}
}

// detectMinCodeBlocks counts ``` fence markers; an unpaired trailing marker
// counts as one block.
func (p *pass) detectMinCodeBlocks() {
	want, ok := profile.Limit(p.rt.Rules.MinCodeBlocks)
	if !ok {
		return
	}
	markers := 0
	for _, l := range p.lines {
		if strings.HasPrefix(strings.TrimSpace(l.Text), "```") {
			markers++
		}
	}
	if blocks := (markers + 1) / 2; blocks < want {
		start, end := p.anchor()
		p.emit(report.CategoryStructure, report.SeverityWarning, start, end,
			fmt.Sprintf("%d code blocks (minimum %d)", blocks, want),
			"Add a concrete example.")
	}
}

// detectTriadSlop flags documents carrying two or more of the stock closing
// headings. Matching is exact on the lowercased heading text.
func (p *pass) detectTriadSlop() {
	if !p.rt.Rules.EnableTriadSlop {
		return
	}
	found := make(map[string]bool)
	first := -1
	for i, h := range p.headings {
		t := strings.ToLower(h.Text)
		if !triadHeadings[t] {
			continue
		}
		if first < 0 {
			first = i
		}
		found[t] = true
	}
	if len(found) >= 2 {
		h := p.headings[first]
		p.emit(report.CategoryTriadSlop, report.SeverityWarning, h.Start, h.End,
			fmt.Sprintf("%d of the stock closing sections (summary, conclusion, future development)", len(found)),
			"Keep one closing section, or none.")
	}
}

// detectSectionDensity flags sections with too few sentences of prose. A
// section runs from its heading to the next heading of any level.
func (p *pass) detectSectionDensity() {
	want, ok := profile.Limit(p.rt.Rules.MinSentencesPerSection)
	if !ok {
		return
	}
	for i, h := range p.headings {
		end := len(p.text)
		if i+1 < len(p.headings) {
			end = p.headings[i+1].Start
		}
		n := 0
		for _, s := range p.sentences {
			if s.Start < h.End || s.Start >= end {
				continue
			}
			if isHeadingSentence(s) || isBulletSentence(s) || p.dis.InFence(s.Start) {
				continue
			}
			n++
		}
		if n < want {
			p.emit(report.CategorySectionDensity, report.SeverityHint, h.Start, h.End,
				fmt.Sprintf("section %q has %d sentences (minimum %d)", h.Text, n, want),
				"Add explanation or merge the section into its neighbour.")
		}
	}
}
