package analyzer

import (
	"fmt"

	"github.com/dshills/dwg/internal/matcher"
	"github.com/dshills/dwg/internal/report"
)

// detectBanned flags puffery, marketing cliches and weasel phrases. Weasel
// hits are dropped when their sentence carries a citation.
func (p *pass) detectBanned() {
	for _, m := range p.a.puffery.FindAll(p.text) {
		p.emit(report.CategoryPuffery, report.SeverityError, m.Start, m.End,
			fmt.Sprintf("puffery: %q inflates importance without evidence", m.Phrase),
			"State the concrete fact or outcome instead.")
	}
	for _, m := range p.a.marketing.FindAll(p.text) {
		p.emit(report.CategoryMarketing, report.SeverityError, m.Start, m.End,
			fmt.Sprintf("marketing cliché %q", m.Phrase),
			"Describe what the thing does in plain terms.")
	}
	for _, m := range p.a.weasel.FindAll(p.text) {
		if matcher.HasCitation(p.sentenceText(m.Start)) {
			continue
		}
		p.emit(report.CategoryWeasel, report.SeverityWarning, m.Start, m.End,
			fmt.Sprintf("weasel phrase %q attributes a claim to no one", m.Phrase),
			"Name the source or add a citation.")
	}
}

// detectClustered flags throttled phrases grouped by sentence. A lone hit in
// a sentence with a specificity token is dropped; two or more hits in one
// sentence are warnings, a lone hit elsewhere is a hint.
func (p *pass) detectClustered(m *matcher.PhraseMatcher, cat report.Category) {
	hits := m.FindAll(p.text)
	if len(hits) == 0 {
		return
	}

	type group struct {
		sentence int
		hits     []matcher.Match
	}
	var groups []*group
	bySentence := make(map[int]*group)
	for _, h := range hits {
		idx := p.sentenceAt(h.Start)
		if idx < 0 {
			groups = append(groups, &group{sentence: -1, hits: []matcher.Match{h}})
			continue
		}
		g, ok := bySentence[idx]
		if !ok {
			g = &group{sentence: idx}
			bySentence[idx] = g
			groups = append(groups, g)
		}
		g.hits = append(g.hits, h)
	}

	noun := "buzzword"
	if cat == report.CategoryTransition {
		noun = "transition"
	}
	for _, g := range groups {
		if len(g.hits) == 1 && matcher.HasSpecificity(p.sentenceText(g.hits[0].Start)) {
			continue
		}
		sev := report.SeverityHint
		msg := "%s %q adds tone, not information"
		if len(g.hits) >= 2 {
			sev = report.SeverityWarning
			msg = "%s %q is part of a cluster in one sentence"
		}
		for _, h := range g.hits {
			p.emit(cat, sev, h.Start, h.End, fmt.Sprintf(msg, noun, h.Phrase),
				"Cut it or replace it with a specific detail.")
		}
	}
}

// detectTemplates flags stock phrasing. Matches containing the word "not"
// are negative parallelisms ("not just X, but Y").
func (p *pass) detectTemplates() {
	for _, re := range p.rt.Templates {
		for _, loc := range re.FindAllStringIndex(p.text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			cat := report.CategoryTemplate
			msg := "template phrase reads as boilerplate"
			if matcher.NotWord.MatchString(p.text[loc[0]:loc[1]]) {
				cat = report.CategoryNegativeParallel
				msg = "negative parallelism sets up a contrast nobody made"
			}
			p.emit(cat, report.SeverityError, loc[0], loc[1], msg, "Say the point directly.")
		}
	}
}

// detectRanges flags sweeping "from X to Y to Z" constructions.
func (p *pass) detectRanges() {
	for _, loc := range matcher.TriRange.FindAllStringIndex(p.text, -1) {
		p.emit(report.CategoryWeasel, report.SeverityWarning, loc[0], loc[1],
			"sweeping range claims breadth without evidence",
			"Name the cases that actually apply.")
	}
}

func (p *pass) detectCallToAction() {
	for _, m := range p.rt.CallToAction.FindAll(p.text) {
		p.emit(report.CategoryCallToAction, report.SeverityWarning, m.Start, m.End,
			fmt.Sprintf("call to action %q", m.Phrase), "Remove the sales pitch.")
	}
}

// detectConfidence flags certainty phrases and bare percentage claims.
// Both are dropped when the sentence cites a source; percentages are also
// dropped when a word after them says what was measured.
func (p *pass) detectConfidence() {
	for _, m := range p.rt.Confidence.FindAll(p.text) {
		if matcher.HasCitation(p.sentenceText(m.Start)) {
			continue
		}
		p.emit(report.CategoryConfidence, report.SeverityWarning, m.Start, m.End,
			fmt.Sprintf("unsupported certainty %q", m.Phrase),
			"Qualify the claim or back it with evidence.")
	}
	for _, loc := range matcher.ConfidencePercent.FindAllStringIndex(p.text, -1) {
		if matcher.HasCitation(p.sentenceText(loc[0])) || matcher.PercentInContext(p.text, loc[0]) {
			continue
		}
		p.emit(report.CategoryConfidence, report.SeverityWarning, loc[0], loc[1],
			"percentage claim without context or source",
			"Say what was measured and cite where the number comes from.")
	}
}

// detectBroadTerms flags vague nouns in sentences that carry no specificity token.
func (p *pass) detectBroadTerms() {
	if p.rt.BroadTerms.Len() == 0 {
		return
	}
	for _, s := range p.sentences {
		if isHeadingSentence(s) || matcher.HasSpecificity(s.Text) {
			continue
		}
		for _, m := range p.rt.BroadTerms.FindAll(s.Text) {
			p.emit(report.CategoryBroadTerm, report.SeverityHint, s.Start+m.Start, s.Start+m.End,
				fmt.Sprintf("broad term %q", m.Phrase), "Name the specific items.")
		}
	}
}
