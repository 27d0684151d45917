package analyzer

import (
	"fmt"
	"strings"

	"github.com/dshills/dwg/internal/config"
	"github.com/dshills/dwg/internal/matcher"
	"github.com/dshills/dwg/internal/report"
)

const emDash = "—"

// liveMatches returns the regex matches in a paragraph whose start is not
// globally disabled, as absolute offsets.
func (p *pass) liveMatches(locs [][]int, base int) [][2]int {
	var out [][2]int
	for _, l := range locs {
		start := base + l[0]
		if p.dis.IsDisabled(start) {
			continue
		}
		out = append(out, [2]int{start, base + l[1]})
	}
	return out
}

// detectRuleOfThree flags each "X, Y, and Z" list beyond the per-paragraph limit.
func (p *pass) detectRuleOfThree() {
	limit := p.a.cfg.Limits.RuleOfThreePerParagraph
	for _, para := range p.paragraphs {
		hits := p.liveMatches(matcher.RuleOfThree.FindAllStringIndex(para.Text, -1), para.Start)
		for i, h := range hits {
			if i < limit {
				continue
			}
			p.emit(report.CategoryRuleOfThree, report.SeverityWarning, h[0], h[1],
				fmt.Sprintf("%d three-item lists in one paragraph (limit %d)", len(hits), limit),
				"Keep the items that matter; two or four are fine too.")
		}
	}
}

func (p *pass) detectEmDashes() {
	limit := p.a.cfg.Limits.EmDashesPerParagraph
	for _, para := range p.paragraphs {
		var dashes []int
		for i := 0; ; {
			j := strings.Index(para.Text[i:], emDash)
			if j < 0 {
				break
			}
			off := para.Start + i + j
			if !p.dis.IsDisabled(off) {
				dashes = append(dashes, off)
			}
			i += j + len(emDash)
		}
		if len(dashes) > limit {
			at := dashes[limit]
			p.emit(report.CategoryEmDash, report.SeverityHint, at, at+len(emDash),
				fmt.Sprintf("%d em dashes in one paragraph (limit %d)", len(dashes), limit),
				"Use commas, parentheses or a new sentence.")
		}
	}
}

func (p *pass) detectBoldSpans() {
	limit := p.a.cfg.Limits.BoldSpansPerParagraph
	for _, para := range p.paragraphs {
		spans := p.liveMatches(matcher.BoldSpan.FindAllStringIndex(para.Text, -1), para.Start)
		if len(spans) > limit {
			h := spans[limit]
			p.emit(report.CategoryFormatting, report.SeverityHint, h[0], h[1],
				fmt.Sprintf("%d bold spans in one paragraph (limit %d)", len(spans), limit),
				"Bold only what a skimming reader must not miss.")
		}
	}
}

var curlyQuotes = []string{"“", "”", "‘", "’"}

// detectQuotes flags every curly quote when the policy is straight quotes only.
func (p *pass) detectQuotes() {
	if p.a.cfg.QuoteStyle != config.QuoteStraight {
		return
	}
	for i, r := range p.text {
		q := string(r)
		for _, c := range curlyQuotes {
			if q == c {
				p.emit(report.CategoryQuoteStyle, report.SeverityHint, i, i+len(q),
					fmt.Sprintf("curly quote %s", q), "Use straight quotes.")
				break
			}
		}
	}
}
