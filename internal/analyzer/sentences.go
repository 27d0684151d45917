package analyzer

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/dwg/internal/matcher"
	"github.com/dshills/dwg/internal/profile"
	"github.com/dshills/dwg/internal/report"
	"github.com/dshills/dwg/internal/segment"
)

const (
	minRepeatLen       = 12
	statMinSentences   = 5
	uniformMinSamples  = 8
	uniformMaxCV       = 0.20
	passiveMinSamples  = 6
	passiveMaxRatio    = 0.50
	bigramMinSamples   = 4
	bigramMaxShare     = 0.40
	exclamationComment = "<!"
)

func (p *pass) detectConnectorGlut() {
	limit := p.a.cfg.Limits.ConnectorsPerSentence
	for _, s := range p.sentences {
		n := len(p.a.connectors.FindAll(s.Text))
		if n > limit {
			p.emit(report.CategoryConnectorGlut, report.SeverityWarning, s.Start, s.End(),
				fmt.Sprintf("%d connectors in one sentence (limit %d)", n, limit),
				"Split the sentence or drop the connectors.")
		}
	}
}

func (p *pass) detectSentenceLength() {
	limit, ok := profile.Limit(p.rt.Rules.MaxSentenceLength)
	if !ok {
		return
	}
	for _, s := range p.sentences {
		if n := segment.CountWords(s.Text); n > limit {
			p.emit(report.CategorySentenceLength, report.SeverityHint, s.Start, s.End(),
				fmt.Sprintf("sentence has %d words (limit %d)", n, limit),
				"Split it into shorter sentences.")
		}
	}
}

// detectQuestionLead flags documents that open with a run of questions.
func (p *pass) detectQuestionLead() {
	limit, ok := profile.Limit(p.rt.Rules.QuestionLeadLimit)
	if !ok {
		return
	}
	first := -1
	count := 0
	for i, s := range p.sentences {
		if isHeadingSentence(s) || isBulletSentence(s) {
			if count == 0 {
				continue
			}
			break
		}
		if !strings.HasSuffix(s.Text, "?") {
			break
		}
		if first < 0 {
			first = i
		}
		count++
	}
	if count > limit {
		s := p.sentences[first]
		p.emit(report.CategoryTone, report.SeverityHint, s.Start, s.End(),
			fmt.Sprintf("document opens with %d rhetorical questions", count),
			"Open with the answer instead.")
	}
}

func (p *pass) detectMidSentenceQuestion() {
	for _, loc := range matcher.MidSentenceQuestion.FindAllStringIndex(p.text, -1) {
		p.emit(report.CategoryTone, report.SeverityHint, loc[0], loc[1],
			"question mark in the middle of a sentence",
			"Rewrite the rhetorical question as a statement.")
	}
}

// detectExclamations counts '!' per paragraph, ignoring HTML comment
// openers and disabled regions.
func (p *pass) detectExclamations() {
	limit, ok := profile.Limit(p.rt.Rules.MaxExclamationsPerParagraph)
	if !ok {
		return
	}
	for _, para := range p.paragraphs {
		first := -1
		n := 0
		for i := 0; i < len(para.Text); i++ {
			if para.Text[i] != '!' {
				continue
			}
			off := para.Start + i
			if strings.HasSuffix(p.text[:off+1], exclamationComment) || p.dis.IsDisabled(off) {
				continue
			}
			if first < 0 {
				first = off
			}
			n++
		}
		if n > limit {
			p.emit(report.CategoryTone, report.SeverityHint, first, first+1,
				fmt.Sprintf("%d exclamation marks in one paragraph (limit %d)", n, limit),
				"Let the content carry the emphasis.")
		}
	}
}

// detectCadence flags runs of consecutive sentences opening with the same
// configured word.
func (p *pass) detectCadence() {
	limit, ok := profile.Limit(p.rt.Rules.CadenceLimit)
	if !ok || len(p.rt.CadenceStarts) == 0 {
		return
	}
	prev := ""
	streak := 0
	for _, s := range p.sentences {
		if s.Text == "" || isHeadingSentence(s) || isBulletSentence(s) {
			continue
		}
		w := segment.FirstWord(s.Text)
		if !p.rt.CadenceStarts[w] {
			prev, streak = "", 0
			continue
		}
		if w == prev {
			streak++
		} else {
			prev, streak = w, 1
		}
		if streak > limit {
			p.emit(report.CategoryCadence, report.SeverityHint, s.Start, s.End(),
				fmt.Sprintf("%d sentences in a row open with %q", streak, w),
				"Vary how sentences begin.")
		}
	}
}

// normalizeSentence folds a sentence to lowercase alphanumerics separated
// by single spaces.
func normalizeSentence(s string) string {
	s = norm.NFKC.String(s)
	var b strings.Builder
	space := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

func (p *pass) detectRepetition() {
	limit, ok := profile.Limit(p.rt.Rules.MaxDuplicateSentences)
	if !ok {
		return
	}
	seen := make(map[string]int)
	for _, s := range p.sentences {
		if isHeadingSentence(s) {
			continue
		}
		key := normalizeSentence(s.Text)
		if len(key) < minRepeatLen {
			continue
		}
		seen[key]++
		if n := seen[key]; n > 1 && n > limit {
			p.emit(report.CategoryRepetition, report.SeverityWarning, s.Start, s.End(),
				fmt.Sprintf("sentence repeated %d times", n),
				"Remove the duplicate.")
		}
	}
}

// detectStatistical looks at the document as a whole: uniform sentence
// lengths, heavy passive voice and repeated opening word pairs. Each fires
// at most once.
func (p *pass) detectStatistical() {
	prose := p.prose()
	if len(prose) < statMinSentences {
		return
	}

	if len(prose) >= uniformMinSamples {
		lengths := make([]float64, len(prose))
		for i, s := range prose {
			lengths[i] = float64(segment.CountWords(s.Text))
		}
		if cv, ok := coefficientOfVariation(lengths); ok && cv < uniformMaxCV {
			s := prose[0]
			p.emit(report.CategoryTone, report.SeverityWarning, s.Start, s.End(),
				fmt.Sprintf("sentence lengths are suspiciously uniform (CV %.2f)", cv),
				"Mix short and long sentences.")
		}
	}

	if len(prose) >= passiveMinSamples {
		passive := 0
		firstPassive := -1
		for i, s := range prose {
			if matcher.Passive.MatchString(s.Text) {
				passive++
				if firstPassive < 0 {
					firstPassive = i
				}
			}
		}
		if ratio := float64(passive) / float64(len(prose)); ratio > passiveMaxRatio {
			s := prose[firstPassive]
			p.emit(report.CategoryTone, report.SeverityHint, s.Start, s.End(),
				fmt.Sprintf("%.0f%% of sentences use passive voice", ratio*100),
				"Say who does what.")
		}
	}

	counts := make(map[string]int)
	firstAt := make(map[string]int)
	var order []string
	samples := 0
	for i, s := range prose {
		words := segment.Words(s.Text)
		if len(words) < 2 {
			continue
		}
		samples++
		bg := words[0] + " " + words[1]
		if _, ok := counts[bg]; !ok {
			firstAt[bg] = i
			order = append(order, bg)
		}
		counts[bg]++
	}
	if samples < bigramMinSamples {
		return
	}
	best := ""
	for _, bg := range order {
		if counts[bg] > counts[best] {
			best = bg
		}
	}
	if share := float64(counts[best]) / float64(samples); best != "" && share > bigramMaxShare {
		s := prose[firstAt[best]]
		p.emit(report.CategoryCadence, report.SeverityHint, s.Start, s.End(),
			fmt.Sprintf("%d of %d sentences open with %q", counts[best], samples, best),
			"Vary how sentences begin.")
	}
}

func coefficientOfVariation(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	if mean == 0 {
		return 0, false
	}
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return math.Sqrt(sq/float64(len(xs))) / mean, true
}
