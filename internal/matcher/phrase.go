// Package matcher finds phrase-list hits and static regex patterns in prose.
package matcher

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Match is a validated phrase hit. End includes any allowed English suffix.
type Match struct {
	Start  int
	End    int
	Phrase string
}

// Suffixes are the inflections a phrase may carry and still match.
// Longer suffixes are tried first.
var Suffixes = []string{"ing", "es", "ed", "ly", "s", "d"}

// PhraseMatcher is a case-insensitive multi-phrase scanner. It is immutable
// after construction and safe for concurrent use.
type PhraseMatcher struct {
	phrases []string
	ac      ahocorasick.AhoCorasick
}

// NewPhraseMatcher builds a matcher over phrases. Phrases are trimmed and
// lowercased; blanks and duplicates are dropped.
func NewPhraseMatcher(phrases []string) *PhraseMatcher {
	seen := make(map[string]struct{}, len(phrases))
	var norm []string
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		norm = append(norm, p)
	}

	m := &PhraseMatcher{phrases: norm}
	if len(norm) == 0 {
		return m
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
		DFA:                  true,
	})
	m.ac = builder.Build(norm)
	return m
}

// Len returns the number of distinct phrases.
func (m *PhraseMatcher) Len() int { return len(m.phrases) }

// FindAll returns the non-overlapping, word-bounded hits in text ordered by start.
func (m *PhraseMatcher) FindAll(text string) []Match {
	if len(m.phrases) == 0 || text == "" {
		return nil
	}
	var out []Match
	for _, hit := range m.ac.FindAll(text) {
		end, ok := Bounded(text, hit.Start(), hit.End())
		if !ok {
			continue
		}
		out = append(out, Match{
			Start:  hit.Start(),
			End:    end,
			Phrase: m.phrases[hit.Pattern()],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// Bounded validates the word boundaries of text[start:end]. The character
// before start must not be a word character. The character after end must be
// a non-word character, or one of Suffixes followed by a non-word character.
// It returns the end offset extended over the suffix, if any.
func Bounded(text string, start, end int) (int, bool) {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if IsWordRune(r) {
			return 0, false
		}
	}
	if atBoundary(text, end) {
		return end, true
	}
	rest := text[end:]
	for _, suf := range Suffixes {
		if len(rest) < len(suf) || !strings.EqualFold(rest[:len(suf)], suf) {
			continue
		}
		if atBoundary(text, end+len(suf)) {
			return end + len(suf), true
		}
	}
	return 0, false
}

func atBoundary(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !IsWordRune(r)
}

// IsWordRune reports whether r is part of a word: letters, digits, '_', '-' and '\''.
func IsWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '\''
}
