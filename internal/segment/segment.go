// Package segment splits documents into sentences, paragraphs and lines
// while keeping byte offsets into the original text.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence is a trimmed sentence and the byte offset of its first character.
type Sentence struct {
	Text  string
	Start int
}

// End returns the byte offset just past the sentence.
func (s Sentence) End() int { return s.Start + len(s.Text) }

// Paragraph is a blank-line separated block and its byte offset.
type Paragraph struct {
	Text  string
	Start int
}

// End returns the byte offset just past the paragraph.
func (p Paragraph) End() int { return p.Start + len(p.Text) }

// Sentences splits text into sentences. A boundary fires after '.', '!' or '?'
// followed by whitespace or end of input, at a newline when the current
// buffer starts with a list or heading marker, at a newline when the next
// non-blank content (skipping at most one blank line) starts with such a
// marker, and at end of input.
func Sentences(text string) []Sentence {
	var out []Sentence
	bufStart := 0

	flush := func(end int) {
		if s, ok := trimmed(text, bufStart, end); ok {
			out = append(out, s)
		}
		bufStart = end
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size

		switch r {
		case '.', '!', '?':
			if next >= len(text) || isSpaceAt(text, next) {
				flush(next)
			}
		case '\n':
			if StartsWithMarker(strings.TrimLeft(text[bufStart:i], " \t\r\n")) || nextStartsWithMarker(text, next) {
				flush(i)
			}
		}
		i = next
	}
	flush(len(text))
	return out
}

// trimmed returns the whitespace-trimmed text[start:end] with its adjusted offset.
func trimmed(text string, start, end int) (Sentence, bool) {
	raw := text[start:end]
	t := strings.TrimSpace(raw)
	if t == "" {
		return Sentence{}, false
	}
	lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
	return Sentence{Text: t, Start: start + lead}, true
}

func isSpaceAt(text string, i int) bool {
	r, _ := utf8.DecodeRuneInString(text[i:])
	return unicode.IsSpace(r)
}

// nextStartsWithMarker looks past horizontal whitespace and at most one blank
// line after a newline and reports whether the content there is a marker.
func nextStartsWithMarker(text string, i int) bool {
	i = skipHorizontal(text, i)
	if i < len(text) && text[i] == '\n' {
		i = skipHorizontal(text, i+1)
	}
	if i >= len(text) {
		return false
	}
	return StartsWithMarker(text[i:])
}

func skipHorizontal(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\r') {
		i++
	}
	return i
}

// Paragraphs splits text on "\n\n". Every slice is returned, including empty
// ones; an empty document yields a single empty paragraph at offset 0.
func Paragraphs(text string) []Paragraph {
	var out []Paragraph
	start := 0
	for {
		idx := strings.Index(text[start:], "\n\n")
		if idx < 0 {
			out = append(out, Paragraph{Text: text[start:], Start: start})
			return out
		}
		out = append(out, Paragraph{Text: text[start : start+idx], Start: start})
		start += idx + 2
	}
}

// CountWords counts whitespace-separated tokens containing at least one letter.
func CountWords(text string) int {
	n := 0
	for _, tok := range strings.Fields(text) {
		if strings.IndexFunc(tok, unicode.IsLetter) >= 0 {
			n++
		}
	}
	return n
}

// FirstWord returns the first run of letters and digits in s, lowercased.
func FirstWord(s string) string {
	start := strings.IndexFunc(s, isAlnum)
	if start < 0 {
		return ""
	}
	end := strings.IndexFunc(s[start:], func(r rune) bool { return !isAlnum(r) })
	if end < 0 {
		return strings.ToLower(s[start:])
	}
	return strings.ToLower(s[start : start+end])
}

// Words returns the alphanumeric words of s, lowercased.
func Words(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return !isAlnum(r) && r != '\'' })
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
