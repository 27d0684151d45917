package segment

import (
	"strings"
)

// Line is one line of text without its newline.
type Line struct {
	Text   string
	Start  int
	Number int // 1-based
}

// End returns the byte offset of the line's newline (or end of text).
func (l Line) End() int { return l.Start + len(l.Text) }

// Lines splits text on '\n'. A trailing newline produces a final empty line.
func Lines(text string) []Line {
	out := make([]Line, 0, strings.Count(text, "\n")+1)
	start := 0
	n := 1
	for {
		idx := strings.IndexByte(text[start:], '\n')
		if idx < 0 {
			out = append(out, Line{Text: text[start:], Start: start, Number: n})
			return out
		}
		out = append(out, Line{Text: text[start : start+idx], Start: start, Number: n})
		start += idx + 1
		n++
	}
}

// NumberedMarkerLen reads leading digits, then '.' or ')', then optional
// whitespace, and returns the marker's byte length. The character after the
// punctuation is not required to be whitespace, so "1.x" is accepted.
func NumberedMarkerLen(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || (s[i] != '.' && s[i] != ')') {
		return 0, false
	}
	i++
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i, true
}

// BulletMarkerLen returns the byte length of a "- ", "* " or numbered list
// marker at the start of s (after leading indentation is removed by the caller).
func BulletMarkerLen(s string) (int, bool) {
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") {
		return 2, true
	}
	return NumberedMarkerLen(s)
}

// IsBullet reports whether the line, ignoring indentation, is a list item.
func IsBullet(line string) bool {
	_, ok := BulletMarkerLen(strings.TrimLeft(line, " \t"))
	return ok
}

// IsHeading reports whether s starts with a '#' heading marker.
func IsHeading(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "#")
}

// StartsWithMarker reports whether s begins with a heading or list marker.
func StartsWithMarker(s string) bool {
	if strings.HasPrefix(s, "#") {
		return true
	}
	_, ok := BulletMarkerLen(s)
	return ok
}

// BulletContent returns the text after the list marker and its offset within line.
func BulletContent(line string) (string, int, bool) {
	trimmedLine := strings.TrimLeft(line, " \t")
	indent := len(line) - len(trimmedLine)
	n, ok := BulletMarkerLen(trimmedLine)
	if !ok {
		return "", 0, false
	}
	return trimmedLine[n:], indent + n, true
}

// Heading is a parsed ATX heading line.
type Heading struct {
	Level int
	Text  string
	Start int // offset of the first '#'
	Line  int
	End   int // offset of the end of the heading line
}

// ParseHeading parses an ATX heading ("## Title") from a single line.
// Closing '#' runs are stripped. Up to three spaces of indentation are allowed.
func ParseHeading(l Line) (Heading, bool) {
	body := l.Text
	indent := len(body) - len(strings.TrimLeft(body, " "))
	if indent > 3 {
		return Heading{}, false
	}
	body = body[indent:]
	level := 0
	for level < len(body) && body[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return Heading{}, false
	}
	rest := body[level:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return Heading{}, false
	}
	text := strings.TrimSpace(rest)
	text = strings.TrimSpace(strings.TrimRight(text, "#"))
	return Heading{
		Level: level,
		Text:  text,
		Start: l.Start + indent,
		Line:  l.Number,
		End:   l.End(),
	}, true
}
