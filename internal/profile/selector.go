package profile

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Selector maps document paths to profile names by glob.
type Selector struct {
	entries []selectorEntry
}

type selectorEntry struct {
	name  string
	globs []string
}

// NewSelector validates the globs of recipes, keeping their order. The
// first recipe whose glob matches a path wins.
func NewSelector(recipes []*Recipe) (*Selector, error) {
	s := &Selector{}
	for _, r := range recipes {
		if len(r.Globs) == 0 {
			continue
		}
		e := selectorEntry{name: r.Name}
		for _, g := range r.Globs {
			g = strings.TrimSpace(g)
			if !doublestar.ValidatePattern(g) {
				return nil, &PatternError{Profile: r.Name, Field: "globs", Pattern: g}
			}
			e.globs = append(e.globs, g)
		}
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// Select returns the profile for a slash- or OS-separated relative path,
// or DefaultName when no glob matches.
func (s *Selector) Select(path string) string {
	p := strings.TrimPrefix(filepath.ToSlash(path), "./")
	for _, e := range s.entries {
		for _, g := range e.globs {
			if ok, _ := doublestar.Match(g, p); ok {
				return e.name
			}
		}
	}
	return DefaultName
}
