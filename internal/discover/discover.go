// Package discover expands command-line path arguments into the list of
// files to lint.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude selects prose files when walking a directory.
const DefaultInclude = "**/*.{md,markdown,rst,txt}"

// defaultExcludes are always skipped, whatever the caller passes.
var defaultExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
}

// Options filters directory walks. Include replaces DefaultInclude when
// non-empty; Exclude adds to the built-in excludes.
type Options struct {
	Include []string
	Exclude []string
}

// DefaultExcludes returns a copy of the built-in exclude patterns.
func DefaultExcludes() []string {
	out := make([]string, len(defaultExcludes))
	copy(out, defaultExcludes)
	return out
}

type walker struct {
	include []string
	exclude []string
	seen    map[string]bool
	out     []string
}

// Files resolves args to a sorted, de-duplicated list of file paths. An
// argument may be a file (always kept unless excluded), a directory (walked
// and filtered by the include patterns) or a doublestar glob. No arguments
// means the current directory.
func Files(args []string, opts Options) ([]string, error) {
	include := opts.Include
	if len(include) == 0 {
		include = []string{DefaultInclude}
	}
	exclude := append(DefaultExcludes(), opts.Exclude...)
	for _, pat := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("discover.Files: invalid pattern %q", pat)
		}
	}

	w := &walker{include: include, exclude: exclude, seen: make(map[string]bool)}
	if len(args) == 0 {
		args = []string{"."}
	}
	for _, arg := range args {
		if err := w.expand(arg); err != nil {
			return nil, err
		}
	}
	sort.Strings(w.out)
	return w.out, nil
}

func (w *walker) expand(arg string) error {
	if hasMeta(arg) {
		if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
			return fmt.Errorf("discover.Files: invalid pattern %q", arg)
		}
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(arg))
		return w.walk(filepath.FromSlash(base), []string{pattern})
	}

	info, err := os.Stat(arg)
	if err != nil {
		return fmt.Errorf("discover.Files: %w", err)
	}
	if info.IsDir() {
		return w.walk(arg, w.include)
	}
	path := filepath.Clean(arg)
	if !w.excluded(path, filepath.ToSlash(path)) {
		w.add(path)
	}
	return nil
}

// walk visits root, keeping files whose path relative to root matches one
// of patterns and skipping excluded directories entirely.
func (w *walker) walk(root string, patterns []string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			// Unreadable entries below the root are skipped.
			return skipEntry(d)
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return skipEntry(d)
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && w.excluded(path, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if w.excluded(path, rel) || !matchAny(patterns, rel) {
			return nil
		}
		w.add(path)
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("discover.Files: %w", err)
		}
		return fmt.Errorf("discover.Files: walk %s: %w", root, err)
	}
	return nil
}

// excluded matches the exclude patterns against both the walk-relative path
// and the path as the caller will see it.
// skipEntry leaves an entry out of the walk: a directory is pruned and a
// file is ignored.
func skipEntry(d fs.DirEntry) error {
	if d != nil && d.IsDir() {
		return filepath.SkipDir
	}
	return nil
}

func (w *walker) excluded(path, rel string) bool {
	return matchAny(w.exclude, rel) || matchAny(w.exclude, strings.TrimSuffix(rel, "/")) ||
		matchAny(w.exclude, filepath.ToSlash(path))
}

func (w *walker) add(path string) {
	if w.seen[path] {
		return
	}
	w.seen[path] = true
	w.out = append(w.out, path)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func hasMeta(arg string) bool {
	return strings.ContainsAny(arg, "*?[{")
}
