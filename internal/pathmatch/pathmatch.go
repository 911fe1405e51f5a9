// Package pathmatch matches paths below a root against ignore globs.
package pathmatch

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/zerr"
)

// Matcher reports whether a path below root is ignored.
// Patterns use '/' as separator: '*' stays within one segment, '**' spans segments.
// A pattern also matches when it matches the base name alone.
type Matcher struct {
	root     string
	patterns []glob.Glob
}

// New compiles patterns for paths below root. Blank lines and '#' comments are skipped.
func New(root string, patterns []string) (*Matcher, error) {
	m := &Matcher{
		root:     filepath.Clean(root),
		patterns: make([]glob.Glob, 0, len(patterns)),
	}
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" || strings.HasPrefix(pattern, "#") {
			continue
		}
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, errors.Join(domain.ErrInvalidPattern, zerr.With(err, "pattern", pattern))
		}
		m.patterns = append(m.patterns, g)
	}
	return m, nil
}

// Match reports whether path is ignored. The root itself is never ignored.
func (m *Matcher) Match(path string) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(m.root, path)
		if err != nil || r == "." || strings.HasPrefix(r, "..") {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)
	anchored := "/" + rel
	base := filepath.Base(rel)

	for _, g := range m.patterns {
		if g.Match(anchored) || g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// Root returns the root the matcher resolves absolute paths against.
func (m *Matcher) Root() string {
	return m.root
}
