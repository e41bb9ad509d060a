// Package ignore matches workspace files against exclusion pattern lists.
package ignore

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher applies workspace-root-relative exclusion patterns to local paths.
// It is immutable after construction and safe for concurrent use.
type Matcher struct {
	root     string
	absolute []string
	relative []string
	globs    []string
}

// New builds a Matcher rooted at the given workspace root. Patterns starting
// with "/" match only from the root; all other patterns match a whole path
// component at any depth. Both forms match the named component and everything
// below it. Globs use ** syntax and are matched against the root-relative path.
func New(root string, patterns []string, globs []string) *Matcher {
	m := &Matcher{root: root}
	for _, p := range patterns {
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "/") {
			m.absolute = append(m.absolute, p)
		} else {
			// Relative patterns are searched with a leading slash so that
			// matches always begin on a component boundary.
			m.relative = append(m.relative, "/"+p)
		}
	}
	for _, g := range globs {
		if g == "" {
			continue
		}
		m.globs = append(m.globs, g)
	}
	return m
}

// Matches reports whether the given local path is excluded. The path must be
// the workspace root or a descendant of it. A nil Matcher excludes nothing.
func (m *Matcher) Matches(path string) bool {
	if m == nil {
		return false
	}

	// The remainder keeps its leading slash whenever the root is non-empty.
	rel := strings.TrimPrefix(path, m.root)

	for _, p := range m.absolute {
		if strings.HasPrefix(rel, p) && (len(rel) == len(p) || rel[len(p)] == '/') {
			return true
		}
	}

	for _, p := range m.relative {
		pos := 0
		for {
			i := strings.Index(rel[pos:], p)
			if i < 0 {
				break
			}
			end := pos + i + len(p)
			if end == len(rel) || rel[end] == '/' {
				return true
			}
			pos += i + len(p)
		}
	}

	if len(m.globs) > 0 {
		normalized := filepath.ToSlash(strings.TrimPrefix(rel, "/"))
		for _, g := range m.globs {
			if ok, err := doublestar.Match(g, normalized); err == nil && ok {
				return true
			}
		}
	}

	return false
}
