package batch

import (
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreMatcher decides which paths the scanner skips. Patterns come from a
// root-level .runlexignore file plus the config's ignore list.
type IgnoreMatcher struct {
	root    string
	matcher *ignore.GitIgnore
	extra   []string
}

// NewIgnoreMatcher compiles the root's .runlexignore (if present) together
// with the extra directory names from config.
func NewIgnoreMatcher(root string, extraIgnore []string) *IgnoreMatcher {
	m := &IgnoreMatcher{root: root, extra: extraIgnore}

	ignorePath := filepath.Join(root, ".runlexignore")
	if _, err := os.Stat(ignorePath); err == nil {
		if gi, err := ignore.CompileIgnoreFile(ignorePath); err == nil {
			m.matcher = gi
		}
	}
	return m
}

// ShouldIgnore reports whether the path (relative to the root) is excluded.
func (m *IgnoreMatcher) ShouldIgnore(relPath string) bool {
	normalized := filepath.ToSlash(relPath)

	base := filepath.Base(normalized)
	for _, dir := range m.extra {
		if base == dir {
			return true
		}
	}

	if m.matcher != nil {
		if m.matcher.MatchesPath(normalized) || m.matcher.MatchesPath(normalized+"/") {
			return true
		}
	}
	return false
}
