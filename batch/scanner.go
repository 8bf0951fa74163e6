package batch

import (
	"fmt"
	"os"
	"path/filepath"
)

// Scanner walks a log directory and collects the run files to process.
type Scanner struct {
	root    string
	pattern string
	ignores *IgnoreMatcher
}

func NewScanner(root, pattern string, ignores *IgnoreMatcher) *Scanner {
	if pattern == "" {
		pattern = "*.json"
	}
	return &Scanner{root: root, pattern: pattern, ignores: ignores}
}

// Scan returns the matching file paths in walk order. Inaccessible entries
// are skipped, not fatal.
func (s *Scanner) Scan() ([]string, error) {
	if _, err := os.Stat(s.root); err != nil {
		return nil, fmt.Errorf("log directory %s: %w", s.root, err)
	}

	var files []string
	err := filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		relPath, err := filepath.Rel(s.root, path)
		if err != nil || relPath == "." {
			return nil
		}

		if s.ignores != nil && s.ignores.ShouldIgnore(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		matched, err := filepath.Match(s.pattern, info.Name())
		if err != nil {
			return fmt.Errorf("bad file pattern %q: %w", s.pattern, err)
		}
		if matched {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
