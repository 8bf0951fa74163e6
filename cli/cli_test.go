package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spiretools/runlex/config"
)

func TestAddToGitignore(t *testing.T) {
	root := t.TempDir()
	gitignore := filepath.Join(root, ".gitignore")
	if err := os.WriteFile(gitignore, []byte("*.log\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := addToGitignore(root); err != nil {
		t.Fatalf("addToGitignore: %v", err)
	}
	data, err := os.ReadFile(gitignore)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), ".runlex/") {
		t.Errorf("gitignore missing entry: %q", data)
	}

	// A second call must not duplicate the entry.
	if err := addToGitignore(root); err != nil {
		t.Fatalf("second addToGitignore: %v", err)
	}
	data, _ = os.ReadFile(gitignore)
	if strings.Count(string(data), ".runlex/") != 1 {
		t.Errorf("entry duplicated: %q", data)
	}
}

func TestAddToGitignoreMissingFile(t *testing.T) {
	root := t.TempDir()
	if err := addToGitignore(root); err != nil {
		t.Fatalf("expected no error without a .gitignore: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, ".gitignore")); !os.IsNotExist(err) {
		t.Error("a .gitignore should not be created")
	}
}

func TestResolveMCPProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(config.GetConfigDir(root), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := config.DefaultConfig().Save(root); err != nil {
		t.Fatalf("save config: %v", err)
	}

	got, err := resolveMCPProjectRoot(root)
	if err != nil {
		t.Fatalf("resolveMCPProjectRoot: %v", err)
	}
	if got != root {
		t.Errorf("got %q, want %q", got, root)
	}

	if _, err := resolveMCPProjectRoot(filepath.Join(root, "absent")); err == nil {
		t.Error("expected error for an uninitialized explicit path")
	}
}

func TestSortedByCount(t *testing.T) {
	counts := map[string]int{"b": 2, "a": 2, "c": 5}
	got := sortedByCount(counts)
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
