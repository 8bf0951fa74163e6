package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGOBStore_SaveAndGet(t *testing.T) {
	tallyPath := filepath.Join(t.TempDir(), "tallies.gob")

	store := NewGOBStore(tallyPath)
	ctx := context.Background()

	tally := FileTally{
		Path:      "runs/2019-05-31.json",
		Processed: 120,
		Valid:     100,
		Rejected:  18,
		Errors:    2,
		Tokens:    48211,
		Reasons:   map[string]int{"chose_seed_true": 10, "modded_card_found": 8},
		UpdatedAt: time.Now(),
	}
	if err := store.SaveFileTally(ctx, tally); err != nil {
		t.Fatalf("failed to save tally: %v", err)
	}

	got, err := store.GetFileTally(ctx, tally.Path)
	if err != nil {
		t.Fatalf("failed to get tally: %v", err)
	}
	if got == nil {
		t.Fatal("expected a tally, got nil")
	}
	if got.Processed != 120 || got.Reasons["chose_seed_true"] != 10 {
		t.Errorf("unexpected tally: %+v", got)
	}

	missing, err := store.GetFileTally(ctx, "runs/nope.json")
	if err != nil {
		t.Fatalf("failed to get missing tally: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing path")
	}
}

func TestGOBStore_SaveReplaces(t *testing.T) {
	tallyPath := filepath.Join(t.TempDir(), "tallies.gob")

	store := NewGOBStore(tallyPath)
	ctx := context.Background()

	if err := store.SaveFileTally(ctx, FileTally{Path: "a.json", Processed: 10}); err != nil {
		t.Fatalf("failed to save tally: %v", err)
	}
	if err := store.SaveFileTally(ctx, FileTally{Path: "a.json", Processed: 25}); err != nil {
		t.Fatalf("failed to save tally: %v", err)
	}

	got, err := store.GetFileTally(ctx, "a.json")
	if err != nil {
		t.Fatalf("failed to get tally: %v", err)
	}
	if got.Processed != 25 {
		t.Errorf("expected replacement, got processed=%d", got.Processed)
	}
}

func TestGOBStore_DeleteByFile(t *testing.T) {
	tallyPath := filepath.Join(t.TempDir(), "tallies.gob")

	store := NewGOBStore(tallyPath)
	ctx := context.Background()

	if err := store.SaveFileTally(ctx, FileTally{Path: "a.json", Processed: 5}); err != nil {
		t.Fatalf("failed to save tally: %v", err)
	}
	if err := store.DeleteByFile(ctx, "a.json"); err != nil {
		t.Fatalf("failed to delete tally: %v", err)
	}

	got, err := store.GetFileTally(ctx, "a.json")
	if err != nil {
		t.Fatalf("failed to get tally: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestGOBStore_Totals(t *testing.T) {
	tallyPath := filepath.Join(t.TempDir(), "tallies.gob")

	store := NewGOBStore(tallyPath)
	ctx := context.Background()

	tallies := []FileTally{
		{Path: "a.json", Processed: 10, Valid: 8, Rejected: 2, Reasons: map[string]int{"is_beta_true": 2}},
		{Path: "b.json", Processed: 5, Valid: 3, Rejected: 1, Errors: 1, Reasons: map[string]int{"is_beta_true": 1}},
	}
	for _, tally := range tallies {
		if err := store.SaveFileTally(ctx, tally); err != nil {
			t.Fatalf("failed to save tally: %v", err)
		}
	}

	totals, err := store.Totals(ctx)
	if err != nil {
		t.Fatalf("failed to get totals: %v", err)
	}
	if totals.Files != 2 || totals.Processed != 15 || totals.Valid != 11 || totals.Errors != 1 {
		t.Errorf("unexpected totals: %+v", totals)
	}
	if totals.Reasons["is_beta_true"] != 3 {
		t.Errorf("expected merged reason count 3, got %d", totals.Reasons["is_beta_true"])
	}
}

func TestGOBStore_PersistAndLoad(t *testing.T) {
	tallyPath := filepath.Join(t.TempDir(), "tallies.gob")
	ctx := context.Background()

	store1 := NewGOBStore(tallyPath)
	tally := FileTally{
		Path:      "runs/x.json",
		Processed: 7,
		Valid:     6,
		Rejected:  1,
		Reasons:   map[string]int{"modded_enemy_found": 1},
	}
	if err := store1.SaveFileTally(ctx, tally); err != nil {
		t.Fatalf("failed to save tally: %v", err)
	}
	if err := store1.Persist(ctx); err != nil {
		t.Fatalf("failed to persist: %v", err)
	}

	store2 := NewGOBStore(tallyPath)
	if err := store2.Load(ctx); err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	got, err := store2.GetFileTally(ctx, "runs/x.json")
	if err != nil {
		t.Fatalf("failed to get tally: %v", err)
	}
	if got == nil || got.Reasons["modded_enemy_found"] != 1 {
		t.Errorf("unexpected tally after reload: %+v", got)
	}
}

func TestGOBStore_LoadMissingFile(t *testing.T) {
	store := NewGOBStore(filepath.Join(t.TempDir(), "absent.gob"))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("loading a missing file should succeed: %v", err)
	}
}

func TestGOBStore_ListFiles(t *testing.T) {
	tallyPath := filepath.Join(t.TempDir(), "tallies.gob")

	store := NewGOBStore(tallyPath)
	ctx := context.Background()

	for _, path := range []string{"c.json", "a.json", "b.json"} {
		if err := store.SaveFileTally(ctx, FileTally{Path: path}); err != nil {
			t.Fatalf("failed to save tally: %v", err)
		}
	}

	paths, err := store.ListFiles(ctx)
	if err != nil {
		t.Fatalf("failed to list files: %v", err)
	}
	if len(paths) != 3 || paths[0] != "a.json" || paths[2] != "c.json" {
		t.Errorf("unexpected paths: %v", paths)
	}
}

func TestGOBStore_FileLocking(t *testing.T) {
	tallyPath := filepath.Join(t.TempDir(), "tallies.gob")
	ctx := context.Background()

	s1 := NewGOBStore(tallyPath)
	s1.SaveFileTally(ctx, FileTally{Path: "a.json", Processed: 3})
	if err := s1.Persist(ctx); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	lockPath := tallyPath + ".lock"
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Fatal("Expected lock file to be created")
	}

	s2 := NewGOBStore(tallyPath)
	if err := s2.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := s2.GetFileTally(ctx, "a.json")
	if err != nil {
		t.Fatalf("GetFileTally failed: %v", err)
	}
	if got == nil || got.Processed != 3 {
		t.Errorf("unexpected tally: %+v", got)
	}
}
