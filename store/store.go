package store

import (
	"context"
	"time"
)

// FileTally is the processing outcome for one log file: how many records it
// held, how they classified, and the per-reason rejection breakdown.
type FileTally struct {
	Path       string         `json:"path"`
	Processed  int            `json:"processed"`
	Valid      int            `json:"valid"`
	Rejected   int            `json:"rejected"`
	Errors     int            `json:"errors"`
	Skipped    int            `json:"skipped"`
	Tokens     int            `json:"tokens"`
	Reasons    map[string]int `json:"reasons"`
	Characters map[string]int `json:"characters"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Totals is the aggregate over every stored file tally. The merge is
// associative counter addition, so it is the same no matter how the per-file
// results were grouped.
type Totals struct {
	Files      int            `json:"files"`
	Processed  int            `json:"processed"`
	Valid      int            `json:"valid"`
	Rejected   int            `json:"rejected"`
	Errors     int            `json:"errors"`
	Skipped    int            `json:"skipped"`
	Tokens     int            `json:"tokens"`
	Reasons    map[string]int `json:"reasons"`
	Characters map[string]int `json:"characters"`
	UpdatedAt  time.Time      `json:"last_updated"`
}

// Add merges one file tally into the totals.
func (t *Totals) Add(ft FileTally) {
	t.Files++
	t.Processed += ft.Processed
	t.Valid += ft.Valid
	t.Rejected += ft.Rejected
	t.Errors += ft.Errors
	t.Skipped += ft.Skipped
	t.Tokens += ft.Tokens
	if t.Reasons == nil {
		t.Reasons = make(map[string]int)
	}
	for reason, n := range ft.Reasons {
		t.Reasons[reason] += n
	}
	if t.Characters == nil {
		t.Characters = make(map[string]int)
	}
	for character, n := range ft.Characters {
		t.Characters[character] += n
	}
	if ft.UpdatedAt.After(t.UpdatedAt) {
		t.UpdatedAt = ft.UpdatedAt
	}
}

// TallyStore is the persistence interface for per-file tallies. Saving a
// tally for a path replaces any previous tally for that path, so
// re-processing a changed file is idempotent.
type TallyStore interface {
	// SaveFileTally stores or replaces the tally for its path.
	SaveFileTally(ctx context.Context, tally FileTally) error

	// DeleteByFile removes the tally for a path.
	DeleteByFile(ctx context.Context, path string) error

	// GetFileTally retrieves one tally, nil when absent.
	GetFileTally(ctx context.Context, path string) (*FileTally, error)

	// ListFiles returns every stored path.
	ListFiles(ctx context.Context) ([]string, error)

	// Totals aggregates every stored tally.
	Totals(ctx context.Context) (*Totals, error)

	// Load reads the store from persistent storage.
	Load(ctx context.Context) error

	// Persist writes the store to persistent storage.
	Persist(ctx context.Context) error

	// Close cleanly shuts down the store.
	Close() error
}
