package store

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/spiretools/runlex/internal/fileutil"
)

// GOBStore keeps tallies in memory and persists them to a single gob file.
// A sibling lock file guards cross-process access; in-process access is
// guarded by the mutex.
type GOBStore struct {
	tallyPath string
	lockPath  string
	tallies   map[string]FileTally // path -> tally
	mu        sync.RWMutex
}

type gobData struct {
	Tallies map[string]FileTally
}

func NewGOBStore(tallyPath string) *GOBStore {
	return &GOBStore{
		tallyPath: tallyPath,
		lockPath:  tallyPath + ".lock",
		tallies:   make(map[string]FileTally),
	}
}

func (s *GOBStore) SaveFileTally(ctx context.Context, tally FileTally) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tallies[tally.Path] = tally
	return nil
}

func (s *GOBStore) DeleteByFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tallies, path)
	return nil
}

func (s *GOBStore) GetFileTally(ctx context.Context, path string) (*FileTally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tally, ok := s.tallies[path]
	if !ok {
		return nil, nil
	}
	return &tally, nil
}

func (s *GOBStore) ListFiles(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	paths := make([]string, 0, len(s.tallies))
	for path := range s.tallies {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *GOBStore) Totals(ctx context.Context) (*Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var totals Totals
	for _, tally := range s.tallies {
		totals.Add(tally)
	}
	return &totals, nil
}

func (s *GOBStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Shared (read) file lock for cross-process safety. If locking is
	// unavailable, proceed without it.
	lockFile, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return s.loadUnlocked()
	}
	defer lockFile.Close()

	if err := flockShared(lockFile); err != nil {
		return s.loadUnlocked()
	}
	defer func() {
		_ = funlock(lockFile)
	}()

	return s.loadUnlocked()
}

func (s *GOBStore) loadUnlocked() error {
	file, err := os.Open(s.tallyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open tally file: %w", err)
	}
	defer file.Close()

	var data gobData
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode tally file: %w", err)
	}

	s.tallies = data.Tallies
	if s.tallies == nil {
		s.tallies = make(map[string]FileTally)
	}
	return nil
}

func (s *GOBStore) Persist(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Exclusive (write) file lock for cross-process safety.
	lockFile, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return s.persistUnlocked()
	}
	defer lockFile.Close()

	if err := flockExclusive(lockFile); err != nil {
		return s.persistUnlocked()
	}
	defer func() {
		_ = funlock(lockFile)
	}()

	return s.persistUnlocked()
}

// persistUnlocked writes to a temp file first so a crash mid-write never
// leaves a truncated tally file behind.
func (s *GOBStore) persistUnlocked() error {
	if err := fileutil.EnsureParentDir(s.tallyPath); err != nil {
		return fmt.Errorf("failed to create tally directory: %w", err)
	}

	tempPath := s.tallyPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create tally file: %w", err)
	}

	if err := gob.NewEncoder(file).Encode(gobData{Tallies: s.tallies}); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode tallies: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close tally file: %w", err)
	}

	return fileutil.ReplaceFileAtomically(tempPath, s.tallyPath)
}

func (s *GOBStore) Close() error {
	return s.Persist(context.Background())
}
