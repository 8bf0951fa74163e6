// Package batch runs the filter and tokenizer over whole directories of log
// files. Each file is processed independently by a bounded worker pool; the
// per-file tallies are immutable once produced, so the final merge is plain
// counter addition in any order.
package batch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spiretools/runlex/filter"
	"github.com/spiretools/runlex/runlog"
	"github.com/spiretools/runlex/store"
	"github.com/spiretools/runlex/tokenizer"
)

// Processor classifies and tokenizes run records file by file.
type Processor struct {
	filter    *filter.Filter
	tokenizer *tokenizer.Tokenizer
	workers   int
}

func NewProcessor(f *filter.Filter, tk *tokenizer.Tokenizer, workers int) *Processor {
	if workers <= 0 {
		workers = 1
	}
	return &Processor{filter: f, tokenizer: tk, workers: workers}
}

// ProcessFile classifies every record in one log file. Records that fail the
// filter count as rejections under their reason tag; records that pass but
// fail tokenization count as errors. The two are tallied separately because
// they mean different things: a rejection is a legitimate non-standard run,
// an error is corrupt data.
func (p *Processor) ProcessFile(ctx context.Context, path string) (store.FileTally, error) {
	records, skipped, err := runlog.ParseFile(path)
	if err != nil {
		return store.FileTally{}, err
	}

	tally := store.FileTally{
		Path:       path,
		Skipped:    skipped,
		Reasons:    make(map[string]int),
		Characters: make(map[string]int),
		UpdatedAt:  time.Now(),
	}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return store.FileTally{}, err
		}
		tally.Processed++

		if reason := p.filter.Check(rec); reason != filter.ReasonNone {
			tally.Rejected++
			tally.Reasons[string(reason)]++
			continue
		}

		run, err := p.tokenizer.TokenizeRun(rec)
		if err != nil {
			tally.Errors++
			continue
		}
		tally.Valid++
		tally.Tokens += len(run.Sequence())
		if character, ok := rec.Str("character_chosen"); ok {
			tally.Characters[character]++
		}
	}
	return tally, nil
}

// ProcessFiles runs ProcessFile over the paths with a bounded worker pool.
// A file whose parse fails outright produces a tally holding one error so
// the failure still shows up in the totals. When st is non-nil every tally
// is written through to it.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string, st store.TallyStore) (*store.Totals, []store.FileTally, error) {
	tallies := make([]store.FileTally, len(paths))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, path := range paths {
		g.Go(func() error {
			tally, err := p.ProcessFile(ctx, path)
			if err != nil {
				if ctx.Err() != nil {
					return err
				}
				tally = store.FileTally{Path: path, Errors: 1, UpdatedAt: time.Now()}
			}

			if st != nil {
				mu.Lock()
				saveErr := st.SaveFileTally(ctx, tally)
				mu.Unlock()
				if saveErr != nil {
					return saveErr
				}
			}
			tallies[i] = tally
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var totals store.Totals
	for _, tally := range tallies {
		totals.Add(tally)
	}
	return &totals, tallies, nil
}
