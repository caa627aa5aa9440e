package engine

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/insightdelivered/statement-ledger/internal/extractor"
	"github.com/insightdelivered/statement-ledger/internal/models"
	"github.com/insightdelivered/statement-ledger/internal/report"
)

// ProcessBatch runs the pipeline over many files concurrently. Each document
// is still processed strictly in order internally; the pool only parallels
// across documents, and no state is shared between them. Results come back
// in input order, one report per path.
func (e *Engine) ProcessBatch(ctx context.Context, paths []string) []*models.ParseReport {
	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	runID := uuid.NewString()
	e.log.Info().
		Str("run_id", runID).
		Int("documents", len(paths)).
		Int("workers", workers).
		Msg("batch started")

	reports := make([]*models.ParseReport, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = e.ProcessFile(ctx, paths[i])
			}
		}()
	}

dispatch:
	for i := range paths {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	// A cancelled run still returns one report per input.
	for i, rep := range reports {
		if rep == nil {
			warns := []models.Warning{models.NewWarning(models.WarnTruncatedDocument, "run cancelled before processing")}
			reports[i] = report.Build(extractor.DocumentID(paths[i]), false, nil, warns, report.Tally{})
		}
	}

	e.log.Info().Str("run_id", runID).Msg("batch finished")
	return reports
}
