package processor

import (
	"context"
	"time"

	"repodoc/pkg/filetype"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ProcessFiles filters descs and runs the dispatcher over the rest with at
// most Options.MaxConcurrency transforms in flight. Results are in input
// order. Per-file failures are absorbed into degraded records; the only
// error returned is the context's.
func (p *Processor) ProcessFiles(ctx context.Context, descs []filetype.Descriptor) ([]Record, error) {
	start := time.Now()
	files := Filter(descs, p.ignore, p.opts.IncludeHiddenFiles)
	if skipped := len(descs) - len(files); skipped > 0 {
		p.logger.Debug("Filtered files before processing",
			zap.Int("skipped", skipped),
			zap.Int("remaining", len(files)))
	}

	results := make([]Record, len(files))
	sem := semaphore.NewWeighted(int64(p.opts.MaxConcurrency))
	g, gctx := errgroup.WithContext(ctx)

	p.logger.Debug("Dispatching files", zap.Int("files", len(files)), zap.Int("maxConcurrency", p.opts.MaxConcurrency))
	for i, d := range files {
		i, d := i, d
		// Acquire before spawning so no more than MaxConcurrency goroutines
		// hold file content at once.
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			results[i] = p.ProcessFile(gctx, d)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		p.logger.Warn("Batch processing cancelled", zap.Error(err))
		return nil, err
	}

	failed := 0
	for i := range results {
		if results[i].Failed() {
			failed++
		}
	}
	p.logger.Debug("Batch processed",
		zap.Int("files", len(results)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}
