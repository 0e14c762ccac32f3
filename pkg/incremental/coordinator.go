// Package incremental processes large file lists in fixed-size chunks with
// on-disk spillover so peak memory stays flat regardless of repository size.
//
// Chunks run strictly one after another through a batch runner. Each
// successful chunk is written to a spill record; every chunk but the last is
// then dropped from memory and reloaded, one chunk at a time, when the final
// ordered result is assembled. Callers must call Cleanup once they are done
// with the result.
package incremental

import (
	"context"
	"slices"
	"time"

	"repodoc/pkg/filetype"
	"repodoc/pkg/processor"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DefaultChunkSize is the chunk size and incremental threshold when unset.
const DefaultChunkSize = 100

// Runner processes one batch of descriptors. *processor.Processor satisfies it.
type Runner interface {
	ProcessFiles(ctx context.Context, descs []filetype.Descriptor) ([]processor.Record, error)
}

// Options configures a Coordinator.
type Options struct {
	ChunkSize int    // Files per chunk; DefaultChunkSize when <= 0.
	SpillDir  string // Spill location; a temporary directory when empty.
}

// Result is the outcome of one Process run.
type Result struct {
	Records      []processor.Record // Input-ordered, minus files of failed chunks.
	Incremental  bool               // False when the whole list ran as one batch.
	Chunks       int                // Number of chunks the input was split into.
	FailedChunks []int              // 0-based ordinals of chunks whose files are missing.
	DroppedFiles int                // Input files missing from Records.
}

// chunkStore is the spill storage used by a Coordinator. *SpillStore
// implements it.
type chunkStore interface {
	Dir() string
	Write(ordinal int, records []processor.Record) (string, error)
	Read(id string) (SpillRecord, error)
	Remove(id string) error
	removeDirIfEmpty() error
}

// spillRef locates a spilled chunk for reassembly.
type spillRef struct {
	ordinal int
	id      string
	files   int
}

// Coordinator owns one spill directory and the ids written to it. It is not
// safe for concurrent use and must not be run twice at once against the same
// spill directory.
type Coordinator struct {
	runner   Runner
	opts     Options
	store    chunkStore
	chunkIDs []string
	logger   *zap.Logger
}

// NewCoordinator creates a Coordinator around runner.
func NewCoordinator(runner Runner, opts Options, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	return &Coordinator{runner: runner, opts: opts, logger: logger}
}

// ChunkIDs returns the ids of spill records written since the last Cleanup.
func (c *Coordinator) ChunkIDs() []string {
	return append([]string(nil), c.chunkIDs...)
}

// SpillDir returns the active spill directory, or "" before the first spill
// and after Cleanup.
func (c *Coordinator) SpillDir() string {
	if c.store == nil {
		return ""
	}
	return c.store.Dir()
}

// Process runs descs through the runner, chunking and spilling when the list
// is longer than the chunk size. A failed chunk loses its files but does not
// stop the run; see Result.FailedChunks. The returned error is non-nil only
// when ctx is done.
func (c *Coordinator) Process(ctx context.Context, descs []filetype.Descriptor) (Result, error) {
	start := time.Now()
	size := c.opts.ChunkSize

	if len(descs) <= size {
		return c.processWhole(ctx, descs)
	}
	if c.store == nil {
		store, err := OpenSpillStore(c.opts.SpillDir, c.logger)
		if err != nil {
			c.logger.Warn("Spill directory unavailable, processing without chunking",
				zap.String("spillDir", c.opts.SpillDir),
				zap.Error(err))
			return c.processWhole(ctx, descs)
		}
		c.store = store
	}

	chunks := partition(descs, size)
	res := Result{Incremental: true, Chunks: len(chunks)}
	c.logger.Info("Starting incremental processing",
		zap.Int("files", len(descs)),
		zap.Int("chunkSize", size),
		zap.Int("chunks", len(chunks)),
		zap.String("spillDir", c.store.Dir()))

	var (
		refs []spillRef
		last []processor.Record
	)
	for i, chunk := range chunks {
		records, err := c.runner.ProcessFiles(ctx, chunk)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Result{}, ctxErr
			}
			c.logger.Warn("Chunk processing failed, continuing with next chunk",
				zap.Int("chunk", i),
				zap.Int("files", len(chunk)),
				zap.Error(err))
			res.FailedChunks = append(res.FailedChunks, i)
			res.DroppedFiles += len(chunk)
			continue
		}
		isLast := i == len(chunks)-1
		if isLast {
			last = records
		}

		id, err := c.store.Write(i, records)
		if err != nil {
			c.logger.Warn("Failed to spill chunk", zap.Int("chunk", i), zap.Error(err))
			if !isLast {
				res.FailedChunks = append(res.FailedChunks, i)
				res.DroppedFiles += len(chunk)
			}
			continue
		}
		c.chunkIDs = append(c.chunkIDs, id)
		if !isLast {
			refs = append(refs, spillRef{ordinal: i, id: id, files: len(chunk)})
		}
		c.logger.Debug("Chunk complete",
			zap.Int("chunk", i),
			zap.Int("records", len(records)),
			zap.Bool("resident", isLast))
	}

	res.Records = c.reassemble(refs, last, &res)
	slices.Sort(res.FailedChunks)
	c.logger.Info("Incremental processing complete",
		zap.Int("records", len(res.Records)),
		zap.Int("failedChunks", len(res.FailedChunks)),
		zap.Int("droppedFiles", res.DroppedFiles),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// reassemble loads spilled chunks in ordinal order, one at a time, and
// appends the resident final chunk.
func (c *Coordinator) reassemble(refs []spillRef, last []processor.Record, res *Result) []processor.Record {
	var out []processor.Record
	for _, ref := range refs {
		rec, err := c.store.Read(ref.id)
		if err != nil {
			c.logger.Warn("Failed to reload spilled chunk, treating it as empty",
				zap.Int("chunk", ref.ordinal),
				zap.String("chunkId", ref.id),
				zap.Error(err))
			res.FailedChunks = append(res.FailedChunks, ref.ordinal)
			res.DroppedFiles += ref.files
			continue
		}
		out = append(out, rec.Records...)
	}
	return append(out, last...)
}

func (c *Coordinator) processWhole(ctx context.Context, descs []filetype.Descriptor) (Result, error) {
	records, err := c.runner.ProcessFiles(ctx, descs)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		c.logger.Warn("Batch processing failed", zap.Int("files", len(descs)), zap.Error(err))
		return Result{Chunks: 1, FailedChunks: []int{0}, DroppedFiles: len(descs)}, nil
	}
	return Result{Records: records, Chunks: 1}, nil
}

// Cleanup removes every spill record written since the last Cleanup and the
// spill directory once it is empty. It is idempotent and never fails;
// problems are logged.
func (c *Coordinator) Cleanup() {
	ids := c.chunkIDs
	c.chunkIDs = nil
	if c.store == nil {
		return
	}

	var errs error
	for _, id := range ids {
		errs = multierr.Append(errs, c.store.Remove(id))
	}
	errs = multierr.Append(errs, c.store.removeDirIfEmpty())
	if errs != nil {
		c.logger.Warn("Spill cleanup incomplete",
			zap.String("dir", c.store.Dir()),
			zap.Errors("errors", multierr.Errors(errs)))
	} else {
		c.logger.Debug("Spill cleanup complete", zap.String("dir", c.store.Dir()), zap.Int("removed", len(ids)))
	}
	c.store = nil
}

// partition splits descs into contiguous chunks of size; the last may be shorter.
func partition(descs []filetype.Descriptor, size int) [][]filetype.Descriptor {
	chunks := make([][]filetype.Descriptor, 0, (len(descs)+size-1)/size)
	for i := 0; i < len(descs); i += size {
		end := min(i+size, len(descs))
		chunks = append(chunks, descs[i:end])
	}
	return chunks
}
