// Package convert runs a whole conversion: collect the files of a local
// repository, process them (incrementally when the repository is large) and
// write the rendered document.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"repodoc/pkg/config"
	"repodoc/pkg/filetype"
	"repodoc/pkg/highlight"
	"repodoc/pkg/ignore"
	"repodoc/pkg/incremental"
	"repodoc/pkg/processor"
	"repodoc/pkg/render"
	"repodoc/pkg/source"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// Stats summarises a conversion.
type Stats struct {
	FilesCollected int
	FilesRendered  int
	FilesFailed    int // Degraded records in the output.
	FilesDropped   int // Files lost with a failed chunk.
	Incremental    bool
	OutputBytes    int64
	Duration       time.Duration
}

// Run executes the conversion described by cfg.
func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()
	var stats Stats

	if err := cfg.Validate(); err != nil {
		return stats, fmt.Errorf("invalid configuration: %w", err)
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return stats, err
	}
	logger.Info("Starting conversion", zap.String("source", cfg.Source), zap.String("output", cfg.Output))

	descs, err := source.Collect(ctx, cfg.Source, source.Options{
		MaxFileSizeKB: cfg.MaxFileSizeKB,
		Ignore:        ignore.New(logger, cfg.IgnorePatterns...),
	}, logger)
	if err != nil {
		return stats, fmt.Errorf("failed to collect files: %w", err)
	}
	stats.FilesCollected = len(descs)

	hl, err := highlight.NewChroma(highlight.Options{Style: cfg.HighlightStyle}, logger)
	if err != nil {
		return stats, fmt.Errorf("failed to create highlighter: %w", err)
	}
	proc := processor.New(processor.Options{
		MaxConcurrency:     cfg.MaxConcurrency,
		RemoveComments:     cfg.RemoveComments,
		RemoveEmptyLines:   cfg.RemoveEmptyLines,
		IncludeHiddenFiles: cfg.IncludeHiddenFiles,
		IgnorePatterns:     cfg.IgnorePatterns,
	}, hl, logger)

	records, dropped, incr, err := Process(ctx, proc, descs, cfg, logger)
	if err != nil {
		return stats, err
	}
	stats.FilesRendered = len(records)
	stats.FilesDropped = dropped
	stats.Incremental = incr
	for i := range records {
		if records[i].Failed() {
			stats.FilesFailed++
		}
	}

	css, err := hl.CSS()
	if err != nil {
		logger.Warn("Failed to generate highlight stylesheet", zap.Error(err))
	}
	title := cfg.Title
	if title == "" {
		if abs, err := filepath.Abs(cfg.Source); err == nil {
			title = filepath.Base(abs)
		}
	}
	n, err := writeOutput(cfg.Output, format, render.Document{
		Title:       title,
		Records:     records,
		CSS:         css,
		LineNumbers: cfg.LineNumbers,
	}, logger)
	if err != nil {
		return stats, err
	}
	stats.OutputBytes = n
	stats.Duration = time.Since(start)

	logger.Info("Conversion complete",
		zap.String("output", cfg.Output),
		zap.Int("files", stats.FilesRendered),
		zap.Int("failed", stats.FilesFailed),
		zap.Int("dropped", stats.FilesDropped),
		zap.Bool("incremental", stats.Incremental),
		zap.String("size", humanize.IBytes(uint64(n))),
		zap.Duration("elapsed", stats.Duration))
	return stats, nil
}

// Process picks the batch runner or the incremental coordinator for descs.
// The coordinator is used when incremental processing is enabled and the
// list exceeds the chunk size; its spill records are always cleaned up.
func Process(ctx context.Context, proc *processor.Processor, descs []filetype.Descriptor, cfg config.Config, logger *zap.Logger) ([]processor.Record, int, bool, error) {
	if !cfg.UseIncrementalProcessing || len(descs) <= cfg.IncrementalChunkSize {
		records, err := proc.ProcessFiles(ctx, descs)
		if err != nil {
			return nil, 0, false, fmt.Errorf("failed to process files: %w", err)
		}
		return records, 0, false, nil
	}

	coord := incremental.NewCoordinator(proc, incremental.Options{
		ChunkSize: cfg.IncrementalChunkSize,
		SpillDir:  cfg.SpillDir,
	}, logger)
	defer coord.Cleanup()

	res, err := coord.Process(ctx, descs)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to process files incrementally: %w", err)
	}
	if res.DroppedFiles > 0 {
		logger.Warn("Some files are missing from the output because their chunk failed",
			zap.Ints("failedChunks", res.FailedChunks),
			zap.Int("droppedFiles", res.DroppedFiles))
	}
	return res.Records, res.DroppedFiles, res.Incremental, nil
}

// writeOutput renders doc to path, creating parent directories.
func writeOutput(path string, format render.Format, doc render.Document, logger *zap.Logger) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		logger.Error("Failed to create output directory", zap.String("path", path), zap.Error(err))
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Error("Failed to create output file", zap.String("file", path), zap.Error(err))
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render.Write(f, format, doc); err != nil {
		_ = f.Close()
		return 0, err
	}
	info, statErr := f.Stat()
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output file: %w", err)
	}
	if statErr != nil {
		return 0, nil
	}
	return info.Size(), nil
}
