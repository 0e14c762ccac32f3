// Package source collects File Descriptors from a local directory.
package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"repodoc/pkg/filetype"
	"repodoc/pkg/ignore"

	"go.uber.org/zap"
)

// IgnoreFileName is the per-repository ignore file read from the root.
const IgnoreFileName = ".repodocignore"

// DefaultMaxFileSizeKB caps the size of code and image files that are loaded.
const DefaultMaxFileSizeKB = 1024

// alwaysSkipDirs are never descended into.
var alwaysSkipDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// Options controls collection.
type Options struct {
	// MaxFileSizeKB caps loaded content. Larger code and image files become
	// size-only binary descriptors. DefaultMaxFileSizeKB when <= 0.
	MaxFileSizeKB int
	// Ignore prunes directories and files during the walk. Patterns from
	// IgnoreFileName in the root are added to it.
	Ignore *ignore.Matcher
}

// Collect walks root and returns one descriptor per regular file, in lexical
// path order. Content is loaded for code and image files only.
func Collect(ctx context.Context, root string, opts Options, logger *zap.Logger) ([]filetype.Descriptor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxFileSizeKB <= 0 {
		opts.MaxFileSizeKB = DefaultMaxFileSizeKB
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", absRoot)
	}

	gi := opts.Ignore
	if gi == nil {
		gi = ignore.New(logger)
	}
	if err := gi.CompileFile(filepath.Join(absRoot, IgnoreFileName)); err != nil {
		return nil, fmt.Errorf("failed to load ignore file: %w", err)
	}

	maxBytes := int64(opts.MaxFileSizeKB) * 1024
	var descs []filetype.Descriptor
	logger.Debug("Starting file collection", zap.String("root", absRoot), zap.Int("maxFileSizeKB", opts.MaxFileSizeKB))

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if path == absRoot {
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if alwaysSkipDirs[d.Name()] || gi.Match(rel+"/") {
				logger.Debug("Skipping directory", zap.String("directory", rel))
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || gi.Match(rel) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			logger.Warn("Failed to get file info during traversal", zap.String("path", rel), zap.Error(err))
			return nil
		}
		desc, err := describe(path, rel, fi.Size(), maxBytes)
		if err != nil {
			logger.Warn("Failed to read file, keeping it as size-only", zap.String("path", rel), zap.Error(err))
		}
		descs = append(descs, desc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", absRoot, err)
	}

	logger.Info("Collected files", zap.String("root", absRoot), zap.Int("files", len(descs)))
	return descs, nil
}

// describe builds the descriptor for one file, loading content only where
// the pipeline needs it. Oversized or binary-looking code files are
// downgraded to Binary so their bytes are never loaded or highlighted.
func describe(absPath, rel string, size, maxBytes int64) (filetype.Descriptor, error) {
	typ, _ := filetype.Classify(rel)
	if typ != filetype.Code && typ != filetype.Image {
		return filetype.NewDescriptor(rel, nil, size), nil
	}
	if size > maxBytes {
		return asBinary(filetype.NewDescriptor(rel, nil, size)), nil
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return asBinary(filetype.NewDescriptor(rel, nil, size)), err
	}
	desc := filetype.NewDescriptor(rel, content, int64(len(content)))
	if typ == filetype.Code && looksBinary(content) {
		return asBinary(filetype.NewDescriptor(rel, nil, int64(len(content)))), nil
	}
	return desc, nil
}

func asBinary(d filetype.Descriptor) filetype.Descriptor {
	d.Type = filetype.Binary
	d.Language = ""
	d.Content = nil
	return d
}
