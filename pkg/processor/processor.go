// Package processor transforms File Descriptors into Processed File Records.
//
// Each file type has its own transformer (code, image, binary). The
// dispatcher routes a descriptor to its transformer and turns any failure
// into a degraded record, so one bad file never aborts a batch. The batch
// runner applies the hidden-file and ignore policy and fans the remaining
// files out under a fixed concurrency ceiling, returning results in input
// order.
package processor

import (
	"errors"
	"strings"

	"repodoc/pkg/filetype"
	"repodoc/pkg/highlight"
	"repodoc/pkg/ignore"

	"go.uber.org/zap"
)

// ErrorPrefix starts the ProcessedContent of every degraded record.
const ErrorPrefix = "Error processing file: "

// DefaultMaxConcurrency is the in-flight transform ceiling when none is set.
const DefaultMaxConcurrency = 5

// ErrEmptyContent is returned by the code and image transformers when a
// descriptor that must carry a payload has none.
var ErrEmptyContent = errors.New("file content is empty")

// Record is a File Descriptor plus the output of its transformer.
// HighlightedMarkup is set for code only and EncodedContent for images only;
// an empty string means the field is absent.
type Record struct {
	filetype.Descriptor
	ProcessedContent  string            `json:"processedContent"`
	HighlightedMarkup string            `json:"highlightedMarkup,omitempty"`
	EncodedContent    string            `json:"encodedContent,omitempty"`
	Metadata          map[string]string `json:"metadata"`
}

// Failed reports whether r is a degraded record produced by a transform error.
func (r Record) Failed() bool {
	return strings.HasPrefix(r.ProcessedContent, ErrorPrefix) && r.HighlightedMarkup == "" && r.EncodedContent == ""
}

// Metadata keys shared by the transformers.
const (
	MetaMimeType   = "mimeType"
	MetaFileSize   = "fileSize"
	MetaBinaryType = "binaryType"
	MetaLanguage   = "language"
	MetaLineCount  = "lineCount"
	MetaAlt        = "alt"
	MetaWidth      = "width"
	MetaHeight     = "height"
)

// Options holds the processing policy.
type Options struct {
	MaxConcurrency     int      // In-flight transform ceiling; DefaultMaxConcurrency when <= 0.
	RemoveComments     bool     // Strip full-line and block comments from code.
	RemoveEmptyLines   bool     // Drop empty and whitespace-only lines from code.
	IncludeHiddenFiles bool     // Keep paths with a dot-prefixed segment.
	IgnorePatterns     []string // Gitignore-style patterns excluded before dispatch.
}

// Processor runs the per-file transformers and the bounded batch runner.
// It is safe for concurrent use.
type Processor struct {
	opts        Options
	highlighter highlight.Highlighter
	ignore      *ignore.Matcher
	logger      *zap.Logger
}

// New creates a Processor. A nil highlighter makes code files fall back to
// escaped plain text.
func New(opts Options, h highlight.Highlighter, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
		logger.Debug("Adjusted max concurrency", zap.Int("maxConcurrency", opts.MaxConcurrency))
	}
	return &Processor{
		opts:        opts,
		highlighter: h,
		ignore:      ignore.New(logger, opts.IgnorePatterns...),
		logger:      logger,
	}
}

// Options returns the effective options.
func (p *Processor) Options() Options {
	return p.opts
}

func newRecord(d filetype.Descriptor) Record {
	return Record{Descriptor: d, Metadata: map[string]string{}}
}
