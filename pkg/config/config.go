// Package config holds the conversion settings and their defaults. Values
// come from defaults, then REPODOC_* environment variables (optionally from a
// .env file), then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by FromEnv.
const EnvPrefix = "REPODOC_"

// Config holds the configuration for one conversion.
type Config struct {
	Source string // Local directory to convert.
	Output string // Destination document path.
	Format string // Output format: html or text.
	Title  string // Document title; the source directory name when empty.

	MaxConcurrency           int      // In-flight file transforms.
	RemoveComments           bool     // Strip full-line and block comments.
	RemoveEmptyLines         bool     // Drop blank lines.
	IncludeHiddenFiles       bool     // Keep dot-prefixed paths.
	IgnorePatterns           []string // Gitignore-style exclusions.
	UseIncrementalProcessing bool     // Chunk and spill large repositories.
	IncrementalChunkSize     int      // Files per chunk and incremental threshold.
	SpillDir                 string   // Spill location; temporary when empty.

	MaxFileSizeKB  int    // Larger files are reported by size only.
	LineNumbers    bool   // Number lines of code files in the output.
	HighlightStyle string // Chroma style name.
	Debug          bool   // Development logging.
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source:                   ".",
		Output:                   "repository.html",
		Format:                   "html",
		MaxConcurrency:           5,
		UseIncrementalProcessing: true,
		IncrementalChunkSize:     100,
		MaxFileSizeKB:            1024,
		LineNumbers:              true,
		HighlightStyle:           "github",
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Source) == "" {
		errs = append(errs, errors.New("source is required"))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if c.MaxConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("max concurrency must be > 0, got %d", c.MaxConcurrency))
	}
	if c.IncrementalChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("incremental chunk size must be > 0, got %d", c.IncrementalChunkSize))
	}
	if c.MaxFileSizeKB <= 0 {
		errs = append(errs, fmt.Errorf("max file size must be > 0 KB, got %d", c.MaxFileSizeKB))
	}
	return errors.Join(errs...)
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are given) without overriding ones already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv overlays REPODOC_* variables found through lookup onto c.
// Pass os.LookupEnv for the process environment.
func (c Config) FromEnv(lookup func(string) (string, bool)) (Config, error) {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(name string, dst *int) {
		if v, ok := lookup(EnvPrefix + name); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("SOURCE", &c.Source)
	str("OUTPUT", &c.Output)
	str("FORMAT", &c.Format)
	str("TITLE", &c.Title)
	str("SPILL_DIR", &c.SpillDir)
	str("HIGHLIGHT_STYLE", &c.HighlightStyle)
	num("MAX_CONCURRENCY", &c.MaxConcurrency)
	num("INCREMENTAL_CHUNK_SIZE", &c.IncrementalChunkSize)
	num("MAX_FILE_SIZE_KB", &c.MaxFileSizeKB)
	flag("REMOVE_COMMENTS", &c.RemoveComments)
	flag("REMOVE_EMPTY_LINES", &c.RemoveEmptyLines)
	flag("INCLUDE_HIDDEN_FILES", &c.IncludeHiddenFiles)
	flag("USE_INCREMENTAL_PROCESSING", &c.UseIncrementalProcessing)
	flag("LINE_NUMBERS", &c.LineNumbers)
	flag("DEBUG", &c.Debug)
	if v, ok := lookup(EnvPrefix + "IGNORE_PATTERNS"); ok {
		c.IgnorePatterns = splitList(v)
	}

	return c, errors.Join(errs...)
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
