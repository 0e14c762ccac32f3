package incremental

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"repodoc/pkg/processor"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSpillUnavailable wraps failures to prepare the spill directory.
var ErrSpillUnavailable = errors.New("spill directory unavailable")

const spillExt = ".json"

// SpillRecord is the on-disk form of one processed chunk. The layout is
// internal and may change between versions.
type SpillRecord struct {
	ChunkID string             `json:"chunkId"`
	Ordinal int                `json:"ordinal"`
	Records []processor.Record `json:"records"`
}

// SpillStore keeps processed chunks as JSON files in one directory.
type SpillStore struct {
	dir     string
	created bool // dir was created by this store
	logger  *zap.Logger
}

// OpenSpillStore prepares dir for spill records, creating it when needed.
// An empty dir selects a fresh temporary directory. The directory is probed
// with a test write so an unwritable location is reported up front.
func OpenSpillStore(dir string, logger *zap.Logger) (*SpillStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SpillStore{logger: logger}
	if strings.TrimSpace(dir) == "" {
		tmp, err := os.MkdirTemp("", "repodoc-spill-")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpillUnavailable, err)
		}
		s.dir, s.created = tmp, true
	} else {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			s.created = true
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSpillUnavailable, err)
		}
		s.dir = dir
	}

	probe, err := os.CreateTemp(s.dir, ".probe-*")
	if err != nil {
		if s.created {
			_ = s.removeDirIfEmpty()
		}
		return nil, fmt.Errorf("%w: %v", ErrSpillUnavailable, err)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	logger.Debug("Opened spill store", zap.String("dir", s.dir), zap.Bool("created", s.created))
	return s, nil
}

// Dir returns the spill directory.
func (s *SpillStore) Dir() string {
	return s.dir
}

// Write persists the records of chunk ordinal and returns the new chunk id.
// The file is written to a temporary name and renamed into place so a
// failed write never leaves a truncated record behind.
func (s *SpillStore) Write(ordinal int, records []processor.Record) (string, error) {
	id := fmt.Sprintf("chunk-%06d-%s", ordinal, uuid.NewString())
	dest := s.path(id)

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+id+"-*")
	if err != nil {
		return "", fmt.Errorf("create spill file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	w := bufio.NewWriterSize(tmp, 64*1024)
	if err := json.NewEncoder(w).Encode(SpillRecord{ChunkID: id, Ordinal: ordinal, Records: records}); err != nil {
		cleanup()
		return "", fmt.Errorf("encode chunk %d: %w", ordinal, err)
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return "", fmt.Errorf("flush chunk %d: %w", ordinal, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close chunk %d: %w", ordinal, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("rename chunk %d: %w", ordinal, err)
	}

	s.logger.Debug("Spilled chunk",
		zap.String("chunkId", id),
		zap.Int("ordinal", ordinal),
		zap.Int("records", len(records)))
	return id, nil
}

// Read loads a spilled chunk.
func (s *SpillStore) Read(id string) (SpillRecord, error) {
	var rec SpillRecord
	f, err := os.Open(s.path(id))
	if err != nil {
		return rec, fmt.Errorf("open spill %s: %w", id, err)
	}
	defer f.Close()

	if err := json.NewDecoder(bufio.NewReader(f)).Decode(&rec); err != nil {
		return rec, fmt.Errorf("decode spill %s: %w", id, err)
	}
	if rec.ChunkID != id {
		return rec, fmt.Errorf("spill %s holds chunk %q", id, rec.ChunkID)
	}
	return rec, nil
}

// Remove deletes a spill record. A record that is already gone is not an error.
func (s *SpillStore) Remove(id string) error {
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove spill %s: %w", id, err)
	}
	return nil
}

// removeDirIfEmpty deletes the spill directory when nothing is left in it.
func (s *SpillStore) removeDirIfEmpty() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read spill dir: %w", err)
	}
	if len(entries) > 0 {
		s.logger.Debug("Spill directory not empty, keeping it",
			zap.String("dir", s.dir),
			zap.Int("entries", len(entries)))
		return nil
	}
	if err := os.Remove(s.dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove spill dir: %w", err)
	}
	return nil
}

func (s *SpillStore) path(id string) string {
	return filepath.Join(s.dir, filepath.Base(id)+spillExt)
}
