package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/danielhan/advisor/internal/contracts"
	"github.com/danielhan/advisor/pkg/logger"
)

// FileStore keeps one JSON record per symbol under a directory, named
// <symbol>_cache.json with the symbol lowercased. The default backend.
type FileStore struct {
	dir    string
	logger *logger.Logger
	now    func() time.Time
}

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir %s: %w", dir, err)
	}

	return &FileStore{
		dir:    dir,
		logger: log,
		now:    time.Now,
	}, nil
}

// path returns the record location for a symbol.
func (s *FileStore) path(symbol string) string {
	return filepath.Join(s.dir, Key(symbol)+"_cache.json")
}

// Get returns the cached metrics when the record exists, parses and is
// still fresh. Corrupt records are logged misses.
func (s *FileStore) Get(ctx context.Context, symbol string) (contracts.InstrumentMetrics, bool) {
	var zero contracts.InstrumentMetrics

	data, err := os.ReadFile(s.path(symbol))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"error":  err.Error(),
			}).Warn("Cache read failed, treating as miss")
		}
		return zero, false
	}

	var entry envelope
	if err := json.Unmarshal(data, &entry); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Corrupt cache entry, treating as miss")
		return zero, false
	}

	if !entry.fresh(s.now()) {
		s.logger.WithField("symbol", symbol).Debug("Cache entry expired")
		return zero, false
	}

	return entry.Metrics, true
}

// Put writes the record through a temp file and rename, so a concurrent
// reader sees either the old record or the new one, never a torn write.
func (s *FileStore) Put(ctx context.Context, symbol string, metrics contracts.InstrumentMetrics) error {
	entry := envelope{
		Metrics:   metrics,
		FetchedAt: s.now().Unix(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry for %s: %w", symbol, err)
	}

	tmp, err := os.CreateTemp(s.dir, Key(symbol)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file for %s: %w", symbol, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache entry for %s: %w", symbol, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache entry for %s: %w", symbol, err)
	}

	if err := os.Rename(tmp.Name(), s.path(symbol)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit cache entry for %s: %w", symbol, err)
	}

	return nil
}
