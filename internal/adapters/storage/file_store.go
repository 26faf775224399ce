package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/platform/logging"
)

// FileStore keeps every key in a single JSON document on disk.
// Writes go to a temp file that is renamed over the document;
// the previous document is kept as a .bak copy for recovery.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	values map[string]string
}

// NewFileStore opens or creates the document at path.
// A corrupt document falls back to the .bak copy when one can be read.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	s := &FileStore{
		path:   path,
		logger: logger.With(slog.String("component", "file_store")),
		values: make(map[string]string),
	}

	values, err := readDocument(path)

	switch {
	case err == nil:
		s.values = values
	case errors.Is(err, fs.ErrNotExist):
		s.logger.Debug("store document not found, starting empty", slog.String("path", path))
	default:
		backup, backupErr := readDocument(s.backupPath())
		if backupErr != nil {
			return nil, fmt.Errorf("read store document %s: %w", path, err)
		}

		s.logger.Warn("store document corrupt, loaded backup",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)

		s.values = backup
	}

	return s, nil
}

func readDocument(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, err
	}

	return values, nil
}

func (s *FileStore) backupPath() string {
	return s.path + ".bak"
}

// Get returns the value for key.
func (s *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]

	return v, ok, nil
}

// SetMany applies entries and rewrites the document.
// On write failure the in-memory state is left unchanged.
func (s *FileStore) SetMany(ctx context.Context, entries map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.values)
	maps.Copy(next, entries)

	if err := s.write(ctx, next); err != nil {
		return domain.NewUnavailableError(HealthCheckName, err.Error())
	}

	s.values = next

	return nil
}

func (s *FileStore) write(ctx context.Context, values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store document: %w", err)
	}

	if current, err := os.ReadFile(s.path); err == nil {
		if err := os.WriteFile(s.backupPath(), current, 0o600); err != nil {
			s.logger.Warn("failed to write store backup", slog.String("error", err.Error()))
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename store document: %w", err)
	}

	s.logger.Log(ctx, logging.LevelTrace, "store document written",
		slog.String("path", s.path),
		slog.Int("keys", len(values)),
	)

	return nil
}

// Close is a no-op; every write is already durable.
func (s *FileStore) Close() error { return nil }

// Name implements ports.HealthChecker.
func (s *FileStore) Name() string { return HealthCheckName }

// Check verifies the store directory is still reachable.
func (s *FileStore) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("store directory: %w", err)
	}

	return nil
}
