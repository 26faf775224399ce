// Package storage provides the key-value backends and the state repository
// that maps the quote keeper snapshot onto logical keys.
package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// HealthCheckName identifies every store backend in health results.
const HealthCheckName = "store"

// Supported drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Config selects and locates a store backend.
type Config struct {
	Driver string
	Path   string
}

// Store is a key-value backend that can also report its health.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	SetMany(ctx context.Context, entries map[string]string) error
	Close() error
	Name() string
	Check(ctx context.Context) error
}

// Open creates the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	switch cfg.Driver {
	case DriverFile:
		return NewFileStore(cfg.Path, logger)
	case DriverSQLite:
		return NewSQLiteStore(ctx, cfg.Path, logger)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
