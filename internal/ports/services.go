// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// Logical keys persisted by the state repository.
const (
	KeyQuotes           = "quotes"
	KeyLastFilter       = "lastFilter"
	KeyLastSearch       = "lastSearch"
	KeyLastSync         = "lastSync"
	KeyPendingConflicts = "pendingConflicts"
)

// KeyValueStore is a durable string key-value store.
// Implementations must make SetMany atomic with respect to readers.
type KeyValueStore interface {
	// Get returns the value for key. The boolean is false when the key is absent.
	Get(ctx context.Context, key string) (string, bool, error)

	// SetMany writes all entries in one step.
	SetMany(ctx context.Context, entries map[string]string) error

	// Close releases underlying resources.
	Close() error
}

// StateRepository loads and saves the full quote keeper state.
type StateRepository interface {
	// Load returns the persisted snapshot. Missing keys yield defaults.
	// Returns seeded is true when the collection was created on this call.
	Load(ctx context.Context) (snap domain.Snapshot, seeded bool, err error)

	// Save persists the snapshot.
	Save(ctx context.Context, snap domain.Snapshot) error
}

// RemoteQuoteSource is the remote collection the local quotes reconcile against.
//
// Key considerations:
//   - Handle timeouts via context deadline
//   - Map transport errors to domain errors
//   - Return domain quotes, never wire DTOs
type RemoteQuoteSource interface {
	// FetchRecent returns the current remote batch.
	// Returns domain.ErrUnavailable if the remote is unreachable.
	FetchRecent(ctx context.Context) ([]domain.Quote, error)

	// Submit sends a local change upstream. The response is not used.
	Submit(ctx context.Context, quote domain.Quote) error
}

// SyncObserver receives the outcome of every reconciliation cycle.
// err is non-nil when the cycle could not persist its result.
type SyncObserver interface {
	ObserveSync(report domain.SyncReport, elapsed time.Duration, err error)
}
