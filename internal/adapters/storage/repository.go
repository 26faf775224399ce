package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// Repository implements ports.StateRepository over any ports.KeyValueStore.
type Repository struct {
	store  ports.KeyValueStore
	logger *slog.Logger
	now    func() time.Time
}

// NewRepository creates a repository over store.
func NewRepository(store ports.KeyValueStore, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		store:  store,
		logger: logger.With(slog.String("component", "state_repository")),
		now:    time.Now,
	}
}

// Load reads every logical key, applying defaults for missing ones.
// When no collection has ever been written, the seed quotes are saved and returned.
func (r *Repository) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	snap := domain.Snapshot{Filter: domain.FilterAll}

	raw, found, err := r.store.Get(ctx, ports.KeyQuotes)
	if err != nil {
		return snap, false, fmt.Errorf("load quotes: %w", err)
	}

	if found {
		if err := json.Unmarshal([]byte(raw), &snap.Quotes); err != nil {
			return snap, false, fmt.Errorf("decode quotes: %w", err)
		}
	}

	if v, ok, err := r.store.Get(ctx, ports.KeyLastFilter); err != nil {
		return snap, false, fmt.Errorf("load filter: %w", err)
	} else if ok && v != "" {
		snap.Filter = v
	}

	if v, ok, err := r.store.Get(ctx, ports.KeyLastSearch); err != nil {
		return snap, false, fmt.Errorf("load search: %w", err)
	} else if ok {
		snap.Search = v
	}

	if v, ok, err := r.store.Get(ctx, ports.KeyLastSync); err != nil {
		return snap, false, fmt.Errorf("load last sync: %w", err)
	} else if ok && v != "" {
		ms, parseErr := strconv.ParseInt(v, 10, 64)
		if parseErr != nil {
			r.logger.WarnContext(ctx, "ignoring unreadable last sync", slog.String("value", v))
		} else {
			snap.LastSync = domain.FromMillis(ms)
		}
	}

	if v, ok, err := r.store.Get(ctx, ports.KeyPendingConflicts); err != nil {
		return snap, false, fmt.Errorf("load conflicts: %w", err)
	} else if ok && v != "" {
		if err := json.Unmarshal([]byte(v), &snap.Conflicts); err != nil {
			r.logger.WarnContext(ctx, "dropping unreadable pending conflicts", slog.String("error", err.Error()))
			snap.Conflicts = nil
		}
	}

	if found {
		return snap, false, nil
	}

	snap.Quotes = domain.SeedQuotes(domain.TruncateMillis(r.now()))
	if err := r.Save(ctx, snap); err != nil {
		return snap, false, fmt.Errorf("save seed quotes: %w", err)
	}

	r.logger.InfoContext(ctx, "seeded quote collection", slog.Int("count", len(snap.Quotes)))

	return snap, true, nil
}

// Save writes every logical key in one store operation.
func (r *Repository) Save(ctx context.Context, snap domain.Snapshot) error {
	quotes := snap.Quotes
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	quotesJSON, err := json.Marshal(quotes)
	if err != nil {
		return fmt.Errorf("encode quotes: %w", err)
	}

	conflicts := snap.Conflicts
	if conflicts == nil {
		conflicts = []domain.Conflict{}
	}

	conflictsJSON, err := json.Marshal(conflicts)
	if err != nil {
		return fmt.Errorf("encode conflicts: %w", err)
	}

	filter := snap.Filter
	if filter == "" {
		filter = domain.FilterAll
	}

	return r.store.SetMany(ctx, map[string]string{
		ports.KeyQuotes:           string(quotesJSON),
		ports.KeyLastFilter:       filter,
		ports.KeyLastSearch:       snap.Search,
		ports.KeyLastSync:         strconv.FormatInt(domain.ToMillis(snap.LastSync), 10),
		ports.KeyPendingConflicts: string(conflictsJSON),
	})
}
