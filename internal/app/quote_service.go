package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jsamuelsen/quote-sync/internal/domain"
)

// maxImportSkew tolerates clock drift between the exporting and importing machine.
const maxImportSkew = time.Minute

// QuoteServiceConfig contains the dependencies of the quote service.
type QuoteServiceConfig struct {
	State  *State
	Logger *slog.Logger

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// QuoteService implements the local quote use cases: browsing, adding,
// filtering, export and import, and manual conflict resolution.
type QuoteService struct {
	state  *State
	exec   *Executor
	logger *slog.Logger
	now    func() time.Time
	pick   func(n int) int
}

// NewQuoteService creates a quote service.
// Panics if State is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.State == nil {
		panic("QuoteService: State is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "app.QuoteService"))

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &QuoteService{
		state:  cfg.State,
		exec:   NewExecutor(logger),
		logger: logger,
		now:    func() time.Time { return domain.TruncateMillis(now()) },
		pick:   rand.IntN,
	}
}

// Load reads persisted state. It reports whether the seed collection was written.
func (s *QuoteService) Load(ctx context.Context) (bool, error) {
	seeded, err := s.state.Load(ctx)
	if err != nil {
		return false, err
	}

	snap, err := s.state.Snapshot()
	if err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "state loaded",
		slog.Int("quotes", len(snap.Quotes)),
		slog.Int("pending_conflicts", len(snap.Conflicts)),
		slog.Bool("seeded", seeded),
	)

	return seeded, nil
}

// List returns the collection through the persisted filter and search.
func (s *QuoteService) List(_ context.Context) (domain.View, error) {
	snap, err := s.state.Snapshot()
	if err != nil {
		return domain.View{}, err
	}

	return snap.View(), nil
}

// Categories returns the sorted distinct categories.
func (s *QuoteService) Categories(_ context.Context) ([]string, error) {
	snap, err := s.state.Snapshot()
	if err != nil {
		return nil, err
	}

	return snap.Categories(), nil
}

// Random returns a random quote from the whole collection, ignoring the filter.
func (s *QuoteService) Random(_ context.Context) (domain.Quote, error) {
	snap, err := s.state.Snapshot()
	if err != nil {
		return domain.Quote{}, err
	}

	if len(snap.Quotes) == 0 {
		return domain.Quote{}, domain.NewNotFoundError("quote", "random")
	}

	return snap.Quotes[s.pick(len(snap.Quotes))], nil
}

// Add creates a local quote. Text is trimmed and required; category defaults to General.
func (s *QuoteService) Add(ctx context.Context, text, category string) (domain.Quote, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Quote{}, domain.NewValidationError("text", "please enter a quote")
	}

	q := domain.NewLocalQuote(text, category, s.now())

	_, err := s.state.Update(ctx, func(snap domain.Snapshot) (domain.Snapshot, error) {
		snap.Quotes = append(snap.Quotes, q)
		return snap, nil
	})
	if err != nil {
		return domain.Quote{}, fmt.Errorf("adding quote: %w", err)
	}

	s.logger.InfoContext(ctx, "added local quote",
		slog.String("quote_id", q.ID),
		slog.String("category", q.Category),
	)

	return q, nil
}

// SetFilter persists the category filter. An empty category means all.
func (s *QuoteService) SetFilter(ctx context.Context, category string) (domain.View, error) {
	return s.UpdateView(ctx, &category, nil)
}

// SetSearch persists the trimmed search text.
func (s *QuoteService) SetSearch(ctx context.Context, text string) (domain.View, error) {
	return s.UpdateView(ctx, nil, &text)
}

// UpdateView changes the filter and/or search in one save. Nil leaves a setting as is.
func (s *QuoteService) UpdateView(ctx context.Context, filter, search *string) (domain.View, error) {
	snap, err := s.state.Update(ctx, func(snap domain.Snapshot) (domain.Snapshot, error) {
		if filter != nil {
			snap.Filter = strings.TrimSpace(*filter)
			if snap.Filter == "" {
				snap.Filter = domain.FilterAll
			}
		}

		if search != nil {
			snap.Search = strings.TrimSpace(*search)
		}

		return snap, nil
	})
	if err != nil {
		return domain.View{}, fmt.Errorf("updating view: %w", err)
	}

	return snap.View(), nil
}

// Export renders the full collection as indented JSON.
func (s *QuoteService) Export(_ context.Context) ([]byte, error) {
	snap, err := s.state.Snapshot()
	if err != nil {
		return nil, err
	}

	quotes := snap.Quotes
	if quotes == nil {
		quotes = []domain.Quote{}
	}

	out, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}

	return out, nil
}

// Import appends the quotes in payload, a JSON array as produced by Export.
// It returns the number of imported records.
func (s *QuoteService) Import(ctx context.Context, payload []byte) (int, error) {
	return Execute(ctx, s.exec, s.importOperation(), payload)
}

func (s *QuoteService) importOperation() Operation[[]byte, []domain.Quote, []domain.Quote, int] {
	var decoded []domain.Quote
	var imported int

	return Operation[[]byte, []domain.Quote, []domain.Quote, int]{
		Name: "import_quotes",

		Validate: func(_ context.Context, payload []byte) error {
			trimmed := bytes.TrimSpace(payload)
			if len(trimmed) == 0 || trimmed[0] != '[' {
				return domain.NewValidationError("payload", "invalid format")
			}

			if err := json.Unmarshal(trimmed, &decoded); err != nil {
				return domain.NewValidationError("payload", "invalid format")
			}

			for i, q := range decoded {
				if strings.TrimSpace(q.Text) == "" {
					return domain.NewValidationErrorWithValue(fmt.Sprintf("[%d].text", i), "is required", q.ID)
				}

				if q.Source != "" && !q.Source.Valid() {
					return domain.NewValidationErrorWithValue(fmt.Sprintf("[%d].source", i), "must be local or server", string(q.Source))
				}
			}

			return nil
		},

		Perform: func(_ context.Context, _ []byte) ([]domain.Quote, error) {
			return fillDefaults(decoded, s.now()), nil
		},

		Verify: func(_ context.Context, _ []byte, normalized []domain.Quote) ([]domain.Quote, error) {
			// A future timestamp would outrank every server edit and stay pending forever.
			limit := s.now().Add(maxImportSkew)
			for i, q := range normalized {
				if q.UpdatedAt.After(limit) {
					return nil, domain.NewValidationErrorWithValue(
						fmt.Sprintf("[%d].updatedAt", i), "must not be in the future", domain.ToMillis(q.UpdatedAt))
				}
			}

			return normalized, nil
		},

		Archive: func(ctx context.Context, _ []byte, normalized []domain.Quote) error {
			// Ids are re-checked against the state current at save time.
			_, err := s.state.Update(ctx, func(snap domain.Snapshot) (domain.Snapshot, error) {
				imported = appendUnique(&snap, normalized)
				return snap, nil
			})

			return err
		},

		Respond: func(ctx context.Context, _ []byte, _ []domain.Quote) (int, error) {
			s.logger.InfoContext(ctx, "imported quotes", slog.Int("count", imported))
			return imported, nil
		},
	}
}

// fillDefaults applies import defaults in place to records missing fields.
func fillDefaults(quotes []domain.Quote, now time.Time) []domain.Quote {
	for i := range quotes {
		if quotes[i].ID == "" {
			quotes[i].ID = domain.NewLocalID()
		}
		if quotes[i].Category == "" {
			quotes[i].Category = domain.DefaultCategory
		}
		if quotes[i].Source == "" {
			quotes[i].Source = domain.SourceLocal
		}
		if quotes[i].UpdatedAt.IsZero() {
			quotes[i].UpdatedAt = now
		}
	}

	return quotes
}

// appendUnique appends quotes to snap, giving a fresh id to any record whose id is taken.
func appendUnique(snap *domain.Snapshot, quotes []domain.Quote) int {
	taken := make(map[string]struct{}, len(snap.Quotes)+len(quotes))
	for _, q := range snap.Quotes {
		taken[q.ID] = struct{}{}
	}

	for _, q := range quotes {
		if _, ok := taken[q.ID]; ok {
			q.ID = domain.NewLocalID()
		}

		taken[q.ID] = struct{}{}
		snap.Quotes = append(snap.Quotes, q)
	}

	return len(quotes)
}

// Conflicts returns the conflicts awaiting manual review.
func (s *QuoteService) Conflicts(_ context.Context) ([]domain.Conflict, error) {
	snap, err := s.state.Snapshot()
	if err != nil {
		return nil, err
	}

	return snap.Conflicts, nil
}

// ResolveConflict applies the chosen side of a pending conflict and drops it.
func (s *QuoteService) ResolveConflict(ctx context.Context, conflictID, keep string) error {
	side, err := domain.ParseKeepSide(keep)
	if err != nil {
		return err
	}

	now := s.now()

	_, err = s.state.Update(ctx, func(snap domain.Snapshot) (domain.Snapshot, error) {
		return snap.Resolve(conflictID, side, now)
	})
	if err != nil {
		return fmt.Errorf("resolving conflict: %w", err)
	}

	s.logger.InfoContext(ctx, "conflict resolved",
		slog.String("conflict_id", conflictID),
		slog.String("keep", string(side)),
	)

	return nil
}
