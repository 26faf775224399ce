package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

// errNotLoaded is returned when state is used before Load.
var errNotLoaded = errors.New("state not loaded")

// State holds the in-memory snapshot shared by the quote and sync services.
// Every mutation is saved before it becomes visible, so a failed save leaves
// the previous snapshot in place.
type State struct {
	mu     sync.Mutex
	repo   ports.StateRepository
	snap   domain.Snapshot
	loaded bool
}

// NewState creates state backed by repo. Call Load before use.
func NewState(repo ports.StateRepository) *State {
	if repo == nil {
		panic("State: repository is required")
	}

	return &State{repo: repo}
}

// Load reads the persisted snapshot, seeding it on first run.
func (s *State) Load(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, seeded, err := s.repo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading state: %w", err)
	}

	s.snap = snap
	s.loaded = true

	return seeded, nil
}

// Snapshot returns a copy of the current snapshot.
func (s *State) Snapshot() (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return domain.Snapshot{}, errNotLoaded
	}

	return s.snap.Clone(), nil
}

// Update applies fn to a copy of the snapshot, saves the result and publishes it.
// fn runs under the state lock and must not call back into State.
func (s *State) Update(ctx context.Context, fn func(domain.Snapshot) (domain.Snapshot, error)) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		return domain.Snapshot{}, errNotLoaded
	}

	next, err := fn(s.snap.Clone())
	if err != nil {
		return domain.Snapshot{}, err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		return domain.Snapshot{}, fmt.Errorf("saving state: %w", err)
	}

	s.snap = next

	return next.Clone(), nil
}
