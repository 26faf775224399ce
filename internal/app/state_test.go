package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/mocks"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// savedSnapshots records every snapshot handed to the repository.
type savedSnapshots struct {
	snaps []domain.Snapshot
}

func (s *savedSnapshots) last() domain.Snapshot {
	if len(s.snaps) == 0 {
		return domain.Snapshot{}
	}

	return s.snaps[len(s.snaps)-1]
}

// loadedState returns state loaded from snap whose saves succeed and are recorded.
func loadedState(t *testing.T, snap domain.Snapshot) (*State, *savedSnapshots) {
	t.Helper()

	repo := mocks.NewMockStateRepository(t)
	repo.EXPECT().Load(mock.Anything).Return(snap, false, nil).Once()

	saved := &savedSnapshots{}
	repo.EXPECT().Save(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, s domain.Snapshot) error {
			saved.snaps = append(saved.snaps, s.Clone())
			return nil
		}).Maybe()

	st := NewState(repo)
	_, err := st.Load(context.Background())
	require.NoError(t, err)

	return st, saved
}

func quote(id, text, category string, source domain.Source, at time.Time) domain.Quote {
	return domain.Quote{ID: id, Text: text, Category: category, Source: source, UpdatedAt: at}
}

func TestNewState_PanicsWithoutRepository(t *testing.T) {
	assert.Panics(t, func() { NewState(nil) })
}

func TestState_UseBeforeLoad(t *testing.T) {
	st := NewState(mocks.NewMockStateRepository(t))

	_, err := st.Snapshot()
	require.ErrorIs(t, err, errNotLoaded)

	_, err = st.Update(context.Background(), func(s domain.Snapshot) (domain.Snapshot, error) { return s, nil })
	require.ErrorIs(t, err, errNotLoaded)
}

func TestState_LoadReportsSeeding(t *testing.T) {
	repo := mocks.NewMockStateRepository(t)
	repo.EXPECT().Load(mock.Anything).Return(domain.Snapshot{Filter: domain.FilterAll}, true, nil).Once()

	seeded, err := NewState(repo).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestState_LoadError(t *testing.T) {
	repo := mocks.NewMockStateRepository(t)
	repo.EXPECT().Load(mock.Anything).Return(domain.Snapshot{}, false, errors.New("disk gone")).Once()

	st := NewState(repo)
	_, err := st.Load(context.Background())
	require.ErrorContains(t, err, "disk gone")

	_, err = st.Snapshot()
	require.ErrorIs(t, err, errNotLoaded)
}

func TestState_SnapshotIsACopy(t *testing.T) {
	st, _ := loadedState(t, domain.Snapshot{
		Quotes: []domain.Quote{quote("a", "one", "General", domain.SourceLocal, testNow)},
	})

	snap, err := st.Snapshot()
	require.NoError(t, err)
	snap.Quotes[0].Text = "mutated"

	again, err := st.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "one", again.Quotes[0].Text)
}

func TestState_UpdateSavesThenPublishes(t *testing.T) {
	st, saved := loadedState(t, domain.Snapshot{Filter: domain.FilterAll})

	next, err := st.Update(context.Background(), func(s domain.Snapshot) (domain.Snapshot, error) {
		s.Search = "hope"
		return s, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "hope", next.Search)
	require.Len(t, saved.snaps, 1)
	assert.Equal(t, "hope", saved.last().Search)

	current, err := st.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "hope", current.Search)
}

func TestState_UpdateKeepsPreviousOnFailure(t *testing.T) {
	t.Run("fn error", func(t *testing.T) {
		st, saved := loadedState(t, domain.Snapshot{Search: "before"})

		_, err := st.Update(context.Background(), func(s domain.Snapshot) (domain.Snapshot, error) {
			s.Search = "after"
			return s, domain.NewValidationError("search", "nope")
		})
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
		assert.Empty(t, saved.snaps)

		current, _ := st.Snapshot()
		assert.Equal(t, "before", current.Search)
	})

	t.Run("save error", func(t *testing.T) {
		repo := mocks.NewMockStateRepository(t)
		repo.EXPECT().Load(mock.Anything).Return(domain.Snapshot{Search: "before"}, false, nil).Once()
		repo.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("read-only")).Once()

		st := NewState(repo)
		_, err := st.Load(context.Background())
		require.NoError(t, err)

		_, err = st.Update(context.Background(), func(s domain.Snapshot) (domain.Snapshot, error) {
			s.Search = "after"
			return s, nil
		})
		require.ErrorContains(t, err, "read-only")

		current, _ := st.Snapshot()
		assert.Equal(t, "before", current.Search)
	})
}
