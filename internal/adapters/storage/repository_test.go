package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-sync/internal/domain"
	"github.com/jsamuelsen/quote-sync/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRepository_SeedsOnFirstLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	repo := NewRepository(store, discardLogger())

	snap, seeded, err := repo.Load(ctx)
	require.NoError(t, err)

	assert.True(t, seeded)
	assert.Len(t, snap.Quotes, 3)
	assert.Equal(t, domain.FilterAll, snap.Filter)
	assert.Empty(t, snap.Search)
	assert.True(t, snap.LastSync.IsZero())

	_, found, err := store.Get(ctx, ports.KeyQuotes)
	require.NoError(t, err)
	assert.True(t, found, "seed is persisted")

	again, seeded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, snap.Quotes, again.Quotes)
}

func TestRepository_EmptyCollectionIsNotReseeded(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetMany(ctx, map[string]string{ports.KeyQuotes: "[]"}))

	snap, seeded, err := NewRepository(store, discardLogger()).Load(ctx)
	require.NoError(t, err)

	assert.False(t, seeded)
	assert.Empty(t, snap.Quotes)
}

func TestRepository_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(NewMemoryStore(), discardLogger())

	at := time.UnixMilli(1700000000000).UTC()
	want := domain.Snapshot{
		Quotes: []domain.Quote{
			{ID: "local-1", Text: "One", Category: "A", Source: domain.SourceLocal, UpdatedAt: at},
			{ID: "server-2", Text: "Two", Category: "Server", Source: domain.SourceServer, UpdatedAt: at},
		},
		Filter:   "A",
		Search:   "on",
		LastSync: at,
		Conflicts: []domain.Conflict{{
			ID:         "c1",
			Kind:       domain.ConflictSameIDDifferentContent,
			Local:      domain.Quote{ID: "server-2", Text: "Old", Category: "B", Source: domain.SourceLocal, UpdatedAt: at},
			Server:     domain.Quote{ID: "server-2", Text: "Two", Category: "Server", Source: domain.SourceServer, UpdatedAt: at},
			DetectedAt: at,
		}},
	}

	require.NoError(t, repo.Save(ctx, want))

	got, seeded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Equal(t, want, got)
}

func TestRepository_Defaults(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetMany(ctx, map[string]string{
		ports.KeyQuotes:           `[{"id":"a","text":"x","category":"c","source":"local","updatedAt":5}]`,
		ports.KeyLastSync:         "not-a-number",
		ports.KeyPendingConflicts: "{broken",
	}))

	snap, _, err := NewRepository(store, discardLogger()).Load(ctx)
	require.NoError(t, err)

	assert.Len(t, snap.Quotes, 1)
	assert.Equal(t, domain.FilterAll, snap.Filter)
	assert.True(t, snap.LastSync.IsZero())
	assert.Empty(t, snap.Conflicts)
}

func TestRepository_CorruptQuotes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.SetMany(ctx, map[string]string{ports.KeyQuotes: "not json"}))

	_, _, err := NewRepository(store, discardLogger()).Load(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode quotes")
}

func TestRepository_SaveWritesAllKeys(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, NewRepository(store, discardLogger()).Save(ctx, domain.Snapshot{}))

	for _, key := range []string{
		ports.KeyQuotes, ports.KeyLastFilter, ports.KeyLastSearch, ports.KeyLastSync, ports.KeyPendingConflicts,
	} {
		_, found, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found, key)
	}

	v, _, _ := store.Get(ctx, ports.KeyLastSync)
	assert.Equal(t, "0", v)

	v, _, _ = store.Get(ctx, ports.KeyLastFilter)
	assert.Equal(t, domain.FilterAll, v)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Driver: DriverMemory}, false},
		{"file", Config{Driver: DriverFile, Path: dir + "/state.json"}, false},
		{"sqlite", Config{Driver: DriverSQLite, Path: dir + "/state.db"}, false},
		{"unknown", Config{Driver: "redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(context.Background(), tt.cfg, discardLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			t.Cleanup(func() { _ = store.Close() })

			assert.Equal(t, HealthCheckName, store.Name())
			assert.NoError(t, store.Check(context.Background()))
		})
	}
}
