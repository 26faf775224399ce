package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	store, err := NewFileStore(path, discardLogger())
	require.NoError(t, err)

	require.NoError(t, store.SetMany(ctx, map[string]string{"quotes": "[]", "lastFilter": "Wisdom"}))
	require.NoError(t, store.SetMany(ctx, map[string]string{"lastFilter": "Motivation"}))

	reopened, err := NewFileStore(path, discardLogger())
	require.NoError(t, err)

	v, ok, err := reopened.Get(ctx, "lastFilter")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Motivation", v)

	v, ok, _ = reopened.Get(ctx, "quotes")
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	_, ok, _ = reopened.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestFileStore_FallsBackToBackup(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := NewFileStore(path, discardLogger())
	require.NoError(t, err)
	require.NoError(t, store.SetMany(ctx, map[string]string{"lastSearch": "first"}))
	require.NoError(t, store.SetMany(ctx, map[string]string{"lastSearch": "second"}))

	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o600))

	recovered, err := NewFileStore(path, discardLogger())
	require.NoError(t, err)

	v, ok, err := recovered.Get(ctx, "lastSearch")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "first", v, "backup holds the previous document")
}

func TestFileStore_CorruptWithoutBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o600))

	_, err := NewFileStore(path, discardLogger())
	require.Error(t, err)
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "state.json"), discardLogger())
	require.NoError(t, err)

	require.NoError(t, store.SetMany(context.Background(), map[string]string{"k": "v"}))

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileStore_CancelledContext(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "state.json"), discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.SetMany(ctx, map[string]string{"k": "v"}), context.Canceled)

	_, _, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}
