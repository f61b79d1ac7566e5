package kv

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "favorites")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "favorites", []byte(`[{"id":"1"}]`)))
	got, err := s.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(got))

	require.NoError(t, s.Put(ctx, "favorites", []byte(`[]`)))
	got, err = s.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))

	require.NoError(t, s.Put(ctx, "downloaded", []byte(`["3"]`)))
	got, err = s.Get(ctx, "favorites")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got), "keys must be independent")

	assert.Error(t, s.Put(ctx, "../escape", []byte("x")))
	_, err = s.Get(ctx, "Bad Key")
	assert.Error(t, err)
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	exerciseStore(t, s)
	require.NoError(t, s.Close())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	exerciseStore(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "leftover temp file %s", e.Name())
	}
	assert.FileExists(t, filepath.Join(dir, "favorites.json"))
}

func TestFileStore_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := NewFileStore("~/walls")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "walls"), s.Dir())
}

func TestSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	exerciseStore(t, s)
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	got, err := reopened.Get(ctx, "downloaded")
	require.NoError(t, err)
	assert.Equal(t, `["3"]`, string(got))
}

func TestOpen_SelectsDriver(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, Options{Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	_, err = Open(ctx, Options{Driver: "postgres"})
	assert.ErrorContains(t, err, "dsn is empty")

	_, err = Open(ctx, Options{Driver: "redis"})
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{dialect: DriverPostgres}
	assert.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))

	lite := &SQLStore{dialect: DriverSQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}
