package cache_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mayer2014/appserver/internal/adapters/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *cache.Directory {
	t.Helper()
	store, err := cache.New(filepath.Join(t.TempDir(), "var", "cache", "autogen"))
	require.NoError(t, err)
	return store
}

func TestNew_CreatesTheDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	store, err := cache.New(dir)
	require.NoError(t, err)

	info, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteAndModifiedAt(t *testing.T) {
	store := newStore(t)

	_, ok, err := store.ModifiedAt(`App\Entity\Order`)
	require.NoError(t, err)
	assert.False(t, ok, "artifact does not exist yet")

	require.NoError(t, store.Write(`App\Entity\Order`, []byte("<?php // generated")))

	modifiedAt, ok, err := store.ModifiedAt(`App\Entity\Order`)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, modifiedAt.IsZero())
}

func TestCountAndEntries_SkipDirectories(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Write(`App\A`, []byte("a")))
	require.NoError(t, store.Write(`App\B`, []byte("b")))
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir(), "subdir"), 0o750))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entries, err := store.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, entry := range entries {
		assert.NotEqual(t, "subdir", entry)
	}
}

func TestRemove(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Write(`App\A`, []byte("a")))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	require.NoError(t, store.Remove(entries[0]))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRemove_MissingEntry(t *testing.T) {
	store := newStore(t)
	assert.Error(t, store.Remove("does-not-exist.php"))
}

func TestPath_DeterministicAndDistinct(t *testing.T) {
	store := newStore(t)

	path := store.Path(`AppserverIo\Apps\Example\Entity\Order`)
	assert.Equal(t, path, store.Path(`AppserverIo\Apps\Example\Entity\Order`))
	assert.True(t, strings.HasSuffix(path, ".php"))
	assert.NotContains(t, filepath.Base(path), `\`)

	// Sanitizing maps \ and / to the same character. The hash of the raw
	// identifier keeps the two paths apart regardless.
	other := store.Path(`AppserverIo/Apps/Example/Entity/Order`)
	assert.NotEqual(t, path, other)
}

func TestWrite_Overwrites(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Write(`App\A`, []byte("first")))
	require.NoError(t, store.Write(`App\A`, []byte("second")))

	content, err := os.ReadFile(store.Path(`App\A`))
	require.NoError(t, err)
	assert.Equal(t, "second", string(content))

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
