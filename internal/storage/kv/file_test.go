package kv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("cart", `[{"id":"p1"}]`))
	require.NoError(t, f.Set("coupons", "[]"))

	reopened, err := OpenFile(path)
	require.NoError(t, err)

	v, ok, err := reopened.Get("cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"p1"}]`, v)

	_, ok, err = reopened.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFile_Remove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	f, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("cart", "value"))
	require.NoError(t, f.Remove("cart"))
	require.NoError(t, f.Remove("never-there"))

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	_, ok, err := reopened.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpenFile_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	f, err := OpenFile(path)
	require.NoError(t, err)

	_, ok, err := f.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	// The file is only created on the first write.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenFile_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{definitely not json"), 0o644))

	f, err := OpenFile(path)
	require.NoError(t, err)

	_, ok, err := f.Get("cart")
	require.NoError(t, err)
	assert.False(t, ok)

	// The next write replaces the corrupt file with a valid one.
	require.NoError(t, f.Set("cart", "fresh"))
	reopened, err := OpenFile(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get("cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fresh", v)
}
