package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectStorePicksLocalModeWithoutBucket(t *testing.T) {
	store, err := NewObjectStore(context.Background(), "", t.TempDir(), "http://localhost:3000")
	require.NoError(t, err)

	local, ok := store.(*LocalStore)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:3000", local.BaseURL)
}

func TestLocalStoreUploadCarriesNoStorageKey(t *testing.T) {
	baseDir := t.TempDir()
	src := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4"), 0644))

	store := NewLocalStore(baseDir, "http://localhost:3000")
	res, err := store.Upload(context.Background(), src, "sess-1", "notes.pdf")
	require.NoError(t, err)

	assert.Nil(t, res.StorageKey)
	assert.Equal(t, "http://localhost:3000/uploads/sess-1/notes.pdf", res.URL)
	_, statErr := os.Stat(filepath.Join(baseDir, "sess-1", "notes.pdf"))
	assert.NoError(t, statErr)
}
