package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	fileID := uuid.New()

	key, err := store.Upload(ctx, fileID, "Schedule D.pdf", strings.NewReader("document body"))
	require.NoError(t, err)
	assert.Contains(t, key, fileID.String())
	assert.False(t, strings.Contains(key, " "), "key must not contain spaces: %s", key)

	rc, err := store.Download(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "document body", string(data))

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Download(ctx, key)
	assert.Error(t, err)
}

func TestLocalStorageSameFilenameDistinctKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	first, err := store.Upload(ctx, uuid.New(), "petition.pdf", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := store.Upload(ctx, uuid.New(), "petition.pdf", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalStorageDeleteMissingIsNoError(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "documents/nope/missing.pdf"))
}
