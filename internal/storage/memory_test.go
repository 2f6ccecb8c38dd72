package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGetRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "users/1/original/a.png", strings.NewReader("bytes"), 5, "image/png"))

	rc, err := store.Get(ctx, "users/1/original/a.png")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(data))
}

func TestMemoryStore_CopyDuplicatesObject(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "src", strings.NewReader("bytes"), 5, "image/png"))
	require.NoError(t, store.Copy(ctx, "dst", "src"))
	assert.Equal(t, 2, store.Len())

	// Removing the source leaves the copy intact.
	require.NoError(t, store.Remove(ctx, "src"))
	rc, err := store.Get(ctx, "dst")
	require.NoError(t, err)
	rc.Close()
}

func TestMemoryStore_CopyMissingSource(t *testing.T) {
	store := NewMemoryStore()
	err := store.Copy(context.Background(), "dst", "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMemoryStore_GetMissingObject(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestMemoryStore_PresignedURLRequiresObject(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.PresignedURL(ctx, "missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, store.Put(ctx, "key", strings.NewReader("x"), 1, "image/png"))
	url, err := store.PresignedURL(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "memory://key", url)
}
