package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportKey_SlugsTitle(t *testing.T) {
	id := uuid.New()
	key := exportKey(id, "Mobile Car Detailing!")

	assert.Contains(t, key, id.String())
	assert.Contains(t, key, "mobile-car-detailing")
	assert.True(t, strings.HasSuffix(key, ".md"))
}

func TestExportKey_FallbackSlug(t *testing.T) {
	key := exportKey(uuid.New(), "移动洗车服务")
	assert.Contains(t, key, "roadmap")
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := "# Zero to First Dollar\n\nWeek 1: ..."
	key, err := store.Put(ctx, uuid.New(), "Mobile Car Detailing", strings.NewReader(content))
	require.NoError(t, err)

	reader, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestLocalStorage_GetMissing(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "ab/nope.md")
	assert.Error(t, err)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	base := t.TempDir()

	// A file outside the export directory must stay unreachable.
	outside := filepath.Join(base, "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("not an export"), 0600))

	store, err := NewLocalStorage(filepath.Join(base, "exports"))
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{
		"../outside.txt",
		"../../etc/passwd",
		"ab/../../outside.txt",
		"..",
	} {
		_, err := store.Get(ctx, key)
		assert.Error(t, err, "key %q", key)
		assert.Error(t, store.Delete(ctx, key), "key %q", key)
	}

	data, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, "not an export", string(data), "outside file untouched")
}

func TestLocalStorage_Delete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := store.Put(ctx, uuid.New(), "Etsy Print Shop", strings.NewReader("roadmap"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.Error(t, err)

	// Deleting again is a no-op.
	require.NoError(t, store.Delete(ctx, key))
}
