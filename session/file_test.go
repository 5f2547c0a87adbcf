package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venturepath-backend/models"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return store
}

func TestFileStore_LoadAbsent(t *testing.T) {
	store := newTestFileStore(t)

	user, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFileStore_RoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	saved := &models.User{
		Email:              "maria@example.com",
		Name:               "maria",
		LastGenerationDate: "2026-08-31",
		DailyUsageCount:    1,
		SubscriptionStatus: models.SubscriptionNone,
		SavedIdeas:         models.SavedIdeaList{},
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, saved.Email, loaded.Email)
	assert.Equal(t, saved.DailyUsageCount, loaded.DailyUsageCount)
	assert.Equal(t, saved.LastGenerationDate, loaded.LastGenerationDate)
}

func TestFileStore_CorruptPayloadReadsAsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	user, err := store.Load(context.Background())
	require.NoError(t, err, "corruption is recovered, not raised")
	assert.Nil(t, user)
}

func TestFileStore_VersionMismatchReadsAsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	payload, err := json.Marshal(envelope{
		SchemaVersion: SchemaVersion + 1,
		User:          &models.User{Email: "maria@example.com"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0600))

	user, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFileStore_Clear(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &models.User{Email: "maria@example.com"}))
	require.NoError(t, store.Clear(ctx))

	user, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	// Clearing an already absent slot is fine.
	require.NoError(t, store.Clear(ctx))
}
