package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"venturepath-backend/models"
)

func newTestAccountService(store *memStore) *AccountService {
	return NewAccountService(
		WithSessionStore(store),
		WithAccountClock(fixedClock(31)),
	)
}

func TestAccountService_LoginCreatesAccount(t *testing.T) {
	store := &memStore{}
	s := newTestAccountService(store)
	ctx := context.Background()

	user, err := s.Login(ctx, "maria@example.com")
	require.NoError(t, err)

	assert.Equal(t, "maria@example.com", user.Email)
	assert.Equal(t, "maria", user.Name)
	assert.False(t, user.IsPro)
	assert.Equal(t, models.SubscriptionNone, user.SubscriptionStatus)
	assert.Equal(t, 0, user.DailyUsageCount)
	assert.Empty(t, user.SavedIdeas)
	assert.Equal(t, user, store.user, "login persists the record")
}

func TestAccountService_LoginReusesMatchingEmail(t *testing.T) {
	store := &memStore{}
	s := newTestAccountService(store)
	ctx := context.Background()

	_, err := s.Login(ctx, "maria@example.com")
	require.NoError(t, err)
	_, err = s.UpgradeToPro(ctx)
	require.NoError(t, err)

	user, err := s.Login(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsPro, "relogin with the same email keeps the account")
}

func TestAccountService_LoginDifferentEmailReplaces(t *testing.T) {
	store := &memStore{}
	s := newTestAccountService(store)
	ctx := context.Background()

	_, err := s.Login(ctx, "maria@example.com")
	require.NoError(t, err)
	_, err = s.UpgradeToPro(ctx)
	require.NoError(t, err)

	user, err := s.Login(ctx, "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, "other@example.com", user.Email)
	assert.False(t, user.IsPro, "a different email starts a fresh account")
}

func TestAccountService_CurrentWhenLoggedOut(t *testing.T) {
	s := newTestAccountService(&memStore{})

	user, err := s.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAccountService_Logout(t *testing.T) {
	store := &memStore{}
	s := newTestAccountService(store)
	ctx := context.Background()

	_, err := s.Login(ctx, "maria@example.com")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	user, err := s.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAccountService_UpgradeRequiresLogin(t *testing.T) {
	s := newTestAccountService(&memStore{})

	_, err := s.UpgradeToPro(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAccountService_UpgradeSetsSubscription(t *testing.T) {
	store := &memStore{}
	s := newTestAccountService(store)
	ctx := context.Background()

	_, err := s.Login(ctx, "maria@example.com")
	require.NoError(t, err)

	user, err := s.UpgradeToPro(ctx)
	require.NoError(t, err)
	assert.True(t, user.IsPro)
	assert.Equal(t, models.SubscriptionActive, user.SubscriptionStatus)
}

func TestAccountService_SaveIdeaDeduplicatesOnTitle(t *testing.T) {
	store := &memStore{}
	s := newTestAccountService(store)
	ctx := context.Background()

	_, err := s.Login(ctx, "maria@example.com")
	require.NoError(t, err)

	idea := models.BusinessIdea{ID: uuid.New(), Title: "Mobile car detailing"}
	user, err := s.SaveIdea(ctx, idea)
	require.NoError(t, err)
	require.Len(t, user.SavedIdeas, 1)

	// Same title again, even with a different ID, is a no-op.
	dup := models.BusinessIdea{ID: uuid.New(), Title: "Mobile car detailing"}
	user, err = s.SaveIdea(ctx, dup)
	require.NoError(t, err)
	assert.Len(t, user.SavedIdeas, 1)
}

func TestAccountService_SaveIdeaPrepends(t *testing.T) {
	store := &memStore{}
	s := newTestAccountService(store)
	ctx := context.Background()

	_, err := s.Login(ctx, "maria@example.com")
	require.NoError(t, err)

	_, err = s.SaveIdea(ctx, models.BusinessIdea{ID: uuid.New(), Title: "First"})
	require.NoError(t, err)
	user, err := s.SaveIdea(ctx, models.BusinessIdea{ID: uuid.New(), Title: "Second"})
	require.NoError(t, err)

	require.Len(t, user.SavedIdeas, 2)
	assert.Equal(t, "Second", user.SavedIdeas[0].Idea.Title, "newest first")
}

func TestAccountService_SaveIdeaRequiresLogin(t *testing.T) {
	s := newTestAccountService(&memStore{})

	_, err := s.SaveIdea(context.Background(), models.BusinessIdea{Title: "X"})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestAccountService_DeleteSavedIdea(t *testing.T) {
	store := &memStore{}
	s := newTestAccountService(store)
	ctx := context.Background()

	_, err := s.Login(ctx, "maria@example.com")
	require.NoError(t, err)

	user, err := s.SaveIdea(ctx, models.BusinessIdea{ID: uuid.New(), Title: "Keep"})
	require.NoError(t, err)
	user, err = s.SaveIdea(ctx, models.BusinessIdea{ID: uuid.New(), Title: "Drop"})
	require.NoError(t, err)
	require.Len(t, user.SavedIdeas, 2)

	dropID := user.SavedIdeas[0].ID
	user, err = s.DeleteSavedIdea(ctx, dropID)
	require.NoError(t, err)
	require.Len(t, user.SavedIdeas, 1)
	assert.Equal(t, "Keep", user.SavedIdeas[0].Idea.Title)
}
