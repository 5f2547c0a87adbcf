package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"venturepath-backend/models"
	"venturepath-backend/session"
)

var (
	ErrSessionStoreNotSet = errors.New("session store not set")
	ErrNotAuthenticated   = errors.New("no authenticated user")
)

// AccountService handles the account lifecycle over the session slot: login,
// logout, subscription upgrades, and the saved-idea list.
//
// Identity is email-only with no password verification. That mirrors the
// product's prototype policy; hardening it is a stakeholder decision, not a
// code decision (see DESIGN.md).
type AccountService struct {
	store session.Store
	now   func() time.Time
}

// AccountServiceOption is a functional option for AccountService
type AccountServiceOption func(*AccountService)

// WithSessionStore sets the session store
func WithSessionStore(store session.Store) AccountServiceOption {
	return func(s *AccountService) {
		s.store = store
	}
}

// WithAccountClock overrides the clock, for tests
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *AccountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service
func NewAccountService(opts ...AccountServiceOption) *AccountService {
	s := &AccountService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the authenticated user, or nil when logged out.
func (s *AccountService) Current(ctx context.Context) (*models.User, error) {
	if s.store == nil {
		return nil, ErrSessionStoreNotSet
	}
	return s.store.Load(ctx)
}

// Login authenticates by email. If the stored record matches the email it is
// reused; otherwise a fresh account with zero usage and no saved ideas
// replaces it.
func (s *AccountService) Login(ctx context.Context, email string) (*models.User, error) {
	if s.store == nil {
		return nil, ErrSessionStoreNotSet
	}

	user, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	if user == nil || user.Email != email {
		now := s.now()
		name := email
		if at := strings.Index(email, "@"); at > 0 {
			name = email[:at]
		}
		user = &models.User{
			Email:              email,
			Name:               name,
			IsPro:              false,
			LastGenerationDate: now.Format(models.DateLayout),
			DailyUsageCount:    0,
			SubscriptionStatus: models.SubscriptionNone,
			SavedIdeas:         models.SavedIdeaList{},
			CreatedAt:          now,
			UpdatedAt:          now,
		}
	}

	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Logout clears the session slot. Account data in the slot is discarded with
// it; this persistence model keeps no records beyond the slot.
func (s *AccountService) Logout(ctx context.Context) error {
	if s.store == nil {
		return ErrSessionStoreNotSet
	}
	return s.store.Clear(ctx)
}

// UpgradeToPro flips the Pro flag and persists.
func (s *AccountService) UpgradeToPro(ctx context.Context) (*models.User, error) {
	if s.store == nil {
		return nil, ErrSessionStoreNotSet
	}

	user, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	user.IsPro = true
	user.SubscriptionStatus = models.SubscriptionActive
	user.UpdatedAt = s.now()

	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SaveIdea pins an idea to the front of the user's saved list. Saving a
// title that is already present is a no-op, so saving twice yields one
// entry. Requires an authenticated session.
func (s *AccountService) SaveIdea(ctx context.Context, idea models.BusinessIdea) (*models.User, error) {
	if s.store == nil {
		return nil, ErrSessionStoreNotSet
	}

	user, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	if user.HasSavedIdeaTitled(idea.Title) {
		return user, nil
	}

	saved := models.SavedIdea{
		ID:      uuid.New(),
		SavedAt: s.now(),
		Idea:    idea,
	}
	user.SavedIdeas = append(models.SavedIdeaList{saved}, user.SavedIdeas...)
	user.UpdatedAt = s.now()

	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteSavedIdea removes a saved idea by its save ID.
func (s *AccountService) DeleteSavedIdea(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.store == nil {
		return nil, ErrSessionStoreNotSet
	}

	user, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	kept := make(models.SavedIdeaList, 0, len(user.SavedIdeas))
	for _, saved := range user.SavedIdeas {
		if saved.ID != id {
			kept = append(kept, saved)
		}
	}
	user.SavedIdeas = kept
	user.UpdatedAt = s.now()

	if err := s.store.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
