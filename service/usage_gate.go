package service

import (
	"context"
	"time"

	"venturepath-backend/models"
	"venturepath-backend/session"
)

// UsageGate decides whether a generation request is permitted.
//
// Policy: guests (nil user) get exactly one generation per gate instance,
// tracked in memory only, so the free trial does not survive a new session.
// Authenticated non-Pro users get one generation per calendar day;
// the count resets whenever the stored date is not today. Pro users always
// pass.
//
// A gate is scoped to one session, same as the wizard controller.
type UsageGate struct {
	store     session.Store
	now       func() time.Time
	guestUsed bool
}

// UsageGateOption is a functional option for UsageGate
type UsageGateOption func(*UsageGate)

// GateWithSessionStore sets the store used to persist the daily-count reset
func GateWithSessionStore(store session.Store) UsageGateOption {
	return func(g *UsageGate) {
		g.store = store
	}
}

// GateWithClock overrides the clock, for tests
func GateWithClock(now func() time.Time) UsageGateOption {
	return func(g *UsageGate) {
		g.now = now
	}
}

// NewUsageGate creates a new usage gate
func NewUsageGate(opts ...UsageGateOption) *UsageGate {
	g := &UsageGate{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CanGenerate reports whether the caller may generate. It never consumes an
// attempt, so repeated calls yield the same answer until RecordGeneration
// runs. A stale calendar date is reset and persisted here.
func (g *UsageGate) CanGenerate(ctx context.Context, user *models.User) (bool, error) {
	if user == nil {
		return !g.guestUsed, nil
	}

	if user.IsPro {
		return true, nil
	}

	today := g.now().Format(models.DateLayout)
	if user.LastGenerationDate != today {
		user.LastGenerationDate = today
		user.DailyUsageCount = 0
		if g.store != nil {
			if err := g.store.Save(ctx, user); err != nil {
				return false, err
			}
		}
		return true, nil
	}

	return user.DailyUsageCount < 1, nil
}

// RecordGeneration consumes one generation. Call it only after the boundary
// call succeeded.
func (g *UsageGate) RecordGeneration(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		g.guestUsed = true
		return nil, nil
	}

	user.DailyUsageCount++
	user.LastGenerationDate = g.now().Format(models.DateLayout)
	user.UpdatedAt = g.now()

	if g.store != nil {
		if err := g.store.Save(ctx, user); err != nil {
			return nil, err
		}
	}

	return user, nil
}
