package models

import (
	"time"
)

// SubscriptionStatus represents the state of a user's subscription
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionNone     SubscriptionStatus = "none"
)

// DateLayout is the calendar-date format used for usage tracking. Daily
// limits compare dates, not instants.
const DateLayout = "2006-01-02"

// User represents a user account. Invariant: DailyUsageCount is only
// meaningful for the calendar date in LastGenerationDate; the usage gate
// resets it to 0 whenever that date is not today.
type User struct {
	Email              string             `json:"email"`
	Name               string             `json:"name"`
	IsPro              bool               `json:"is_pro"`
	LastGenerationDate string             `json:"last_generation_date"` // DateLayout
	DailyUsageCount    int                `json:"daily_usage_count"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	SavedIdeas         SavedIdeaList      `json:"saved_ideas"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// HasSavedIdeaTitled reports whether an idea with the given title is already
// saved. Saved ideas deduplicate on title, not ID.
func (u *User) HasSavedIdeaTitled(title string) bool {
	for _, saved := range u.SavedIdeas {
		if saved.Idea.Title == title {
			return true
		}
	}
	return false
}
