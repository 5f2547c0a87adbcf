package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BusinessIdea is one generated idea. Instances are read-only once returned
// by the generation boundary.
type BusinessIdea struct {
	ID                      uuid.UUID `json:"id"`
	Title                   string    `json:"title"`
	OneLiner                string    `json:"one_liner"`
	Reasoning               string    `json:"reasoning"`
	DifficultyScore         int       `json:"difficulty_score"` // 1-10
	EstimatedStartupCost    string    `json:"estimated_startup_cost"`
	PotentialMonthlyRevenue string    `json:"potential_monthly_revenue"`
	Tags                    []string  `json:"tags"`
	RecommendedPlatform     string    `json:"recommended_platform"`
}

// SavedIdea is a BusinessIdea pinned to a user's account
type SavedIdea struct {
	ID      uuid.UUID    `json:"id"`
	SavedAt time.Time    `json:"saved_at"`
	Idea    BusinessIdea `json:"idea"`
}

// SavedIdeaList represents a user's saved ideas, newest first
type SavedIdeaList []SavedIdea

// Value implements driver.Valuer for JSONB
func (l SavedIdeaList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB
func (l *SavedIdeaList) Scan(value interface{}) error {
	if value == nil {
		*l = make(SavedIdeaList, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		*l = make(SavedIdeaList, 0)
		return nil
	}

	if len(bytes) == 0 {
		*l = make(SavedIdeaList, 0)
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// ChatRole identifies who authored a chat message
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn in a consultation. The sequence is append-only and
// scoped to a single session; it is never persisted.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
