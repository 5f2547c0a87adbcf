package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"venturepath-backend/models"
)

// SlotName is the fixed key under which the one User record lives.
const SlotName = "venturepath_user"

// SchemaVersion tags the serialized payload so the slot format can evolve.
// A payload with an unknown version is treated as absent, not as an error.
const SchemaVersion = 1

// Store persists the authenticated user record in a single keyed slot.
// Load returns (nil, nil) when the slot is empty or its payload is
// unreadable; corruption is recovered as a logged-out session, never raised.
type Store interface {
	Load(ctx context.Context) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	Clear(ctx context.Context) error
}

// StoreType represents the session backend type
type StoreType string

const (
	StoreTypeFile     StoreType = "file"
	StoreTypePostgres StoreType = "postgres"
)

// StoreConfig holds configuration for the session store
type StoreConfig struct {
	Type        StoreType
	FilePath    string // for file storage
	DatabaseURL string // for postgres storage
}

// NewStore creates a session store based on configuration.
func NewStore(ctx context.Context, cfg StoreConfig) (Store, error) {
	switch cfg.Type {
	case StoreTypeFile:
		return NewFileStore(cfg.FilePath)
	case StoreTypePostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown session store type: %s", cfg.Type)
	}
}

// NewStoreFromEnv creates a session store from environment variables.
func NewStoreFromEnv(ctx context.Context) (Store, error) {
	storeType := os.Getenv("SESSION_STORE_TYPE")
	if storeType == "" {
		storeType = "file" // default to file for development
	}

	switch StoreType(storeType) {
	case StoreTypeFile:
		path := os.Getenv("SESSION_FILE_PATH")
		if path == "" {
			path = "./data/session.json"
		}
		return NewFileStore(path)

	case StoreTypePostgres:
		connString := os.Getenv("DATABASE_URL")
		if connString == "" {
			return nil, errors.New("DATABASE_URL environment variable is required for postgres session storage")
		}
		return NewPostgresStore(ctx, connString)

	default:
		return nil, fmt.Errorf("unknown session store type: %s", storeType)
	}
}

// envelope wraps the user payload with its schema version.
type envelope struct {
	SchemaVersion int          `json:"schema_version"`
	User          *models.User `json:"user"`
}

func encodeUser(user *models.User) ([]byte, error) {
	return json.Marshal(envelope{SchemaVersion: SchemaVersion, User: user})
}

// decodeUser reads a slot payload. Any unreadable or version-mismatched
// payload decodes to nil without error.
func decodeUser(data []byte) *models.User {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil
	}
	if env.SchemaVersion != SchemaVersion {
		return nil
	}
	return env.User
}
