package session

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"venturepath-backend/models"
)

// FileStore implements Store on a local JSON file, the single-device setup.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed session store.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	return &FileStore{path: path}, nil
}

// Load reads the slot. A missing or unreadable file is an absent session.
func (s *FileStore) Load(ctx context.Context) (*models.User, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	user := decodeUser(data)
	if user == nil {
		log.Printf("Warning: session file %s is unreadable, treating as logged out", s.path)
	}
	return user, nil
}

// Save writes the slot.
func (s *FileStore) Save(ctx context.Context, user *models.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Clear removes the slot.
func (s *FileStore) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session file: %w", err)
	}

	return nil
}
