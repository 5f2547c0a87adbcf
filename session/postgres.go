package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"venturepath-backend/models"
)

// PostgresStore implements Store on a session_slots table, for deployments
// where the session must survive the process.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and returns a session store.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

// NewPostgresStoreWithPool wraps an existing pool.
func NewPostgresStoreWithPool(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

// Load reads the slot. A missing row or unreadable payload is an absent
// session.
func (s *PostgresStore) Load(ctx context.Context) (*models.User, error) {
	query := `
		SELECT payload
		FROM session_slots
		WHERE slot_name = $1`

	var payload []byte
	err := s.db.QueryRow(ctx, query, SlotName).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session slot: %w", err)
	}

	user := decodeUser(payload)
	if user == nil {
		log.Printf("Warning: session slot %s is unreadable, treating as logged out", SlotName)
	}
	return user, nil
}

// Save upserts the slot.
func (s *PostgresStore) Save(ctx context.Context, user *models.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	query := `
		INSERT INTO session_slots (slot_name, schema_version, payload, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (slot_name) DO UPDATE SET
			schema_version = $2,
			payload = $3,
			updated_at = NOW()`

	_, err = s.db.Exec(ctx, query, SlotName, SchemaVersion, data)
	if err != nil {
		return fmt.Errorf("failed to save session slot: %w", err)
	}

	return nil
}

// Clear deletes the slot.
func (s *PostgresStore) Clear(ctx context.Context) error {
	query := `DELETE FROM session_slots WHERE slot_name = $1`
	_, err := s.db.Exec(ctx, query, SlotName)
	if err != nil {
		return fmt.Errorf("failed to clear session slot: %w", err)
	}

	return nil
}
