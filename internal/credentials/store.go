package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/database"
)

// Service is the credential namespace used by the driver for Kasa cloud
// accounts. Stored entries use the keys "email" and "password".
const Service = "kasa-alpaca"

// Well-known credential keys under Service.
const (
	KeyEmail    = "email"
	KeyPassword = "password"
)

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
    service    TEXT NOT NULL,
    key        TEXT NOT NULL,
    value      TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (service, key)
);
`

// Store persists credentials in the driver's SQLite database.
//
// Values are stored in plain text; the database file itself is created
// with owner-only permissions, which matches the trust model of a
// single-user observatory machine.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Store struct {
	db *database.DB
}

// NewStore creates a credential store backed by db, creating the
// credentials table if it does not exist.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Open database connection
//
// Returns:
//   - *Store: Ready store
//   - error: If schema creation fails
func NewStore(ctx context.Context, db *database.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating credentials table: %w", err)
	}
	return &Store{db: db}, nil
}

// Set stores or replaces a credential value.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - service: Credential namespace (use Service for driver credentials)
//   - key: Credential key within the namespace
//   - value: Credential value
//
// Returns:
//   - error: ErrEmptyKey if service or key is empty, or a database error
func (s *Store) Set(ctx context.Context, service, key, value string) error {
	if service == "" || key == "" {
		return ErrEmptyKey
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (service, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (service, key) DO UPDATE SET
		     value = excluded.value,
		     updated_at = excluded.updated_at`,
		service, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing credential %s/%s: %w", service, key, err)
	}
	return nil
}

// Get retrieves a credential value.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - service: Credential namespace
//   - key: Credential key within the namespace
//
// Returns:
//   - string: The stored value
//   - error: ErrNotFound if no entry exists, or a database error
func (s *Store) Get(ctx context.Context, service, key string) (string, error) {
	if service == "" || key == "" {
		return "", ErrEmptyKey
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM credentials WHERE service = ? AND key = ?",
		service, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading credential %s/%s: %w", service, key, err)
	}
	return value, nil
}

// Delete removes a credential. Deleting a missing entry is not an error.
func (s *Store) Delete(ctx context.Context, service, key string) error {
	if service == "" || key == "" {
		return ErrEmptyKey
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM credentials WHERE service = ? AND key = ?",
		service, key,
	)
	if err != nil {
		return fmt.Errorf("deleting credential %s/%s: %w", service, key, err)
	}
	return nil
}

// CloudAccount returns the stored Kasa cloud email and password.
//
// Returns:
//   - email, password: Stored values
//   - error: ErrNotFound if either entry is missing
func (s *Store) CloudAccount(ctx context.Context) (email, password string, err error) {
	email, err = s.Get(ctx, Service, KeyEmail)
	if err != nil {
		return "", "", err
	}
	password, err = s.Get(ctx, Service, KeyPassword)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// SetCloudAccount stores the Kasa cloud email and password.
func (s *Store) SetCloudAccount(ctx context.Context, email, password string) error {
	if err := s.Set(ctx, Service, KeyEmail, email); err != nil {
		return err
	}
	return s.Set(ctx, Service, KeyPassword, password)
}
