package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

// credentialRepository implements domain.CredentialRepository
type credentialRepository struct {
	db *DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *DB) domain.CredentialRepository {
	return &credentialRepository{db: db}
}

// GetPasswordHash retrieves the bcrypt hash of a user
func (r *credentialRepository) GetPasswordHash(ctx context.Context, username string) (string, error) {
	query := `SELECT password_hash FROM credentials WHERE username = $1`

	var hash string
	err := r.db.QueryRowContext(ctx, query, username).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get credentials: %w", err)
	}

	return hash, nil
}

// Upsert creates or replaces the hash of a user
func (r *credentialRepository) Upsert(ctx context.Context, username, passwordHash string) error {
	query := `
		INSERT INTO credentials (username, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`

	if _, err := r.db.ExecContext(ctx, query, username, passwordHash); err != nil {
		return fmt.Errorf("failed to upsert credentials: %w", err)
	}

	return nil
}
