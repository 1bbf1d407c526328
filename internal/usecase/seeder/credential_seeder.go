package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/auth"
)

// DefaultUser defines a login that must exist when the service starts
type DefaultUser struct {
	Username string
	Password string
}

// CredentialSeeder handles seeding of the default logins
type CredentialSeeder struct {
	repo domain.CredentialRepository
}

// NewCredentialSeeder creates a new CredentialSeeder instance
func NewCredentialSeeder(repo domain.CredentialRepository) *CredentialSeeder {
	return &CredentialSeeder{
		repo: repo,
	}
}

// Seed ensures every default user exists in the credential store
// Existing users keep their current password
func (s *CredentialSeeder) Seed(ctx context.Context, users ...DefaultUser) error {
	for _, user := range users {
		if user.Username == "" || user.Password == "" {
			return domain.NewValidationError("default_user", "username and password are required")
		}

		_, err := s.repo.GetPasswordHash(ctx, user.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("failed to look up user %s: %w", user.Username, err)
		}

		hash, err := auth.HashPassword(user.Password)
		if err != nil {
			return err
		}
		if err := s.repo.Upsert(ctx, user.Username, hash); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.Username, err)
		}
	}

	return nil
}
