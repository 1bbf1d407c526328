package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

// DefaultTokenTTL is how long an issued token stays valid
const DefaultTokenTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials is returned for an unknown user or a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a bearer token cannot be verified
	ErrInvalidToken = errors.New("invalid token")
)

// AuthService issues and verifies bearer tokens for the planner API
type AuthService struct {
	CredentialRepo domain.CredentialRepository
	Secret         []byte
	TokenTTL       time.Duration
	Now            func() time.Time
	Log            *logrus.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(credentialRepo domain.CredentialRepository, secret string, log *logrus.Logger) *AuthService {
	return &AuthService{
		CredentialRepo: credentialRepo,
		Secret:         []byte(secret),
		TokenTTL:       DefaultTokenTTL,
		Now:            time.Now,
		Log:            log,
	}
}

// Login checks the password against the stored bcrypt hash and returns a signed HS256 token
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.NewValidationError("credentials", "username and password are required")
	}

	hash, err := s.CredentialRepo.GetPasswordHash(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.Log.WithField("username", username).WithError(err).Error("Credential lookup failed")
			return "", fmt.Errorf("failed to load credentials: %w", err)
		}
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		s.Log.WithField("username", username).Info("Rejected login")
		return "", ErrInvalidCredentials
	}

	now := s.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.TokenTTL)),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.Log.WithField("username", username).Info("User logged in")
	return signed, nil
}

// VerifyToken validates a token and returns the username it was issued to
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.Now),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// HashPassword returns the bcrypt hash stored for a password
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
