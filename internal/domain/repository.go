package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// VehicleRepository defines the interface for the vehicle data source
type VehicleRepository interface {
	// QueryVehicles returns listings matching the query
	// An empty result is a valid answer, not an error
	QueryVehicles(ctx context.Context, q VehicleQuery) ([]VehicleListing, error)

	// ListPriceHistory returns historical price observations for a manufacturer
	ListPriceHistory(ctx context.Context, manufacturer string) ([]PriceRecord, error)
}

// TransactionRepository defines the interface for the transaction history source
type TransactionRepository interface {
	// ListMonthly retrieves all categorized transactions with a non-null amount
	ListMonthly(ctx context.Context) ([]MonthlyTransaction, error)
}

// GoalRepository defines the interface for goal persistence
type GoalRepository interface {
	// Save stores a goal. Callers do not depend on its success
	Save(ctx context.Context, record *GoalRecord) error
}

// CredentialRepository defines the interface for the credential store
type CredentialRepository interface {
	// GetPasswordHash returns the bcrypt hash for a username
	// Returns an error wrapping ErrNotFound if the user does not exist
	GetPasswordHash(ctx context.Context, username string) (string, error)

	// Upsert creates or replaces the hash for a username
	Upsert(ctx context.Context, username, passwordHash string) error
}

// Cache is a string key/value cache with expiry
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Notifier delivers promotion alerts
type Notifier interface {
	NotifyPromotion(ctx context.Context, model string) error
}

// InterestRateProvider supplies the annual financing rate as a fraction (0.10 = 10%)
type InterestRateProvider interface {
	AnnualRate(ctx context.Context) (decimal.Decimal, error)
}
