package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how the vehicle is going to be paid for
type PaymentMethod string

const (
	PaymentMethodCash      PaymentMethod = "CASH"
	PaymentMethodFinancing PaymentMethod = "FINANCING"
)

// ParsePaymentMethod converts user input ("cash", "Financing", ...) into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(upper(s)) {
	case PaymentMethodCash:
		return PaymentMethodCash, nil
	case PaymentMethodFinancing:
		return PaymentMethodFinancing, nil
	default:
		return "", NewValidationError("payment_method", "must be CASH or FINANCING")
	}
}

// GoalInput represents a purchase goal as submitted by the user
type GoalInput struct {
	AssetBasePrice    decimal.Decimal // Zero means "use the matching listing price"
	PaymentMethod     PaymentMethod
	DownPaymentTarget decimal.Decimal // CASH only
	MonthlySaving     decimal.Decimal // Required for CASH. Optional override of the baseline for FINANCING
	MaxMonthlyPayment decimal.Decimal // FINANCING only (EMI)
	MaxTermMonths     *int            // Optional, FINANCING only

	// Vehicle selection
	Model        string
	ModelYear    int
	IsNew        bool
	MaxMileage   int
	Manufacturer string // Depreciation class. Empty means the configured default
}

// Validate ensures the goal adheres to domain rules
// Returns a *ValidationError if validation fails
func (g *GoalInput) Validate() error {
	if g.AssetBasePrice.IsNegative() {
		return NewValidationError("asset_base_price", "cannot be negative")
	}

	switch g.PaymentMethod {
	case PaymentMethodCash:
		if g.MonthlySaving.LessThanOrEqual(decimal.Zero) {
			return NewValidationError("monthly_saving", "must be positive")
		}
		if g.DownPaymentTarget.LessThanOrEqual(decimal.Zero) {
			return NewValidationError("down_payment_target", "must be positive")
		}
	case PaymentMethodFinancing:
		if g.MaxMonthlyPayment.LessThanOrEqual(decimal.Zero) {
			return NewValidationError("max_monthly_payment", "must be positive")
		}
		// A zero saving falls back to the baseline, a negative one is never meaningful
		if g.MonthlySaving.IsNegative() {
			return NewValidationError("monthly_saving", "cannot be negative")
		}
		if g.MaxTermMonths != nil && *g.MaxTermMonths <= 0 {
			return NewValidationError("max_term_months", "must be positive when set")
		}
	default:
		return NewValidationError("payment_method", "must be CASH or FINANCING")
	}

	if g.MaxMileage < 0 {
		return NewValidationError("max_mileage", "cannot be negative")
	}

	return nil
}

// VehicleQuery builds the vehicle lookup for this goal
func (g *GoalInput) VehicleQuery() VehicleQuery {
	return VehicleQuery{
		IsNew:      g.IsNew,
		Model:      g.Model,
		ModelYear:  g.ModelYear,
		MaxMileage: g.MaxMileage,
	}
}

// GoalRecord is a goal as handed to the persistence collaborator
type GoalRecord struct {
	ID        uuid.UUID
	UserID    string
	Goal      GoalInput
	CreatedAt time.Time
}
