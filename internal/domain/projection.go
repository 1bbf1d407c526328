package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimelinePoint is one dated snapshot of cumulative savings
type TimelinePoint struct {
	Date    time.Time
	Savings decimal.Decimal
}

// ProjectionResult is the unified envelope returned for both payment methods
// Fields marked FINANCING are zero for cash plans
type ProjectionResult struct {
	PaymentMethod       PaymentMethod
	Timeline            []TimelinePoint
	PurchaseDate        time.Time
	PayoffDate          *time.Time // FINANCING
	MonthsToPurchase    int
	MonthsAfterPurchase int // FINANCING
	DownPayment         decimal.Decimal
	FinalAssetPrice     decimal.Decimal
	MonthlyPayment      decimal.Decimal // FINANCING
	TotalFinancedCost   decimal.Decimal // FINANCING
	ExceedsMaxTerm      bool            // FINANCING

	ResolvedPrice           decimal.Decimal
	PromotionAvailable      bool
	Baseline                *FinancialBaseline // FINANCING
	MonthlyDepreciationRate decimal.Decimal    // FINANCING
}
