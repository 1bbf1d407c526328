package cashplan

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/timeline"
)

// Plan is the result of a flat savings race towards a fixed target
type Plan struct {
	MonthsNeeded int
	PurchaseDate time.Time
	Timeline     []domain.TimelinePoint
}

// Project computes the cash purchase plan
// Logic:
//  1. monthsNeeded = ceil(downPaymentTarget / monthlySaving)
//  2. Month i (0..monthsNeeded) holds i * monthlySaving
//  3. purchaseDate = today + monthsNeeded months
//
// No depreciation or interest is applied in this mode
func Project(input domain.GoalInput, today time.Time) (*Plan, error) {
	if input.MonthlySaving.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("monthly_saving", "must be positive")
	}
	if input.DownPaymentTarget.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("down_payment_target", "must be positive")
	}

	months := MonthsNeeded(input.DownPaymentTarget, input.MonthlySaving)

	points := timeline.Build(timeline.Phase{
		Anchor: today,
		Start:  decimal.Zero,
		Delta:  input.MonthlySaving,
		From:   0,
		To:     months,
	})

	return &Plan{
		MonthsNeeded: months,
		PurchaseDate: timeline.AddMonths(today, months),
		Timeline:     points,
	}, nil
}

// MonthsNeeded returns ceil(target / saving)
// saving must be positive
func MonthsNeeded(target, saving decimal.Decimal) int {
	// QuoRem keeps the division exact, Div would round at 16 digits
	q, r := target.QuoRem(saving, 0)
	months := q.IntPart()
	if r.IsPositive() {
		months++
	}
	return int(months)
}
