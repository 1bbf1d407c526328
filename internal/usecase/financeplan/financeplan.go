package financeplan

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

const (
	PhaseAccumulation = "accumulation"
	PhaseAmortization = "amortization"

	// DefaultMaxHorizonMonths caps each simulation phase (50 years)
	DefaultMaxHorizonMonths = 600

	// Intermediate prices are rounded to this many decimal places each month
	// so repeated multiplication does not grow the decimal without bound
	pricePrecision = 10
)

// Params holds the financing policy
type Params struct {
	AnnualInterestRate  decimal.Decimal // Applied once to the price, not compounded over the term
	DownPaymentFraction decimal.Decimal
	BufferMonths        decimal.Decimal // Months of expenses kept liquid on top of the down payment
	MaxHorizonMonths    int
}

// DefaultParams returns the standard policy: 10% interest, 20% down, 2 months of buffer
func DefaultParams() Params {
	return Params{
		AnnualInterestRate:  decimal.RequireFromString("0.10"),
		DownPaymentFraction: decimal.RequireFromString("0.20"),
		BufferMonths:        decimal.NewFromInt(2),
		MaxHorizonMonths:    DefaultMaxHorizonMonths,
	}
}

// Input is everything a financed simulation depends on
type Input struct {
	AssetPrice              decimal.Decimal
	Baseline                domain.FinancialBaseline
	MonthlySaving           decimal.Decimal // Net monthly saving used in both phases
	EMI                     decimal.Decimal
	MonthlyDepreciationRate decimal.Decimal // Fraction, 0.005 = 0.5% per month
	MaxTermMonths           *int
	Params                  Params
}

// Plan is the outcome of both simulation phases
type Plan struct {
	MonthsToPurchase    int
	MonthsAfterPurchase int

	InitialSavings      decimal.Decimal
	MonthlySaving       decimal.Decimal
	EMI                 decimal.Decimal
	FinalAssetPrice     decimal.Decimal // Depreciated price in the purchase month
	FinancedPrice       decimal.Decimal // FinalAssetPrice with interest applied
	DownPayment         decimal.Decimal
	RequiredSavings     decimal.Decimal // DownPayment + buffer at the purchase month
	SavingsAtPurchase   decimal.Decimal // Before the down payment is paid
	LoanPrincipal       decimal.Decimal
	PostPurchaseSavings decimal.Decimal // Right after the down payment is paid
	FinalLoanBalance    decimal.Decimal // <= 0
	FinalSavings        decimal.Decimal
	TotalFinancedCost   decimal.Decimal
	ExceedsMaxTerm      bool
}

// Simulate runs the accumulation phase followed by the amortization phase
// Logic:
//
//	Phase A (accumulation), month by month:
//	  savings += monthlySaving
//	  price *= (1 - depreciation)
//	  financed = price * (1 + interest)
//	  downPayment = fraction * financed
//	  stop on the first month where savings >= downPayment + bufferMonths * expense
//	Phase B (amortization):
//	  loan = financed - downPayment; savings -= downPayment
//	  each month: savings += monthlySaving - emi; loan -= emi; stop when loan <= 0
//
// Each phase is capped at MaxHorizonMonths and returns *domain.ProjectionDivergedError past it
func Simulate(in Input) (*Plan, error) {
	if in.EMI.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("max_monthly_payment", "must be positive")
	}
	if in.AssetPrice.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("asset_base_price", "must be positive")
	}

	maxMonths := in.Params.MaxHorizonMonths
	if maxMonths <= 0 {
		maxMonths = DefaultMaxHorizonMonths
	}

	plan := &Plan{
		InitialSavings: in.Baseline.CurrentSavings,
		MonthlySaving:  in.MonthlySaving,
		EMI:            in.EMI,
	}

	if err := accumulate(in, maxMonths, plan); err != nil {
		return nil, err
	}
	if err := amortize(in, maxMonths, plan); err != nil {
		return nil, err
	}

	plan.TotalFinancedCost = plan.DownPayment.Add(in.EMI.Mul(decimal.NewFromInt(int64(plan.MonthsAfterPurchase))))
	if in.MaxTermMonths != nil && plan.MonthsAfterPurchase > *in.MaxTermMonths {
		plan.ExceedsMaxTerm = true
	}

	return plan, nil
}

func accumulate(in Input, maxMonths int, plan *Plan) error {
	one := decimal.NewFromInt(1)
	decay := one.Sub(in.MonthlyDepreciationRate)
	interest := one.Add(in.Params.AnnualInterestRate)
	buffer := in.Params.BufferMonths.Mul(in.Baseline.AverageMonthlyExpense)

	savings := in.Baseline.CurrentSavings
	price := in.AssetPrice

	for month := 1; month <= maxMonths; month++ {
		savings = savings.Add(in.MonthlySaving)
		price = price.Mul(decay).Round(pricePrecision)
		financed := price.Mul(interest)
		downPayment := in.Params.DownPaymentFraction.Mul(financed)
		required := downPayment.Add(buffer)

		if savings.GreaterThanOrEqual(required) {
			plan.MonthsToPurchase = month
			plan.FinalAssetPrice = price
			plan.FinancedPrice = financed
			plan.DownPayment = downPayment
			plan.RequiredSavings = required
			plan.SavingsAtPurchase = savings
			return nil
		}
	}

	return &domain.ProjectionDivergedError{Phase: PhaseAccumulation, Months: maxMonths}
}

func amortize(in Input, maxMonths int, plan *Plan) error {
	loan := plan.FinancedPrice.Sub(plan.DownPayment)
	savings := plan.SavingsAtPurchase.Sub(plan.DownPayment)

	plan.LoanPrincipal = loan
	plan.PostPurchaseSavings = savings

	net := in.MonthlySaving.Sub(in.EMI)
	month := 0
	for loan.IsPositive() {
		if month == maxMonths {
			return &domain.ProjectionDivergedError{Phase: PhaseAmortization, Months: maxMonths}
		}
		savings = savings.Add(net)
		loan = loan.Sub(in.EMI)
		month++
	}

	plan.MonthsAfterPurchase = month
	plan.FinalLoanBalance = loan
	plan.FinalSavings = savings
	return nil
}
