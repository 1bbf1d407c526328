package api

import (
	"github.com/shopspring/decimal"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// LoginRequest is the body of a login call
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token string `json:"token"`
}

// GoalRequest is the body of a projection call
// Amounts may be sent as JSON numbers or strings
type GoalRequest struct {
	PaymentMethod string          `json:"payment_method"`
	CarPrice      decimal.Decimal `json:"car_price"`
	DownPayment   decimal.Decimal `json:"down_payment"`
	MonthlySaving decimal.Decimal `json:"monthly_saving"`
	MaxEMI        decimal.Decimal `json:"max_emi"`
	MaxTerm       *int            `json:"max_term,omitempty"`
	Model         string          `json:"model"`
	Year          int             `json:"year"`
	IsNew         bool            `json:"is_new"`
	MaxMileage    int             `json:"max_mileage"`
	Manufacturer  string          `json:"manufacturer,omitempty"`
}

// ToGoal converts the request into a domain goal
func (r GoalRequest) ToGoal() (domain.GoalInput, error) {
	method, err := domain.ParsePaymentMethod(r.PaymentMethod)
	if err != nil {
		return domain.GoalInput{}, err
	}

	return domain.GoalInput{
		AssetBasePrice:    r.CarPrice,
		PaymentMethod:     method,
		DownPaymentTarget: r.DownPayment,
		MonthlySaving:     r.MonthlySaving,
		MaxMonthlyPayment: r.MaxEMI,
		MaxTermMonths:     r.MaxTerm,
		Model:             r.Model,
		ModelYear:         r.Year,
		IsNew:             r.IsNew,
		MaxMileage:        r.MaxMileage,
		Manufacturer:      r.Manufacturer,
	}, nil
}

type TimelinePoint struct {
	Date    string          `json:"date"`
	Savings decimal.Decimal `json:"savings"`
}

type Baseline struct {
	AverageMonthlyIncome  decimal.Decimal `json:"average_monthly_income"`
	AverageMonthlyExpense decimal.Decimal `json:"average_monthly_expense"`
	CurrentSavings        decimal.Decimal `json:"current_savings"`
}

// ProjectionResponse is the result of a projection call
type ProjectionResponse struct {
	PaymentMethod           string          `json:"payment_method"`
	EstimatedDate           string          `json:"estimated_date"`
	PayoffDate              string          `json:"payoff_date,omitempty"`
	MonthsToPurchase        int             `json:"months_to_purchase"`
	PaymentPeriod           int             `json:"payment_period"`
	DownPayment             decimal.Decimal `json:"down_payment"`
	CarPrice                decimal.Decimal `json:"car_price"`
	ResolvedPrice           decimal.Decimal `json:"resolved_price"`
	MonthlyPayment          decimal.Decimal `json:"monthly_payment"`
	TotalCost               decimal.Decimal `json:"total_cost"`
	ExceedsMaxTerm          bool            `json:"exceeds_max_term"`
	Promotion               bool            `json:"promotion"`
	MonthlyDepreciationRate decimal.Decimal `json:"monthly_depreciation_rate"`
	Baseline                *Baseline       `json:"baseline,omitempty"`
	TimeChart               []TimelinePoint `json:"time_chart"`
}

// NewProjectionResponse converts a domain result for the wire
func NewProjectionResponse(r *domain.ProjectionResult) ProjectionResponse {
	resp := ProjectionResponse{
		PaymentMethod:           string(r.PaymentMethod),
		EstimatedDate:           r.PurchaseDate.Format(dateLayout),
		MonthsToPurchase:        r.MonthsToPurchase,
		PaymentPeriod:           r.MonthsAfterPurchase,
		DownPayment:             r.DownPayment,
		CarPrice:                r.FinalAssetPrice,
		ResolvedPrice:           r.ResolvedPrice,
		MonthlyPayment:          r.MonthlyPayment,
		TotalCost:               r.TotalFinancedCost,
		ExceedsMaxTerm:          r.ExceedsMaxTerm,
		Promotion:               r.PromotionAvailable,
		MonthlyDepreciationRate: r.MonthlyDepreciationRate,
		TimeChart:               make([]TimelinePoint, 0, len(r.Timeline)),
	}
	if r.PayoffDate != nil {
		resp.PayoffDate = r.PayoffDate.Format(dateLayout)
	}
	if r.Baseline != nil {
		resp.Baseline = &Baseline{
			AverageMonthlyIncome:  r.Baseline.AverageMonthlyIncome,
			AverageMonthlyExpense: r.Baseline.AverageMonthlyExpense,
			CurrentSavings:        r.Baseline.CurrentSavings,
		}
	}
	for _, p := range r.Timeline {
		resp.TimeChart = append(resp.TimeChart, TimelinePoint{
			Date:    p.Date.Format(dateLayout),
			Savings: p.Savings,
		})
	}
	return resp
}

// PromotionResponse answers a promotion check
type PromotionResponse struct {
	Model     string `json:"model"`
	Promotion bool   `json:"promotion"`
}

// ErrorResponse is returned with every non-2xx HTTP status
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
