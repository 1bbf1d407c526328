package projection

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/observability"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/cashplan"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/financeplan"
	"github.com/simaogato/vehicleplan-backend/internal/usecase/timeline"
)

const (
	sourceVehicles     = "vehicles"
	sourceInterestRate = "interest_rate"

	// DefaultManufacturer is the depreciation class used when the goal names none
	DefaultManufacturer = "mercedes-benz"

	// DefaultPromotionModelYear is the model year checked for new-vehicle promotions
	DefaultPromotionModelYear = 2025
)

// BaselineProvider supplies the financial baseline, never failing
type BaselineProvider interface {
	Current(ctx context.Context) domain.FinancialBaseline
}

// DepreciationProvider supplies the monthly depreciation fraction, never failing
type DepreciationProvider interface {
	MonthlyRate(ctx context.Context, manufacturer string) decimal.Decimal
}

// ProjectionService selects cash or financed mode and returns the unified result
type ProjectionService struct {
	VehicleRepo   domain.VehicleRepository
	GoalRepo      domain.GoalRepository // Optional
	Baselines     BaselineProvider
	Depreciation  DepreciationProvider
	InterestRates domain.InterestRateProvider // Optional, Params.AnnualInterestRate otherwise

	Params              financeplan.Params
	DefaultManufacturer string
	PromotionModelYear  int
	Timeout             time.Duration // Per collaborator call
	Now                 func() time.Time

	Log     *logrus.Logger
	Metrics observability.Recorder
}

// NewProjectionService creates a new ProjectionService instance with default policy
func NewProjectionService(
	vehicleRepo domain.VehicleRepository,
	goalRepo domain.GoalRepository,
	baselines BaselineProvider,
	depreciation DepreciationProvider,
	log *logrus.Logger,
) *ProjectionService {
	return &ProjectionService{
		VehicleRepo:         vehicleRepo,
		GoalRepo:            goalRepo,
		Baselines:           baselines,
		Depreciation:        depreciation,
		Params:              financeplan.DefaultParams(),
		DefaultManufacturer: DefaultManufacturer,
		PromotionModelYear:  DefaultPromotionModelYear,
		Now:                 time.Now,
		Log:                 log,
		Metrics:             observability.Nop(),
	}
}

// Project computes the purchase plan for a goal
// Logic:
//  1. Validate the goal (fails fast with *domain.ValidationError)
//  2. Resolve the vehicle: listings, promotion flag, price
//  3. Dispatch to the cash or financed projector
//  4. Persist the goal (failure is logged, never returned)
//
// userID is only used for persistence
func (s *ProjectionService) Project(ctx context.Context, userID string, input domain.GoalInput) (*domain.ProjectionResult, error) {
	started := time.Now()

	result, err := s.project(ctx, input)
	s.Metrics.RecordProjection(string(input.PaymentMethod), outcome(err), time.Since(started))
	if err != nil {
		s.Log.WithFields(logrus.Fields{
			"method": input.PaymentMethod,
			"model":  input.Model,
		}).WithError(err).Info("Projection rejected")
		return nil, err
	}

	s.saveGoal(ctx, userID, input)

	s.Log.WithFields(logrus.Fields{
		"method":        result.PaymentMethod,
		"model":         input.Model,
		"purchase_date": result.PurchaseDate.Format("2006-01-02"),
		"months":        result.MonthsToPurchase,
	}).Info("Projection computed")
	return result, nil
}

func (s *ProjectionService) project(ctx context.Context, input domain.GoalInput) (*domain.ProjectionResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	today := timeline.StartOfDay(s.Now())
	listings := s.findListings(ctx, input.VehicleQuery())

	resolved := input.AssetBasePrice
	if !resolved.IsPositive() && len(listings) > 0 {
		resolved = listings[0].Price
	}

	var (
		result *domain.ProjectionResult
		err    error
	)
	switch input.PaymentMethod {
	case domain.PaymentMethodCash:
		result, err = s.projectCash(input, resolved, today)
	default:
		result, err = s.projectFinanced(ctx, input, resolved, today)
	}
	if err != nil {
		return nil, err
	}

	result.ResolvedPrice = resolved
	result.PromotionAvailable = domain.AnyPromotion(listings)
	return result, nil
}

func (s *ProjectionService) projectCash(input domain.GoalInput, resolved decimal.Decimal, today time.Time) (*domain.ProjectionResult, error) {
	plan, err := cashplan.Project(input, today)
	if err != nil {
		return nil, err
	}

	return &domain.ProjectionResult{
		PaymentMethod:    domain.PaymentMethodCash,
		Timeline:         plan.Timeline,
		PurchaseDate:     plan.PurchaseDate,
		MonthsToPurchase: plan.MonthsNeeded,
		DownPayment:      input.DownPaymentTarget,
		FinalAssetPrice:  resolved,
	}, nil
}

func (s *ProjectionService) projectFinanced(ctx context.Context, input domain.GoalInput, resolved decimal.Decimal, today time.Time) (*domain.ProjectionResult, error) {
	if !resolved.IsPositive() {
		return nil, domain.NewValidationError("asset_base_price", "must be positive or match a vehicle listing")
	}

	baseline := s.Baselines.Current(ctx)
	saving := input.MonthlySaving
	if !saving.IsPositive() {
		saving = baseline.AverageMonthlySaving()
	}

	manufacturer := input.Manufacturer
	if manufacturer == "" {
		manufacturer = s.DefaultManufacturer
	}
	rate := s.Depreciation.MonthlyRate(ctx, manufacturer)

	plan, err := financeplan.Simulate(financeplan.Input{
		AssetPrice:              resolved,
		Baseline:                baseline,
		MonthlySaving:           saving,
		EMI:                     input.MaxMonthlyPayment,
		MonthlyDepreciationRate: rate,
		MaxTermMonths:           input.MaxTermMonths,
		Params:                  s.params(ctx),
	})
	if err != nil {
		return nil, err
	}

	purchaseDate := timeline.AddMonths(today, plan.MonthsToPurchase)
	payoffDate := timeline.AddMonths(purchaseDate, plan.MonthsAfterPurchase)

	points := timeline.Build(
		timeline.Phase{
			Anchor: today,
			Start:  plan.InitialSavings,
			Delta:  saving,
			From:   0,
			To:     plan.MonthsToPurchase,
		},
		timeline.Phase{
			Anchor: purchaseDate,
			Start:  plan.PostPurchaseSavings,
			Delta:  saving.Sub(plan.EMI),
			From:   1,
			To:     plan.MonthsAfterPurchase,
		},
	)

	return &domain.ProjectionResult{
		PaymentMethod:           domain.PaymentMethodFinancing,
		Timeline:                points,
		PurchaseDate:            purchaseDate,
		PayoffDate:              &payoffDate,
		MonthsToPurchase:        plan.MonthsToPurchase,
		MonthsAfterPurchase:     plan.MonthsAfterPurchase,
		DownPayment:             plan.DownPayment,
		FinalAssetPrice:         plan.FinalAssetPrice,
		MonthlyPayment:          plan.EMI,
		TotalFinancedCost:       plan.TotalFinancedCost,
		ExceedsMaxTerm:          plan.ExceedsMaxTerm,
		Baseline:                &baseline,
		MonthlyDepreciationRate: rate,
	}, nil
}

// CheckPromotions reports whether any new, zero-mileage vehicle of the model is on promotion
// Data source failures are logged and reported as "no promotion"
func (s *ProjectionService) CheckPromotions(ctx context.Context, model string) (bool, error) {
	if model == "" {
		return false, domain.NewValidationError("model", "cannot be empty")
	}

	listings := s.findListings(ctx, domain.VehicleQuery{
		IsNew:      true,
		Model:      model,
		ModelYear:  s.PromotionModelYear,
		MaxMileage: 0,
	})
	found := domain.AnyPromotion(listings)
	s.Metrics.RecordPromotionCheck(model, found)
	return found, nil
}

// findListings queries the vehicle source; failures degrade to "no listings"
func (s *ProjectionService) findListings(ctx context.Context, q domain.VehicleQuery) []domain.VehicleListing {
	if q.Model == "" {
		return nil
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	listings, err := s.VehicleRepo.QueryVehicles(callCtx, q)
	if err != nil {
		s.Metrics.RecordFallback(sourceVehicles)
		s.Log.WithFields(logrus.Fields{
			"source": sourceVehicles,
			"model":  q.Model,
		}).WithError(&domain.DataUnavailableError{Source: sourceVehicles, Err: err}).Warn("Vehicle lookup failed, continuing without listings")
		return nil
	}
	return listings
}

// params resolves the financing policy, asking the interest provider when one is configured
func (s *ProjectionService) params(ctx context.Context) financeplan.Params {
	p := s.Params
	if s.InterestRates == nil {
		return p
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	rate, err := s.InterestRates.AnnualRate(callCtx)
	if err != nil {
		s.Metrics.RecordFallback(sourceInterestRate)
		s.Log.WithFields(logrus.Fields{
			"source":   sourceInterestRate,
			"fallback": p.AnnualInterestRate.String(),
		}).WithError(err).Warn("Using configured interest rate")
		return p
	}
	p.AnnualInterestRate = rate
	return p
}

func (s *ProjectionService) saveGoal(ctx context.Context, userID string, input domain.GoalInput) {
	if s.GoalRepo == nil || userID == "" {
		return
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	record := &domain.GoalRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Goal:      input,
		CreatedAt: s.Now(),
	}
	if err := s.GoalRepo.Save(callCtx, record); err != nil {
		s.Log.WithField("user_id", userID).WithError(err).Warn("Failed to save goal")
	}
}

func (s *ProjectionService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout > 0 {
		return context.WithTimeout(ctx, s.Timeout)
	}
	return context.WithCancel(ctx)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrProjectionDiverged):
		return "diverged"
	default:
		return "error"
	}
}
