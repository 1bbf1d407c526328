package depreciation

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/observability"
)

// FallbackSource labels fallbacks taken by this package in logs and metrics
const FallbackSource = "price_history"

// DefaultMonthlyRate is used when the price history is unavailable or has no usable pairs (0.5% per month)
var DefaultMonthlyRate = decimal.RequireFromString("0.005")

var (
	monthsPerYear = decimal.NewFromInt(12)
	hundred       = decimal.NewFromInt(100)
)

// EstimateMonthlyRate derives a monthly depreciation fraction from price observations
// Logic:
//  1. Group records by Overview (model/trim)
//  2. Sort each group by ModelYear ascending
//  3. For each consecutive pair: monthDiff = yearDiff * 12, priceDrop = prev - curr
//     Pairs with yearDiff <= 0 or priceDrop <= 0 are skipped
//  4. monthlyPct = (priceDrop / monthDiff) / prevPrice * 100
//  5. Return mean(monthlyPct) / 100
//
// The second return value is false when no pair was usable
func EstimateMonthlyRate(records []domain.PriceRecord) (decimal.Decimal, bool) {
	groups := make(map[string][]domain.PriceRecord)
	order := make([]string, 0)
	for _, r := range records {
		if _, ok := groups[r.Overview]; !ok {
			order = append(order, r.Overview)
		}
		groups[r.Overview] = append(groups[r.Overview], r)
	}
	// Map iteration order is random, sum in a fixed order to stay deterministic
	sort.Strings(order)

	sum := decimal.Zero
	count := 0
	for _, overview := range order {
		group := groups[overview]
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].ModelYear < group[j].ModelYear
		})

		for i := 1; i < len(group); i++ {
			prev, curr := group[i-1], group[i]
			yearDiff := curr.ModelYear - prev.ModelYear
			if yearDiff <= 0 {
				continue
			}
			priceDrop := prev.Price.Sub(curr.Price)
			if priceDrop.LessThanOrEqual(decimal.Zero) || prev.Price.LessThanOrEqual(decimal.Zero) {
				continue
			}

			monthDiff := decimal.NewFromInt(int64(yearDiff)).Mul(monthsPerYear)
			monthlyPct := priceDrop.Div(monthDiff).Div(prev.Price).Mul(hundred)
			sum = sum.Add(monthlyPct)
			count++
		}
	}

	if count == 0 {
		return DefaultMonthlyRate, false
	}
	return sum.Div(decimal.NewFromInt(int64(count))).Div(hundred), true
}

// Service resolves the depreciation rate for a manufacturer through the vehicle data source
type Service struct {
	VehicleRepo domain.VehicleRepository
	Log         *logrus.Logger
	Metrics     observability.Recorder
	Timeout     time.Duration
}

// NewService creates a new depreciation Service instance
func NewService(vehicleRepo domain.VehicleRepository, log *logrus.Logger, metrics observability.Recorder, timeout time.Duration) *Service {
	if metrics == nil {
		metrics = observability.Nop()
	}
	return &Service{
		VehicleRepo: vehicleRepo,
		Log:         log,
		Metrics:     metrics,
		Timeout:     timeout,
	}
}

// MonthlyRate returns the monthly depreciation fraction for a manufacturer
// Never fails: an unreachable source or insufficient data yields DefaultMonthlyRate
func (s *Service) MonthlyRate(ctx context.Context, manufacturer string) decimal.Decimal {
	manufacturer = domain.NormalizeManufacturer(manufacturer)

	callCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	records, err := s.VehicleRepo.ListPriceHistory(callCtx, manufacturer)
	if err != nil {
		s.fallback(&domain.DataUnavailableError{Source: FallbackSource, Err: err}, manufacturer)
		return DefaultMonthlyRate
	}

	rate, ok := EstimateMonthlyRate(usable(records, manufacturer))
	if !ok {
		s.fallback(&domain.DataUnavailableError{Source: FallbackSource, Err: errInsufficientData}, manufacturer)
		return DefaultMonthlyRate
	}

	s.Log.WithFields(logrus.Fields{
		"manufacturer": manufacturer,
		"rate":         rate.String(),
	}).Debug("Estimated monthly depreciation")
	return rate
}

// usable drops records of other manufacturers and records missing overview, year or price
func usable(records []domain.PriceRecord, manufacturer string) []domain.PriceRecord {
	out := make([]domain.PriceRecord, 0, len(records))
	for _, r := range records {
		if domain.NormalizeManufacturer(r.Manufacturer) != manufacturer {
			continue
		}
		if r.Overview == "" || r.ModelYear == 0 || r.Price.IsZero() {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *Service) fallback(err error, manufacturer string) {
	s.Metrics.RecordFallback(FallbackSource)
	s.Log.WithFields(logrus.Fields{
		"source":       FallbackSource,
		"manufacturer": manufacturer,
		"fallback":     DefaultMonthlyRate.String(),
	}).WithError(err).Warn("Using default depreciation rate")
}
