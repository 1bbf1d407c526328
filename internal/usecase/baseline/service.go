package baseline

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
	"github.com/simaogato/vehicleplan-backend/internal/observability"
)

// FallbackSource labels fallbacks taken by this package in logs and metrics
const FallbackSource = "transactions"

var errNoTransactions = errors.New("transaction history is empty")

// Service derives the financial baseline from the transaction history
type Service struct {
	TransactionRepo domain.TransactionRepository
	Log             *logrus.Logger
	Metrics         observability.Recorder
	Timeout         time.Duration
}

// NewService creates a new baseline Service instance
func NewService(transactionRepo domain.TransactionRepository, log *logrus.Logger, metrics observability.Recorder, timeout time.Duration) *Service {
	if metrics == nil {
		metrics = observability.Nop()
	}
	return &Service{
		TransactionRepo: transactionRepo,
		Log:             log,
		Metrics:         metrics,
		Timeout:         timeout,
	}
}

// Current returns the user's baseline
// Never fails: an unreachable or empty history yields domain.FallbackBaseline()
func (s *Service) Current(ctx context.Context) domain.FinancialBaseline {
	callCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	txs, err := s.TransactionRepo.ListMonthly(callCtx)
	if err != nil {
		return s.fallback(&domain.DataUnavailableError{Source: FallbackSource, Err: err})
	}

	b, ok := Aggregate(txs)
	if !ok {
		return s.fallback(&domain.DataUnavailableError{Source: FallbackSource, Err: errNoTransactions})
	}
	return b
}

func (s *Service) fallback(err error) domain.FinancialBaseline {
	s.Metrics.RecordFallback(FallbackSource)
	s.Log.WithField("source", FallbackSource).WithError(err).Warn("Using fallback financial baseline")
	return domain.FallbackBaseline()
}

// Aggregate computes the baseline from signed transactions
// Logic:
//   - Monthly net: sum of all amounts per (year, month)
//   - Average saving: mean of the monthly nets
//   - Average expense: mean over months with expenses of -sum(negative amounts)
//   - Current savings: cumulative sum of all monthly nets
//   - Income: average saving + average expense
//
// Returns false when there are no transactions
func Aggregate(txs []domain.MonthlyTransaction) (domain.FinancialBaseline, bool) {
	if len(txs) == 0 {
		return domain.FinancialBaseline{}, false
	}

	net := make(map[int]decimal.Decimal)
	expense := make(map[int]decimal.Decimal)
	for _, tx := range txs {
		period := tx.Period()
		net[period] = net[period].Add(tx.Amount)
		if tx.Amount.IsNegative() {
			expense[period] = expense[period].Add(tx.Amount)
		}
	}

	periods := make([]int, 0, len(net))
	for p := range net {
		periods = append(periods, p)
	}
	sort.Ints(periods)

	savings := decimal.Zero
	for _, p := range periods {
		savings = savings.Add(net[p])
	}
	avgSaving := savings.Div(decimal.NewFromInt(int64(len(periods))))

	avgExpense := decimal.Zero
	if len(expense) > 0 {
		total := decimal.Zero
		for _, p := range periods {
			if e, ok := expense[p]; ok {
				total = total.Add(e)
			}
		}
		avgExpense = total.Div(decimal.NewFromInt(int64(len(expense)))).Neg()
	}

	return domain.FinancialBaseline{
		AverageMonthlyIncome:  avgSaving.Add(avgExpense),
		AverageMonthlyExpense: avgExpense,
		CurrentSavings:        savings,
	}, true
}
