package baseline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

// MockTransactionRepository is a mock implementation of TransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) ListMonthly(ctx context.Context) ([]domain.MonthlyTransaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MonthlyTransaction), args.Error(1)
}

func tx(year, month int, amount int64) domain.MonthlyTransaction {
	return domain.MonthlyTransaction{Year: year, Month: month, Amount: decimal.NewFromInt(amount)}
}

func TestAggregate(t *testing.T) {
	b, ok := Aggregate([]domain.MonthlyTransaction{
		// January: +9000 income, -4000 -2000 expenses => net 3000, expense 6000
		tx(2026, 1, 9000), tx(2026, 1, -4000), tx(2026, 1, -2000),
		// February: +8000 income, -3000 expense => net 5000, expense 3000
		tx(2026, 2, 8000), tx(2026, 2, -3000),
		// March: income only => net 1000, no expense month
		tx(2026, 3, 1000),
	})

	require.True(t, ok)
	assert.True(t, b.CurrentSavings.Equal(decimal.NewFromInt(9000)), "savings %s", b.CurrentSavings)
	assert.True(t, b.AverageMonthlySaving().Equal(decimal.NewFromInt(3000)), "saving %s", b.AverageMonthlySaving())
	assert.True(t, b.AverageMonthlyExpense.Equal(decimal.NewFromInt(4500)), "expense %s", b.AverageMonthlyExpense)
	assert.True(t, b.AverageMonthlyIncome.Equal(decimal.NewFromInt(7500)), "income %s", b.AverageMonthlyIncome)
	assert.False(t, b.IsFallback)
}

func TestAggregate_GroupsAcrossYears(t *testing.T) {
	// December and January of different years must not collapse into one month
	b, ok := Aggregate([]domain.MonthlyTransaction{
		tx(2025, 12, 1000),
		tx(2026, 12, 3000),
	})
	require.True(t, ok)
	assert.True(t, b.AverageMonthlySaving().Equal(decimal.NewFromInt(2000)))
	assert.True(t, b.AverageMonthlyExpense.IsZero())
}

func TestAggregate_Empty(t *testing.T) {
	_, ok := Aggregate(nil)
	assert.False(t, ok)
}

func TestService_Current(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransactionRepository)
	log, hook := logtest.NewNullLogger()
	service := NewService(repo, log, nil, time.Second)

	repo.On("ListMonthly", mock.Anything).Return([]domain.MonthlyTransaction{tx(2026, 1, 5000), tx(2026, 1, -1000)}, nil)

	b := service.Current(ctx)

	assert.True(t, b.CurrentSavings.Equal(decimal.NewFromInt(4000)))
	assert.True(t, b.AverageMonthlyExpense.Equal(decimal.NewFromInt(1000)))
	assert.Empty(t, hook.Entries)
	repo.AssertExpectations(t)
}

func TestService_Current_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		txs  []domain.MonthlyTransaction
		err  error
	}{
		{name: "Source unreachable", err: errors.New("dial tcp: connection refused")},
		{name: "Timeout", err: context.DeadlineExceeded},
		{name: "Empty history", txs: []domain.MonthlyTransaction{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTransactionRepository)
			log, hook := logtest.NewNullLogger()
			service := NewService(repo, log, nil, time.Second)

			if tt.err != nil {
				repo.On("ListMonthly", mock.Anything).Return(nil, tt.err)
			} else {
				repo.On("ListMonthly", mock.Anything).Return(tt.txs, nil)
			}

			b := service.Current(context.Background())

			assert.Equal(t, domain.FallbackBaseline(), b)
			require.Len(t, hook.Entries, 1)
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		})
	}
}
