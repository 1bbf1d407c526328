package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGoalInput_Validate(t *testing.T) {
	term := 0

	tests := []struct {
		name    string
		goal    GoalInput
		wantErr bool
		field   string
	}{
		{
			name: "Valid cash goal",
			goal: GoalInput{
				PaymentMethod:     PaymentMethodCash,
				AssetBasePrice:    decimal.NewFromInt(100000),
				DownPaymentTarget: decimal.NewFromInt(20000),
				MonthlySaving:     decimal.NewFromInt(1000),
			},
			wantErr: false,
		},
		{
			name: "Cash goal with zero saving should fail",
			goal: GoalInput{
				PaymentMethod:     PaymentMethodCash,
				DownPaymentTarget: decimal.NewFromInt(20000),
				MonthlySaving:     decimal.Zero,
			},
			wantErr: true,
			field:   "monthly_saving",
		},
		{
			name: "Cash goal with zero target should fail",
			goal: GoalInput{
				PaymentMethod: PaymentMethodCash,
				MonthlySaving: decimal.NewFromInt(1000),
			},
			wantErr: true,
			field:   "down_payment_target",
		},
		{
			name: "Valid financing goal without saving override",
			goal: GoalInput{
				PaymentMethod:     PaymentMethodFinancing,
				AssetBasePrice:    decimal.NewFromInt(100000),
				MaxMonthlyPayment: decimal.NewFromInt(5000),
			},
			wantErr: false,
		},
		{
			name: "Financing goal with zero EMI should fail",
			goal: GoalInput{
				PaymentMethod:  PaymentMethodFinancing,
				AssetBasePrice: decimal.NewFromInt(100000),
			},
			wantErr: true,
			field:   "max_monthly_payment",
		},
		{
			name: "Financing goal with zero term should fail",
			goal: GoalInput{
				PaymentMethod:     PaymentMethodFinancing,
				MaxMonthlyPayment: decimal.NewFromInt(5000),
				MaxTermMonths:     &term,
			},
			wantErr: true,
			field:   "max_term_months",
		},
		{
			name: "Negative price should fail",
			goal: GoalInput{
				PaymentMethod:     PaymentMethodFinancing,
				AssetBasePrice:    decimal.NewFromInt(-1),
				MaxMonthlyPayment: decimal.NewFromInt(5000),
			},
			wantErr: true,
			field:   "asset_base_price",
		},
		{
			name:    "Unknown payment method should fail",
			goal:    GoalInput{PaymentMethod: "LEASE"},
			wantErr: true,
			field:   "payment_method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var vErr *ValidationError
			if assert.True(t, errors.As(err, &vErr)) {
				assert.Equal(t, tt.field, vErr.Field)
			}
		})
	}
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod(" cash ")
	assert.NoError(t, err)
	assert.Equal(t, PaymentMethodCash, m)

	m, err = ParsePaymentMethod("Financing")
	assert.NoError(t, err)
	assert.Equal(t, PaymentMethodFinancing, m)

	_, err = ParsePaymentMethod("lease")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestFinancialBaseline_AverageMonthlySaving(t *testing.T) {
	b := FallbackBaseline()
	assert.True(t, b.AverageMonthlySaving().Equal(decimal.NewFromInt(3000)))
	assert.True(t, b.IsFallback)
}
