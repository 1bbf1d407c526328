package domain

import "github.com/shopspring/decimal"

// FinancialBaseline represents the user's average monthly cash flow and liquid savings
type FinancialBaseline struct {
	AverageMonthlyIncome  decimal.Decimal
	AverageMonthlyExpense decimal.Decimal // Positive number
	CurrentSavings        decimal.Decimal
	IsFallback            bool // True when the transaction history could not be used
}

// AverageMonthlySaving is income minus expense
func (b FinancialBaseline) AverageMonthlySaving() decimal.Decimal {
	return b.AverageMonthlyIncome.Sub(b.AverageMonthlyExpense)
}

// FallbackBaseline is used whenever the transaction history is unavailable
func FallbackBaseline() FinancialBaseline {
	return FinancialBaseline{
		AverageMonthlyIncome:  decimal.NewFromInt(8000),
		AverageMonthlyExpense: decimal.NewFromInt(5000),
		CurrentSavings:        decimal.NewFromInt(10000),
		IsFallback:            true,
	}
}
