package domain

import "github.com/shopspring/decimal"

// MonthlyTransaction represents one categorized transaction from the history source
// Amount is signed: income is positive, expenses are negative
type MonthlyTransaction struct {
	Year   int
	Month  int
	Amount decimal.Decimal
}

// Period returns a sortable key for the transaction's calendar month
func (t MonthlyTransaction) Period() int {
	return t.Year*12 + (t.Month - 1)
}
