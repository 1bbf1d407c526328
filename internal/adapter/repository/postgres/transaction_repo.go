package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// ListMonthly retrieves all transactions with an amount, ordered by period
func (r *transactionRepository) ListMonthly(ctx context.Context) ([]domain.MonthlyTransaction, error) {
	query := `
		SELECT year, month, amount
		FROM monthly_transactions
		WHERE amount IS NOT NULL
		ORDER BY year, month, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.MonthlyTransaction
	for rows.Next() {
		var tx domain.MonthlyTransaction
		var amountStr string

		if err := rows.Scan(&tx.Year, &tx.Month, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		// Parse amount (DECIMAL)
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount: %w", err)
		}
		tx.Amount = amount

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}
