package fixture

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

func TestLoad_Default(t *testing.T) {
	ctx := context.Background()
	store, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name      string
		query     domain.VehicleQuery
		expected  int
		promotion bool
	}{
		{
			name:     "New S-Class",
			query:    domain.VehicleQuery{IsNew: true, Model: "Mercedes S-Class", ModelYear: 2025, MaxMileage: 0},
			expected: 1,
		},
		{
			name:      "Used E-Class within mileage",
			query:     domain.VehicleQuery{Model: "Mercedes E-Class", ModelYear: 2024, MaxMileage: 20000},
			expected:  1,
			promotion: true,
		},
		{
			name:     "Used E-Class over mileage",
			query:    domain.VehicleQuery{Model: "Mercedes E-Class", ModelYear: 2024, MaxMileage: 10000},
			expected: 0,
		},
		{
			name:     "Wrong year",
			query:    domain.VehicleQuery{Model: "Maybach S-Class", ModelYear: 2025, MaxMileage: 10000},
			expected: 0,
		},
		{
			name:     "New requires zero mileage",
			query:    domain.VehicleQuery{IsNew: true, Model: "Maybach S-Class", ModelYear: 2023, MaxMileage: 10000},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings, err := store.QueryVehicles(ctx, tt.query)
			require.NoError(t, err)
			assert.Len(t, listings, tt.expected)
			assert.Equal(t, tt.promotion, domain.AnyPromotion(listings))
		})
	}

	history, err := store.ListPriceHistory(ctx, "mercedes-benz")
	require.NoError(t, err)
	assert.Empty(t, history)

	txs, err := store.ListMonthly(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestLoad_File(t *testing.T) {
	ctx := context.Background()
	store, err := Load("testdata/full.toml")
	require.NoError(t, err)

	listings, err := store.QueryVehicles(ctx, domain.VehicleQuery{IsNew: true, Model: "Mercedes S-Class", ModelYear: 2025})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.True(t, listings[0].Price.Equal(decimal.NewFromInt(120000)))

	// "TBA" is dropped, manufacturer names are normalized
	history, err := store.ListPriceHistory(ctx, "Mercedes-Benz")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "mercedes-benz", history[0].Manufacturer)
	assert.True(t, history[0].Price.Equal(decimal.NewFromInt(200000)))

	txs, err := store.ListMonthly(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 4)
	assert.Equal(t, 8, txs[0].Month)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("testdata/missing.toml")
	assert.Error(t, err)

	_, err = NewStore(Dataset{Vehicles: []VehicleRow{{Model: "X", Price: "call us"}}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewStore(Dataset{Transactions: []TransactionRow{{Year: 2026, Month: 13, Amount: "1"}}})
	assert.Error(t, err)
}

func TestStore_CanceledContext(t *testing.T) {
	store, err := Load("")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.QueryVehicles(ctx, domain.VehicleQuery{Model: "Mercedes S-Class"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_GoalsAndCredentials(t *testing.T) {
	ctx := context.Background()
	store, err := Load("")
	require.NoError(t, err)

	record := &domain.GoalRecord{ID: uuid.New(), UserID: "testuser", CreatedAt: time.Now()}
	require.NoError(t, store.Save(ctx, record))
	assert.Len(t, store.Goals("testuser"), 1)
	assert.Empty(t, store.Goals("other"))

	_, err = store.GetPasswordHash(ctx, "testuser")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Upsert(ctx, "testuser", "hash"))
	hash, err := store.GetPasswordHash(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)
}
