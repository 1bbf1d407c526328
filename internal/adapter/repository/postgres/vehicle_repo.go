package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

// vehicleRepository implements domain.VehicleRepository
type vehicleRepository struct {
	db *DB
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *DB) domain.VehicleRepository {
	return &vehicleRepository{db: db}
}

// QueryVehicles retrieves listings matching the query, in insertion order
func (r *vehicleRepository) QueryVehicles(ctx context.Context, q domain.VehicleQuery) ([]domain.VehicleListing, error) {
	query := `
		SELECT model, year, price, mileage, promotion
		FROM vehicles
		WHERE model = $1 AND year = $2 AND mileage <= $3 AND ($4 = FALSE OR is_new)
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, q.Model, q.ModelYear, q.MaxMileage, q.IsNew)
	if err != nil {
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	defer rows.Close()

	var listings []domain.VehicleListing
	for rows.Next() {
		var v domain.VehicleListing
		var priceStr string

		if err := rows.Scan(&v.Model, &v.Year, &priceStr, &v.Mileage, &v.Promotion); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}

		// Parse price (DECIMAL)
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse price: %w", err)
		}
		v.Price = price

		listings = append(listings, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vehicles: %w", err)
	}

	return listings, nil
}

// ListPriceHistory retrieves the complete price records of one manufacturer
// Rows whose approx_cost has no numeric content are skipped
func (r *vehicleRepository) ListPriceHistory(ctx context.Context, manufacturer string) ([]domain.PriceRecord, error) {
	query := `
		SELECT LOWER(TRIM(manufacturer)), overview, model_year, approx_cost
		FROM price_history
		WHERE LOWER(TRIM(manufacturer)) = $1
		  AND overview IS NOT NULL
		  AND model_year IS NOT NULL
		  AND approx_cost IS NOT NULL
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, domain.NormalizeManufacturer(manufacturer))
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var records []domain.PriceRecord
	for rows.Next() {
		var rec domain.PriceRecord
		var rawPrice string

		if err := rows.Scan(&rec.Manufacturer, &rec.Overview, &rec.ModelYear, &rawPrice); err != nil {
			return nil, fmt.Errorf("failed to scan price record: %w", err)
		}

		price, err := domain.ParsePrice(rawPrice)
		if err != nil {
			continue
		}
		rec.Price = price

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}

	return records, nil
}
