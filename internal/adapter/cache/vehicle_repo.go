package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

const priceHistoryPrefix = "vehicleplan:price_history:"

// VehicleRepository caches price history in front of another domain.VehicleRepository
// Listings are never cached so promotion flags stay current
type VehicleRepository struct {
	Next  domain.VehicleRepository
	Cache domain.Cache
	TTL   time.Duration
	Log   *logrus.Logger
}

// NewVehicleRepository wraps next with a price-history cache
func NewVehicleRepository(next domain.VehicleRepository, cache domain.Cache, ttl time.Duration, log *logrus.Logger) *VehicleRepository {
	return &VehicleRepository{
		Next:  next,
		Cache: cache,
		TTL:   ttl,
		Log:   log,
	}
}

// QueryVehicles always goes to the underlying source
func (r *VehicleRepository) QueryVehicles(ctx context.Context, q domain.VehicleQuery) ([]domain.VehicleListing, error) {
	return r.Next.QueryVehicles(ctx, q)
}

// ListPriceHistory serves from the cache when possible
// Cache errors are logged and never fail the call
func (r *VehicleRepository) ListPriceHistory(ctx context.Context, manufacturer string) ([]domain.PriceRecord, error) {
	key := priceHistoryPrefix + domain.NormalizeManufacturer(manufacturer)

	if raw, ok := r.Cache.Get(ctx, key); ok {
		var records []domain.PriceRecord
		if err := json.Unmarshal([]byte(raw), &records); err == nil {
			return records, nil
		}
		r.Log.WithField("key", key).Warn("Discarding unreadable cache entry")
	}

	records, err := r.Next.ListPriceHistory(ctx, manufacturer)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(records)
	if err != nil {
		r.Log.WithField("key", key).WithError(err).Warn("Failed to encode price history")
		return records, nil
	}
	if err := r.Cache.Set(ctx, key, string(data), r.TTL); err != nil {
		r.Log.WithField("key", key).WithError(err).Warn("Failed to cache price history")
	}

	return records, nil
}
