package fixture

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"

	"github.com/simaogato/vehicleplan-backend/internal/domain"
)

//go:embed default.toml
var defaultData []byte

// Dataset is the on-disk layout of a fixture file
// Prices are free-form strings and are cleaned on load
type Dataset struct {
	Vehicles     []VehicleRow     `toml:"vehicles"`
	PriceHistory []PriceRow       `toml:"price_history"`
	Transactions []TransactionRow `toml:"transactions"`
}

type VehicleRow struct {
	Model     string `toml:"model"`
	Year      int    `toml:"year"`
	Price     string `toml:"price"`
	Mileage   int    `toml:"mileage"`
	Promotion bool   `toml:"promotion"`
}

type PriceRow struct {
	Manufacturer string `toml:"manufacturer"`
	Overview     string `toml:"overview"`
	ModelYear    int    `toml:"model_year"`
	Price        string `toml:"price"`
}

type TransactionRow struct {
	Year   int    `toml:"year"`
	Month  int    `toml:"month"`
	Amount string `toml:"amount"`
}

// Store is an in-memory data source backed by a fixture file
// It implements the vehicle, transaction, goal and credential repositories
type Store struct {
	vehicles     []domain.VehicleListing
	priceHistory []domain.PriceRecord
	transactions []domain.MonthlyTransaction

	mu          sync.RWMutex
	goals       []domain.GoalRecord
	credentials map[string]string
}

// Load reads a fixture file, falling back to the built-in data set when path is empty
func Load(path string) (*Store, error) {
	data := defaultData
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading fixture: %w", err)
		}
	}

	var ds Dataset
	if err := toml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return NewStore(ds)
}

// NewStore converts a dataset into a Store
// Price history rows without a usable price are dropped, other malformed rows are rejected
func NewStore(ds Dataset) (*Store, error) {
	s := &Store{credentials: make(map[string]string)}

	for i, row := range ds.Vehicles {
		price, err := domain.ParsePrice(row.Price)
		if err != nil {
			return nil, fmt.Errorf("vehicle %d (%s): %w", i, row.Model, err)
		}
		s.vehicles = append(s.vehicles, domain.VehicleListing{
			Model:     row.Model,
			Year:      row.Year,
			Price:     price,
			Mileage:   row.Mileage,
			Promotion: row.Promotion,
		})
	}

	for _, row := range ds.PriceHistory {
		price, err := domain.ParsePrice(row.Price)
		if err != nil {
			continue
		}
		s.priceHistory = append(s.priceHistory, domain.PriceRecord{
			Manufacturer: domain.NormalizeManufacturer(row.Manufacturer),
			Overview:     row.Overview,
			ModelYear:    row.ModelYear,
			Price:        price,
		})
	}

	for i, row := range ds.Transactions {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if row.Month < 1 || row.Month > 12 {
			return nil, fmt.Errorf("transaction %d: month %d out of range", i, row.Month)
		}
		s.transactions = append(s.transactions, domain.MonthlyTransaction{
			Year:   row.Year,
			Month:  row.Month,
			Amount: amount,
		})
	}

	return s, nil
}

// QueryVehicles filters listings by model, year and mileage
// New vehicles are those with zero mileage
func (s *Store) QueryVehicles(ctx context.Context, q domain.VehicleQuery) ([]domain.VehicleListing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []domain.VehicleListing
	for _, v := range s.vehicles {
		if v.Model != q.Model || v.Year != q.ModelYear || v.Mileage > q.MaxMileage {
			continue
		}
		if q.IsNew && v.Mileage != 0 {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// ListPriceHistory returns the price records of one manufacturer
func (s *Store) ListPriceHistory(ctx context.Context, manufacturer string) ([]domain.PriceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manufacturer = domain.NormalizeManufacturer(manufacturer)
	var out []domain.PriceRecord
	for _, r := range s.priceHistory {
		if r.Manufacturer == manufacturer {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListMonthly returns all transactions ordered by period
func (s *Store) ListMonthly(ctx context.Context) ([]domain.MonthlyTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.MonthlyTransaction, len(s.transactions))
	copy(out, s.transactions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Period() < out[j].Period() })
	return out, nil
}

// Save records a goal in memory
func (s *Store) Save(ctx context.Context, record *domain.GoalRecord) error {
	if record == nil {
		return fmt.Errorf("goal record cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, *record)
	return nil
}

// Goals returns the goals saved for a user
func (s *Store) Goals(userID string) []domain.GoalRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.GoalRecord
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out
}

// GetPasswordHash returns the stored hash for a username
func (s *Store) GetPasswordHash(ctx context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.credentials[username]
	if !ok {
		return "", fmt.Errorf("user %s: %w", username, domain.ErrNotFound)
	}
	return hash, nil
}

// Upsert stores the hash for a username
func (s *Store) Upsert(ctx context.Context, username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials[username] = passwordHash
	return nil
}
