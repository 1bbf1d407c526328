package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VehicleQuery represents a lookup against the vehicle data source
type VehicleQuery struct {
	IsNew      bool
	Model      string
	ModelYear  int
	MaxMileage int
}

// VehicleListing represents a vehicle currently offered for sale
type VehicleListing struct {
	Model     string
	Year      int
	Price     decimal.Decimal
	Mileage   int
	Promotion bool
}

// PriceRecord represents one historical price observation for a model/trim
// Used to derive depreciation; several model years of the same Overview form a series
type PriceRecord struct {
	Manufacturer string
	Overview     string // Model overview / trim, the grouping key
	ModelYear    int
	Price        decimal.Decimal
}

// AnyPromotion reports whether at least one listing is flagged as promotional
func AnyPromotion(listings []VehicleListing) bool {
	for _, l := range listings {
		if l.Promotion {
			return true
		}
	}
	return false
}

// NormalizeManufacturer trims and lower-cases a manufacturer name
func NormalizeManufacturer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParsePrice extracts a price from free-form text such as "AED 120,000"
// Everything except digits and '.' is discarded
func ParsePrice(raw string) (decimal.Decimal, error) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return decimal.Zero, NewValidationError("price", "no numeric value in "+raw)
	}
	return decimal.NewFromString(cleaned)
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
