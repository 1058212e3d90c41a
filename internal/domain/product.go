package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductName  = errors.New("product name is required")
	ErrInvalidProductPrice = errors.New("product price must not be negative")
	ErrInvalidProductStock = errors.New("product stock must not be negative")
	ErrDuplicateProductID  = errors.New("duplicate product id")
)

// DefaultRating is used when a product carries no rating.
const DefaultRating = 4.0

// Product represents a catalog entry as published by the static catalog source
type Product struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
	Rating   *float64        `json:"rating,omitempty"`
	Stock    int             `json:"stock"`
}

// EffectiveRating returns the rating or DefaultRating when absent
func (p Product) EffectiveRating() float64 {
	if p.Rating == nil {
		return DefaultRating
	}
	return *p.Rating
}

// InStock reports whether at least one unit is available
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Validate performs business validation on the product
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProductName
	}
	if p.Price.IsNegative() {
		return ErrInvalidProductPrice
	}
	if p.Stock < 0 {
		return ErrInvalidProductStock
	}
	return nil
}
