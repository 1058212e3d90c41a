package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// CatalogRepository defines the contract for catalog storage
type CatalogRepository interface {
	ReplaceAll(ctx context.Context, products []Product) error
	FindByID(ctx context.Context, id int) (*Product, error)
	FindAll(ctx context.Context) ([]Product, error)
}

// KeyValueStore is a string store keyed by name, the durable home of
// per-client cart and session records.
type KeyValueStore interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StateStore persists one client's cart and session
type StateStore interface {
	LoadCart(ctx context.Context) (Cart, error)
	SaveCart(ctx context.Context, cart Cart) error
	ClearCart(ctx context.Context) error
	LoadSession(ctx context.Context) (*Session, error)
	SaveSession(ctx context.Context, session *Session) error
	ClearSession(ctx context.Context) error
}
