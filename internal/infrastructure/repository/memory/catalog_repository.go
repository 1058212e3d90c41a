package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mrops-br/storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CatalogRepository is an in-memory implementation of domain.CatalogRepository.
// Products keep the order in which the catalog source listed them.
type CatalogRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[int]int
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewCatalogRepository creates an empty in-memory catalog
func NewCatalogRepository(tracer trace.Tracer, logger *slog.Logger) *CatalogRepository {
	return &CatalogRepository{
		byID:   make(map[int]int),
		tracer: tracer,
		logger: logger,
	}
}

// ReplaceAll swaps the whole catalog. Product ids must be unique.
func (r *CatalogRepository) ReplaceAll(ctx context.Context, products []domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.ReplaceAll")
	defer span.End()

	span.SetAttributes(attribute.Int("product.count", len(products)))

	byID := make(map[int]int, len(products))
	for i, p := range products {
		if _, dup := byID[p.ID]; dup {
			err := fmt.Errorf("%w: %d", domain.ErrDuplicateProductID, p.ID)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Duplicate product id")
			return err
		}
		byID[p.ID] = i
	}

	stored := make([]domain.Product, len(products))
	copy(stored, products)

	r.mu.Lock()
	r.products = stored
	r.byID = byID
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "Catalog replaced in repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Catalog replaced")
	return nil
}

// FindByID retrieves a product by ID
func (r *CatalogRepository) FindByID(ctx context.Context, id int) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.Int("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, exists := r.byID[id]
	if !exists {
		span.SetStatus(codes.Error, "Product not found")
		r.logger.DebugContext(ctx, "Product not found",
			slog.Int("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	product := r.products[idx]
	span.SetStatus(codes.Ok, "Product found")
	return &product, nil
}

// FindAll retrieves all products in catalog order
func (r *CatalogRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	_, span := r.tracer.Start(ctx, "CatalogRepository.FindAll")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, len(r.products))
	copy(products, r.products)

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}
