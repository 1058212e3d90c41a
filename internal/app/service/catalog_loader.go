package service

import (
	"context"
	"log/slog"

	"github.com/mrops-br/storefront/internal/domain"
	"github.com/mrops-br/storefront/internal/infrastructure/catalog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CatalogLoader fetches the product list once at startup
type CatalogLoader struct {
	source   catalog.Source
	repo     domain.CatalogRepository
	onLoaded func(ctx context.Context)
	tracer   trace.Tracer
	logger   *slog.Logger
	products metric.Int64Gauge
}

// NewCatalogLoader creates a loader; onLoaded runs after a successful load
func NewCatalogLoader(
	source catalog.Source,
	repo domain.CatalogRepository,
	onLoaded func(ctx context.Context),
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogLoader {
	products, _ := meter.Int64Gauge(
		"storefront.catalog.products",
		metric.WithDescription("Number of products in the loaded catalog"),
	)

	return &CatalogLoader{
		source:   source,
		repo:     repo,
		onLoaded: onLoaded,
		tracer:   tracer,
		logger:   logger,
		products: products,
	}
}

// Load fetches and installs the catalog. A failure is only logged: the
// catalog stays empty and there is no retry. It reports whether the
// catalog was installed.
func (l *CatalogLoader) Load(ctx context.Context) bool {
	ctx, span := l.tracer.Start(ctx, "CatalogLoader.Load")
	defer span.End()

	span.SetAttributes(attribute.String("catalog.source", l.source.String()))

	products, err := l.source.Fetch(ctx)
	if err == nil {
		products = l.usable(ctx, products)
		err = l.repo.ReplaceAll(ctx, products)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load catalog")
		l.logger.ErrorContext(ctx, "Failed to load products",
			slog.String("source", l.source.String()),
			slog.String("error", err.Error()),
		)
		return false
	}

	if l.products != nil {
		l.products.Record(ctx, int64(len(products)))
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))

	l.logger.InfoContext(ctx, "Catalog loaded",
		slog.String("source", l.source.String()),
		slog.Int("count", len(products)),
	)

	if l.onLoaded != nil {
		l.onLoaded(ctx)
	}

	span.SetStatus(codes.Ok, "Catalog loaded")
	return true
}

// usable drops entries that fail validation or repeat an earlier id.
// Each dropped entry is logged; the rest of the catalog still loads.
func (l *CatalogLoader) usable(ctx context.Context, products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	seen := make(map[int]bool, len(products))

	for _, p := range products {
		err := p.Validate()
		if err == nil && seen[p.ID] {
			err = domain.ErrDuplicateProductID
		}
		if err != nil {
			l.logger.WarnContext(ctx, "Skipping catalog entry",
				slog.Int("product_id", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}

	if skipped := len(products) - len(out); skipped > 0 {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("catalog.skipped", skipped))
	}
	return out
}
