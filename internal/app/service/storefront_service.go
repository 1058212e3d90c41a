package service

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/mrops-br/storefront/internal/app/dto"
	"github.com/mrops-br/storefront/internal/app/storefront"
	"github.com/mrops-br/storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StateStoreFactory scopes the shared key-value store to one client
type StateStoreFactory func(clientID string) domain.StateStore

// DefaultMaxClients bounds the open storefronts kept in memory
const DefaultMaxClients = 10000

// client is one shopper's storefront; mu serializes its operations
type client struct {
	id string
	mu sync.Mutex
	sf *storefront.Storefront
}

// Option configures a StorefrontService
type Option func(*StorefrontService)

// WithMaxClients caps the open storefronts. Past the cap the least recently
// used one is dropped and reopened from the store on its next request.
func WithMaxClients(n int) Option {
	return func(s *StorefrontService) {
		if n > 0 {
			s.maxClients = n
		}
	}
}

// StorefrontService owns the per-client storefront state and funnels every
// control activation through it
type StorefrontService struct {
	catalog      domain.CatalogRepository
	stores       StateStoreFactory
	opts         storefront.Options
	tracer       trace.Tracer
	logger       *slog.Logger
	catalogReady atomic.Bool

	mu         sync.Mutex
	clients    map[string]*list.Element
	recent     *list.List // front is most recently used
	maxClients int

	cartOperations metric.Int64Counter
	orders         metric.Int64Counter
}

// NewStorefrontService creates a new storefront service
func NewStorefrontService(
	catalog domain.CatalogRepository,
	stores StateStoreFactory,
	opts storefront.Options,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	options ...Option,
) *StorefrontService {
	cartOperations, _ := meter.Int64Counter(
		"storefront.cart.operations",
		metric.WithDescription("Total number of cart operations"),
	)

	orders, _ := meter.Int64Counter(
		"storefront.orders.total",
		metric.WithDescription("Place-order attempts by result"),
	)

	s := &StorefrontService{
		catalog:        catalog,
		stores:         stores,
		opts:           opts,
		tracer:         tracer,
		logger:         logger,
		clients:        make(map[string]*list.Element),
		recent:         list.New(),
		maxClients:     DefaultMaxClients,
		cartOperations: cartOperations,
		orders:         orders,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// CatalogReady reports whether the catalog has been loaded
func (s *StorefrontService) CatalogReady() bool {
	return s.catalogReady.Load()
}

// CatalogLoaded marks the catalog ready and draws it, with a fresh cart
// badge, for every open client
func (s *StorefrontService) CatalogLoaded(ctx context.Context) {
	s.catalogReady.Store(true)

	s.mu.Lock()
	open := make([]*client, 0, s.recent.Len())
	for e := s.recent.Front(); e != nil; e = e.Next() {
		open = append(open, e.Value.(*client))
	}
	s.mu.Unlock()

	for _, c := range open {
		c.mu.Lock()
		if err := c.sf.ShowCatalog(ctx); err != nil {
			s.logger.ErrorContext(ctx, "Failed to draw catalog",
				slog.String("client_id", c.id),
				slog.String("error", err.Error()),
			)
		}
		c.mu.Unlock()
	}
}

// Page renders the client's current page
func (s *StorefrontService) Page(ctx context.Context, clientID string) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.Page", "", func(ctx context.Context, sf *storefront.Storefront) error {
		return nil
	})
}

// AddToCart handles the product-add control
func (s *StorefrontService) AddToCart(ctx context.Context, clientID string, productID int) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.AddToCart", "add", func(ctx context.Context, sf *storefront.Storefront) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("product.id", productID))
		return sf.AddToCart(ctx, productID)
	})
}

// ChangeQuantity handles the quantity +/- controls
func (s *StorefrontService) ChangeQuantity(ctx context.Context, clientID string, productID, delta int) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.ChangeQuantity", "change_quantity", func(ctx context.Context, sf *storefront.Storefront) error {
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.Int("product.id", productID),
			attribute.Int("cart.delta", delta),
		)
		return sf.ChangeQuantity(ctx, productID, delta)
	})
}

// RemoveFromCart handles the per-line remove control
func (s *StorefrontService) RemoveFromCart(ctx context.Context, clientID string, productID int) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.RemoveFromCart", "remove", func(ctx context.Context, sf *storefront.Storefront) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("product.id", productID))
		return sf.RemoveFromCart(ctx, productID)
	})
}

// ViewDetails handles the product-details control
func (s *StorefrontService) ViewDetails(ctx context.Context, clientID string, productID int) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.ViewDetails", "", func(ctx context.Context, sf *storefront.Storefront) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int("product.id", productID))
		return sf.ViewDetails(ctx, productID)
	})
}

func (s *StorefrontService) CloseModal(ctx context.Context, clientID string) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.CloseModal", "", func(_ context.Context, sf *storefront.Storefront) error {
		sf.CloseModal()
		return nil
	})
}

func (s *StorefrontService) OpenCart(ctx context.Context, clientID string) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.OpenCart", "", func(_ context.Context, sf *storefront.Storefront) error {
		sf.OpenCart()
		return nil
	})
}

func (s *StorefrontService) CloseCart(ctx context.Context, clientID string) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.CloseCart", "", func(_ context.Context, sf *storefront.Storefront) error {
		sf.CloseCart()
		return nil
	})
}

func (s *StorefrontService) ToggleDarkMode(ctx context.Context, clientID string) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.ToggleDarkMode", "", func(_ context.Context, sf *storefront.Storefront) error {
		sf.ToggleDarkMode()
		return nil
	})
}

// Search handles the search input
func (s *StorefrontService) Search(ctx context.Context, clientID, term string) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.Search", "", func(ctx context.Context, sf *storefront.Storefront) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("search.term", term))
		return sf.Search(ctx, term)
	})
}

// FilterCategory handles the category filter controls
func (s *StorefrontService) FilterCategory(ctx context.Context, clientID, category string) (*dto.PageView, error) {
	return s.run(ctx, clientID, "StorefrontService.FilterCategory", "", func(ctx context.Context, sf *storefront.Storefront) error {
		trace.SpanFromContext(ctx).SetAttributes(attribute.String("catalog.category", category))
		return sf.FilterCategory(ctx, category)
	})
}

// PlaceOrder handles the place-order control
func (s *StorefrontService) PlaceOrder(ctx context.Context, clientID string) (*dto.OrderResponse, error) {
	var outcome storefront.OrderOutcome

	page, err := s.run(ctx, clientID, "StorefrontService.PlaceOrder", "", func(ctx context.Context, sf *storefront.Storefront) error {
		var err error
		outcome, err = sf.PlaceOrder(ctx)
		if err != nil {
			return err
		}

		trace.SpanFromContext(ctx).SetAttributes(attribute.String("order.status", string(outcome.Status)))
		s.orders.Add(ctx, 1, metric.WithAttributes(attribute.String("result", string(outcome.Status))))
		s.logger.InfoContext(ctx, "Place order evaluated",
			slog.String("status", string(outcome.Status)),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.OrderResponse{
		Status:   string(outcome.Status),
		Message:  outcome.Message,
		Redirect: outcome.Redirect,
		Page:     page,
	}, nil
}

// Login stores a trusted session record and reloads the client's page
func (s *StorefrontService) Login(ctx context.Context, clientID, name, email string) (*dto.PageView, error) {
	ctx, span := s.tracer.Start(ctx, "StorefrontService.Login")
	defer span.End()

	session, err := domain.NewSession(name, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid session")
		return nil, err
	}

	if _, err := s.run(ctx, clientID, "StorefrontService.StoreSession", "", func(ctx context.Context, sf *storefront.Storefront) error {
		return sf.Login(ctx, session)
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User logged in",
		slog.String("user_name", session.Name),
	)
	return s.reload(ctx, clientID, "")
}

// Logout clears the session record, confirms it and reloads the client's page
func (s *StorefrontService) Logout(ctx context.Context, clientID string) (*dto.PageView, error) {
	var msg string
	if _, err := s.run(ctx, clientID, "StorefrontService.Logout", "", func(ctx context.Context, sf *storefront.Storefront) error {
		var err error
		msg, err = sf.Logout(ctx)
		return err
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User logged out")
	return s.reload(ctx, clientID, msg)
}

// reload drops the in-memory page so it is rebuilt from the store,
// carrying an optional alert across
func (s *StorefrontService) reload(ctx context.Context, clientID, alert string) (*dto.PageView, error) {
	s.mu.Lock()
	s.forget(clientID)
	s.mu.Unlock()

	return s.run(ctx, clientID, "StorefrontService.Reload", "", func(_ context.Context, sf *storefront.Storefront) error {
		if alert != "" {
			sf.Alert(alert)
		}
		return nil
	})
}

// run executes op against the client's storefront under its lock, traces
// it and, for cart operations, records the cart.operations metric
func (s *StorefrontService) run(
	ctx context.Context,
	clientID string,
	spanName string,
	cartOp string,
	op func(ctx context.Context, sf *storefront.Storefront) error,
) (*dto.PageView, error) {
	ctx, span := s.tracer.Start(ctx, spanName)
	defer span.End()

	span.SetAttributes(attribute.String("client.id", clientID))

	c, err := s.client(ctx, clientID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to open storefront")
		s.logger.ErrorContext(ctx, "Failed to open storefront",
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := op(ctx, c.sf); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Operation failed")
		s.logger.ErrorContext(ctx, "Storefront operation failed",
			slog.String("operation", spanName),
			slog.String("error", err.Error()),
		)
		if cartOp != "" {
			s.cartOperations.Add(ctx, 1,
				metric.WithAttributes(
					attribute.String("operation", cartOp),
					attribute.String("result", "failure"),
				),
			)
		}
		return nil, err
	}

	if cartOp != "" {
		s.cartOperations.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("operation", cartOp),
				attribute.String("result", "success"),
			),
		)
		s.logger.DebugContext(ctx, "Cart updated",
			slog.String("operation", cartOp),
			slog.Int("cart_count", c.sf.CartCount()),
			slog.String("cart_total", c.sf.CartTotal().StringFixed(2)),
		)
	}

	span.SetStatus(codes.Ok, "Operation completed")
	return c.sf.Page(), nil
}

// client returns the open storefront for clientID, opening it from the
// store on first use
func (s *StorefrontService) client(ctx context.Context, clientID string) (*client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.clients[clientID]; ok {
		s.recent.MoveToFront(e)
		return e.Value.(*client), nil
	}

	sf, err := storefront.Open(ctx, s.catalog, s.stores(clientID), s.opts)
	if err != nil {
		return nil, err
	}
	if s.catalogReady.Load() {
		if err := sf.ShowCatalog(ctx); err != nil {
			return nil, err
		}
	}

	c := &client{id: clientID, sf: sf}
	s.clients[clientID] = s.recent.PushFront(c)

	for s.recent.Len() > s.maxClients {
		oldest := s.recent.Back().Value.(*client)
		s.forget(oldest.id)
		s.logger.DebugContext(ctx, "Storefront evicted",
			slog.String("evicted_client_id", oldest.id),
		)
	}

	s.logger.DebugContext(ctx, "Storefront opened",
		slog.Bool("logged_in", sf.LoggedIn()),
	)
	return c, nil
}

// forget drops a client's open storefront; s.mu must be held
func (s *StorefrontService) forget(clientID string) {
	if e, ok := s.clients[clientID]; ok {
		s.recent.Remove(e)
		delete(s.clients, clientID)
	}
}

// OpenClients reports how many storefronts are held in memory
func (s *StorefrontService) OpenClients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recent.Len()
}
