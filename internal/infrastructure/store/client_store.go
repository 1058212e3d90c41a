package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mrops-br/storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Fixed key names, as they would appear in browser local storage
const (
	CartKey    = "cart"
	SessionKey = "loggedInUser"
)

// ClientStore implements domain.StateStore for one client on top of a
// shared key-value store. Keys are namespaced as "<clientID>:<name>".
type ClientStore struct {
	kv       domain.KeyValueStore
	clientID string
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewClientStore scopes kv to clientID
func NewClientStore(kv domain.KeyValueStore, clientID string, tracer trace.Tracer, logger *slog.Logger) *ClientStore {
	return &ClientStore{
		kv:       kv,
		clientID: clientID,
		tracer:   tracer,
		logger:   logger,
	}
}

// Key returns the namespaced key for name
func (s *ClientStore) Key(name string) string {
	return s.clientID + ":" + name
}

// LoadCart reads the cart; an absent key is an empty cart
func (s *ClientStore) LoadCart(ctx context.Context) (domain.Cart, error) {
	ctx, span := s.start(ctx, "ClientStore.LoadCart")
	defer span.End()

	raw, ok, err := s.kv.Get(ctx, s.Key(CartKey))
	if err != nil {
		return nil, s.fail(span, "Failed to read cart", err)
	}
	if !ok {
		span.SetStatus(codes.Ok, "No stored cart")
		return domain.Cart{}, nil
	}

	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, s.fail(span, "Failed to decode cart", fmt.Errorf("decode cart: %w", err))
	}
	if cart == nil {
		cart = domain.Cart{}
	}

	span.SetAttributes(attribute.Int("cart.lines", len(cart)))
	span.SetStatus(codes.Ok, "Cart loaded")
	return cart, nil
}

// SaveCart writes the full cart
func (s *ClientStore) SaveCart(ctx context.Context, cart domain.Cart) error {
	ctx, span := s.start(ctx, "ClientStore.SaveCart")
	defer span.End()

	if cart == nil {
		cart = domain.Cart{}
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return s.fail(span, "Failed to encode cart", fmt.Errorf("encode cart: %w", err))
	}
	if err := s.kv.Set(ctx, s.Key(CartKey), string(data)); err != nil {
		return s.fail(span, "Failed to write cart", err)
	}

	span.SetAttributes(attribute.Int("cart.lines", len(cart)))
	span.SetStatus(codes.Ok, "Cart saved")
	return nil
}

// ClearCart removes the cart key
func (s *ClientStore) ClearCart(ctx context.Context) error {
	ctx, span := s.start(ctx, "ClientStore.ClearCart")
	defer span.End()

	if err := s.kv.Delete(ctx, s.Key(CartKey)); err != nil {
		return s.fail(span, "Failed to delete cart", err)
	}
	span.SetStatus(codes.Ok, "Cart cleared")
	return nil
}

// LoadSession returns nil when nobody is logged in
func (s *ClientStore) LoadSession(ctx context.Context) (*domain.Session, error) {
	ctx, span := s.start(ctx, "ClientStore.LoadSession")
	defer span.End()

	raw, ok, err := s.kv.Get(ctx, s.Key(SessionKey))
	if err != nil {
		return nil, s.fail(span, "Failed to read session", err)
	}
	if !ok {
		span.SetStatus(codes.Ok, "No session")
		return nil, nil
	}

	var session *domain.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, s.fail(span, "Failed to decode session", fmt.Errorf("decode session: %w", err))
	}

	span.SetStatus(codes.Ok, "Session loaded")
	return session, nil
}

func (s *ClientStore) SaveSession(ctx context.Context, session *domain.Session) error {
	ctx, span := s.start(ctx, "ClientStore.SaveSession")
	defer span.End()

	data, err := json.Marshal(session)
	if err != nil {
		return s.fail(span, "Failed to encode session", fmt.Errorf("encode session: %w", err))
	}
	if err := s.kv.Set(ctx, s.Key(SessionKey), string(data)); err != nil {
		return s.fail(span, "Failed to write session", err)
	}

	s.logger.InfoContext(ctx, "Session stored",
		slog.String("user_name", session.Name),
	)
	span.SetStatus(codes.Ok, "Session saved")
	return nil
}

func (s *ClientStore) ClearSession(ctx context.Context) error {
	ctx, span := s.start(ctx, "ClientStore.ClearSession")
	defer span.End()

	if err := s.kv.Delete(ctx, s.Key(SessionKey)); err != nil {
		return s.fail(span, "Failed to delete session", err)
	}
	span.SetStatus(codes.Ok, "Session cleared")
	return nil
}

func (s *ClientStore) start(ctx context.Context, name string) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("client.id", s.clientID))
	return ctx, span
}

func (s *ClientStore) fail(span trace.Span, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	return err
}
