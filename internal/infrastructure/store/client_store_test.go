package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newClientStore(kv domain.KeyValueStore, clientID string) *ClientStore {
	return NewClientStore(kv, clientID, noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func assertSameCart(t *testing.T, want, got domain.Cart) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Name, got[i].Name)
		assert.Equal(t, want[i].Image, got[i].Image)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].Price.Equal(got[i].Price), "line %d price: want %s got %s", i, want[i].Price, got[i].Price)
	}
}

func TestCartRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newClientStore(NewMemoryStore(), "c1")

	cart := domain.Cart{
		{ID: 2, Name: "Cap", Price: decimal.RequireFromString("149.99"), Image: "cap.jpg", Quantity: 3},
		{ID: 1, Name: "Shirt", Price: decimal.NewFromInt(500), Image: "shirt.jpg", Quantity: 1},
	}
	require.NoError(t, s.SaveCart(ctx, cart))

	loaded, err := s.LoadCart(ctx)
	require.NoError(t, err)
	assertSameCart(t, cart, loaded)
}

func TestLoadCartAbsentIsEmpty(t *testing.T) {
	loaded, err := newClientStore(NewMemoryStore(), "c1").LoadCart(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, loaded)
	assert.Empty(t, loaded)
}

func TestClearCartRemovesKey(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	s := newClientStore(kv, "c1")

	require.NoError(t, s.SaveCart(ctx, domain.Cart{{ID: 1, Quantity: 1}}))
	require.NoError(t, s.ClearCart(ctx))

	_, ok, err := kv.Get(ctx, "c1:cart")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientsAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	a := newClientStore(kv, "a")
	b := newClientStore(kv, "b")

	require.NoError(t, a.SaveCart(ctx, domain.Cart{{ID: 1, Quantity: 4}}))
	require.NoError(t, a.SaveSession(ctx, &domain.Session{Name: "Amina"}))

	cart, err := b.LoadCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart)

	session, err := b.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newClientStore(NewMemoryStore(), "c1")

	session, err := s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	require.NoError(t, s.SaveSession(ctx, &domain.Session{Name: "Brian", Email: "brian@example.com"}))
	session, err = s.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "Brian", session.Name)

	require.NoError(t, s.ClearSession(ctx))
	session, err = s.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestMalformedCartIsAnError(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryStore()
	require.NoError(t, kv.Set(ctx, "c1:cart", "{not json"))

	_, err := newClientStore(kv, "c1").LoadCart(ctx)
	assert.Error(t, err)
}
