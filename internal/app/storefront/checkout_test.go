package storefront_test

import (
	"context"
	"testing"

	"github.com/mrops-br/storefront/internal/app/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceOrderWithoutSession(t *testing.T) {
	ctx := context.Background()
	sf := newFixture(t, shirt).open(t)

	outcome, err := sf.PlaceOrder(ctx)
	require.NoError(t, err)

	assert.Equal(t, storefront.OrderLoginRequired, outcome.Status)
	assert.Equal(t, "/login", outcome.Redirect)
	assert.Empty(t, sf.Cart())
	assert.Equal(t, outcome.Message, sf.Page().Alert)
}

func TestPlaceOrderWithoutSessionKeepsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)
	sf := f.open(t)
	require.NoError(t, sf.AddToCart(ctx, 1))

	outcome, err := sf.PlaceOrder(ctx)
	require.NoError(t, err)

	assert.Equal(t, storefront.OrderLoginRequired, outcome.Status)
	assert.Len(t, sf.Cart(), 1)
	_, ok, _ := f.kv.Get(ctx, "client:cart")
	assert.True(t, ok)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)
	f.login(t, "Amina")
	sf := f.open(t)

	outcome, err := sf.PlaceOrder(ctx)
	require.NoError(t, err)

	assert.Equal(t, storefront.OrderEmptyCart, outcome.Status)
	assert.Equal(t, "Your cart is empty!", outcome.Message)
	assert.Empty(t, outcome.Redirect)
}

func TestPlaceOrderSuccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)
	f.login(t, "Amina")
	sf := f.open(t)
	require.NoError(t, sf.AddToCart(ctx, 1))

	outcome, err := sf.PlaceOrder(ctx)
	require.NoError(t, err)

	assert.Equal(t, storefront.OrderPlaced, outcome.Status)
	assert.Contains(t, outcome.Message, "Amina")
	assert.Empty(t, sf.Cart())
	assert.True(t, sf.CartTotal().IsZero())

	page := sf.Page()
	assert.False(t, page.Cart.Open)
	assert.Equal(t, 0, page.CartCount)
	assert.Equal(t, outcome.Message, page.Alert)
	assert.Empty(t, sf.Page().Alert, "alert is delivered once")

	_, ok, err := f.kv.Get(ctx, "client:cart")
	require.NoError(t, err)
	assert.False(t, ok, "stored cart key must be removed")
}
