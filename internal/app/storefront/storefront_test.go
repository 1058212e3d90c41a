package storefront_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mrops-br/storefront/internal/app/storefront"
	"github.com/mrops-br/storefront/internal/domain"
	"github.com/mrops-br/storefront/internal/infrastructure/repository/memory"
	"github.com/mrops-br/storefront/internal/infrastructure/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type fixture struct {
	kv      *store.MemoryStore
	state   *store.ClientStore
	catalog *memory.CatalogRepository
	now     time.Time
}

func rating(r float64) *float64 { return &r }

func newFixture(t *testing.T, products ...domain.Product) *fixture {
	t.Helper()
	tracer := noop.NewTracerProvider().Tracer("test")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	f := &fixture{
		kv:      store.NewMemoryStore(),
		catalog: memory.NewCatalogRepository(tracer, logger),
		now:     time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	f.state = store.NewClientStore(f.kv, "client", tracer, logger)
	require.NoError(t, f.catalog.ReplaceAll(context.Background(), products))
	return f
}

func (f *fixture) open(t *testing.T) *storefront.Storefront {
	t.Helper()
	sf, err := storefront.Open(context.Background(), f.catalog, f.state, storefront.Options{
		StoreName:     "BestwearMall",
		LoginPath:     "/login",
		ToastDuration: 2500 * time.Millisecond,
		Now:           func() time.Time { return f.now },
	})
	require.NoError(t, err)
	return sf
}

func (f *fixture) login(t *testing.T, name string) {
	t.Helper()
	require.NoError(t, f.state.SaveSession(context.Background(), &domain.Session{Name: name}))
}

var (
	shirt  = domain.Product{ID: 1, Name: "Shirt", Price: decimal.NewFromInt(500), Image: "shirt.jpg", Category: "men", Stock: 2}
	dress  = domain.Product{ID: 2, Name: "Summer Dress", Price: decimal.RequireFromString("1299.50"), Image: "dress.jpg", Category: "women", Rating: rating(4.6), Stock: 0}
	jacket = domain.Product{ID: 3, Name: "Denim Jacket", Price: decimal.NewFromInt(2500), Image: "jacket.jpg", Category: "men", Rating: rating(2.2), Stock: 5}
)

func TestAddSameProductTwice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)
	sf := f.open(t)

	require.NoError(t, sf.AddToCart(ctx, 1))
	require.NoError(t, sf.AddToCart(ctx, 1))

	cart := sf.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].ID)
	assert.Equal(t, 2, cart[0].Quantity)
	assert.True(t, sf.CartTotal().Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 2, sf.CartCount())
}

func TestAddToCartSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)
	sf := f.open(t)

	require.NoError(t, sf.AddToCart(ctx, 1))

	page := sf.Page()
	assert.True(t, page.Cart.Open)
	assert.Equal(t, 1, page.CartCount)
	assert.Equal(t, "Shirt added to cart", page.Toast)
	assert.Equal(t, int64(2500), page.ToastMillis)
	require.Len(t, page.Cart.Lines, 1)
	assert.Equal(t, "Ksh 500.00", page.Cart.Lines[0].PriceLabel)
	assert.Equal(t, "Ksh 500.00", page.Cart.TotalLabel)

	stored, err := f.state.LoadCart(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].Quantity)
}

func TestToastAutoHides(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)
	sf := f.open(t)
	require.NoError(t, sf.AddToCart(ctx, 1))

	f.now = f.now.Add(2 * time.Second)
	assert.Equal(t, "Shirt added to cart", sf.Page().Toast)

	f.now = f.now.Add(time.Second)
	assert.Empty(t, sf.Page().Toast)
}

func TestAddUnknownProductIsNoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)
	sf := f.open(t)

	require.NoError(t, sf.AddToCart(ctx, 42))

	assert.Empty(t, sf.Cart())
	page := sf.Page()
	assert.False(t, page.Cart.Open)
	assert.Empty(t, page.Toast)

	_, ok, err := f.kv.Get(ctx, "client:cart")
	require.NoError(t, err)
	assert.False(t, ok, "nothing should be persisted")
}

func TestPriceIsSnapshotAtAddTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)
	sf := f.open(t)
	require.NoError(t, sf.AddToCart(ctx, 1))

	repriced := shirt
	repriced.Price = decimal.NewFromInt(800)
	repriced.Name = "Shirt v2"
	require.NoError(t, f.catalog.ReplaceAll(ctx, []domain.Product{repriced}))

	require.NoError(t, sf.AddToCart(ctx, 1))

	cart := sf.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, "Shirt", cart[0].Name)
	assert.True(t, cart[0].Price.Equal(decimal.NewFromInt(500)))
	assert.True(t, sf.CartTotal().Equal(decimal.NewFromInt(1000)))
}

func TestCartKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	sf := newFixture(t, shirt, dress, jacket).open(t)

	for _, id := range []int{3, 1, 2, 1} {
		require.NoError(t, sf.AddToCart(ctx, id))
	}

	cart := sf.Cart()
	require.Len(t, cart, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{cart[0].ID, cart[1].ID, cart[2].ID})
	assert.Equal(t, []int{1, 2, 1}, []int{cart[0].Quantity, cart[1].Quantity, cart[2].Quantity})
}

func TestChangeQuantity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt, jacket)
	sf := f.open(t)
	require.NoError(t, sf.AddToCart(ctx, 1))
	require.NoError(t, sf.AddToCart(ctx, 3))

	require.NoError(t, sf.ChangeQuantity(ctx, 1, 1))
	require.NoError(t, sf.ChangeQuantity(ctx, 1, 1))
	assert.Equal(t, 3, sf.Cart()[0].Quantity)
	assert.Equal(t, 4, sf.Page().CartCount)

	require.NoError(t, sf.ChangeQuantity(ctx, 1, -1))
	assert.Equal(t, 2, sf.Cart()[0].Quantity)

	stored, err := f.state.LoadCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stored[0].Quantity)
}

func TestDecrementLastUnitRemovesLine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt, jacket)
	sf := f.open(t)
	require.NoError(t, sf.AddToCart(ctx, 1))
	require.NoError(t, sf.AddToCart(ctx, 3))

	require.NoError(t, sf.ChangeQuantity(ctx, 1, -1))

	cart := sf.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].ID)
	for _, item := range cart {
		assert.Positive(t, item.Quantity)
	}

	stored, err := f.state.LoadCart(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 3, stored[0].ID)
}

func TestChangeQuantityAbsentLineIsNoop(t *testing.T) {
	ctx := context.Background()
	sf := newFixture(t, shirt).open(t)

	require.NoError(t, sf.ChangeQuantity(ctx, 1, 1))
	assert.Empty(t, sf.Cart())
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt, jacket)
	sf := f.open(t)
	require.NoError(t, sf.AddToCart(ctx, 1))
	require.NoError(t, sf.AddToCart(ctx, 3))

	require.NoError(t, sf.RemoveFromCart(ctx, 1))
	once := sf.Cart()
	require.NoError(t, sf.RemoveFromCart(ctx, 1))

	assert.Equal(t, once, sf.Cart())
	require.Len(t, once, 1)
	assert.Equal(t, 3, once[0].ID)
	assert.Equal(t, 1, sf.Page().CartCount)
}

func TestCountAndTotalMatchLines(t *testing.T) {
	ctx := context.Background()
	sf := newFixture(t, shirt, dress, jacket).open(t)

	ops := []func() error{
		func() error { return sf.AddToCart(ctx, 2) },
		func() error { return sf.AddToCart(ctx, 1) },
		func() error { return sf.ChangeQuantity(ctx, 2, 1) },
		func() error { return sf.AddToCart(ctx, 3) },
		func() error { return sf.ChangeQuantity(ctx, 1, -1) },
		func() error { return sf.AddToCart(ctx, 3) },
	}

	for i, op := range ops {
		require.NoError(t, op(), "op %d", i)

		count := 0
		total := decimal.Zero
		for _, item := range sf.Cart() {
			count += item.Quantity
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		assert.Equal(t, count, sf.CartCount(), "op %d", i)
		assert.True(t, total.Equal(sf.CartTotal()), "op %d", i)
	}

	// 2 × 1299.50 + 2 × 2500
	assert.True(t, sf.CartTotal().Equal(decimal.RequireFromString("7599")), "got %s", sf.CartTotal())
}

func TestCartSurvivesReload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt, dress, jacket)
	sf := f.open(t)
	require.NoError(t, sf.AddToCart(ctx, 3))
	require.NoError(t, sf.AddToCart(ctx, 1))
	require.NoError(t, sf.AddToCart(ctx, 3))

	reloaded := f.open(t)

	want, got := sf.Cart(), reloaded.Cart()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Quantity, got[i].Quantity)
		assert.True(t, want[i].Price.Equal(got[i].Price))
	}
}

func TestCountBadgeWaitsForCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)
	sf := f.open(t)
	require.NoError(t, sf.AddToCart(ctx, 1))

	reloaded := f.open(t)
	assert.Equal(t, 0, reloaded.Page().CartCount)
	assert.Empty(t, reloaded.Page().Products)

	require.NoError(t, reloaded.ShowCatalog(ctx))
	page := reloaded.Page()
	assert.Equal(t, 1, page.CartCount)
	assert.Len(t, page.Products, 1)
}

type failingStore struct {
	domain.StateStore
}

func (failingStore) SaveCart(context.Context, domain.Cart) error {
	return errors.New("disk full")
}

func TestPersistFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt)

	sf, err := storefront.Open(ctx, f.catalog, failingStore{StateStore: f.state}, storefront.Options{})
	require.NoError(t, err)

	assert.EqualError(t, sf.AddToCart(ctx, 1), "disk full")
}

type brokenAfterFirstSave struct {
	domain.StateStore
	saves *int
}

func (s brokenAfterFirstSave) SaveCart(ctx context.Context, cart domain.Cart) error {
	*s.saves++
	if *s.saves > 1 {
		return errors.New("disk full")
	}
	return s.StateStore.SaveCart(ctx, cart)
}

func TestFailedSaveLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, shirt, dress)

	saves := 0
	sf, err := storefront.Open(ctx, f.catalog, brokenAfterFirstSave{StateStore: f.state, saves: &saves}, storefront.Options{})
	require.NoError(t, err)
	require.NoError(t, sf.ShowCatalog(ctx))
	require.NoError(t, sf.AddToCart(ctx, 1))

	assert.Error(t, sf.AddToCart(ctx, 1))
	assert.Error(t, sf.AddToCart(ctx, 2))
	assert.Error(t, sf.ChangeQuantity(ctx, 1, 2))
	assert.Error(t, sf.RemoveFromCart(ctx, 1))

	cart := sf.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.Equal(t, 1, sf.Page().CartCount)
}
