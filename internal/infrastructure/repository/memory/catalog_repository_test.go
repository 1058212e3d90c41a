package memory

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

func newTestRepository() *CatalogRepository {
	return NewCatalogRepository(noop.NewTracerProvider().Tracer("test"), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCatalogRepositoryKeepsSourceOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()

	require.NoError(t, repo.ReplaceAll(ctx, []domain.Product{
		{ID: 3, Name: "Jacket", Price: decimal.NewFromInt(2500)},
		{ID: 1, Name: "Shirt", Price: decimal.NewFromInt(500)},
		{ID: 2, Name: "Cap", Price: decimal.NewFromInt(150)},
	}))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{all[0].ID, all[1].ID, all[2].ID})

	p, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Shirt", p.Name)
}

func TestCatalogRepositoryNotFound(t *testing.T) {
	repo := newTestRepository()

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCatalogRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	require.NoError(t, repo.ReplaceAll(ctx, []domain.Product{{ID: 1, Name: "Shirt"}}))

	err := repo.ReplaceAll(ctx, []domain.Product{{ID: 5, Name: "a"}, {ID: 5, Name: "b"}})
	assert.ErrorIs(t, err, domain.ErrDuplicateProductID)

	// previous catalog stays in place
	p, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Shirt", p.Name)
}

func TestFindAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository()
	require.NoError(t, repo.ReplaceAll(ctx, []domain.Product{{ID: 1, Name: "Shirt"}}))

	all, _ := repo.FindAll(ctx)
	all[0].Name = "changed"

	p, _ := repo.FindByID(ctx, 1)
	assert.Equal(t, "Shirt", p.Name)
}
