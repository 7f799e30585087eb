package memory

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/mrops-br/catalog-ui/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func newTestRepository(seed ...domain.Product) *ProductRepository {
	return NewProductRepository(
		tracenoop.NewTracerProvider().Tracer("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		seed...,
	)
}

func draft(name string, price float64, quantity int) *domain.ProductDraft {
	return &domain.ProductDraft{Name: name, Price: &price, Quantity: &quantity}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	repo := newTestRepository(domain.Product{ID: 4, Name: "Seeded"})
	ctx := context.Background()

	first, err := repo.Create(ctx, draft("Pen", 1.5, 10))
	require.NoError(t, err)
	second, err := repo.Create(ctx, draft("Mug", 4, 2))
	require.NoError(t, err)

	assert.Equal(t, int64(5), first.ID)
	assert.Equal(t, int64(6), second.ID)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, []string{"Seeded", "Pen", "Mug"}, []string{products[0].Name, products[1].Name, products[2].Name})
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	repo := newTestRepository()

	_, err := repo.Create(context.Background(), draft("", 1, 1))

	var reqErr *domain.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Equal(t, "name required", reqErr.Message)
	assert.ErrorIs(t, err, domain.ErrInvalidProductName)
}

func TestGetUpdateDelete(t *testing.T) {
	repo := newTestRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, draft("Pen", 1.5, 10))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, draft("Pen", 2, 8))
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 2.0, updated.Price)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Quantity)

	got.Name = "mutated copy"
	again, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pen", again.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	msg, ok := domain.ServerMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Item not found", msg)

	_, err = repo.Update(ctx, created.ID, draft("Pen", 1, 1))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
