package memory

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/mrops-br/catalog-ui/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ProductRepository is an in-process implementation of domain.ProductAPI.
// It assigns identifiers the way the catalog server does and answers with
// the same error shapes.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	nextID   int64
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(tracer trace.Tracer, logger *slog.Logger, seed ...domain.Product) *ProductRepository {
	r := &ProductRepository{
		nextID: 1,
		tracer: tracer,
		logger: logger,
	}
	for _, p := range seed {
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
		r.products = append(r.products, p)
	}
	return r
}

// List retrieves all products in creation order
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.List")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, len(r.products))
	copy(products, r.products)

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// Get retrieves a product by ID
func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Get")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, r.notFound(ctx, span, "get product", id)
	}

	product := r.products[i]
	span.SetStatus(codes.Ok, "Product found")
	return &product, nil
}

// Create validates and stores a new product under the next identifier
func (r *ProductRepository) Create(ctx context.Context, draft *domain.ProductDraft) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	if err := draft.Validate(); err != nil {
		return nil, r.invalid(ctx, span, "create product", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product := domain.Product{ID: r.nextID}
	draft.Apply(&product)
	r.nextID++
	r.products = append(r.products, product)

	span.SetAttributes(
		attribute.Int64("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.Int64("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return &product, nil
}

// Update validates the draft and overwrites the stored product in place
func (r *ProductRepository) Update(ctx context.Context, id int64, draft *domain.ProductDraft) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	if err := draft.Validate(); err != nil {
		return nil, r.invalid(ctx, span, "update product", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, r.notFound(ctx, span, "update product", id)
	}
	draft.Apply(&r.products[i])
	product := r.products[i]

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.Int64("product_id", id),
	)

	span.SetStatus(codes.Ok, "Product updated successfully")
	return &product, nil
}

// Delete removes a product. Deleting an unknown identifier succeeds, as it
// does on the catalog server.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexOf(id); i >= 0 {
		r.products = append(r.products[:i], r.products[i+1:]...)
		r.logger.InfoContext(ctx, "Product deleted from repository",
			slog.Int64("product_id", id),
		)
	}

	span.SetStatus(codes.Ok, "Product deleted")
	return nil
}

// indexOf must be called with r.mu held
func (r *ProductRepository) indexOf(id int64) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *ProductRepository) notFound(ctx context.Context, span trace.Span, op string, id int64) error {
	err := domain.NotFound(op, id)
	span.RecordError(err)
	span.SetStatus(codes.Error, "Product not found")
	r.logger.WarnContext(ctx, "Product not found",
		slog.Int64("product_id", id),
	)
	return err
}

func (r *ProductRepository) invalid(ctx context.Context, span trace.Span, op string, cause error) error {
	span.RecordError(cause)
	span.SetStatus(codes.Error, "Validation failed")
	r.logger.WarnContext(ctx, "Rejected invalid product",
		slog.String("error", cause.Error()),
	)
	return &domain.RequestError{
		Op:         op,
		StatusCode: http.StatusBadRequest,
		Message:    cause.Error(),
		Err:        cause,
	}
}
