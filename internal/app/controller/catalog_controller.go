package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/mrops-br/catalog-ui/internal/app/dto"
	"github.com/mrops-br/catalog-ui/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

const (
	msgListFailed   = "Failed to fetch products."
	msgSaveFailed   = "Failed to save product"
	msgDeleteFailed = "Failed to delete product"
	msgFetchFailed  = "Failed to fetch product with ID %d"
)

// ErrorPolicy decides which failed operations reach the user as alerts.
// List failures are never alerted and edit failures always are.
type ErrorPolicy int

const (
	// LogDeleteFailures alerts failed submits but only logs failed deletes.
	LogDeleteFailures ErrorPolicy = iota
	// AlertMutationFailures alerts every failed submit and delete.
	AlertMutationFailures
)

// Option configures a CatalogController
type Option func(*CatalogController)

// WithErrorPolicy overrides the default LogDeleteFailures policy
func WithErrorPolicy(policy ErrorPolicy) Option {
	return func(c *CatalogController) {
		c.policy = policy
	}
}

// WithInFlight shares a mutation guard between controllers
func WithInFlight(guard *InFlight) Option {
	return func(c *CatalogController) {
		c.inflight = guard
	}
}

// CatalogController drives the product grid and the product modal of one
// screen against the product API.
type CatalogController struct {
	id       string
	api      domain.ProductAPI
	surface  Surface
	inflight *InFlight
	policy   ErrorPolicy
	fetches  singleflight.Group

	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
	alerts     metric.Int64Counter

	listMu       sync.Mutex
	listIssued   uint64
	listRendered uint64
}

// NewCatalogController creates a controller drawing on surface
func NewCatalogController(
	api domain.ProductAPI,
	surface Surface,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
	opts ...Option,
) *CatalogController {
	operations, _ := meter.Int64Counter(
		"catalog.operations",
		metric.WithDescription("Total number of catalog controller operations"),
	)

	alerts, _ := meter.Int64Counter(
		"catalog.alerts",
		metric.WithDescription("Total number of error alerts shown to users"),
	)

	c := &CatalogController{
		id:         uuid.New().String(),
		api:        api,
		surface:    surface,
		policy:     LogDeleteFailures,
		tracer:     tracer,
		logger:     logger,
		operations: operations,
		alerts:     alerts,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.inflight == nil {
		c.inflight = NewInFlight()
	}
	c.logger = c.logger.With(slog.String("controller_id", c.id))
	return c
}

// ID returns the controller's unique identifier
func (c *CatalogController) ID() string {
	return c.id
}

// ListProducts fetches the whole collection and replaces the grid with it.
// Failures are logged only and leave the grid as it was.
func (c *CatalogController) ListProducts(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "CatalogController.ListProducts")
	defer span.End()

	seq := c.issueList()

	products, err := c.api.List(ctx)
	if err != nil {
		c.failed(ctx, span, "list", msgListFailed, err)
		return fmt.Errorf("%s: %w", msgListFailed, err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))

	if !c.renderList(seq, products) {
		c.logger.DebugContext(ctx, "Discarding stale product list",
			slog.Uint64("sequence", seq),
		)
		c.record(ctx, "list", "stale")
		span.SetStatus(codes.Ok, "Newer product list already rendered")
		return nil
	}

	c.record(ctx, "list", "success")
	c.logger.InfoContext(ctx, "Products rendered",
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products rendered successfully")
	return nil
}

// OpenForm shows the modal. A nil product opens an empty create form,
// otherwise every field, the identifier included, is filled from product.
func (c *CatalogController) OpenForm(product *domain.Product) {
	if product == nil {
		c.surface.ShowModal(TitleAddProduct)
		c.surface.FillForm(dto.FormValues{})
		c.logger.Debug("Opened create form")
		return
	}

	c.surface.ShowModal(TitleEditProduct)
	c.surface.FillForm(dto.FormFromProduct(product))
	c.logger.Debug("Opened edit form",
		slog.Int64("product_id", product.ID),
	)
}

// CloseForm hides the modal and clears every field
func (c *CatalogController) CloseForm() {
	c.surface.HideModal()
	c.surface.ResetForm()
}

// SubmitForm creates or updates the product held by the form. On success
// the modal closes and the grid is refreshed; on failure the user is
// alerted and the modal keeps its values.
func (c *CatalogController) SubmitForm(ctx context.Context) error {
	return c.submit(ctx, c.surface.FormValues())
}

// SubmitValues fills the form with values and submits exactly those values,
// even if another request refills the form in the meantime.
func (c *CatalogController) SubmitValues(ctx context.Context, values dto.FormValues) error {
	c.surface.FillForm(values)
	return c.submit(ctx, values)
}

func (c *CatalogController) submit(ctx context.Context, values dto.FormValues) error {
	ctx, span := c.tracer.Start(ctx, "CatalogController.SubmitForm")
	defer span.End()

	id, isUpdate, err := values.Identifier()
	if err != nil {
		c.failed(ctx, span, "update", err.Error(), err)
		c.alert(ctx, "update", err.Error())
		return err
	}

	operation, key := "create", createKey(c.id)
	if isUpdate {
		operation, key = "update", productKey(id)
		span.SetAttributes(attribute.Int64("product.id", id))
	}
	span.SetAttributes(attribute.String("operation", operation))

	release, ok := c.inflight.Acquire(key)
	if !ok {
		c.rejected(ctx, span, operation, key)
		return ErrOperationInFlight
	}

	draft := values.Draft()
	var saved *domain.Product
	if isUpdate {
		saved, err = c.api.Update(ctx, id, draft)
	} else {
		saved, err = c.api.Create(ctx, draft)
	}
	release()

	if err != nil {
		message := msgSaveFailed
		if serverMessage, ok := domain.ServerMessage(err); ok {
			message = serverMessage
		}
		c.failed(ctx, span, operation, "Error saving product", err)
		c.alert(ctx, operation, message)
		return fmt.Errorf("%s: %w", msgSaveFailed, err)
	}

	c.record(ctx, operation, "success")
	if saved != nil {
		c.logger.InfoContext(ctx, "Product saved",
			slog.String("operation", operation),
			slog.Int64("product_id", saved.ID),
		)
	}

	c.CloseForm()
	_ = c.ListProducts(ctx)

	span.SetStatus(codes.Ok, "Product saved successfully")
	return nil
}

// DeleteProduct removes a product and refreshes the grid
func (c *CatalogController) DeleteProduct(ctx context.Context, id int64) error {
	ctx, span := c.tracer.Start(ctx, "CatalogController.DeleteProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	key := productKey(id)
	release, ok := c.inflight.Acquire(key)
	if !ok {
		c.rejected(ctx, span, "delete", key)
		return ErrOperationInFlight
	}

	err := c.api.Delete(ctx, id)
	release()

	if err != nil {
		c.failed(ctx, span, "delete", "Error deleting product", err)
		if c.policy == AlertMutationFailures {
			message := msgDeleteFailed
			if serverMessage, ok := domain.ServerMessage(err); ok {
				message = serverMessage
			}
			c.alert(ctx, "delete", message)
		}
		return fmt.Errorf("%s: %w", msgDeleteFailed, err)
	}

	c.record(ctx, "delete", "success")
	c.logger.InfoContext(ctx, "Product deleted",
		slog.Int64("product_id", id),
	)

	_ = c.ListProducts(ctx)

	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

// EditProduct fetches one product and opens the form pre-filled with it
func (c *CatalogController) EditProduct(ctx context.Context, id int64) error {
	ctx, span := c.tracer.Start(ctx, "CatalogController.EditProduct")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	result, err, shared := c.fetches.Do(strconv.FormatInt(id, 10), func() (interface{}, error) {
		// shared by every joined caller, so no single caller may cancel it
		return c.api.Get(context.WithoutCancel(ctx), id)
	})
	if err == nil && result.(*domain.Product) == nil {
		err = domain.NotFound("get product", id)
	}
	if err != nil {
		message := fmt.Sprintf(msgFetchFailed, id)
		c.failed(ctx, span, "edit", "Error editing product", err)
		c.alert(ctx, "edit", message)
		return fmt.Errorf("%s: %w", message, err)
	}

	product := *result.(*domain.Product)
	c.OpenForm(&product)
	c.record(ctx, "edit", "success")

	span.SetAttributes(attribute.Bool("fetch.shared", shared))
	span.SetStatus(codes.Ok, "Product loaded for editing")
	return nil
}

func (c *CatalogController) issueList() uint64 {
	c.listMu.Lock()
	defer c.listMu.Unlock()
	c.listIssued++
	return c.listIssued
}

// renderList draws products unless a list issued after seq is already shown
func (c *CatalogController) renderList(seq uint64, products []domain.Product) bool {
	c.listMu.Lock()
	defer c.listMu.Unlock()

	if seq <= c.listRendered {
		return false
	}
	c.listRendered = seq
	c.surface.RenderProducts(dto.ToTileList(products))
	return true
}

func (c *CatalogController) alert(ctx context.Context, operation, message string) {
	c.surface.Alert("Error: " + message)
	c.alerts.Add(ctx, 1,
		metric.WithAttributes(attribute.String("operation", operation)),
	)
}

func (c *CatalogController) failed(ctx context.Context, span trace.Span, operation, message string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, message)
	c.logger.ErrorContext(ctx, message,
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	c.record(ctx, operation, "failure")
}

func (c *CatalogController) rejected(ctx context.Context, span trace.Span, operation, key string) {
	span.SetStatus(codes.Error, "Request already in flight")
	c.logger.WarnContext(ctx, "Ignoring request while another is in flight",
		slog.String("operation", operation),
		slog.String("key", key),
	)
	c.record(ctx, operation, "in_flight")
}

func (c *CatalogController) record(ctx context.Context, operation, result string) {
	c.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}
