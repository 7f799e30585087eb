package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mrops-br/catalog-ui/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CollectionPath is where the catalog server exposes its products
const CollectionPath = "/api/products"

// maxErrorBody bounds how much of a failed response is read for its message
const maxErrorBody = 64 << 10

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ProductClient implements domain.ProductAPI over the catalog REST API
type ProductClient struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewProductClient creates a client for the API rooted at baseURL. The
// caller owns httpClient and decides its transport and timeout.
func NewProductClient(baseURL string, httpClient *http.Client, tracer trace.Tracer, logger *slog.Logger) *ProductClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ProductClient{
		baseURL:    strings.TrimRight(baseURL, "/") + CollectionPath,
		httpClient: httpClient,
		tracer:     tracer,
		logger:     logger,
	}
}

type productJSON struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	DateAdded   string  `json:"date_added"`
	ImageURL    string  `json:"image_url"`
}

func (p productJSON) toDomain() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
		Category:    p.Category,
		DateAdded:   p.DateAdded,
		ImageURL:    p.ImageURL,
	}
}

// draftJSON is the request body; nil price or quantity encode as null
type draftJSON struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	DateAdded   string   `json:"date_added"`
	ImageURL    string   `json:"image_url"`
}

func newDraftJSON(d *domain.ProductDraft) draftJSON {
	return draftJSON{
		Name:        d.Name,
		Price:       d.Price,
		Quantity:    d.Quantity,
		Description: d.Description,
		Category:    d.Category,
		DateAdded:   d.DateAdded,
		ImageURL:    d.ImageURL,
	}
}

type errorJSON struct {
	Error string `json:"error"`
}

// List handles GET /api/products
func (c *ProductClient) List(ctx context.Context) ([]domain.Product, error) {
	var payload []productJSON
	if err := c.do(ctx, "list products", http.MethodGet, c.baseURL, nil, &payload); err != nil {
		return nil, err
	}

	products := make([]domain.Product, len(payload))
	for i, p := range payload {
		products[i] = p.toDomain()
	}
	return products, nil
}

// Get handles GET /api/products/{id}
func (c *ProductClient) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var payload productJSON
	if err := c.do(ctx, "get product", http.MethodGet, c.itemURL(id), nil, &payload); err != nil {
		return nil, err
	}
	product := payload.toDomain()
	return &product, nil
}

// Create handles POST /api/products
func (c *ProductClient) Create(ctx context.Context, draft *domain.ProductDraft) (*domain.Product, error) {
	var payload productJSON
	body := newDraftJSON(draft)
	if err := c.do(ctx, "create product", http.MethodPost, c.baseURL, &body, &payload); err != nil {
		return nil, err
	}
	product := payload.toDomain()
	return &product, nil
}

// Update handles PUT /api/products/{id}
func (c *ProductClient) Update(ctx context.Context, id int64, draft *domain.ProductDraft) (*domain.Product, error) {
	var payload productJSON
	body := newDraftJSON(draft)
	if err := c.do(ctx, "update product", http.MethodPut, c.itemURL(id), &body, &payload); err != nil {
		return nil, err
	}
	product := payload.toDomain()
	if product.ID == 0 {
		product.ID = id
	}
	return &product, nil
}

// Delete handles DELETE /api/products/{id}; any response body is ignored
func (c *ProductClient) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, "delete product", http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *ProductClient) itemURL(id int64) string {
	return c.baseURL + "/" + strconv.FormatInt(id, 10)
}

// do sends one request and decodes a 2xx body into out when out is non-nil.
// Every failure is returned as a *domain.RequestError.
func (c *ProductClient) do(ctx context.Context, op, method, url string, in, out interface{}) error {
	ctx, span := c.tracer.Start(ctx, "ProductClient."+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.full", url),
		attribute.String("catalog.operation", op),
	)

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return c.fail(ctx, span, &domain.RequestError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)})
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return c.fail(ctx, span, &domain.RequestError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)})
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "Calling catalog API",
		slog.String("method", method),
		slog.String("url", url),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(ctx, span, &domain.RequestError{Op: op, Err: err})
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(ctx, span, &domain.RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
		})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		span.SetStatus(codes.Ok, "Request succeeded")
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(ctx, span, &domain.RequestError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		})
	}

	span.SetStatus(codes.Ok, "Request succeeded")
	return nil
}

func (c *ProductClient) fail(ctx context.Context, span trace.Span, reqErr *domain.RequestError) error {
	span.RecordError(reqErr)
	span.SetStatus(codes.Error, "Catalog API request failed")
	c.logger.WarnContext(ctx, "Catalog API request failed",
		slog.String("operation", reqErr.Op),
		slog.Int("status_code", reqErr.StatusCode),
		slog.String("error", reqErr.Error()),
	)
	return reqErr
}

// errorMessage extracts {"error": "..."} from a failed response, or ""
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload errorJSON
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Error
}
