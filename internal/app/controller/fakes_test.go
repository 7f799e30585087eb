package controller

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/mrops-br/catalog-ui/internal/app/dto"
	"github.com/mrops-br/catalog-ui/internal/domain"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type apiCall struct {
	Method string
	ID     int64
	Draft  *domain.ProductDraft
}

// fakeAPI records every call and answers from its fields
type fakeAPI struct {
	mu       sync.Mutex
	calls    []apiCall
	products []domain.Product

	listErr   error
	getErr    error
	createErr error
	updateErr error
	deleteErr error

	// block, when set, is received from before Update and Delete return
	block chan struct{}
}

func (f *fakeAPI) record(call apiCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAPI) Calls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeAPI) List(ctx context.Context) ([]domain.Product, error) {
	f.record(apiCall{Method: "GET"})
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Product(nil), f.products...), nil
}

func (f *fakeAPI) Get(ctx context.Context, id int64) (*domain.Product, error) {
	f.record(apiCall{Method: "GET", ID: id})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, domain.NotFound("get product", id)
}

func (f *fakeAPI) Create(ctx context.Context, draft *domain.ProductDraft) (*domain.Product, error) {
	f.record(apiCall{Method: "POST", Draft: draft})
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := domain.Product{ID: int64(len(f.products) + 1)}
	draft.Apply(&p)
	f.products = append(f.products, p)
	return &p, nil
}

func (f *fakeAPI) Update(ctx context.Context, id int64, draft *domain.ProductDraft) (*domain.Product, error) {
	f.record(apiCall{Method: "PUT", ID: id, Draft: draft})
	if f.block != nil {
		<-f.block
	}
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			draft.Apply(&f.products[i])
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, domain.NotFound("update product", id)
}

func (f *fakeAPI) Delete(ctx context.Context, id int64) error {
	f.record(apiCall{Method: "DELETE", ID: id})
	if f.block != nil {
		<-f.block
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.products[:0]
	for _, p := range f.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.products = kept
	return nil
}

// fakeSurface stands in for the page
type fakeSurface struct {
	mu         sync.Mutex
	tiles      []dto.Tile
	renders    int
	modalOpen  bool
	modalTitle string
	form       dto.FormValues
	alerts     []string
}

func (s *fakeSurface) RenderProducts(tiles []dto.Tile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiles = tiles
	s.renders++
}

func (s *fakeSurface) ShowModal(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalOpen = true
	s.modalTitle = title
}

func (s *fakeSurface) HideModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modalOpen = false
}

func (s *fakeSurface) FillForm(values dto.FormValues) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = values
}

func (s *fakeSurface) ResetForm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = dto.FormValues{}
}

func (s *fakeSurface) FormValues() dto.FormValues {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *fakeSurface) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, message)
}

func newTestController(api domain.ProductAPI, surface Surface, opts ...Option) *CatalogController {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCatalogController(
		api,
		surface,
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"),
		logger,
		opts...,
	)
}
