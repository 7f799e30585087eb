package handler

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mrops-br/catalog-ui/internal/app/controller"
	"github.com/mrops-br/catalog-ui/internal/app/dto"
	"github.com/mrops-br/catalog-ui/internal/domain"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/response"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/session"
	"github.com/mrops-br/catalog-ui/internal/infrastructure/http/view"
)

// CatalogHandler turns page requests into controller calls and renders the
// resulting screen
type CatalogHandler struct {
	sessions *session.Manager
	renderer *view.Renderer
	logger   *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(sessions *session.Manager, renderer *view.Renderer, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// Routes registers the page routes on r
func (h *CatalogHandler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Route("/products", func(r chi.Router) {
		r.Get("/new", h.NewProduct)
		r.Post("/save", h.SaveProduct)
		r.Post("/close", h.CloseForm)
		r.Get("/{id}/edit", h.EditProduct)
		r.Post("/{id}/delete", h.DeleteProduct)
	})
}

// Index handles GET /
func (h *CatalogHandler) Index(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	// list failures are logged by the controller and keep the previous grid
	_ = ws.Controller.ListProducts(r.Context())
	h.render(w, r, ws)
}

// NewProduct handles GET /products/new
func (h *CatalogHandler) NewProduct(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	ws.Controller.OpenForm(nil)
	h.render(w, r, ws)
}

// EditProduct handles GET /products/{id}/edit
func (h *CatalogHandler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	if err := ws.Controller.EditProduct(r.Context(), id); err != nil {
		h.logger.DebugContext(r.Context(), "Edit did not open the form",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
	}
	h.render(w, r, ws)
}

// SaveProduct handles POST /products/save
func (h *CatalogHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	values, err := dto.DecodeForm(r.PostForm)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	h.logResult(r, "save", ws.Controller.SubmitValues(r.Context(), values))
	response.SeeOther(w, r, "/")
}

// CloseForm handles POST /products/close
func (h *CatalogHandler) CloseForm(w http.ResponseWriter, r *http.Request) {
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	ws.Controller.CloseForm()
	response.SeeOther(w, r, "/")
}

// DeleteProduct handles POST /products/{id}/delete
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}
	ws, ok := h.workspace(w, r)
	if !ok {
		return
	}

	h.logResult(r, "delete", ws.Controller.DeleteProduct(r.Context(), id))
	response.SeeOther(w, r, "/")
}

func (h *CatalogHandler) workspace(w http.ResponseWriter, r *http.Request) (*session.Workspace, bool) {
	ws, fresh, err := h.sessions.Workspace(w, r)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to resolve session",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
		return nil, false
	}
	if fresh && r.Method == http.MethodGet && r.URL.Path != "/" {
		// a new screen has an empty grid until its first list
		_ = ws.Controller.ListProducts(r.Context())
	}
	return ws, true
}

func (h *CatalogHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.logger.WarnContext(r.Context(), "Invalid product ID",
			slog.String("id", raw),
		)
		response.Error(w, http.StatusBadRequest, fmt.Errorf("%w: %q", domain.ErrInvalidProductID, raw))
		return 0, false
	}
	return id, true
}

func (h *CatalogHandler) render(w http.ResponseWriter, r *http.Request, ws *session.Workspace) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, ws.Screen.Snapshot()); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render page",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
		return
	}
	response.HTML(w, http.StatusOK, buf.Bytes())
}

func (h *CatalogHandler) logResult(r *http.Request, action string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, controller.ErrOperationInFlight):
		h.logger.InfoContext(r.Context(), "Request dropped while another is in flight",
			slog.String("action", action),
		)
	default:
		h.logger.DebugContext(r.Context(), "Action failed",
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}
