package handler

import (
	"context"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/render"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ProductHandler serves the product list and detail pages and their JSON
// counterparts.
type ProductHandler struct {
	catalog  service.PageFetcher
	details  service.ProductDetails
	renderer *render.Renderer
	opts     service.ListOptions
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(
	catalog service.PageFetcher,
	details service.ProductDetails,
	renderer *render.Renderer,
	opts service.ListOptions,
	logger zerolog.Logger,
) *ProductHandler {
	if opts.PageSize <= 0 {
		opts.PageSize = service.DefaultPageSize
	}
	if opts.Mode == "" {
		opts.Mode = model.RenderServer
	}
	return &ProductHandler{
		catalog:  catalog,
		details:  details,
		renderer: renderer,
		opts:     opts,
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// listQuery holds the list route inputs.
type listQuery struct {
	page     int
	category string
	sort     model.SortOrder
}

func parseListQuery(r *http.Request) listQuery {
	q := r.URL.Query()
	return listQuery{
		page:     parsePage(q.Get("page")),
		category: q.Get("category"),
		sort:     model.ParseSortOrder(q.Get("sort")),
	}
}

// listResponse is the JSON list state with products rendered as cards.
type listResponse struct {
	service.ListState
	Products []render.Card `json:"products"`
}

// ListPage handles GET /products.
func (h *ProductHandler) ListPage(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r)

	var state service.ListState
	if h.opts.Mode == model.RenderClient {
		// The browser loads the data from /api/products.
		state = service.ListState{
			Mode:           model.RenderClient,
			Page:           q.page,
			PageSize:       h.opts.PageSize,
			CategoryFilter: q.category,
			SortOrder:      q.sort,
		}
	} else {
		state = h.loadList(r.Context(), q)
	}

	if err := h.renderer.List(w, http.StatusOK, state); err != nil {
		h.logger.Error().Err(err).Msg("failed to render list page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// ListAPI handles GET /api/products.
func (h *ProductHandler) ListAPI(w http.ResponseWriter, r *http.Request) {
	state := h.loadList(r.Context(), parseListQuery(r))

	writeJSON(w, http.StatusOK, listResponse{
		ListState: state,
		Products:  h.renderer.Cards(state.Items),
	})
}

// DetailPage handles GET /products/{id}.
func (h *ProductHandler) DetailPage(w http.ResponseWriter, r *http.Request) {
	detail, err := h.detail(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := h.renderer.Detail(w, http.StatusOK, detail); err != nil {
		h.logger.Error().Err(err).Int("product_id", detail.Product.ID).Msg("failed to render detail page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// DetailAPI handles GET /api/products/{id}.
func (h *ProductHandler) DetailAPI(w http.ResponseWriter, r *http.Request) {
	detail, err := h.detail(r)
	if err != nil {
		writeError(w, r, statusFor(err), model.CodeOf(err), messageFor(err), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// loadList builds a fresh view-model for one request.
func (h *ProductHandler) loadList(ctx context.Context, q listQuery) service.ListState {
	vm := service.NewListViewModel(h.catalog, h.opts, h.logger)
	vm.Load(ctx, q.page)
	vm.SetCategoryFilter(q.category)
	vm.SetSortOrder(q.sort)
	return vm.Snapshot()
}

func (h *ProductHandler) detail(r *http.Request) (*service.ProductDetail, error) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return h.details.Render(r.Context(), id)
}

func (h *ProductHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	view := render.ErrorView{
		Status:        status,
		Title:         errorTitle(status),
		Message:       messageFor(err),
		CorrelationID: middleware.GetRequestID(r.Context()),
	}

	h.logger.Warn().
		Err(err).
		Int("status", status).
		Str("request_id", view.CorrelationID).
		Msg("detail page error")

	if renderErr := h.renderer.Error(w, view); renderErr != nil {
		h.logger.Error().Err(renderErr).Msg("failed to render error page")
		http.Error(w, view.Message, status)
	}
}

func errorTitle(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid product"
	case http.StatusNotFound:
		return "Product not found"
	case http.StatusBadGateway:
		return "Catalog unavailable"
	default:
		return "Something went wrong"
	}
}
