package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/config"
	"storefront/internal/imagehost"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/render"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalog is a mock implementation of service.PageFetcher.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FetchPage(ctx context.Context, page, pageSize int) model.Page {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).(model.Page)
}

// MockProductDetails is a mock implementation of service.ProductDetails.
type MockProductDetails struct {
	mock.Mock
}

func (m *MockProductDetails) Render(ctx context.Context, id int) (*service.ProductDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductDetail), args.Error(1)
}

func newTestRouter(t *testing.T, catalog *MockCatalog, details *MockProductDetails, mode model.RenderMode) http.Handler {
	t.Helper()

	renderer, err := render.New(imagehost.NewPolicy(config.ImageConfig{
		Host:       "cdn.dummyjson.com",
		PathPrefix: "/products/",
	}))
	require.NoError(t, err)

	h := NewProductHandler(catalog, details, renderer, service.ListOptions{PageSize: 10, Mode: mode}, zerolog.Nop())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Get("/products", h.ListPage)
	r.Get("/products/{id}", h.DetailPage)
	r.Get("/api/products", h.ListAPI)
	r.Get("/api/products/{id}", h.DetailAPI)
	return r
}

func catalogPage() model.Page {
	return model.Page{
		Items: []model.Product{
			{ID: 11, Title: "Table", Price: 30, Category: "furniture", Thumbnail: "https://cdn.dummyjson.com/products/11/thumbnail.png"},
			{ID: 12, Title: "Lipstick", Price: 10, Category: "beauty"},
			{ID: 13, Title: "Chair", Price: 20, Category: "furniture"},
		},
		Total: 25,
	}
}

func TestProductHandler_ListAPI(t *testing.T) {
	tests := []struct {
		name          string
		query         string
		expectPage    int
		expectIDs     []int
		expectSort    model.SortOrder
		expectHasPrev bool
	}{
		{
			name:       "Default page",
			query:      "",
			expectPage: 1,
			expectIDs:  []int{11, 12, 13},
		},
		{
			name:          "Filter and sort",
			query:         "?page=2&category=furniture&sort=asc",
			expectPage:    2,
			expectIDs:     []int{13, 11},
			expectSort:    model.SortAscending,
			expectHasPrev: true,
		},
		{
			name:       "Invalid page falls back to 1",
			query:      "?page=abc&sort=sideways",
			expectPage: 1,
			expectIDs:  []int{11, 12, 13},
		},
		{
			name:       "Negative page falls back to 1",
			query:      "?page=-4&sort=desc",
			expectPage: 1,
			expectIDs:  []int{11, 13, 12},
			expectSort: model.SortDescending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := new(MockCatalog)
			catalog.On("FetchPage", mock.Anything, tt.expectPage, 10).Return(catalogPage())
			router := newTestRouter(t, catalog, new(MockProductDetails), model.RenderServer)

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp struct {
				Page        int             `json:"page"`
				TotalPages  int             `json:"totalPages"`
				Sort        model.SortOrder `json:"sort"`
				HasPrevious bool            `json:"hasPrevious"`
				HasNext     bool            `json:"hasNext"`
				Categories  []service.CategoryOption
				Products    []render.Card `json:"products"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			ids := make([]int, 0, len(resp.Products))
			for _, p := range resp.Products {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expectIDs, ids)
			assert.Equal(t, tt.expectPage, resp.Page)
			assert.Equal(t, 3, resp.TotalPages)
			assert.Equal(t, tt.expectSort, resp.Sort)
			assert.Equal(t, tt.expectHasPrev, resp.HasPrevious)
			assert.True(t, resp.HasNext)
			assert.Equal(t, []service.CategoryOption{
				{Value: "furniture", Label: "Furniture"},
				{Value: "beauty", Label: "Beauty"},
			}, resp.Categories)
			catalog.AssertExpectations(t)
		})
	}
}

func TestProductHandler_ListAPI_CardFields(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("FetchPage", mock.Anything, 1, 10).Return(catalogPage())
	router := newTestRouter(t, catalog, new(MockProductDetails), model.RenderServer)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	var resp struct {
		Products []render.Card `json:"products"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Products, 3)
	assert.Equal(t, "30.00", resp.Products[0].PriceText)
	assert.Equal(t, "/images?src=https%3A%2F%2Fcdn.dummyjson.com%2Fproducts%2F11%2Fthumbnail.png", resp.Products[0].Image)
	assert.Empty(t, resp.Products[1].Image)
}

func TestProductHandler_ListPage(t *testing.T) {
	t.Run("Server mode renders the loaded page", func(t *testing.T) {
		catalog := new(MockCatalog)
		catalog.On("FetchPage", mock.Anything, 2, 10).Return(catalogPage())
		router := newTestRouter(t, catalog, new(MockProductDetails), model.RenderServer)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?page=2", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Lipstick")
		assert.Contains(t, w.Body.String(), "2 of 3")
		catalog.AssertExpectations(t)
	})

	t.Run("Empty catalog shows the empty state", func(t *testing.T) {
		catalog := new(MockCatalog)
		catalog.On("FetchPage", mock.Anything, 1, 10).Return(model.EmptyPage())
		router := newTestRouter(t, catalog, new(MockProductDetails), model.RenderServer)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No products found.")
	})

	t.Run("Client mode does not touch the catalog", func(t *testing.T) {
		catalog := new(MockCatalog)
		router := newTestRouter(t, catalog, new(MockProductDetails), model.RenderClient)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products?page=3&sort=asc", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `data-endpoint="/api/products?page=3&amp;sort=asc"`)
		catalog.AssertNotCalled(t, "FetchPage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductHandler_DetailAPI(t *testing.T) {
	detail := &service.ProductDetail{
		Product:   model.Product{ID: 1, Title: "Mascara", AvailabilityStatus: "Low Stock", Price: 9.99},
		Badge:     model.BadgeWarning,
		PriceText: "9.99",
		Slides:    []service.Slide{{URL: "https://cdn.dummyjson.com/products/1/1.png", Alt: "Mascara Image 1"}},
	}

	tests := []struct {
		name           string
		path           string
		mockID         int
		mockDetail     *service.ProductDetail
		mockError      error
		expectService  bool
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			path:           "/api/products/1",
			mockID:         1,
			mockDetail:     detail,
			expectService:  true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Not found",
			path:           "/api/products/999",
			mockID:         999,
			mockError:      fmt.Errorf("failed to render product 999: %w", &model.FetchError{Op: "fetch one", ID: 999, Status: 404, Err: model.ErrProductNotFound}),
			expectService:  true,
			expectedStatus: http.StatusNotFound,
			expectedCode:   model.ErrCodeProductNotFound,
		},
		{
			name:           "Catalog unavailable",
			path:           "/api/products/2",
			mockID:         2,
			mockError:      &model.FetchError{Op: "fetch one", ID: 2, Status: 500, Err: model.ErrCatalogUnavailable},
			expectService:  true,
			expectedStatus: http.StatusBadGateway,
			expectedCode:   model.ErrCodeCatalogUnavailable,
		},
		{
			name:           "Non-numeric id",
			path:           "/api/products/abc",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidProductID,
		},
		{
			name:           "Zero id",
			path:           "/api/products/0",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidProductID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := new(MockProductDetails)
			if tt.expectService {
				details.On("Render", mock.Anything, tt.mockID).Return(tt.mockDetail, tt.mockError)
			}
			router := newTestRouter(t, new(MockCatalog), details, model.RenderServer)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(middleware.RequestIDHeader, "req-1")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Error)
				assert.NotEmpty(t, resp.Message)
				assert.Equal(t, "req-1", resp.CorrelationID)
			} else {
				var resp service.ProductDetail
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, model.BadgeWarning, resp.Badge)
				assert.Equal(t, "9.99", resp.PriceText)
			}

			if tt.expectService {
				details.AssertExpectations(t)
			} else {
				details.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestProductHandler_DetailPage(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		mockDetail     *service.ProductDetail
		mockError      error
		expectedStatus int
		expectedText   string
	}{
		{
			name: "Success",
			path: "/products/5",
			mockDetail: &service.ProductDetail{
				Product:   model.Product{ID: 5, Title: "Desk", AvailabilityStatus: "In Stock"},
				Badge:     model.BadgePositive,
				PriceText: "120.00",
			},
			expectedStatus: http.StatusOK,
			expectedText:   "$120.00",
		},
		{
			name:           "Not found",
			path:           "/products/5",
			mockError:      model.ErrProductNotFound,
			expectedStatus: http.StatusNotFound,
			expectedText:   "Product not found",
		},
		{
			name:           "Catalog unavailable",
			path:           "/products/5",
			mockError:      model.ErrCatalogUnavailable,
			expectedStatus: http.StatusBadGateway,
			expectedText:   "Catalog unavailable",
		},
		{
			name:           "Invalid id",
			path:           "/products/five",
			expectedStatus: http.StatusBadRequest,
			expectedText:   "Invalid product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details := new(MockProductDetails)
			details.On("Render", mock.Anything, 5).Return(tt.mockDetail, tt.mockError).Maybe()
			router := newTestRouter(t, new(MockCatalog), details, model.RenderServer)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(middleware.RequestIDHeader, "req-9")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
			assert.Contains(t, w.Body.String(), tt.expectedText)
			if tt.expectedStatus != http.StatusOK {
				assert.Contains(t, w.Body.String(), "Reference: req-9")
			}
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := map[string]int{
		"":    1,
		"1":   1,
		"7":   7,
		"0":   1,
		"-2":  1,
		"two": 1,

		"2147483648":           maxPage,
		"9223372036854775807":  maxPage,
		"99999999999999999999": 1,
	}

	for raw, expected := range tests {
		assert.Equal(t, expected, parsePage(raw), "parsePage(%q)", raw)
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(model.ErrInvalidProductID))
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("wrapped: %w", model.ErrProductNotFound)))
	assert.Equal(t, http.StatusBadGateway, statusFor(model.ErrCatalogUnavailable))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
