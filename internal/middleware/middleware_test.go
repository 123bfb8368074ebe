package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/model"
	"storefront/internal/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name      string
		inbound   string
		expectNew bool
	}{
		{name: "Generates an id", inbound: "", expectNew: true},
		{name: "Reuses an inbound id", inbound: "abc-123", expectNew: false},
		{name: "Replaces an oversized id", inbound: string(bytes.Repeat([]byte("x"), 200)), expectNew: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			if tt.inbound != "" {
				req.Header.Set(RequestIDHeader, tt.inbound)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
			if tt.expectNew {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.inbound, seen)
			}
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, GetRequestID(req.Context()))
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedStatus int
		expectHandler  bool
	}{
		{
			name:           "Preflight request",
			method:         http.MethodOptions,
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
		},
		{
			name:           "GET request",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := CORS(testHandler)

			req := httptest.NewRequest(tt.method, "/api/products", nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
			assert.Equal(t, "Content-Type, X-Request-ID", w.Header().Get("Access-Control-Allow-Headers"))
		})
	}
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		handlerStatus int
		expectLevel   string
	}{
		{name: "Successful request", path: "/products/7", handlerStatus: http.StatusOK, expectLevel: "info"},
		{name: "Not found request", path: "/products/999", handlerStatus: http.StatusNotFound, expectLevel: "info"},
		{name: "Server error", path: "/products/1", handlerStatus: http.StatusBadGateway, expectLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)

			r := chi.NewRouter()
			r.Use(RequestID)
			r.Use(Logging(logger))
			r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.handlerStatus)
			})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set(RequestIDHeader, "req-42")
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			assert.Equal(t, tt.handlerStatus, w.Code)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.expectLevel, entry["level"])
			assert.Equal(t, "http request", entry["message"])
			assert.Equal(t, tt.path, entry["path"])
			assert.Equal(t, "/products/{id}", entry["route"])
			assert.Equal(t, float64(tt.handlerStatus), entry["status"])
			assert.Equal(t, "req-42", entry["request_id"])
		})
	}
}

func TestMetrics(t *testing.T) {
	metrics := telemetry.NewMetrics()

	r := chi.NewRouter()
	r.Use(Metrics(metrics))
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/products/1", "/products/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	w := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := w.Body.String()
	assert.Contains(t, body, `storefront_http_request_duration_seconds_count{method="GET",route="/products/{id}",status="200"} 2`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		shouldPanic    bool
		panicValue     interface{}
		expectedStatus int
	}{
		{
			name:           "No panic",
			shouldPanic:    false,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Panic with string",
			shouldPanic:    true,
			panicValue:     "something went wrong",
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "Panic with error",
			shouldPanic:    true,
			panicValue:     assert.AnError,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.shouldPanic {
					panic(tt.panicValue)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := RequestID(Recovery(logger)(testHandler))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(RequestIDHeader, "req-7")
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.shouldPanic {
				var resp model.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, model.ErrCodeInternalError, resp.Error)
				assert.Equal(t, "internal server error", resp.Message)
				assert.Equal(t, "req-7", resp.CorrelationID)
			}
		})
	}
}
