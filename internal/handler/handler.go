package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent; nothing useful left to tell the client.
		return
	}
}

// writeError writes a model.ErrorResponse carrying the request id.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().
		Str("code", code).
		Str("error", message).
		Int("status", status).
		Str("request_id", middleware.GetRequestID(r.Context())).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: middleware.GetRequestID(r.Context()),
	})
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidProductID):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrCatalogUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the client-facing message for err.
func messageFor(err error) string {
	var de *model.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal server error"
}

// maxPage caps the requested page so offsets and next-page links stay in range.
const maxPage = math.MaxInt32

// parsePage reads a 1-based page number; anything unusable means page 1.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return min(page, maxPage)
}

// parseID reads a positive product id.
func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, model.ErrInvalidProductID
	}
	return id, nil
}
