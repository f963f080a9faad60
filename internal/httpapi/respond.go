package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/yougen/yougen/internal/logging"
	"github.com/yougen/yougen/internal/services"
	"github.com/yougen/yougen/internal/store"
)

const maxBodyBytes = 1 << 20

type handler struct {
	deps   *Deps
	logger *slog.Logger
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *handler) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}

func (h *handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log(r.Context()).ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, ErrorResponse{Error: message})
}

func (h *handler) notFound(w http.ResponseWriter, r *http.Request, what string) {
	h.writeError(w, r, http.StatusNotFound, what+" not found")
}

// decode reads a JSON body into v, answering 400 itself on failure.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		h.log(r.Context()).WarnContext(r.Context(), "invalid request body", "error", err)
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// handleError maps service and store errors to status codes.
func (h *handler) handleError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	ctx := r.Context()

	var storeValidation *store.ValidationError
	if errors.As(err, &storeValidation) {
		h.writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: storeValidation.Message, Field: storeValidation.Field})
		return
	}
	var svcValidation *services.ValidationError
	if errors.As(err, &svcValidation) {
		h.writeJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: svcValidation.Message, Field: svcValidation.Field})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, "Resource not found")
		return
	}
	if errors.Is(err, services.ErrExternalService) {
		h.log(ctx).WarnContext(ctx, "collaborator failure", "error", err)
		h.writeError(w, r, http.StatusBadGateway, "External service error")
		return
	}

	h.log(ctx).ErrorContext(ctx, defaultMsg, "error", err)
	h.writeError(w, r, http.StatusInternalServerError, defaultMsg)
}
