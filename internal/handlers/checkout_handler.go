package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/thehungrydrop/hungrydrop/internal/checkout"
	"github.com/thehungrydrop/hungrydrop/internal/gateway"
	"github.com/thehungrydrop/hungrydrop/internal/session"
)

// CheckoutHandler handles POST /api/checkout.
type CheckoutHandler struct {
	checkout *checkout.Service
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(svc *checkout.Service, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, logger: logger}
}

// Submit handles POST /api/checkout
// Responses:
// - 200: order confirmed (warning field set when remote persistence failed)
// - 409: another submission is in flight
// - 422: validation failure with a field-to-message map
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	result, err := h.checkout.Submit(r.Context(), req)
	if err != nil {
		var validation *checkout.ValidationError
		switch {
		case errors.As(err, &validation):
			WriteFieldErrors(w, validation.Fields, h.logger)
		case errors.Is(err, checkout.ErrSubmissionInFlight):
			WriteError(w, http.StatusConflict, "A submission is already in progress", h.logger)
		case errors.Is(err, gateway.ErrEmailTaken):
			WriteError(w, http.StatusConflict, "Email is already registered", h.logger)
		case errors.Is(err, session.ErrPasswordTooShort):
			WriteFieldErrors(w, map[string]string{"password": "Password must be at least 6 characters"}, h.logger)
		default:
			h.logger.Error("checkout failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, result, h.logger)
}
