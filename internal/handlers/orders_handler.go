package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thehungrydrop/hungrydrop/internal/state"
)

// OrdersHandler serves the local order history. The state container is
// authoritative for what the customer sees, including orders the remote
// backend never received.
type OrdersHandler struct {
	container *state.Container
	logger    *slog.Logger
}

// NewOrdersHandler creates a new orders handler
func NewOrdersHandler(container *state.Container, logger *slog.Logger) *OrdersHandler {
	return &OrdersHandler{container: container, logger: logger}
}

// ListOrders handles GET /api/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.container.Orders(), h.logger)
}

// GetOrder handles GET /api/orders/{orderId}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, ok := h.container.OrderByID(orderID)
	if !ok {
		WriteError(w, http.StatusNotFound, "Order not found", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, order, h.logger)
}
