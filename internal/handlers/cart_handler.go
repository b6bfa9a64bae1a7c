package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/repository"
	"github.com/thehungrydrop/hungrydrop/internal/service"
	"github.com/thehungrydrop/hungrydrop/internal/state"
)

// CartHandler handles cart endpoints backed by the application state
// container.
type CartHandler struct {
	container *state.Container
	menu      *service.MenuService
	logger    *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(container *state.Container, menu *service.MenuService, logger *slog.Logger) *CartHandler {
	return &CartHandler{container: container, menu: menu, logger: logger}
}

type cartResponse struct {
	Items    []models.CartLine `json:"items"`
	Subtotal float64           `json:"subtotal"`
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, cartResponse{
		Items:    h.container.Cart(),
		Subtotal: h.container.CartSubtotal(),
	}, h.logger)
}

type addItemRequest struct {
	MenuItemID int64 `json:"menuItemId"`
}

// AddItem handles POST /api/cart/items
// Adds one unit of the menu item; repeated adds increment the quantity.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	item, err := h.menu.Get(r.Context(), req.MenuItemID)
	if err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			WriteError(w, http.StatusNotFound, "Menu item not found", h.logger)
			return
		}
		h.logger.Error("failed to load menu item", "itemId", req.MenuItemID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}
	if !item.Available {
		WriteError(w, http.StatusConflict, "Menu item is not available", h.logger)
		return
	}

	h.container.AddToCart(r.Context(), item)
	h.GetCart(w, r)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity handles PUT /api/cart/items/{itemId}
// A quantity of zero or less removes the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	h.container.SetQuantity(r.Context(), id, req.Quantity)
	h.GetCart(w, r)
}

// RemoveItem handles DELETE /api/cart/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	h.container.RemoveFromCart(r.Context(), id)
	h.GetCart(w, r)
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.container.ClearCart(r.Context())
	h.GetCart(w, r)
}
