package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/thehungrydrop/hungrydrop/internal/repository"
	"github.com/thehungrydrop/hungrydrop/internal/service"
)

// MenuHandler handles the customer-facing menu endpoints.
type MenuHandler struct {
	menu   *service.MenuService
	logger *slog.Logger
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menu *service.MenuService, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{menu: menu, logger: logger}
}

// ListMenu handles GET /api/menu?category=
// Returns available items only; unavailable items never reach customers.
func (h *MenuHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	items, err := h.menu.Browse(r.Context(), category)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) {
			WriteError(w, http.StatusBadRequest, "Unknown category", h.logger)
			return
		}
		h.logger.Error("failed to list menu", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, items, h.logger)
}

// GetMenuItem handles GET /api/menu/{itemId}
func (h *MenuHandler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	id, err := strconv.ParseInt(itemID, 10, 64)
	if err != nil {
		h.logger.Warn("invalid menu item ID", "itemId", itemID)
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	item, err := h.menu.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMenuItemNotFound) {
			WriteError(w, http.StatusNotFound, "Menu item not found", h.logger)
			return
		}
		h.logger.Error("failed to get menu item", "itemId", itemID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, item, h.logger)
}
