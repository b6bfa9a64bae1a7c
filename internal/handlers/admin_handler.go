package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/thehungrydrop/hungrydrop/internal/events"
	"github.com/thehungrydrop/hungrydrop/internal/gateway"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/repository"
	"github.com/thehungrydrop/hungrydrop/internal/service"
	"github.com/thehungrydrop/hungrydrop/internal/session"
	"github.com/thehungrydrop/hungrydrop/internal/state"
)

// AdminHandler handles the admin console: menu management, order management,
// and credential changes.
type AdminHandler struct {
	sessions  *session.AdminStore
	menu      *service.MenuService
	gateway   gateway.Gateway
	container *state.Container
	publisher events.Publisher
	logger    *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(sessions *session.AdminStore, menu *service.MenuService, gw gateway.Gateway, container *state.Container, publisher events.Publisher, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		sessions:  sessions,
		menu:      menu,
		gateway:   gw,
		container: container,
		publisher: publisher,
		logger:    logger,
	}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	identity, err := h.sessions.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "Invalid credentials", h.logger)
			return
		}
		h.logger.Error("admin login failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, identity, h.logger)
}

// Logout handles POST /api/admin/logout. Idempotent.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"}, h.logger)
}

// ListMenu handles GET /api/admin/menu — all items, unavailable included.
func (h *AdminHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.menu.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list menu", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, items, h.logger)
}

// CreateMenuItem handles POST /api/admin/menu
func (h *AdminHandler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	created, err := h.menu.Create(r.Context(), item)
	if err != nil {
		h.writeMenuError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created, h.logger)
}

// UpdateMenuItem handles PUT /api/admin/menu/{itemId}
func (h *AdminHandler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	var item models.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	item.ID = id

	if err := h.menu.Update(r.Context(), item); err != nil {
		h.writeMenuError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item, h.logger)
}

// DeleteMenuItem handles DELETE /api/admin/menu/{itemId}
func (h *AdminHandler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid ID supplied", h.logger)
		return
	}

	if err := h.menu.Delete(r.Context(), id); err != nil {
		h.writeMenuError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOrders handles GET /api/admin/orders — every order as the remote
// backend sees it, newest first.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.gateway.ListAllOrders(r.Context())
	if err != nil {
		h.logger.Error("failed to list orders", "error", err)
		WriteError(w, http.StatusBadGateway, "Orders are temporarily unavailable", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, orders, h.logger)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus handles PUT /api/admin/orders/{orderId}/status
// The change is persisted remotely and mirrored into local state, so it
// survives a reload instead of living only in the console view.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	if !models.ValidStatus(req.Status) {
		WriteError(w, http.StatusBadRequest, "Unknown order status", h.logger)
		return
	}

	if err := h.gateway.UpdateOrderStatus(r.Context(), orderID, req.Status); err != nil {
		if errors.Is(err, gateway.ErrOrderNotFound) {
			WriteError(w, http.StatusNotFound, "Order not found", h.logger)
			return
		}
		h.logger.Error("failed to update order status", "order_id", orderID, "error", err)
		WriteError(w, http.StatusBadGateway, "Status update failed", h.logger)
		return
	}

	h.container.SetOrderStatus(r.Context(), orderID, req.Status)

	if err := h.publisher.OrderStatusChanged(r.Context(), orderID, req.Status); err != nil {
		h.logger.Error("failed to publish status event", "order_id", orderID, "error", err)
	}

	WriteJSON(w, http.StatusOK, map[string]string{"id": orderID, "status": req.Status}, h.logger)
}

type adminPasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles PUT /api/admin/password
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req adminPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	err := h.sessions.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotLoggedIn):
			WriteError(w, http.StatusUnauthorized, "Admin login required", h.logger)
		case errors.Is(err, session.ErrInvalidCredentials):
			WriteError(w, http.StatusUnauthorized, "Current password is incorrect", h.logger)
		case errors.Is(err, session.ErrPasswordTooShort):
			WriteFieldErrors(w, map[string]string{"newPassword": "Password must be at least 6 characters"}, h.logger)
		default:
			h.logger.Error("admin password change failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "password changed"}, h.logger)
}

func (h *AdminHandler) writeMenuError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrMenuItemNotFound):
		WriteError(w, http.StatusNotFound, "Menu item not found", h.logger)
	case errors.Is(err, service.ErrUnknownCategory), errors.Is(err, service.ErrInvalidMenuItem):
		WriteError(w, http.StatusBadRequest, err.Error(), h.logger)
	default:
		h.logger.Error("menu operation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
	}
}
