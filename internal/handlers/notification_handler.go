package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/thehungrydrop/hungrydrop/internal/state"
)

// NotificationHandler serves the transient in-app notifications.
type NotificationHandler struct {
	container *state.Container
	logger    *slog.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(container *state.Container, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{container: container, logger: logger}
}

// ListNotifications handles GET /api/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.container.Notifications(), h.logger)
}

// RemoveNotification handles DELETE /api/notifications/{id}
// Removing an unknown id is a no-op; notifications are ephemeral.
func (h *NotificationHandler) RemoveNotification(w http.ResponseWriter, r *http.Request) {
	h.container.RemoveNotification(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}
