package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/thehungrydrop/hungrydrop/internal/gateway"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/session"
)

// AuthHandler handles customer account endpoints.
type AuthHandler struct {
	sessions *session.CustomerStore
	gateway  gateway.Gateway
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *session.CustomerStore, gw gateway.Gateway, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, gateway: gw, logger: logger}
}

type registerRequest struct {
	Email    string               `json:"email"`
	Password string               `json:"password"`
	Profile  models.ProfileUpdate `json:"profile"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}
	if req.Email == "" {
		WriteFieldErrors(w, map[string]string{"email": "Email is required"}, h.logger)
		return
	}

	identity, err := h.sessions.Register(r.Context(), req.Email, req.Password, req.Profile)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrPasswordTooShort):
			WriteFieldErrors(w, map[string]string{"password": "Password must be at least 6 characters"}, h.logger)
		case errors.Is(err, gateway.ErrEmailTaken):
			WriteError(w, http.StatusConflict, "Email is already registered", h.logger)
		default:
			h.logger.Error("registration failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, identity, h.logger)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
// Authentication failures are reported with a single generic message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	identity, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "Invalid credentials", h.logger)
			return
		}
		h.logger.Error("login failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, identity, h.logger)
}

// Logout handles POST /api/auth/logout. Idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"}, h.logger)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.sessions.Current(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not logged in", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, identity, h.logger)
}

// UpdateProfile handles PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	identity, err := h.sessions.UpdateProfile(r.Context(), profile)
	if err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			WriteError(w, http.StatusUnauthorized, "Not logged in", h.logger)
			return
		}
		h.logger.Error("profile update failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, identity, h.logger)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword handles PUT /api/auth/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	err := h.sessions.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotLoggedIn):
			WriteError(w, http.StatusUnauthorized, "Not logged in", h.logger)
		case errors.Is(err, session.ErrInvalidCredentials):
			WriteError(w, http.StatusUnauthorized, "Invalid credentials", h.logger)
		case errors.Is(err, session.ErrPasswordTooShort):
			WriteFieldErrors(w, map[string]string{"newPassword": "Password must be at least 6 characters"}, h.logger)
		default:
			h.logger.Error("password change failed", "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "password changed"}, h.logger)
}

// ListRemoteOrders handles GET /api/auth/orders — the customer's order
// history as the remote backend sees it.
func (h *AuthHandler) ListRemoteOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.sessions.Current(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not logged in", h.logger)
		return
	}

	orders, err := h.gateway.ListOrders(r.Context(), identity.ID)
	if err != nil {
		h.logger.Error("failed to list remote orders", "error", err)
		WriteError(w, http.StatusBadGateway, "Order history is temporarily unavailable", h.logger)
		return
	}
	WriteJSON(w, http.StatusOK, orders, h.logger)
}
