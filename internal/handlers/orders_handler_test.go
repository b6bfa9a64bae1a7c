package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/thehungrydrop/hungrydrop/internal/models"
)

func TestListLocalOrders(t *testing.T) {
	env := newTestEnv(t)
	handler := NewOrdersHandler(env.container, env.log)
	ctx := context.Background()

	env.container.AddOrder(ctx, models.Order{ID: "100", Status: models.StatusConfirmed, OrderDate: time.Now()})
	env.container.AddOrder(ctx, models.Order{ID: "200", Status: models.StatusConfirmed, OrderDate: time.Now()})

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	w := httptest.NewRecorder()

	handler.ListOrders(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var orders []models.Order
	if err := json.NewDecoder(w.Body).Decode(&orders); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(orders) != 2 {
		t.Errorf("expected 2 orders, got %d", len(orders))
	}
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv(t)
	handler := NewOrdersHandler(env.container, env.log)
	env.container.AddOrder(context.Background(), models.Order{ID: "100", Status: models.StatusConfirmed})

	r := chi.NewRouter()
	r.Get("/api/orders/{orderId}", handler.GetOrder)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/100", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/orders/999", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestNotifications(t *testing.T) {
	env := newTestEnv(t)
	handler := NewNotificationHandler(env.container, env.log)
	ctx := context.Background()

	env.container.AddNotification(ctx, models.Notification{ID: "n1", Title: "Order saved locally only"})

	r := chi.NewRouter()
	r.Get("/api/notifications", handler.ListNotifications)
	r.Delete("/api/notifications/{id}", handler.RemoveNotification)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var notifications []models.Notification
	if err := json.NewDecoder(w.Body).Decode(&notifications); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/notifications/n1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if len(env.container.Notifications()) != 0 {
		t.Error("expected notification removed")
	}

	// Removing an unknown id is a no-op
	req = httptest.NewRequest(http.MethodDelete, "/api/notifications/ghost", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
}
