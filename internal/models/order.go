package models

import "time"

// Order types selectable at checkout.
const (
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
)

// Payment methods selectable at checkout.
const (
	PaymentOnline         = "online"
	PaymentCashOnDelivery = "cash-on-delivery"
	PaymentCashOnPickup   = "cash-on-pickup"
)

// Order statuses. Orders are created as confirmed and advance through the
// remaining statuses by admin action only.
const (
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
)

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered:
		return true
	}
	return false
}

// CustomerInfo is the checkout form snapshot carried on every order.
// Address fields are only required for delivery orders.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// Order is an immutable record of a submitted cart plus checkout metadata.
// Invariant: Total = Subtotal + DeliveryFee, and DeliveryFee is nonzero iff
// OrderType is delivery. Orders are never deleted.
type Order struct {
	ID            string       `json:"id"`
	Items         []CartLine   `json:"items"`
	CustomerInfo  CustomerInfo `json:"customerInfo"`
	OrderType     string       `json:"orderType"`
	PaymentMethod string       `json:"paymentMethod"`
	Subtotal      float64      `json:"subtotal"`
	DeliveryFee   float64      `json:"deliveryFee"`
	Total         float64      `json:"total"`
	Status        string       `json:"status"`
	OrderDate     time.Time    `json:"orderDate"`
	EstimatedTime int          `json:"estimatedTime"`
	OwnerID       string       `json:"ownerId,omitempty"`
}
