package models

import "time"

// Account is a customer record held in the remote accounts table.
// PasswordHash is a bcrypt hash; the plaintext password never leaves the
// session layer.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	ZipCode      string    `json:"zipCode"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ProfileUpdate carries the mutable profile fields of an account.
type ProfileUpdate struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

// Roles carried by an identity.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Identity is a time-bounded authenticated principal, customer or admin.
// The session is invalid once the current time reaches Expiry.
type Identity struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`

	// Profile fields mirrored from the account record so the UI can render
	// without a gateway round trip.
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`

	Expiry time.Time `json:"expiry"`
}

// Expired reports whether the identity's expiry has passed at time now.
func (id Identity) Expired(now time.Time) bool {
	return !now.Before(id.Expiry)
}
