// Package gateway is the boundary to the hosted table-based backend. It is a
// thin pass-through: no retries, no batching, no caching. Callers decide how
// to react to failure.
package gateway

import (
	"context"
	"errors"

	"github.com/thehungrydrop/hungrydrop/internal/models"
)

var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken is returned when creating an account with an email that
	// already exists. Emails are unique in the accounts table.
	ErrEmailTaken = errors.New("email already registered")
	// ErrOrderNotFound is returned when no order matches the given token.
	ErrOrderNotFound = errors.New("order not found")
)

// Gateway exposes the remote backend's account and order tables.
type Gateway interface {
	// CreateAccount inserts a new account and returns it with its assigned ID.
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	// FindAccount looks up an account by email.
	FindAccount(ctx context.Context, email string) (models.Account, error)
	// UpdateAccount replaces the profile fields of an account.
	UpdateAccount(ctx context.Context, id string, profile models.ProfileUpdate) error
	// UpdateAccountPassword replaces the stored password hash of an account.
	UpdateAccountPassword(ctx context.Context, id, passwordHash string) error
	// InsertOrder persists an order record.
	InsertOrder(ctx context.Context, order models.Order) error
	// ListOrders returns the orders owned by ownerID, newest first.
	ListOrders(ctx context.Context, ownerID string) ([]models.Order, error)
	// ListAllOrders returns every order, newest first. Admin console use.
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	// UpdateOrderStatus sets the status of the order with the given token.
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
}
