// Package events publishes order lifecycle events for the admin console's
// notification feed. Publishing is fire-and-forget from the caller's point of
// view: failures are reported but never block an order.
package events

import (
	"context"

	"github.com/thehungrydrop/hungrydrop/internal/models"
)

// Publisher emits order lifecycle events.
type Publisher interface {
	OrderPlaced(ctx context.Context, order models.Order) error
	OrderStatusChanged(ctx context.Context, orderID, status string) error
	Close() error
}

// Nop is the publisher used when no broker is configured.
type Nop struct{}

func (Nop) OrderPlaced(ctx context.Context, order models.Order) error           { return nil }
func (Nop) OrderStatusChanged(ctx context.Context, orderID, status string) error { return nil }
func (Nop) Close() error                                                        { return nil }
