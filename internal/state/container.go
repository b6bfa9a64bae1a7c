// Package state holds the application state container: cart contents, placed
// orders, menu items, and transient notifications, with a durable snapshot
// written after every transition.
package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
)

// State is the single application state value. Transitions replace it
// wholesale; callers only ever see copies.
type State struct {
	Cart          []models.CartLine
	Orders        []models.Order
	MenuItems     []models.MenuItem
	Notifications []models.Notification
	Settings      models.Settings
}

func initialState() State {
	return State{Settings: models.DefaultSettings()}
}

// Container owns the application state for the life of the process. It is
// constructed once at startup and handed to the HTTP layer; there is no
// package-level instance. Transitions are serialized by a mutex so no caller
// observes a partially-applied transition.
type Container struct {
	mu     sync.Mutex
	state  State
	store  storage.Store
	logger *slog.Logger
}

// NewContainer creates a container with default state. Call Restore to load
// a previously saved snapshot.
func NewContainer(store storage.Store, logger *slog.Logger) *Container {
	return &Container{
		state:  initialState(),
		store:  store,
		logger: logger,
	}
}

// apply runs a pure transition and then persists the new state. The save has
// its own error channel: failures are logged and the transition still counts.
func (c *Container) apply(ctx context.Context, transition func(State) State) {
	c.mu.Lock()
	c.state = transition(c.state)
	snapshot := c.snapshotLocked()
	c.mu.Unlock()

	if err := c.save(ctx, snapshot); err != nil {
		c.logger.Error("failed to persist state snapshot", "error", err)
	}
}

// AddToCart appends a quantity-1 line for item, or increments the existing
// line's quantity. The order of existing lines is preserved.
func (c *Container) AddToCart(ctx context.Context, item models.MenuItem) {
	c.apply(ctx, func(s State) State {
		cart := make([]models.CartLine, len(s.Cart))
		copy(cart, s.Cart)
		for i := range cart {
			if cart[i].ID == item.ID {
				cart[i].Quantity++
				s.Cart = cart
				return s
			}
		}
		s.Cart = append(cart, models.CartLineFromMenuItem(item))
		return s
	})
}

// RemoveFromCart drops the line with the given id; no-op if absent.
func (c *Container) RemoveFromCart(ctx context.Context, id int64) {
	c.apply(ctx, func(s State) State {
		cart := make([]models.CartLine, 0, len(s.Cart))
		for _, line := range s.Cart {
			if line.ID != id {
				cart = append(cart, line)
			}
		}
		s.Cart = cart
		return s
	})
}

// SetQuantity sets the quantity of the line with the given id. A quantity of
// zero or less removes the line.
func (c *Container) SetQuantity(ctx context.Context, id int64, quantity int) {
	if quantity <= 0 {
		c.RemoveFromCart(ctx, id)
		return
	}
	c.apply(ctx, func(s State) State {
		cart := make([]models.CartLine, len(s.Cart))
		copy(cart, s.Cart)
		for i := range cart {
			if cart[i].ID == id {
				cart[i].Quantity = quantity
			}
		}
		s.Cart = cart
		return s
	})
}

// ClearCart empties the cart; orders and menu are untouched.
func (c *Container) ClearCart(ctx context.Context) {
	c.apply(ctx, func(s State) State {
		s.Cart = nil
		return s
	})
}

// AddOrder appends an order to the end of the order history. The history is
// chronological and append-only.
func (c *Container) AddOrder(ctx context.Context, order models.Order) {
	c.apply(ctx, func(s State) State {
		orders := make([]models.Order, len(s.Orders), len(s.Orders)+1)
		copy(orders, s.Orders)
		s.Orders = append(orders, order)
		return s
	})
}

// SetOrderStatus updates the status of the order with the given id in the
// local history; no-op if the order is not held locally.
func (c *Container) SetOrderStatus(ctx context.Context, id, status string) {
	c.apply(ctx, func(s State) State {
		orders := make([]models.Order, len(s.Orders))
		copy(orders, s.Orders)
		for i := range orders {
			if orders[i].ID == id {
				orders[i].Status = status
			}
		}
		s.Orders = orders
		return s
	})
}

// SetMenuItems replaces the menu wholesale. The admin-authored repository is
// the source of truth; nothing is merged.
func (c *Container) SetMenuItems(ctx context.Context, items []models.MenuItem) {
	c.apply(ctx, func(s State) State {
		menu := make([]models.MenuItem, len(items))
		copy(menu, items)
		s.MenuItems = menu
		return s
	})
}

// AddNotification appends a notification.
func (c *Container) AddNotification(ctx context.Context, n models.Notification) {
	c.apply(ctx, func(s State) State {
		notifications := make([]models.Notification, len(s.Notifications), len(s.Notifications)+1)
		copy(notifications, s.Notifications)
		s.Notifications = append(notifications, n)
		return s
	})
}

// RemoveNotification drops the notification with the given id.
func (c *Container) RemoveNotification(ctx context.Context, id string) {
	c.apply(ctx, func(s State) State {
		notifications := make([]models.Notification, 0, len(s.Notifications))
		for _, n := range s.Notifications {
			if n.ID != id {
				notifications = append(notifications, n)
			}
		}
		s.Notifications = notifications
		return s
	})
}
