package state

import "github.com/thehungrydrop/hungrydrop/internal/models"

// Cart returns a copy of the current cart lines.
func (c *Container) Cart() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyCart(c.state.Cart)
}

// CartSubtotal returns the sum of price times quantity over the cart.
func (c *Container) CartSubtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.CartSubtotal(c.state.Cart)
}

// Orders returns a copy of the local order history, oldest first.
func (c *Container) Orders() []models.Order {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyOrders(c.state.Orders)
}

// OrderByID returns the local order with the given id, if present.
func (c *Container) OrderByID(id string) (models.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, order := range c.state.Orders {
		if order.ID == id {
			return order, true
		}
	}
	return models.Order{}, false
}

// MenuItems returns a copy of the current menu.
func (c *Container) MenuItems() []models.MenuItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyMenu(c.state.MenuItems)
}

// Notifications returns a copy of the pending notifications.
func (c *Container) Notifications() []models.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyNotifications(c.state.Notifications)
}

// Settings returns the current storefront settings.
func (c *Container) Settings() models.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Settings
}

func copyCart(in []models.CartLine) []models.CartLine {
	out := make([]models.CartLine, len(in))
	copy(out, in)
	return out
}

func copyOrders(in []models.Order) []models.Order {
	out := make([]models.Order, len(in))
	copy(out, in)
	return out
}

func copyMenu(in []models.MenuItem) []models.MenuItem {
	out := make([]models.MenuItem, len(in))
	copy(out, in)
	return out
}

func copyNotifications(in []models.Notification) []models.Notification {
	out := make([]models.Notification, len(in))
	copy(out, in)
	return out
}
