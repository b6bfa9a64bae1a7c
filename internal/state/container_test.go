package state

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
	"github.com/thehungrydrop/hungrydrop/pkg/logger"
)

func newTestContainer(t *testing.T) (*Container, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewContainer(store, logger.New("error")), store
}

func menuItem(id int64, name string, price float64) models.MenuItem {
	return models.MenuItem{
		ID:        id,
		Name:      name,
		Category:  models.CategoryLunch,
		Price:     price,
		Available: true,
		PrepTime:  10,
	}
}

func TestAddToCart_RepeatedAddsIncrementQuantity(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()
	item := menuItem(1, "Caesar Salad", 599.99)

	for i := 0; i < 4; i++ {
		c.AddToCart(ctx, item)
	}

	cart := c.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 4, cart[0].Quantity)
}

func TestAddToCart_PreservesLineOrder(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))
	c.AddToCart(ctx, menuItem(2, "Beef Steak", 1249.99))
	c.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))

	cart := c.Cart()
	require.Len(t, cart, 2)
	assert.Equal(t, int64(1), cart[0].ID)
	assert.Equal(t, int64(2), cart[1].ID)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestRemoveFromCart_ThenAddStartsAtOne(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()
	item := menuItem(1, "Caesar Salad", 599.99)

	c.AddToCart(ctx, item)
	c.AddToCart(ctx, item)
	c.RemoveFromCart(ctx, 1)
	c.AddToCart(ctx, item)

	cart := c.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity, "no stale quantity carried over")
}

func TestRemoveFromCart_AbsentIDIsNoOp(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))
	c.RemoveFromCart(ctx, 99)

	assert.Len(t, c.Cart(), 1)
}

func TestSetQuantity_ZeroEqualsRemove(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))
	c.SetQuantity(ctx, 1, 0)

	assert.Empty(t, c.Cart())
}

func TestSetQuantity_NegativeEqualsRemove(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))
	c.SetQuantity(ctx, 1, -3)

	assert.Empty(t, c.Cart())
}

func TestSetQuantity_SetsExactValue(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))
	c.SetQuantity(ctx, 1, 7)

	cart := c.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 7, cart[0].Quantity)
}

func TestCartSubtotal_StableAcrossNoOpTransition(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))
	c.AddToCart(ctx, menuItem(2, "Beef Steak", 1249.99))

	before := c.CartSubtotal()
	c.RemoveFromCart(ctx, 99) // no-op
	after := c.CartSubtotal()

	assert.Equal(t, before, after)
}

func TestClearCart_LeavesOrdersAndMenuUntouched(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.SetMenuItems(ctx, []models.MenuItem{menuItem(1, "Caesar Salad", 599.99)})
	c.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))
	c.AddOrder(ctx, models.Order{ID: "100"})
	c.ClearCart(ctx)

	assert.Empty(t, c.Cart())
	assert.Len(t, c.Orders(), 1)
	assert.Len(t, c.MenuItems(), 1)
}

func TestAddOrder_AppendOnlyChronological(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.AddOrder(ctx, models.Order{ID: "1"})
	c.AddOrder(ctx, models.Order{ID: "2"})
	c.AddOrder(ctx, models.Order{ID: "3"})

	orders := c.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, "1", orders[0].ID)
	assert.Equal(t, "3", orders[2].ID)
}

func TestSetMenuItems_ReplacesWholesale(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.SetMenuItems(ctx, []models.MenuItem{menuItem(1, "Caesar Salad", 599.99), menuItem(2, "Beef Steak", 1249.99)})
	c.SetMenuItems(ctx, []models.MenuItem{menuItem(3, "Fruit Smoothie", 399.99)})

	menu := c.MenuItems()
	require.Len(t, menu, 1)
	assert.Equal(t, int64(3), menu[0].ID)
}

func TestNotifications_AddAndRemoveByID(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.AddNotification(ctx, models.Notification{ID: "a", Title: "first"})
	c.AddNotification(ctx, models.Notification{ID: "b", Title: "second"})
	c.RemoveNotification(ctx, "a")

	notifications := c.Notifications()
	require.Len(t, notifications, 1)
	assert.Equal(t, "b", notifications[0].ID)
}

func TestTransitionsPersistSnapshot(t *testing.T) {
	c, store := newTestContainer(t)
	ctx := context.Background()

	c.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))

	data, err := store.Get(ctx, storage.KeyAppState)
	require.NoError(t, err)

	var snapshot models.Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.Equal(t, models.SnapshotVersion, snapshot.Version)
	require.Len(t, snapshot.Cart, 1)
	assert.Equal(t, int64(1), snapshot.Cart[0].ID)
}

func TestBulkLoad_RoundTripReproducesState(t *testing.T) {
	source, _ := newTestContainer(t)
	ctx := context.Background()

	source.AddToCart(ctx, menuItem(1, "Caesar Salad", 599.99))
	source.AddOrder(ctx, models.Order{ID: "42", Total: 849.99})
	source.SetMenuItems(ctx, []models.MenuItem{menuItem(1, "Caesar Salad", 599.99)})
	source.AddNotification(ctx, models.Notification{ID: "n1", Title: "hello"})

	data, err := json.Marshal(source.Snapshot())
	require.NoError(t, err)

	var snapshot models.Snapshot
	require.NoError(t, json.Unmarshal(data, &snapshot))

	restored, _ := newTestContainer(t)
	restored.BulkLoad(ctx, snapshot)

	assert.Equal(t, source.Cart(), restored.Cart())
	assert.Equal(t, source.Orders(), restored.Orders())
	assert.Equal(t, source.MenuItems(), restored.MenuItems())
	assert.Equal(t, source.Notifications(), restored.Notifications())
	assert.Equal(t, source.Settings(), restored.Settings())
}

func TestBulkLoad_AbsentFieldsKeepDefaults(t *testing.T) {
	c, _ := newTestContainer(t)
	ctx := context.Background()

	c.BulkLoad(ctx, models.Snapshot{
		Version: models.SnapshotVersion,
		Cart:    []models.CartLine{{ID: 1, Quantity: 2}},
	})

	assert.Len(t, c.Cart(), 1)
	assert.Equal(t, models.DefaultSettings(), c.Settings(), "settings keep their defaults")
	assert.Empty(t, c.Orders())
}

func TestRestore_CorruptSnapshotFallsBackToDefaults(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, storage.KeyAppState, []byte("{not json")))

	c := NewContainer(store, logger.New("error"))
	c.Restore(ctx)

	assert.Empty(t, c.Cart())
	assert.Equal(t, models.DefaultSettings(), c.Settings())

	// Corrupt entry is purged so the next startup reads nothing
	_, err := store.Get(ctx, storage.KeyAppState)
	assert.True(t, errors.Is(err, storage.ErrKeyNotFound))
}

func TestRestore_UnknownVersionResets(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	data, err := json.Marshal(models.Snapshot{
		Version: 99,
		Cart:    []models.CartLine{{ID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, storage.KeyAppState, data))

	c := NewContainer(store, logger.New("error"))
	c.Restore(ctx)

	assert.Empty(t, c.Cart())
}

func TestRestore_MissingSnapshotIsQuiet(t *testing.T) {
	c, _ := newTestContainer(t)
	c.Restore(context.Background())

	assert.Empty(t, c.Cart())
	assert.Equal(t, models.DefaultSettings(), c.Settings())
}
