package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
)

// Restore loads a previously saved snapshot and shallow-merges it over the
// current state: fields absent from the snapshot keep their defaults. A
// missing, corrupt, or wrong-version snapshot is logged and discarded; this
// never fails startup.
func (c *Container) Restore(ctx context.Context) {
	data, err := c.store.Get(ctx, storage.KeyAppState)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			c.logger.Error("failed to read state snapshot", "error", err)
		}
		return
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Error("discarding corrupt state snapshot", "error", err)
		c.purgeSnapshot(ctx)
		return
	}
	if snapshot.Version != models.SnapshotVersion {
		c.logger.Warn("discarding state snapshot with unknown version",
			"version", snapshot.Version,
			"supported", models.SnapshotVersion,
		)
		c.purgeSnapshot(ctx)
		return
	}

	c.BulkLoad(ctx, snapshot)
}

// BulkLoad shallow-merges a snapshot into the current state. Nil snapshot
// fields are treated as absent.
func (c *Container) BulkLoad(ctx context.Context, snapshot models.Snapshot) {
	c.apply(ctx, func(s State) State {
		if snapshot.Cart != nil {
			s.Cart = snapshot.Cart
		}
		if snapshot.Orders != nil {
			s.Orders = snapshot.Orders
		}
		if snapshot.MenuItems != nil {
			s.MenuItems = snapshot.MenuItems
		}
		if snapshot.Notifications != nil {
			s.Notifications = snapshot.Notifications
		}
		if snapshot.Settings != nil {
			s.Settings = *snapshot.Settings
		}
		return s
	})
}

// Snapshot returns a serializable copy of the current state.
func (c *Container) Snapshot() models.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Container) snapshotLocked() models.Snapshot {
	settings := c.state.Settings
	return models.Snapshot{
		Version:       models.SnapshotVersion,
		Cart:          copyCart(c.state.Cart),
		Orders:        copyOrders(c.state.Orders),
		MenuItems:     copyMenu(c.state.MenuItems),
		Notifications: copyNotifications(c.state.Notifications),
		Settings:      &settings,
	}
}

func (c *Container) save(ctx context.Context, snapshot models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode state snapshot: %w", err)
	}
	return c.store.Put(ctx, storage.KeyAppState, data)
}

func (c *Container) purgeSnapshot(ctx context.Context) {
	if err := c.store.Delete(ctx, storage.KeyAppState); err != nil {
		c.logger.Error("failed to purge state snapshot", "error", err)
	}
}
