package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/thehungrydrop/hungrydrop/internal/models"
)

var (
	ErrMenuItemNotFound = errors.New("menu item not found")
)

// MenuRepository defines the interface for menu data access.
type MenuRepository interface {
	// All returns every item, including unavailable ones. Admin console use.
	All(ctx context.Context) ([]models.MenuItem, error)
	// Available returns available items, optionally filtered by category.
	Available(ctx context.Context, category string) ([]models.MenuItem, error)
	GetByID(ctx context.Context, id int64) (models.MenuItem, error)
	Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	Update(ctx context.Context, item models.MenuItem) error
	Delete(ctx context.Context, id int64) error
}

// InMemoryMenuRepository implements MenuRepository with in-memory storage.
// The menu is admin-owned: mutations replace items wholesale.
type InMemoryMenuRepository struct {
	mu     sync.RWMutex
	items  map[int64]models.MenuItem
	nextID int64
}

// NewInMemoryMenuRepository creates an empty menu repository.
func NewInMemoryMenuRepository() *InMemoryMenuRepository {
	return &InMemoryMenuRepository{items: make(map[int64]models.MenuItem), nextID: 1}
}

type menuFile struct {
	Items []models.MenuItem `yaml:"items"`
}

// LoadSeedFile loads menu items from a YAML file, replacing the current
// contents.
func (r *InMemoryMenuRepository) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read menu seed: %w", err)
	}

	var file menuFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse menu seed: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = make(map[int64]models.MenuItem, len(file.Items))
	for _, item := range file.Items {
		if !models.ValidCategory(item.Category) {
			return fmt.Errorf("menu seed item %q has unknown category %q", item.Name, item.Category)
		}
		r.items[item.ID] = item
		if item.ID >= r.nextID {
			r.nextID = item.ID + 1
		}
	}
	return nil
}

// All returns every item sorted by ID.
func (r *InMemoryMenuRepository) All(ctx context.Context) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(models.MenuItem) bool { return true }), nil
}

// Available returns available items, filtered by category when one is given.
func (r *InMemoryMenuRepository) Available(ctx context.Context, category string) ([]models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(item models.MenuItem) bool {
		if !item.Available {
			return false
		}
		return category == "" || item.Category == category
	}), nil
}

// GetByID returns the item with the given id.
func (r *InMemoryMenuRepository) GetByID(ctx context.Context, id int64) (models.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return models.MenuItem{}, ErrMenuItemNotFound
	}
	return item, nil
}

// Create assigns the next free ID and stores the item.
func (r *InMemoryMenuRepository) Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = item
	return item, nil
}

// Update replaces the stored item with the same ID.
func (r *InMemoryMenuRepository) Update(ctx context.Context, item models.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return ErrMenuItemNotFound
	}
	r.items[item.ID] = item
	return nil
}

// Delete removes the item with the given id.
func (r *InMemoryMenuRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrMenuItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *InMemoryMenuRepository) sortedLocked(keep func(models.MenuItem) bool) []models.MenuItem {
	items := make([]models.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
