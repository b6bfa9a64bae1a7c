package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/repository"
	"github.com/thehungrydrop/hungrydrop/internal/state"
)

var (
	ErrInvalidMenuItem = errors.New("invalid menu item")
	ErrUnknownCategory = errors.New("unknown category")
)

// MenuService handles menu business logic. The repository is the admin's
// source of truth; after every mutation the application state container's
// menu copy is replaced wholesale.
type MenuService struct {
	repo      repository.MenuRepository
	container *state.Container
}

// NewMenuService creates a new menu service.
func NewMenuService(repo repository.MenuRepository, container *state.Container) *MenuService {
	return &MenuService{repo: repo, container: container}
}

// Browse returns available items for customers, optionally filtered by
// category.
func (s *MenuService) Browse(ctx context.Context, category string) ([]models.MenuItem, error) {
	if category != "" && !models.ValidCategory(category) {
		return nil, ErrUnknownCategory
	}
	return s.repo.Available(ctx, category)
}

// Get returns a single menu item.
func (s *MenuService) Get(ctx context.Context, id int64) (models.MenuItem, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAll returns every item including unavailable ones. Admin console use.
func (s *MenuService) ListAll(ctx context.Context) ([]models.MenuItem, error) {
	return s.repo.All(ctx)
}

// Create validates and stores a new item, then syncs application state.
func (s *MenuService) Create(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	if err := validateItem(item); err != nil {
		return models.MenuItem{}, err
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return models.MenuItem{}, err
	}
	s.syncState(ctx)
	return created, nil
}

// Update validates and replaces an existing item, then syncs application
// state.
func (s *MenuService) Update(ctx context.Context, item models.MenuItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return err
	}
	s.syncState(ctx)
	return nil
}

// Delete removes an item, then syncs application state.
func (s *MenuService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.syncState(ctx)
	return nil
}

// SyncState replaces the state container's menu with the repository contents.
// Called once at startup and after every admin mutation.
func (s *MenuService) SyncState(ctx context.Context) error {
	items, err := s.repo.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}
	s.container.SetMenuItems(ctx, items)
	return nil
}

func (s *MenuService) syncState(ctx context.Context) {
	// A failed sync leaves the container holding the previous menu; the
	// repository remains authoritative and the next mutation retries.
	_ = s.SyncState(ctx)
}

func validateItem(item models.MenuItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMenuItem)
	}
	if !models.ValidCategory(item.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, item.Category)
	}
	if item.Price <= 0 {
		return fmt.Errorf("%w: price must be positive", ErrInvalidMenuItem)
	}
	if item.PrepTime < 0 {
		return fmt.Errorf("%w: prep time cannot be negative", ErrInvalidMenuItem)
	}
	return nil
}
