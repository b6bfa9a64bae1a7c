package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/repository"
	"github.com/thehungrydrop/hungrydrop/internal/state"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
	"github.com/thehungrydrop/hungrydrop/pkg/logger"
)

func newMenuService(t *testing.T) (*MenuService, *state.Container) {
	t.Helper()
	container := state.NewContainer(storage.NewMemoryStore(), logger.New("error"))
	return NewMenuService(repository.NewInMemoryMenuRepository(), container), container
}

func seedItem(name, category string, available bool) models.MenuItem {
	return models.MenuItem{Name: name, Category: category, Price: 649.99, Available: available, PrepTime: 15}
}

func TestBrowse(t *testing.T) {
	svc, _ := newMenuService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, seedItem("Classic Pancakes", models.CategoryBreakfast, true))
	require.NoError(t, err)
	_, err = svc.Create(ctx, seedItem("Beef Steak", models.CategoryDinner, false))
	require.NoError(t, err)

	items, err := svc.Browse(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Classic Pancakes", items[0].Name)

	items, err = svc.Browse(ctx, models.CategoryBreakfast)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = svc.Browse(ctx, "Brunch")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newMenuService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		item models.MenuItem
		want error
	}{
		{"missing name", seedItem("", models.CategoryLunch, true), ErrInvalidMenuItem},
		{"bad category", seedItem("Mystery", "Brunch", true), ErrUnknownCategory},
		{"zero price", models.MenuItem{Name: "Free Lunch", Category: models.CategoryLunch}, ErrInvalidMenuItem},
		{"negative prep time", models.MenuItem{Name: "Instant", Category: models.CategorySnacks, Price: 1, PrepTime: -1}, ErrInvalidMenuItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.item)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMutationsSyncContainerMenu(t *testing.T) {
	svc, container := newMenuService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, seedItem("Grilled Chicken", models.CategoryLunch, true))
	require.NoError(t, err)
	require.Len(t, container.MenuItems(), 1)

	created.Price = 999.99
	require.NoError(t, svc.Update(ctx, created))
	assert.InDelta(t, 999.99, container.MenuItems()[0].Price, 0.001)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, container.MenuItems())
}

func TestUpdateMissingItem(t *testing.T) {
	svc, _ := newMenuService(t)
	err := svc.Update(context.Background(), seedItem("Ghost", models.CategoryDinner, true))
	assert.ErrorIs(t, err, repository.ErrMenuItemNotFound)
}
