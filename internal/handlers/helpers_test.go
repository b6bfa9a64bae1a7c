package handlers

import (
	"context"
	"log/slog"
	"testing"

	"github.com/thehungrydrop/hungrydrop/internal/checkout"
	"github.com/thehungrydrop/hungrydrop/internal/events"
	"github.com/thehungrydrop/hungrydrop/internal/gateway"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/repository"
	"github.com/thehungrydrop/hungrydrop/internal/service"
	"github.com/thehungrydrop/hungrydrop/internal/session"
	"github.com/thehungrydrop/hungrydrop/internal/state"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
	"github.com/thehungrydrop/hungrydrop/pkg/logger"
)

// testEnv wires the full request path over in-memory backends.
type testEnv struct {
	container *state.Container
	gateway   *gateway.InMemory
	menu      *service.MenuService
	sessions  *session.CustomerStore
	admin     *session.AdminStore
	checkout  *checkout.Service
	log       *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	log := logger.New("error")
	store := storage.NewMemoryStore()
	container := state.NewContainer(store, log)
	gw := gateway.NewInMemory()

	repo := repository.NewInMemoryMenuRepository()
	menu := service.NewMenuService(repo, container)
	seed := []models.MenuItem{
		{Name: "Classic Pancakes", Category: models.CategoryBreakfast, Price: 649.99, Available: true, PrepTime: 15},
		{Name: "Grilled Chicken", Category: models.CategoryLunch, Price: 899.99, Available: true, PrepTime: 25},
		{Name: "Beef Steak", Category: models.CategoryDinner, Price: 1599.99, Available: false, PrepTime: 30},
	}
	for _, item := range seed {
		if _, err := menu.Create(ctx, item); err != nil {
			t.Fatalf("failed to seed menu: %v", err)
		}
	}

	adminHash, err := session.HashPassword("admin123")
	if err != nil {
		t.Fatalf("failed to hash admin password: %v", err)
	}

	sessions := session.NewCustomerStore(ctx, gw, store, log)
	admin := session.NewAdminStore(ctx, "thehungrydrop", adminHash, store, log)
	return &testEnv{
		container: container,
		gateway:   gw,
		menu:      menu,
		sessions:  sessions,
		admin:     admin,
		checkout:  checkout.NewService(container, gw, sessions, events.Nop{}, log),
		log:       log,
	}
}
