package gateway

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/thehungrydrop/hungrydrop/internal/models"
)

// InMemory implements Gateway with process-local maps. It backs tests and
// development runs without a database.
type InMemory struct {
	mu       sync.RWMutex
	accounts map[string]models.Account // keyed by account ID
	orders   []models.Order

	// FailInserts makes InsertOrder fail, simulating an unreachable backend.
	FailInserts bool
}

// NewInMemory creates an empty in-memory gateway.
func NewInMemory() *InMemory {
	return &InMemory{accounts: make(map[string]models.Account)}
}

// ErrUnavailable is the transport error surfaced when FailInserts is set.
var ErrUnavailable = errTransport{}

type errTransport struct{}

func (errTransport) Error() string { return "remote backend unavailable" }

func (g *InMemory) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, existing := range g.accounts {
		if strings.EqualFold(existing.Email, account.Email) {
			return models.Account{}, ErrEmailTaken
		}
	}
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	g.accounts[account.ID] = account
	return account, nil
}

func (g *InMemory) FindAccount(ctx context.Context, email string) (models.Account, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, account := range g.accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return models.Account{}, ErrAccountNotFound
}

func (g *InMemory) UpdateAccount(ctx context.Context, id string, profile models.ProfileUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	account, ok := g.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.Name = profile.Name
	account.Phone = profile.Phone
	account.Address = profile.Address
	account.City = profile.City
	account.ZipCode = profile.ZipCode
	g.accounts[id] = account
	return nil
}

func (g *InMemory) UpdateAccountPassword(ctx context.Context, id, passwordHash string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	account, ok := g.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.PasswordHash = passwordHash
	g.accounts[id] = account
	return nil
}

func (g *InMemory) InsertOrder(ctx context.Context, order models.Order) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailInserts {
		return ErrUnavailable
	}
	g.orders = append(g.orders, order)
	return nil
}

func (g *InMemory) ListOrders(ctx context.Context, ownerID string) ([]models.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []models.Order
	for _, order := range g.orders {
		if order.OwnerID == ownerID {
			out = append(out, order)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (g *InMemory) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]models.Order, len(g.orders))
	copy(out, g.orders)
	sortNewestFirst(out)
	return out, nil
}

func (g *InMemory) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.orders {
		if g.orders[i].ID == orderID {
			g.orders[i].Status = status
			return nil
		}
	}
	return ErrOrderNotFound
}

func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
}
