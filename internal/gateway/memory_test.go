package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thehungrydrop/hungrydrop/internal/models"
)

func TestInMemory_Accounts(t *testing.T) {
	g := NewInMemory()
	ctx := context.Background()

	created, err := g.CreateAccount(ctx, models.Account{Email: "ana@example.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = g.CreateAccount(ctx, models.Account{Email: "ANA@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken, "email comparison is case-insensitive")

	found, err := g.FindAccount(ctx, "Ana@Example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = g.FindAccount(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestInMemory_UpdateAccount(t *testing.T) {
	g := NewInMemory()
	ctx := context.Background()

	created, err := g.CreateAccount(ctx, models.Account{Email: "ana@example.com"})
	require.NoError(t, err)

	profile := models.ProfileUpdate{Name: "Ana Santos", Phone: "0917-555-0100", City: "Quezon City"}
	require.NoError(t, g.UpdateAccount(ctx, created.ID, profile))

	found, err := g.FindAccount(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana Santos", found.Name)
	assert.Equal(t, "Quezon City", found.City)

	assert.ErrorIs(t, g.UpdateAccount(ctx, "missing", profile), ErrAccountNotFound)
}

func TestInMemory_UpdateAccountPassword(t *testing.T) {
	g := NewInMemory()
	ctx := context.Background()

	created, err := g.CreateAccount(ctx, models.Account{Email: "ana@example.com", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, g.UpdateAccountPassword(ctx, created.ID, "new"))
	found, err := g.FindAccount(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "new", found.PasswordHash)
}

func TestInMemory_OrdersNewestFirst(t *testing.T) {
	g := NewInMemory()
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"100", "200", "300"} {
		require.NoError(t, g.InsertOrder(ctx, models.Order{
			ID:        id,
			OwnerID:   "owner-1",
			OrderDate: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, g.InsertOrder(ctx, models.Order{ID: "999", OwnerID: "owner-2", OrderDate: base}))

	mine, err := g.ListOrders(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, []string{"300", "200", "100"}, []string{mine[0].ID, mine[1].ID, mine[2].ID})

	all, err := g.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestInMemory_UpdateOrderStatus(t *testing.T) {
	g := NewInMemory()
	ctx := context.Background()

	require.NoError(t, g.InsertOrder(ctx, models.Order{ID: "100", Status: models.StatusConfirmed}))
	require.NoError(t, g.UpdateOrderStatus(ctx, "100", models.StatusPreparing))

	all, err := g.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPreparing, all[0].Status)

	assert.ErrorIs(t, g.UpdateOrderStatus(ctx, "missing", models.StatusReady), ErrOrderNotFound)
}

func TestInMemory_FailInserts(t *testing.T) {
	g := NewInMemory()
	g.FailInserts = true

	err := g.InsertOrder(context.Background(), models.Order{ID: "100"})
	assert.ErrorIs(t, err, ErrUnavailable)
}
