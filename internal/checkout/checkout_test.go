package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thehungrydrop/hungrydrop/internal/events"
	"github.com/thehungrydrop/hungrydrop/internal/gateway"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/session"
	"github.com/thehungrydrop/hungrydrop/internal/state"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
	"github.com/thehungrydrop/hungrydrop/pkg/logger"
)

type fixture struct {
	service   *Service
	container *state.Container
	gateway   *gateway.InMemory
	sessions  *session.CustomerStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("error")
	store := storage.NewMemoryStore()
	container := state.NewContainer(store, log)
	gw := gateway.NewInMemory()
	sessions := session.NewCustomerStore(context.Background(), gw, store, log)
	return &fixture{
		service:   NewService(container, gw, sessions, events.Nop{}, log),
		container: container,
		gateway:   gw,
		sessions:  sessions,
	}
}

func (f *fixture) fillCart(ctx context.Context) {
	// subtotal: 649.99*2 + 499.99 = 1799.97
	pancakes := models.MenuItem{ID: 1, Name: "Classic Pancakes", Category: models.CategoryBreakfast, Price: 649.99, Available: true}
	toast := models.MenuItem{ID: 2, Name: "Avocado Toast", Category: models.CategoryBreakfast, Price: 499.99, Available: true}
	f.container.AddToCart(ctx, pancakes)
	f.container.AddToCart(ctx, pancakes)
	f.container.AddToCart(ctx, toast)
}

func validRequest() Request {
	return Request{
		CustomerInfo: models.CustomerInfo{
			Name:    "Ana Santos",
			Email:   "ana@example.com",
			Phone:   "0917-555-0100",
			Address: "12 Mango St",
			City:    "Quezon City",
			ZipCode: "1100",
		},
		OrderType:     models.OrderTypeDelivery,
		PaymentMethod: models.PaymentOnline,
	}
}

func TestSubmit_DeliveryTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	result, err := f.service.Submit(ctx, validRequest())
	require.NoError(t, err)

	assert.InDelta(t, 1799.97, result.Order.Subtotal, 0.001)
	assert.InDelta(t, 250, result.Order.DeliveryFee, 0.001)
	assert.InDelta(t, 2049.97, result.Order.Total, 0.001)
	assert.InDelta(t, result.Order.Subtotal+result.Order.DeliveryFee, result.Order.Total, 0.001)
	assert.Equal(t, models.StatusConfirmed, result.Order.Status)
	assert.Equal(t, EstimatedMinutes, result.Order.EstimatedTime)
	assert.True(t, result.RemotePersisted)
	assert.Empty(t, result.Warning)
}

func TestSubmit_PickupHasNoDeliveryFee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	req := validRequest()
	req.OrderType = models.OrderTypePickup
	req.PaymentMethod = models.PaymentCashOnPickup
	req.CustomerInfo.Address = ""
	req.CustomerInfo.City = ""
	req.CustomerInfo.ZipCode = ""

	result, err := f.service.Submit(ctx, req)
	require.NoError(t, err)
	assert.Zero(t, result.Order.DeliveryFee)
	assert.InDelta(t, result.Order.Subtotal, result.Order.Total, 0.001)
}

func TestSubmit_EmptyEmailRejectedWithoutSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)
	cartBefore := f.container.Cart()

	req := validRequest()
	req.CustomerInfo.Email = ""

	_, err := f.service.Submit(ctx, req)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Email is required", validation.Fields["email"])

	assert.Empty(t, f.container.Orders(), "no order appended")
	assert.Equal(t, cartBefore, f.container.Cart(), "cart untouched")
}

func TestSubmit_ViolationsAreCollectedNotShortCircuited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	req := Request{OrderType: models.OrderTypeDelivery, PaymentMethod: models.PaymentOnline}

	_, err := f.service.Submit(ctx, req)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	for _, field := range []string{"name", "email", "phone", "address", "city", "zipCode"} {
		assert.Contains(t, validation.Fields, field)
	}
}

func TestSubmit_InvalidEmailFormat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	req := validRequest()
	req.CustomerInfo.Email = "not-an-address"

	_, err := f.service.Submit(ctx, req)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "Email is invalid", validation.Fields["email"])
}

func TestSubmit_EmptyCartRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Submit(context.Background(), validRequest())
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "cart")
}

func TestSubmit_BelowMinimumOrderRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cookies := models.MenuItem{ID: 7, Name: "Chocolate Cookies", Category: models.CategorySnacks, Price: 349.99, Available: true}
	f.container.AddToCart(ctx, cookies)

	_, err := f.service.Submit(ctx, validRequest())
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields["cart"], "Minimum order")
}

func TestSubmit_RemoteFailureStillConfirmsLocally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)
	f.gateway.FailInserts = true

	result, err := f.service.Submit(ctx, validRequest())
	require.NoError(t, err, "remote failure is not a submission failure")

	assert.False(t, result.RemotePersisted)
	assert.NotEmpty(t, result.Warning)

	orders := f.container.Orders()
	require.Len(t, orders, 1, "order appended locally")
	assert.Empty(t, f.container.Cart(), "cart cleared")

	notifications := f.container.Notifications()
	require.Len(t, notifications, 1, "non-blocking warning surfaced")
	assert.Equal(t, "Order saved locally only", notifications[0].Title)
}

func TestSubmit_AccountCreationFailureAborts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	// Email already registered: provisioning fails before any state changes
	_, err := f.sessions.Register(ctx, "ana@example.com", "secret1", models.ProfileUpdate{})
	require.NoError(t, err)
	f.sessions.Logout(ctx)

	req := validRequest()
	req.CreateAccount = true
	req.Password = "secret2"

	_, err = f.service.Submit(ctx, req)
	require.ErrorIs(t, err, gateway.ErrEmailTaken)
	assert.Empty(t, f.container.Orders())
	assert.NotEmpty(t, f.container.Cart())
}

func TestSubmit_AccountCreationPasswordValidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	req := validRequest()
	req.CreateAccount = true
	req.Password = "12345"

	_, err := f.service.Submit(ctx, req)
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "password")
}

func TestSubmit_AccountCreationSetsOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.fillCart(ctx)

	req := validRequest()
	req.CreateAccount = true
	req.Password = "secret1"

	result, err := f.service.Submit(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Order.OwnerID)

	identity, ok := f.sessions.Current(ctx)
	require.True(t, ok, "new account is logged in")
	assert.Equal(t, identity.ID, result.Order.OwnerID)

	remote, err := f.gateway.ListOrders(ctx, identity.ID)
	require.NoError(t, err)
	assert.Len(t, remote, 1)
}

func TestSubmit_OrderTokensAreUniqueAndTimestampDerived(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		f.fillCart(ctx)
		result, err := f.service.Submit(ctx, validRequest())
		require.NoError(t, err)
		assert.False(t, seen[result.Order.ID], "token %s repeated", result.Order.ID)
		seen[result.Order.ID] = true
	}
}

// blockingGateway parks InsertOrder until released, exposing the window in
// which a second submission could race the first.
type blockingGateway struct {
	*gateway.InMemory
	entered chan struct{}
	release chan struct{}
}

func (g *blockingGateway) InsertOrder(ctx context.Context, order models.Order) error {
	close(g.entered)
	<-g.release
	return g.InMemory.InsertOrder(ctx, order)
}

func TestSubmit_SecondSubmissionWhileInFlightRejected(t *testing.T) {
	log := logger.New("error")
	store := storage.NewMemoryStore()
	container := state.NewContainer(store, log)
	gw := &blockingGateway{
		InMemory: gateway.NewInMemory(),
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	sessions := session.NewCustomerStore(context.Background(), gw, store, log)
	svc := NewService(container, gw, sessions, events.Nop{}, log)

	ctx := context.Background()
	pancakes := models.MenuItem{ID: 1, Name: "Classic Pancakes", Category: models.CategoryBreakfast, Price: 649.99, Available: true}
	container.AddToCart(ctx, pancakes)
	container.AddToCart(ctx, pancakes)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, validRequest())
		done <- err
	}()

	select {
	case <-gw.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the gateway")
	}

	_, err := svc.Submit(ctx, validRequest())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(gw.release)
	require.NoError(t, <-done)
}
