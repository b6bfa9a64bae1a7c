// Package checkout implements order submission: form validation, optional
// account provisioning, totals, remote persistence, and the local-first
// confirmation of the order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/thehungrydrop/hungrydrop/internal/events"
	"github.com/thehungrydrop/hungrydrop/internal/gateway"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/session"
	"github.com/thehungrydrop/hungrydrop/internal/state"
)

// EstimatedMinutes is the fixed preparation estimate stamped on every order.
const EstimatedMinutes = 30

// ErrSubmissionInFlight is returned when a submission arrives while another
// one is still being processed.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Request is the checkout form plus order options.
type Request struct {
	CustomerInfo  models.CustomerInfo `json:"customerInfo"`
	OrderType     string              `json:"orderType"`
	PaymentMethod string              `json:"paymentMethod"`
	CreateAccount bool                `json:"createAccount"`
	Password      string              `json:"password,omitempty"`
}

// Result is the outcome of a successful submission. Warning is set when the
// order was confirmed locally but remote persistence failed.
type Result struct {
	Order           models.Order `json:"order"`
	RemotePersisted bool         `json:"remotePersisted"`
	Warning         string       `json:"warning,omitempty"`
}

// ValidationError carries a field-to-message map covering every violation in
// the request. Violations are collected, not short-circuited.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// Service runs the order submission flow.
type Service struct {
	container *state.Container
	gateway   gateway.Gateway
	sessions  *session.CustomerStore
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time

	mu        sync.Mutex
	inFlight  bool
	lastToken int64
}

// NewService creates a checkout service.
func NewService(container *state.Container, gw gateway.Gateway, sessions *session.CustomerStore, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		container: container,
		gateway:   gw,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit validates the request and, on valid input, provisions an account if
// requested, builds the order, attempts remote persistence, and always
// reflects the order locally: it is appended to the order history and the
// cart is cleared regardless of the remote outcome. A remote failure only
// produces a non-blocking warning.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return Result{}, ErrSubmissionInFlight
	}
	s.inFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	cart := s.container.Cart()
	settings := s.container.Settings()
	identity, loggedIn := s.sessions.Current(ctx)

	if err := s.validate(req, cart, settings, loggedIn); err != nil {
		return Result{}, err
	}

	// Provision the new account first; its failure aborts the submission
	// before any state is touched.
	if req.CreateAccount && !loggedIn {
		created, err := s.sessions.Register(ctx, req.CustomerInfo.Email, req.Password, models.ProfileUpdate{
			Name:    req.CustomerInfo.Name,
			Phone:   req.CustomerInfo.Phone,
			Address: req.CustomerInfo.Address,
			City:    req.CustomerInfo.City,
			ZipCode: req.CustomerInfo.ZipCode,
		})
		if err != nil {
			return Result{}, fmt.Errorf("account creation failed: %w", err)
		}
		identity, loggedIn = created, true
	}

	subtotal := models.CartSubtotal(cart)
	var deliveryFee float64
	if req.OrderType == models.OrderTypeDelivery {
		deliveryFee = settings.DeliveryFee
	}

	order := models.Order{
		ID:            s.nextToken(),
		Items:         cart,
		CustomerInfo:  req.CustomerInfo,
		OrderType:     req.OrderType,
		PaymentMethod: req.PaymentMethod,
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		Total:         subtotal + deliveryFee,
		Status:        models.StatusConfirmed,
		OrderDate:     s.now().UTC(),
		EstimatedTime: EstimatedMinutes,
	}
	if loggedIn {
		order.OwnerID = identity.ID
	}

	result := Result{Order: order, RemotePersisted: true}
	if err := s.gateway.InsertOrder(ctx, order); err != nil {
		// Local state stays authoritative for the user-visible outcome; the
		// divergence is surfaced, not blocked on.
		s.logger.Error("failed to persist order remotely", "order_id", order.ID, "error", err)
		result.RemotePersisted = false
		result.Warning = "Your order is confirmed, but it could not be saved remotely and may need later reconciliation."
		s.container.AddNotification(ctx, models.Notification{
			ID:        uuid.New().String(),
			Title:     "Order saved locally only",
			Body:      result.Warning,
			Timestamp: s.now().UTC(),
		})
	}

	s.container.AddOrder(ctx, order)
	s.container.ClearCart(ctx)

	if err := s.publisher.OrderPlaced(ctx, order); err != nil {
		s.logger.Error("failed to publish order event", "order_id", order.ID, "error", err)
	}

	s.logger.Info("order submitted",
		"order_id", order.ID,
		"order_type", order.OrderType,
		"total", order.Total,
		"remote_persisted", result.RemotePersisted,
	)
	return result, nil
}

// validate collects every violation before reporting. On any violation the
// submission is rejected and no side effects occur.
func (s *Service) validate(req Request, cart []models.CartLine, settings models.Settings, loggedIn bool) error {
	fields := make(map[string]string)

	if len(cart) == 0 {
		fields["cart"] = "Cart is empty"
	} else if subtotal := models.CartSubtotal(cart); subtotal < settings.MinimumOrder {
		fields["cart"] = fmt.Sprintf("Minimum order amount is %.2f", settings.MinimumOrder)
	}

	if req.CustomerInfo.Name == "" {
		fields["name"] = "Name is required"
	}
	if req.CustomerInfo.Email == "" {
		fields["email"] = "Email is required"
	} else if !emailPattern.MatchString(req.CustomerInfo.Email) {
		fields["email"] = "Email is invalid"
	}
	if req.CustomerInfo.Phone == "" {
		fields["phone"] = "Phone is required"
	}

	switch req.OrderType {
	case models.OrderTypeDelivery:
		if req.CustomerInfo.Address == "" {
			fields["address"] = "Address is required for delivery"
		}
		if req.CustomerInfo.City == "" {
			fields["city"] = "City is required for delivery"
		}
		if req.CustomerInfo.ZipCode == "" {
			fields["zipCode"] = "Zip code is required for delivery"
		}
	case models.OrderTypePickup:
	default:
		fields["orderType"] = "Order type must be delivery or pickup"
	}

	switch req.PaymentMethod {
	case models.PaymentOnline, models.PaymentCashOnDelivery, models.PaymentCashOnPickup:
	default:
		fields["paymentMethod"] = "Unknown payment method"
	}

	if req.CreateAccount && !loggedIn && len(req.Password) < session.MinPasswordLength {
		fields["password"] = "Password must be at least 6 characters"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// nextToken derives an order token from the current timestamp. A monotonic
// guard keeps tokens unique when two submissions land in the same
// millisecond.
func (s *Service) nextToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.now().UnixMilli()
	if token <= s.lastToken {
		token = s.lastToken + 1
	}
	s.lastToken = token
	return strconv.FormatInt(token, 10)
}
