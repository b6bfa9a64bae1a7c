package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thehungrydrop/hungrydrop/internal/gateway"
	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
)

// CustomerStore holds the customer session. Credentials are validated against
// the remote accounts table; sessions last CustomerSessionTTL.
type CustomerStore struct {
	mu       sync.Mutex
	identity *models.Identity

	gateway gateway.Gateway
	store   storage.Store
	logger  *slog.Logger
	now     func() time.Time
}

// NewCustomerStore creates the store and restores a saved session if one
// exists and has not expired.
func NewCustomerStore(ctx context.Context, gw gateway.Gateway, store storage.Store, logger *slog.Logger) *CustomerStore {
	s := &CustomerStore{
		gateway: gw,
		store:   store,
		logger:  logger,
		now:     time.Now,
	}
	s.identity = loadIdentity(ctx, store, storage.KeyCustomerSession, s.now(), logger)
	return s
}

// Current returns the active identity, if any. An identity whose expiry has
// passed is purged and reported as absent.
func (s *CustomerStore) Current(ctx context.Context) (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	if s.identity.Expired(s.now()) {
		s.identity = nil
		purgeIdentity(ctx, s.store, storage.KeyCustomerSession, s.logger)
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Login validates email and password against the accounts table. On success
// the identity is set and persisted; on failure state is untouched and the
// error never reveals which part of the credentials was wrong.
func (s *CustomerStore) Login(ctx context.Context, email, password string) (models.Identity, error) {
	account, err := s.gateway.FindAccount(ctx, email)
	if err != nil {
		if errors.Is(err, gateway.ErrAccountNotFound) {
			return models.Identity{}, ErrInvalidCredentials
		}
		return models.Identity{}, fmt.Errorf("login lookup failed: %w", err)
	}
	if !VerifyPassword(account.PasswordHash, password) {
		return models.Identity{}, ErrInvalidCredentials
	}

	identity := s.identityForAccount(account)

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	saveIdentity(ctx, s.store, storage.KeyCustomerSession, identity, s.logger)
	return identity, nil
}

// Register provisions a new account and logs it in. The email must not be
// registered already and the password must meet the minimum length.
func (s *CustomerStore) Register(ctx context.Context, email, password string, profile models.ProfileUpdate) (models.Identity, error) {
	if len(password) < MinPasswordLength {
		return models.Identity{}, ErrPasswordTooShort
	}
	hash, err := HashPassword(password)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.gateway.CreateAccount(ctx, models.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         profile.Name,
		Phone:        profile.Phone,
		Address:      profile.Address,
		City:         profile.City,
		ZipCode:      profile.ZipCode,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return models.Identity{}, err
	}

	identity := s.identityForAccount(account)

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	saveIdentity(ctx, s.store, storage.KeyCustomerSession, identity, s.logger)
	return identity, nil
}

// Logout clears the identity and purges the saved session. Idempotent.
func (s *CustomerStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
	purgeIdentity(ctx, s.store, storage.KeyCustomerSession, s.logger)
}

// UpdateProfile pushes new profile fields to the accounts table and mirrors
// them on the active identity. Requires an active session.
func (s *CustomerStore) UpdateProfile(ctx context.Context, profile models.ProfileUpdate) (models.Identity, error) {
	current, ok := s.Current(ctx)
	if !ok {
		return models.Identity{}, ErrNotLoggedIn
	}

	if err := s.gateway.UpdateAccount(ctx, current.ID, profile); err != nil {
		return models.Identity{}, fmt.Errorf("failed to update profile: %w", err)
	}

	s.mu.Lock()
	if s.identity != nil {
		s.identity.Name = profile.Name
		s.identity.Phone = profile.Phone
		s.identity.Address = profile.Address
		s.identity.City = profile.City
		s.identity.ZipCode = profile.ZipCode
		current = *s.identity
	}
	s.mu.Unlock()

	saveIdentity(ctx, s.store, storage.KeyCustomerSession, current, s.logger)
	return current, nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one. Requires an active session.
func (s *CustomerStore) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	identity, ok := s.Current(ctx)
	if !ok {
		return ErrNotLoggedIn
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	account, err := s.gateway.FindAccount(ctx, identity.Email)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if !VerifyPassword(account.PasswordHash, currentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.gateway.UpdateAccountPassword(ctx, account.ID, hash); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	return nil
}

func (s *CustomerStore) identityForAccount(account models.Account) models.Identity {
	return models.Identity{
		ID:      account.ID,
		Email:   account.Email,
		Name:    account.Name,
		Role:    models.RoleCustomer,
		Phone:   account.Phone,
		Address: account.Address,
		City:    account.City,
		ZipCode: account.ZipCode,
		Expiry:  s.now().Add(CustomerSessionTTL),
	}
}
