package session

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
)

// KeyAdminCredential stores the admin's current password hash once it has
// been changed from the configured default.
const KeyAdminCredential = "hungryDropAdminCredential"

// AdminStore holds the admin session. There is a single admin principal with
// a configured username and bcrypt password hash; sessions last
// AdminSessionTTL.
type AdminStore struct {
	mu           sync.Mutex
	identity     *models.Identity
	username     string
	passwordHash string

	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

type adminCredential struct {
	PasswordHash string `json:"passwordHash"`
}

// NewAdminStore creates the store with the configured credential pair,
// preferring a previously persisted password hash over the configured one,
// and restores a saved session if it has not expired.
func NewAdminStore(ctx context.Context, username, passwordHash string, store storage.Store, logger *slog.Logger) *AdminStore {
	s := &AdminStore{
		username:     username,
		passwordHash: passwordHash,
		store:        store,
		logger:       logger,
		now:          time.Now,
	}

	if data, err := store.Get(ctx, KeyAdminCredential); err == nil {
		var cred adminCredential
		if err := json.Unmarshal(data, &cred); err != nil || cred.PasswordHash == "" {
			logger.Error("discarding corrupt admin credential entry", "error", err)
			purgeIdentity(ctx, store, KeyAdminCredential, logger)
		} else {
			s.passwordHash = cred.PasswordHash
		}
	} else if !errors.Is(err, storage.ErrKeyNotFound) {
		logger.Error("failed to read admin credential entry", "error", err)
	}

	s.identity = loadIdentity(ctx, store, storage.KeyAdminSession, s.now(), logger)
	return s
}

// Current returns the active admin identity, if any. An expired identity is
// purged and reported as absent.
func (s *AdminStore) Current(ctx context.Context) (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return models.Identity{}, false
	}
	if s.identity.Expired(s.now()) {
		s.identity = nil
		purgeIdentity(ctx, s.store, storage.KeyAdminSession, s.logger)
		return models.Identity{}, false
	}
	return *s.identity, true
}

// Login validates the credential pair. On failure state is untouched and the
// error does not reveal whether the username or the password was wrong.
func (s *AdminStore) Login(ctx context.Context, username, password string) (models.Identity, error) {
	s.mu.Lock()
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	hash := s.passwordHash
	s.mu.Unlock()

	if !usernameOK || !VerifyPassword(hash, password) {
		return models.Identity{}, ErrInvalidCredentials
	}

	identity := models.Identity{
		Name:   username,
		Role:   models.RoleAdmin,
		Expiry: s.now().Add(AdminSessionTTL),
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()

	saveIdentity(ctx, s.store, storage.KeyAdminSession, identity, s.logger)
	return identity, nil
}

// Logout clears the identity and purges the saved session. Idempotent.
func (s *AdminStore) Logout(ctx context.Context) {
	s.mu.Lock()
	s.identity = nil
	s.mu.Unlock()
	purgeIdentity(ctx, s.store, storage.KeyAdminSession, s.logger)
}

// ChangePassword verifies the current password and persists a hash of the new
// one so it survives restarts. Requires an active session.
func (s *AdminStore) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if _, ok := s.Current(ctx); !ok {
		return ErrNotLoggedIn
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	s.mu.Lock()
	hash := s.passwordHash
	s.mu.Unlock()

	if !VerifyPassword(hash, currentPassword) {
		return ErrInvalidCredentials
	}

	newHash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	data, err := json.Marshal(adminCredential{PasswordHash: newHash})
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	if err := s.store.Put(ctx, KeyAdminCredential, data); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}

	s.mu.Lock()
	s.passwordHash = newHash
	s.mu.Unlock()
	return nil
}
