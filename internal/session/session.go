// Package session manages the time-bounded authenticated identities of the
// storefront: one customer session and one admin session, each persisted to
// durable storage and restored at startup.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/thehungrydrop/hungrydrop/internal/models"
	"github.com/thehungrydrop/hungrydrop/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// Session lifetimes. A stored session whose expiry has passed is purged at
// load time and the store starts logged out.
const (
	CustomerSessionTTL = 7 * 24 * time.Hour
	AdminSessionTTL    = 24 * time.Hour
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

var (
	// ErrInvalidCredentials is returned on any authentication failure. It is
	// deliberately generic so callers cannot tell which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotLoggedIn is returned by authenticated mutations while logged out.
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrPasswordTooShort is returned when a new password is shorter than
	// MinPasswordLength.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
)

// HashPassword runs the plaintext through bcrypt. Plaintext passwords are
// never stored or compared directly.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares the plaintext against a bcrypt hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// loadIdentity reads a persisted identity from the store. Malformed or
// expired entries are purged and treated as absent; this never fails startup.
func loadIdentity(ctx context.Context, store storage.Store, key string, now time.Time, logger *slog.Logger) *models.Identity {
	data, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			logger.Error("failed to read saved session", "key", key, "error", err)
		}
		return nil
	}

	var identity models.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		logger.Error("discarding corrupt saved session", "key", key, "error", err)
		purgeIdentity(ctx, store, key, logger)
		return nil
	}
	if identity.Expired(now) {
		logger.Info("discarding expired session", "key", key, "expiry", identity.Expiry)
		purgeIdentity(ctx, store, key, logger)
		return nil
	}
	return &identity
}

func saveIdentity(ctx context.Context, store storage.Store, key string, identity models.Identity, logger *slog.Logger) {
	data, err := json.Marshal(identity)
	if err != nil {
		logger.Error("failed to encode session", "key", key, "error", err)
		return
	}
	if err := store.Put(ctx, key, data); err != nil {
		logger.Error("failed to persist session", "key", key, "error", err)
	}
}

func purgeIdentity(ctx context.Context, store storage.Store, key string, logger *slog.Logger) {
	if err := store.Delete(ctx, key); err != nil {
		logger.Error("failed to purge session", "key", key, "error", err)
	}
}
