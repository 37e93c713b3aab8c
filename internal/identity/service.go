// Package identity implements registration and login: the unauthenticated
// flow that produces the tokens the auth middleware later consumes.
package identity

import (
	"context"
	"errors"

	"github.com/scribehq/scribe/internal/apperr"
	"github.com/scribehq/scribe/internal/auth/password"
	"github.com/scribehq/scribe/internal/auth/token"
	"github.com/scribehq/scribe/internal/logger"
	"github.com/scribehq/scribe/internal/store"
)

// Service composes the credential hasher, the token service, and the user
// store. It holds no mutable state of its own.
type Service struct {
	users  store.UserStore
	hasher password.Hasher
	tokens *token.Service
	log    *logger.Logger
}

// NewService creates the identity service.
func NewService(users store.UserStore, hasher password.Hasher, tokens *token.Service, log *logger.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		log:    log.WithComponent("identity"),
	}
}

// Register creates a new user with a hashed password. A taken email fails
// with USER_EXISTS on the pre-check and again on the insert itself, which
// the store guards with a uniqueness constraint, so a concurrent register
// racing past the pre-check still maps correctly. Registration issues no
// token; the caller logs in separately.
func (s *Service) Register(ctx context.Context, name, email, plaintext string) error {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return apperr.UserExists()
	}
	if !errors.Is(err, store.ErrNotFound) {
		return apperr.StoreError(err)
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return apperr.Internal(err)
	}

	user := &store.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return apperr.UserExists()
		}
		return apperr.StoreError(err)
	}

	s.log.Info("User registered", map[string]interface{}{
		logger.FieldUserID: user.ID.Hex(),
	})
	return nil
}

// Login verifies the email/password pair and issues a token keyed to the
// user's identifier. Unknown email and wrong password return the identical
// INVALID_CREDENTIALS error so the response leaks nothing about which
// check failed.
func (s *Service) Login(ctx context.Context, email, plaintext string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.InvalidCredentials()
	}
	if err != nil {
		return "", apperr.StoreError(err)
	}

	if err := s.hasher.Verify(plaintext, user.PasswordHash); err != nil {
		return "", apperr.InvalidCredentials()
	}

	signed, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return "", apperr.Internal(err)
	}

	s.log.Debug("User logged in", map[string]interface{}{
		logger.FieldUserID: user.ID.Hex(),
	})
	return signed, nil
}

// TokenVerifier bridges the token service to the auth middleware: it
// verifies a token string and returns the embedded user identifier.
func (s *Service) TokenVerifier() func(string) (string, error) {
	return func(raw string) (string, error) {
		claims, err := s.tokens.Verify(raw)
		if err != nil {
			return "", err
		}
		return claims.UserID, nil
	}
}
