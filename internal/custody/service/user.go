package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/pkg/cryptox"
)

// UserService is the identity store. There is no self registration; users
// come from provisioning.
type UserService struct {
	Store store.Store
}

// FindByEmail looks up a user by login key.
func (s *UserService) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return s.Store.Users().GetByEmail(ctx, email)
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	return s.Store.Users().Get(ctx, id)
}

// VerifyPassword returns nil when plaintext matches the stored hash and
// domain.ErrInvalidCredential when it does not.
func (s *UserService) VerifyPassword(u domain.User, plaintext string) error {
	err := cryptox.VerifyPassword(plaintext, u.PasswordHash)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, cryptox.ErrPasswordMismatch):
		return domain.ErrInvalidCredential
	case errors.Is(err, cryptox.ErrUnsupportedHash):
		return fmt.Errorf("%w: stored hash for user %d: %v", domain.ErrInvalidCredential, u.ID, err)
	default:
		return err
	}
}

// SetPassword replaces a user's password with a fresh argon2id hash.
func (s *UserService) SetPassword(ctx context.Context, id int64, plaintext string) error {
	if plaintext == "" {
		return fmt.Errorf("%w: password", domain.ErrMissingField)
	}
	hash, err := cryptox.HashPassword(plaintext)
	if err != nil {
		return err
	}
	return s.Store.Users().UpdatePasswordHash(ctx, id, hash)
}
