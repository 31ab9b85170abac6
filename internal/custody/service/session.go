package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/metrics"
	"github.com/aussiebroadwan/custody/internal/custody/policy"
	"github.com/aussiebroadwan/custody/internal/custody/revocation"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/pkg/cryptox"
	"github.com/aussiebroadwan/custody/pkg/jwtx"
	"github.com/aussiebroadwan/custody/pkg/slogx"
)

// SessionService issues and checks login sessions.
type SessionService struct {
	Users    *UserService
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration

	// Revocations may be nil, in which case logout only clears the cookie.
	Revocations revocation.Set
	Metrics     *metrics.Metrics
	Clock       Clock

	dummyOnce sync.Once
	dummyHash string
}

// Login checks email and password and issues a session. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	l := slogx.FromContext(ctx)

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: email and password are required", domain.ErrMissingField)
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, err
		}
		// Spend the same time as a real check.
		_ = cryptox.VerifyPassword(password, s.dummy())
		s.Metrics.Login("invalid_credential")
		l.Info("login failed", slog.String("reason", "unknown_email"))
		return domain.Session{}, domain.ErrInvalidCredential
	}

	if err := s.Users.VerifyPassword(user, password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			s.Metrics.Login("invalid_credential")
			l.Info("login failed", slog.String("reason", "bad_password"), slog.Int64("user_id", user.ID))
			return domain.Session{}, domain.ErrInvalidCredential
		}
		return domain.Session{}, err
	}

	if cryptox.IsLegacyHash(user.PasswordHash) {
		if err := s.Users.SetPassword(ctx, user.ID, password); err != nil {
			l.Warn("failed to upgrade legacy password hash", slog.Int64("user_id", user.ID), slog.Any("error", err))
		} else {
			l.Info("upgraded legacy password hash", slog.Int64("user_id", user.ID))
		}
	}

	sess, err := s.Issue(user)
	if err != nil {
		return domain.Session{}, err
	}
	s.Metrics.Login("success")
	l.Info("login succeeded", slog.Int64("user_id", user.ID), slog.String("role", user.Role.String()))
	return sess, nil
}

// Issue signs a session token for u.
func (s *SessionService) Issue(u domain.User) (domain.Session, error) {
	claims := jwtx.NewSessionClaims(
		strconv.FormatInt(u.ID, 10),
		u.Role.String(),
		u.Name,
		u.Email,
		s.Issuer,
		s.ttl(),
		s.Clock.now(),
	)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.Session{}, fmt.Errorf("sign session: %w", err)
	}
	return domain.Session{
		Token:     token,
		TokenID:   claims.ID,
		Identity:  u.Identity(),
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}

// Verify returns the identity carried by token. A missing, tampered,
// expired or revoked token yields domain.ErrInvalidCredential.
func (s *SessionService) Verify(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return domain.Identity{}, err
	}

	if s.Revocations != nil {
		revoked, err := s.Revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return domain.Identity{}, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return domain.Identity{}, fmt.Errorf("%w: session revoked", domain.ErrInvalidCredential)
		}
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return domain.Identity{}, fmt.Errorf("%w: bad subject", domain.ErrInvalidCredential)
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}

	return domain.Identity{UserID: id, Role: role, Name: claims.Name, Email: claims.Email}, nil
}

// Logout revokes token until it would have expired. A missing or invalid
// token is not an error.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" || s.Revocations == nil {
		return nil
	}
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.Revocations.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.Metrics.Revoked()
	slogx.FromContext(ctx).Info("session revoked", slog.String("subject", claims.Subject), slog.String("jti", claims.ID))
	return nil
}

// Current returns the caller's identity as the store has it now. A session
// whose user no longer exists yields domain.ErrInvalidCredential.
func (s *SessionService) Current(ctx context.Context, id *domain.Identity) (domain.Identity, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpCurrentIdentity); err != nil {
		return domain.Identity{}, err
	}
	u, err := s.Users.Get(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: user %d no longer exists", domain.ErrInvalidCredential, id.UserID)
		}
		return domain.Identity{}, err
	}
	return u.Identity(), nil
}

func (s *SessionService) parse(token string) (jwtx.Claims, error) {
	if token == "" {
		return jwtx.Claims{}, fmt.Errorf("%w: no session", domain.ErrInvalidCredential)
	}
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return jwtx.Claims{}, fmt.Errorf("%w: %v", domain.ErrInvalidCredential, err)
	}
	return claims, nil
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return jwtx.DefaultSessionTTL
	}
	return s.TTL
}

func (s *SessionService) dummy() string {
	s.dummyOnce.Do(func() {
		pw, err := cryptox.GeneratePassword()
		if err == nil {
			s.dummyHash, _ = cryptox.HashPassword(pw)
		}
	})
	return s.dummyHash
}
