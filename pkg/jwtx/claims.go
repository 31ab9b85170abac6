package jwtx

import (
	"time"

	"github.com/aussiebroadwan/custody/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a login session token stays valid.
const DefaultSessionTTL = 8 * time.Hour

// Claims are the session token claims. Subject carries the numeric user id
// in decimal form.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the user's role at the time of login ("STUDENT", "ADMIN", "MANAGEMENT").
	Role string `json:"role"`

	// Name is the display name for the user
	Name string `json:"name,omitempty"`

	// Email is the login identifier (roll number or staff handle)
	Email string `json:"email,omitempty"`
}

// NewSessionClaims builds claims for a freshly authenticated user. A ULID is
// used for jti so revocations can be pruned by age.
func NewSessionClaims(subject, role, name, email, issuer string, ttl time.Duration, now time.Time) Claims {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.NewAt(now).String(),
		},
		Role:  role,
		Name:  name,
		Email: email,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiryAt checks exp and nbf against now, allowing leeway for clock skew.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

// ExpiresAtTime returns exp or the zero time.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
