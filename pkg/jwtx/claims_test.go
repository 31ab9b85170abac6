package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/custody/pkg/idx"
	"github.com/aussiebroadwan/custody/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const exampleIssuer = "custody-test"

func TestNewSessionClaims(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	c := jwtx.NewSessionClaims("3", "STUDENT", "24UAM101", "24UAM101", exampleIssuer, 0, now)

	require.Equal(t, "3", c.Subject)
	require.Equal(t, "STUDENT", c.Role)
	require.Equal(t, now.Add(jwtx.DefaultSessionTTL), c.ExpiresAtTime())
	require.Equal(t, now, c.IssuedAt.Time)

	// jti is a ULID carrying the issue time.
	id, err := idx.Parse(c.ID)
	require.NoError(t, err)
	require.WithinDuration(t, now, id.Time(), time.Millisecond)
}

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "custody"}}

	require.NoError(t, c.ValidateIssuer("custody"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("other"), jwtx.ErrIssuer)
}

func TestValidateExpiryAt(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name   string
		claims jwt.RegisteredClaims
		leeway time.Duration
		want   error
	}{
		{"valid token", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))}, 0, nil},
		{"expired token", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))}, 0, jwtx.ErrExpired},
		{"not yet valid", jwt.RegisteredClaims{NotBefore: jwt.NewNumericDate(now.Add(time.Minute))}, 0, jwtx.ErrNotYetValid},
		{"within leeway", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-10 * time.Second))}, 30 * time.Second, nil},
		{"beyond leeway", jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-2 * time.Minute))}, 30 * time.Second, jwtx.ErrExpired},
		{"no exp or nbf", jwt.RegisteredClaims{}, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &jwtx.Claims{RegisteredClaims: tt.claims}
			err := c.ValidateExpiryAt(now, tt.leeway)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}
