package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/pkg/cryptox"
	"github.com/aussiebroadwan/custody/pkg/jwtx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	sess, err := e.sessions.Login(ctx, "admin", "adminpass")
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.NotEmpty(t, sess.TokenID)
	require.Equal(t, domain.Identity{UserID: 1, Role: domain.RoleAdmin, Name: "Admin User", Email: "admin"}, sess.Identity)
	require.WithinDuration(t, time.Now().Add(jwtx.DefaultSessionTTL), sess.ExpiresAt, time.Minute)

	id, err := e.sessions.Verify(ctx, sess.Token)
	require.NoError(t, err)
	require.Equal(t, sess.Identity, id)

	require.Equal(t, 1.0, testutil.ToFloat64(e.metrics.LoginAttempts.WithLabelValues("success")))
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	_, err := e.sessions.Login(ctx, "admin", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = e.sessions.Login(ctx, "nobody", "adminpass")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	// Email matching is exact.
	_, err = e.sessions.Login(ctx, "ADMIN", "adminpass")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = e.sessions.Login(ctx, "", "adminpass")
	require.ErrorIs(t, err, domain.ErrMissingField)

	_, err = e.sessions.Login(ctx, "admin", "")
	require.ErrorIs(t, err, domain.ErrMissingField)

	require.Equal(t, 3.0, testutil.ToFloat64(e.metrics.LoginAttempts.WithLabelValues("invalid_credential")))
}

func TestLoginUpgradesLegacyHash(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	before, err := e.users.FindByEmail(ctx, "24UAM101")
	require.NoError(t, err)
	require.True(t, cryptox.IsLegacyHash(before.PasswordHash))

	_, err = e.sessions.Login(ctx, "24UAM101", "studentpass")
	require.NoError(t, err)

	after, err := e.users.FindByEmail(ctx, "24UAM101")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(after.PasswordHash, "$argon2id$"))

	_, err = e.sessions.Login(ctx, "24UAM101", "studentpass")
	require.NoError(t, err)
}

func TestVerifyRejects(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	sess, err := e.sessions.Login(ctx, "24UAM101", "studentpass")
	require.NoError(t, err)

	_, err = e.sessions.Verify(ctx, "")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	_, err = e.sessions.Verify(ctx, "not.a.jwt")
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	parts := strings.Split(sess.Token, ".")
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]
	_, err = e.sessions.Verify(ctx, tampered)
	require.ErrorIs(t, err, domain.ErrInvalidCredential)

	// A token signed with another secret.
	other, err := jwtx.NewSignerHS256([]byte(strings.Repeat("z", 32)))
	require.NoError(t, err)
	forged := e.sessionService()
	forged.Signer = other
	u, err := e.users.FindByEmail(ctx, "admin")
	require.NoError(t, err)
	f, err := forged.Issue(u)
	require.NoError(t, err)
	_, err = e.sessions.Verify(ctx, f.Token)
	require.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestVerifyExpired(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	u, err := e.users.FindByEmail(ctx, "management")
	require.NoError(t, err)

	old := e.sessionService()
	old.Clock = func() time.Time { return time.Now().Add(-9 * time.Hour) }
	sess, err := old.Issue(u)
	require.NoError(t, err)

	_, err = e.sessions.Verify(ctx, sess.Token)
	require.ErrorIs(t, err, domain.ErrInvalidCredential)
}

func TestLogoutRevokes(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	sess, err := e.sessions.Login(ctx, "admin", "adminpass")
	require.NoError(t, err)

	require.NoError(t, e.sessions.Logout(ctx, sess.Token))
	_, err = e.sessions.Verify(ctx, sess.Token)
	require.ErrorIs(t, err, domain.ErrInvalidCredential)
	require.Equal(t, 1.0, testutil.ToFloat64(e.metrics.SessionsRevoked))

	// Other sessions of the same user are unaffected.
	again, err := e.sessions.Login(ctx, "admin", "adminpass")
	require.NoError(t, err)
	_, err = e.sessions.Verify(ctx, again.Token)
	require.NoError(t, err)

	require.NoError(t, e.sessions.Logout(ctx, ""))
	require.NoError(t, e.sessions.Logout(ctx, "garbage"))
}

func TestLogoutWithoutRevocationSet(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	sessions := e.sessionService()
	sessions.Revocations = nil

	sess, err := sessions.Login(ctx, "admin", "adminpass")
	require.NoError(t, err)
	require.NoError(t, sessions.Logout(ctx, sess.Token))

	_, err = sessions.Verify(ctx, sess.Token)
	require.NoError(t, err)
}

func TestCurrentIdentity(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	_, err := e.sessions.Current(ctx, nil)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	id := e.identity(t, "24UAM110")
	got, err := e.sessions.Current(ctx, id)
	require.NoError(t, err)
	require.Equal(t, *id, got)
}

func TestEdDSASessions(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	pemBytes, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	key, err := cryptox.ParseEd25519Key(pemBytes)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(key)
	require.NoError(t, err)

	sessions := &service.SessionService{
		Users:    e.users,
		Signer:   signer,
		Verifier: signer.Verifier(jwtx.VerifyOptions{}),
		TTL:      time.Hour,
	}
	sess, err := sessions.Login(ctx, "management", "managepass")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	id, err := sessions.Verify(ctx, sess.Token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleManagement, id.Role)
}
