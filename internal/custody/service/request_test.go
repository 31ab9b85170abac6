package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSubmitRequest(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	student := e.identity(t, "24UAM101")

	r, err := e.requests.Submit(ctx, student, 5, "  bank account  ")
	require.NoError(t, err)
	require.Equal(t, int64(1), r.ID)
	require.Equal(t, student.UserID, r.UserID)
	require.Equal(t, int64(5), r.CertificateID)
	require.Equal(t, "bank account", r.Purpose)
	require.Equal(t, domain.RequestPending, r.Status)
	require.Nil(t, r.DecidedBy)
	require.Nil(t, r.DecidedAt)

	require.Equal(t, 1.0, testutil.ToFloat64(e.metrics.RequestsSubmitted))
}

func TestSubmitRequestRejects(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	student := e.identity(t, "24UAM101")

	_, err := e.requests.Submit(ctx, student, 0, "x")
	require.ErrorIs(t, err, domain.ErrMissingField)

	_, err = e.requests.Submit(ctx, student, 99999, "x")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Certificate 8 is the first row of the second student.
	_, err = e.requests.Submit(ctx, student, 8, "x")
	require.ErrorIs(t, err, domain.ErrForbidden)

	for _, email := range []string{"admin", "management"} {
		_, err = e.requests.Submit(ctx, e.identity(t, email), 5, "x")
		require.ErrorIs(t, err, domain.ErrForbidden)
	}

	_, err = e.requests.Submit(ctx, nil, 5, "x")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	reqs, err := e.store.Requests().List(ctx)
	require.NoError(t, err)
	require.Empty(t, reqs)
}

func TestListRequests(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	alice := e.identity(t, "24UAM101")
	bob := e.identity(t, "24UAM102")

	_, err := e.requests.Submit(ctx, alice, 5, "bank")
	require.NoError(t, err)
	_, err = e.requests.Submit(ctx, bob, 8, "passport")
	require.NoError(t, err)

	rows, err := e.requests.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "PAN Card Xerox", rows[0].Title)
	require.Empty(t, rows[0].Requester)

	for _, email := range []string{"admin", "management"} {
		rows, err = e.requests.List(ctx, e.identity(t, email))
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.Equal(t, "24UAM101", rows[0].Requester)
		require.Equal(t, "24UAM102", rows[1].Requester)
		require.Equal(t, "Aadhar Xerox", rows[1].Title)
	}
}

func TestDecideRequest(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	admin := e.identity(t, "admin")

	r, err := e.requests.Submit(ctx, e.identity(t, "24UAM101"), 5, "bank")
	require.NoError(t, err)

	_, err = e.requests.Decide(ctx, admin, r.ID, "maybe")
	require.ErrorIs(t, err, domain.ErrInvalidDecision)
	_, err = e.requests.Decide(ctx, admin, r.ID, "pending")
	require.ErrorIs(t, err, domain.ErrInvalidDecision)
	_, err = e.requests.Decide(ctx, admin, 777, "approved")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.requests.Decide(ctx, e.identity(t, "management"), r.ID, "approved")
	require.ErrorIs(t, err, domain.ErrForbidden)

	decided, err := e.requests.Decide(ctx, admin, r.ID, "approved")
	require.NoError(t, err)
	require.Equal(t, domain.RequestApproved, decided.Status)
	require.NotNil(t, decided.DecidedBy)
	require.Equal(t, admin.UserID, *decided.DecidedBy)
	require.NotNil(t, decided.DecidedAt)

	// Decided requests are terminal.
	_, err = e.requests.Decide(ctx, admin, r.ID, "rejected")
	require.ErrorIs(t, err, domain.ErrAlreadyDecided)

	stored, err := e.store.Requests().Get(ctx, r.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RequestApproved, stored.Status)

	require.Equal(t, 1.0, testutil.ToFloat64(e.metrics.RequestDecisions.WithLabelValues("approved")))
	require.Equal(t, 0.0, testutil.ToFloat64(e.metrics.RequestDecisions.WithLabelValues("rejected")))
}
