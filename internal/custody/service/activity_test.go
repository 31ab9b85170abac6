package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/stretchr/testify/require"
)

func TestActivityNewestFirst(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	admin := e.identity(t, "admin")

	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e.ledger.Clock = fixedClock(start, time.Minute)

	_, err := e.ledger.Issue(ctx, admin, 1, "first")
	require.NoError(t, err)
	_, err = e.ledger.Issue(ctx, admin, 5, "second")
	require.NoError(t, err)
	_, err = e.ledger.MarkReturned(ctx, admin, 1, "third")
	require.NoError(t, err)

	rows, err := e.activity.ListAll(ctx, e.identity(t, "management"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "third", rows[0].Notes)
	require.Equal(t, "second", rows[1].Notes)
	require.Equal(t, "first", rows[2].Notes)

	require.Equal(t, "Admin User", rows[0].By)
	require.Equal(t, "Aadhar Xerox", rows[0].Title)
	require.Equal(t, "PAN Card Xerox", rows[1].Title)
	require.Equal(t, domain.ActionReturn, rows[0].Action)
}

func TestActivityTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	admin := e.identity(t, "admin")

	same := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e.ledger.Clock = func() time.Time { return same }

	for _, id := range []int64{3, 1, 2} {
		_, err := e.ledger.Issue(ctx, admin, id, "")
		require.NoError(t, err)
	}

	rows, err := e.activity.ListAll(ctx, admin)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []int64{3, 1, 2}, []int64{rows[0].CertificateID, rows[1].CertificateID, rows[2].CertificateID})
}

func TestActivityRequiresStaff(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	_, err := e.activity.ListAll(ctx, e.identity(t, "24UAM101"))
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.activity.ListAll(ctx, nil)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
