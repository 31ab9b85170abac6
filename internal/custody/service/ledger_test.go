package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStudentSeesOwnCertificates(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	student := e.identity(t, "24UAM101")
	rows, err := e.ledger.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, rows, 7)

	var titles []string
	for _, r := range rows {
		require.Equal(t, student.UserID, r.UserID)
		require.Equal(t, domain.StatusNotPresent, r.Status)
		require.Empty(t, r.Owner)
		titles = append(titles, r.Title)
	}
	require.Equal(t, service.DefaultRoster().Catalog, titles)

	_, err = e.ledger.List(ctx, nil)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestStaffSeeEveryCertificate(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	for _, email := range []string{"admin", "management"} {
		rows, err := e.ledger.List(ctx, e.identity(t, email))
		require.NoError(t, err)
		require.Len(t, rows, 65*7)
		require.Equal(t, "24UAM101", rows[0].Owner)
		require.Equal(t, "24UAM165", rows[len(rows)-1].Owner)
		for i := 1; i < len(rows); i++ {
			require.Less(t, rows[i-1].ID, rows[i].ID)
		}
	}
}

func TestCreateCertificate(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	admin := e.identity(t, "admin")
	student := e.identity(t, "24UAM120")

	c, err := e.ledger.Create(ctx, admin, service.NewCertificate{UserID: student.UserID, Title: "Migration Certificate", Description: "original"})
	require.NoError(t, err)
	require.Equal(t, int64(65*7+1), c.ID)
	require.Equal(t, domain.StatusPresent, c.Status)
	require.True(t, bool(c.PresentInOffice))
	require.Nil(t, c.CertificateTypeID)
	require.False(t, c.CreatedAt.IsZero())

	rows, err := e.ledger.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, rows, 8)

	logs, err := e.store.Logs().List(ctx)
	require.NoError(t, err)
	require.Empty(t, logs)

	_, err = e.ledger.Create(ctx, admin, service.NewCertificate{Title: "x"})
	require.ErrorIs(t, err, domain.ErrMissingField)
	_, err = e.ledger.Create(ctx, admin, service.NewCertificate{UserID: student.UserID, Title: "  "})
	require.ErrorIs(t, err, domain.ErrMissingField)
	_, err = e.ledger.Create(ctx, admin, service.NewCertificate{UserID: 9999, Title: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.ledger.Create(ctx, e.identity(t, "management"), service.NewCertificate{UserID: student.UserID, Title: "x"})
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = e.ledger.Create(ctx, student, service.NewCertificate{UserID: student.UserID, Title: "x"})
	require.ErrorIs(t, err, domain.ErrForbidden)

	require.Equal(t, 2.0, testutil.ToFloat64(e.metrics.AuthzDenials.WithLabelValues("create_certificate")))
}

func TestSetPresence(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	admin := e.identity(t, "admin")

	c, err := e.ledger.SetPresence(ctx, admin, 5, true)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPresent, c.Status)
	require.True(t, bool(c.PresentInOffice))

	c, err = e.ledger.SetPresence(ctx, admin, 5, false)
	require.NoError(t, err)
	require.Equal(t, domain.StatusIssued, c.Status)
	require.False(t, bool(c.PresentInOffice))

	stored, err := e.store.Certificates().Get(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, c, stored)

	logs, err := e.store.Logs().List(ctx)
	require.NoError(t, err)
	require.Empty(t, logs)

	_, err = e.ledger.SetPresence(ctx, admin, 100000, true)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.ledger.SetPresence(ctx, e.identity(t, "24UAM101"), 5, true)
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestIssueAndReturn(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	admin := e.identity(t, "admin")
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e.ledger.Clock = fixedClock(start, time.Minute)

	_, err := e.ledger.SetPresence(ctx, admin, 5, true)
	require.NoError(t, err)

	c, err := e.ledger.Issue(ctx, admin, 5, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusIssued, c.Status)
	require.NotNil(t, c.IssueDate)

	c, err = e.ledger.MarkReturned(ctx, admin, 5, "back in the cabinet")
	require.NoError(t, err)
	require.Equal(t, domain.StatusReturned, c.Status)
	require.NotNil(t, c.ReturnDate)
	require.True(t, c.ReturnDate.After(*c.IssueDate))

	logs, err := e.store.Logs().List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, domain.ActionIssue, logs[0].Action)
	require.Equal(t, domain.DefaultIssueNote, logs[0].Notes)
	require.Equal(t, admin.UserID, logs[0].ByUserID)
	require.Equal(t, domain.ActionReturn, logs[1].Action)
	require.Equal(t, "back in the cabinet", logs[1].Notes)

	require.Equal(t, 1.0, testutil.ToFloat64(e.metrics.CustodyTransitions.WithLabelValues("issued")))
	require.Equal(t, 1.0, testutil.ToFloat64(e.metrics.CustodyTransitions.WithLabelValues("returned")))
}

func TestIssueAndReturnArePermissive(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	admin := e.identity(t, "admin")

	// Returning a certificate that was never issued.
	c, err := e.ledger.MarkReturned(ctx, admin, 1, "")
	require.NoError(t, err)
	require.Equal(t, domain.StatusReturned, c.Status)
	require.Nil(t, c.IssueDate)

	// Issuing twice.
	_, err = e.ledger.Issue(ctx, admin, 2, "")
	require.NoError(t, err)
	_, err = e.ledger.Issue(ctx, admin, 2, "again")
	require.NoError(t, err)

	logs, err := e.store.Logs().List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	require.Equal(t, domain.DefaultReturnNote, logs[0].Notes)
}

func TestIssueRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	for _, email := range []string{"management", "24UAM101"} {
		_, err := e.ledger.Issue(ctx, e.identity(t, email), 5, "")
		require.ErrorIs(t, err, domain.ErrForbidden)
		_, err = e.ledger.MarkReturned(ctx, e.identity(t, email), 5, "")
		require.ErrorIs(t, err, domain.ErrForbidden)
	}
	_, err := e.ledger.Issue(ctx, nil, 5, "")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = e.ledger.Issue(ctx, e.identity(t, "admin"), 424242, "")
	require.ErrorIs(t, err, domain.ErrNotFound)

	logs, err := e.store.Logs().List(ctx)
	require.NoError(t, err)
	require.Empty(t, logs)
}

func TestFailedFlushLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)
	admin := e.identity(t, "admin")

	e.persister.FailFlushes(errors.New("disk full"))
	_, err := e.ledger.Issue(ctx, admin, 5, "")
	require.ErrorIs(t, err, store.ErrFlush)
	e.persister.FailFlushes(nil)

	c, err := e.store.Certificates().Get(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, domain.StatusNotPresent, c.Status)
	require.Nil(t, c.IssueDate)

	logs, err := e.store.Logs().List(ctx)
	require.NoError(t, err)
	require.Empty(t, logs)

	require.Equal(t, 1.0, testutil.ToFloat64(e.metrics.StoreFlushErrors))
	require.Equal(t, 0.0, testutil.ToFloat64(e.metrics.CustodyTransitions.WithLabelValues("issued")))
}

func TestListsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newSeededEnv(t)

	student := e.identity(t, "24UAM101")
	_, err := e.requests.Submit(ctx, student, 1, "bank")
	require.NoError(t, err)
	_, err = e.requests.Submit(ctx, e.identity(t, "24UAM102"), 8, "visa")
	require.NoError(t, err)
	_, err = e.ledger.Issue(ctx, e.identity(t, "admin"), 1, "")
	require.NoError(t, err)

	for _, email := range []string{"24UAM101", "admin", "management"} {
		t.Run(email, func(t *testing.T) {
			id := e.identity(t, email)

			first, err := e.ledger.List(ctx, id)
			require.NoError(t, err)
			second, err := e.ledger.List(ctx, id)
			require.NoError(t, err)
			require.Equal(t, first, second)

			reqsFirst, err := e.requests.List(ctx, id)
			require.NoError(t, err)
			reqsSecond, err := e.requests.List(ctx, id)
			require.NoError(t, err)
			require.Equal(t, reqsFirst, reqsSecond)
			require.NotEmpty(t, reqsFirst)
		})
	}
}
