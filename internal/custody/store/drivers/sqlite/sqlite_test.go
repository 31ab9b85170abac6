package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/internal/custody/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func dsn(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "custody.db")
}

func TestEmptyDatabaseLoadsEmptyDocument(t *testing.T) {
	p, err := sqlite.New(dsn(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	doc, err := p.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, doc.Users)
	require.Empty(t, doc.Certificates)
	require.NotNil(t, doc.Logs)
	require.NoError(t, p.Ping(context.Background()))
}

func TestRoundTripThroughStore(t *testing.T) {
	ctx := context.Background()
	path := dsn(t)

	s, err := sqlite.Open(ctx, path)
	require.NoError(t, err)

	var certID int64
	err = s.WithTx(ctx, func(tx store.Tx) error {
		admin, err := tx.Users().Create(ctx, domain.User{Name: "Admin User", Email: "admin", PasswordHash: "h", Role: domain.RoleAdmin})
		if err != nil {
			return err
		}
		student, err := tx.Users().Create(ctx, domain.User{Name: "24UAM101", Email: "24UAM101", PasswordHash: "h", Role: domain.RoleStudent})
		if err != nil {
			return err
		}
		ct, err := tx.Catalog().Create(ctx, domain.CertificateType{Title: "10th TC"})
		if err != nil {
			return err
		}
		issued := time.Date(2024, 6, 1, 9, 30, 0, 123456789, time.UTC)
		c, err := tx.Certificates().Create(ctx, domain.Certificate{
			UserID:            student.ID,
			CertificateTypeID: &ct.ID,
			Title:             ct.Title,
			PresentInOffice:   false,
			Status:            domain.StatusIssued,
			IssueDate:         &issued,
		})
		if err != nil {
			return err
		}
		certID = c.ID
		if _, err := tx.Requests().Create(ctx, domain.Request{UserID: student.ID, CertificateID: c.ID, Purpose: "bank", Status: domain.RequestApproved, DecidedBy: &admin.ID, DecidedAt: &issued}); err != nil {
			return err
		}
		_, err = tx.Logs().Append(ctx, domain.ActivityLog{CertificateID: c.ID, Action: domain.ActionIssue, ByUserID: admin.ID, Timestamp: issued, Notes: domain.DefaultIssueNote})
		return err
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	student, err := s.Users().GetByEmail(ctx, "24UAM101")
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, student.Role)

	c, err := s.Certificates().Get(ctx, certID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusIssued, c.Status)
	require.False(t, bool(c.PresentInOffice))
	require.NotNil(t, c.IssueDate)
	require.Equal(t, 123456789, c.IssueDate.Nanosecond())
	require.Nil(t, c.ReturnDate)
	require.NotNil(t, c.CertificateTypeID)

	reqs, err := s.Requests().List(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	require.Equal(t, domain.RequestApproved, reqs[0].Status)
	require.NotNil(t, reqs[0].DecidedBy)

	logs, err := s.Logs().List(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, domain.DefaultIssueNote, logs[0].Notes)

	snap := s.Snapshot()
	require.Equal(t, int64(2), snap.IDs[store.TableUsers])
	require.Equal(t, int64(1), snap.IDs[store.TableLogs])
}

func TestCountersPersist(t *testing.T) {
	ctx := context.Background()
	path := dsn(t)

	s, err := sqlite.Open(ctx, path)
	require.NoError(t, err)

	for range 3 {
		_, err := s.Logs().Append(ctx, domain.ActivityLog{CertificateID: 1, Action: domain.ActionReturn, ByUserID: 1, Timestamp: time.Now()})
		require.NoError(t, err)
	}
	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().Create(ctx, domain.User{Name: "x", Email: "x", Role: domain.RoleAdmin})
		return err
	}))
	require.NoError(t, s.Close())

	s, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	l, err := s.Logs().Append(ctx, domain.ActivityLog{CertificateID: 1, Action: domain.ActionIssue, ByUserID: 1, Timestamp: time.Now()})
	require.NoError(t, err)
	require.Equal(t, int64(4), l.ID)
}

func TestFlushReplacesDocument(t *testing.T) {
	ctx := context.Background()
	p, err := sqlite.New(dsn(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	now := time.Now().UTC()
	doc := store.NewDocument()
	doc.Users = []domain.User{
		{ID: 1, Name: "a", Email: "a", Role: domain.RoleAdmin, CreatedAt: now},
		{ID: 2, Name: "b", Email: "b", Role: domain.RoleStudent, CreatedAt: now},
	}
	doc.Normalize()
	require.NoError(t, p.Flush(ctx, doc))

	doc.Users = doc.Users[:1]
	require.NoError(t, p.Flush(ctx, doc))

	back, err := p.Load(ctx)
	require.NoError(t, err)
	require.Len(t, back.Users, 1)
	require.Equal(t, int64(2), back.IDs[store.TableUsers])
}

func TestFlushRollsBackOnConstraintViolation(t *testing.T) {
	ctx := context.Background()
	p, err := sqlite.New(dsn(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	good := store.NewDocument()
	good.Users = []domain.User{{ID: 1, Name: "a", Email: "a", Role: domain.RoleAdmin}}
	good.Normalize()
	require.NoError(t, p.Flush(ctx, good))

	bad := good.Clone()
	bad.Users = append(bad.Users, domain.User{ID: 2, Name: "dup", Email: "a", Role: domain.RoleStudent})
	require.Error(t, p.Flush(ctx, bad))

	back, err := p.Load(ctx)
	require.NoError(t, err)
	require.Len(t, back.Users, 1)
	require.Equal(t, "a", back.Users[0].Name)
}
