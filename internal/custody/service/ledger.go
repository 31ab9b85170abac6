package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/metrics"
	"github.com/aussiebroadwan/custody/internal/custody/policy"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/pkg/slogx"
)

// LedgerService tracks where each certificate physically is.
//
// Issue and MarkReturned do not look at the current status: an admin can
// re-issue an issued certificate or return one that was never issued. Each
// of them writes the ledger row and its activity entry in one transaction.
type LedgerService struct {
	Store   store.Store
	Metrics *metrics.Metrics
	Clock   Clock
}

type NewCertificate struct {
	UserID      int64
	Title       string
	Description string
}

// List returns the caller's own rows for a student and every row, annotated
// with the owner's name, for staff.
func (s *LedgerService) List(ctx context.Context, id *domain.Identity) ([]domain.CertificateRow, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpListCertificates); err != nil {
		return nil, err
	}

	if !policy.ScopeAll(id) {
		certs, err := s.Store.Certificates().ListByUser(ctx, id.UserID)
		if err != nil {
			return nil, err
		}
		rows := make([]domain.CertificateRow, 0, len(certs))
		for _, c := range certs {
			if policy.OwnsRecord(id, c.UserID) {
				rows = append(rows, domain.CertificateRow{Certificate: c})
			}
		}
		return rows, nil
	}

	certs, err := s.Store.Certificates().List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.Store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	names := nameIndex(users)

	rows := make([]domain.CertificateRow, 0, len(certs))
	for _, c := range certs {
		rows = append(rows, domain.CertificateRow{Certificate: c, Owner: names[c.UserID]})
	}
	return rows, nil
}

// Create adds a ledger row for a document the office already holds.
func (s *LedgerService) Create(ctx context.Context, id *domain.Identity, in NewCertificate) (domain.Certificate, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpCreateCertificate); err != nil {
		return domain.Certificate{}, err
	}

	title := strings.TrimSpace(in.Title)
	if in.UserID == 0 || title == "" {
		return domain.Certificate{}, fmt.Errorf("%w: user_id and title are required", domain.ErrMissingField)
	}

	var created domain.Certificate
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().Get(ctx, in.UserID); err != nil {
			return err
		}
		var err error
		created, err = tx.Certificates().Create(ctx, domain.Certificate{
			UserID:          in.UserID,
			Title:           title,
			Description:     in.Description,
			PresentInOffice: true,
			Status:          domain.StatusPresent,
			CreatedAt:       s.Clock.now(),
		})
		return err
	})
	if err != nil {
		return domain.Certificate{}, recordStoreError(ctx, s.Metrics, err)
	}

	s.Metrics.Transition(string(domain.StatusPresent))
	slogx.FromContext(ctx).Info("certificate created",
		slog.Int64("certificate_id", created.ID),
		slog.Int64("owner_id", created.UserID),
		slog.Int64("by_user_id", id.UserID),
	)
	return created, nil
}

// SetPresence marks a certificate as in the office or not. Taking a
// certificate out of the office counts as issuing it, but leaves no
// activity entry.
func (s *LedgerService) SetPresence(ctx context.Context, id *domain.Identity, certID int64, present bool) (domain.Certificate, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpSetPresence); err != nil {
		return domain.Certificate{}, err
	}

	status := domain.StatusIssued
	if present {
		status = domain.StatusPresent
	}

	var updated domain.Certificate
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Certificates().Get(ctx, certID)
		if err != nil {
			return err
		}
		c.PresentInOffice = domain.Presence(present)
		c.Status = status
		if err := tx.Certificates().Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return domain.Certificate{}, recordStoreError(ctx, s.Metrics, err)
	}

	s.Metrics.Transition(string(status))
	slogx.FromContext(ctx).Info("certificate presence set",
		slog.Int64("certificate_id", certID),
		slog.Bool("present", present),
		slog.Int64("by_user_id", id.UserID),
	)
	return updated, nil
}

// Issue hands a certificate out and records who did it.
func (s *LedgerService) Issue(ctx context.Context, id *domain.Identity, certID int64, notes string) (domain.Certificate, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpIssueCertificate); err != nil {
		return domain.Certificate{}, err
	}
	return s.transition(ctx, id, certID, domain.ActionIssue, notes)
}

// MarkReturned records a certificate coming back to the office.
func (s *LedgerService) MarkReturned(ctx context.Context, id *domain.Identity, certID int64, notes string) (domain.Certificate, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpReturnCertificate); err != nil {
		return domain.Certificate{}, err
	}
	return s.transition(ctx, id, certID, domain.ActionReturn, notes)
}

func (s *LedgerService) transition(
	ctx context.Context,
	id *domain.Identity,
	certID int64,
	action domain.LogAction,
	notes string,
) (domain.Certificate, error) {
	now := s.Clock.now()

	var (
		status  domain.CustodyStatus
		updated domain.Certificate
	)
	switch action {
	case domain.ActionIssue:
		status = domain.StatusIssued
		if notes == "" {
			notes = domain.DefaultIssueNote
		}
	case domain.ActionReturn:
		status = domain.StatusReturned
		if notes == "" {
			notes = domain.DefaultReturnNote
		}
	default:
		return domain.Certificate{}, errors.New("unknown ledger action")
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Certificates().Get(ctx, certID)
		if err != nil {
			return err
		}

		c.Status = status
		if action == domain.ActionIssue {
			c.IssueDate = &now
		} else {
			c.ReturnDate = &now
		}
		if err := tx.Certificates().Update(ctx, c); err != nil {
			return err
		}

		if _, err := tx.Logs().Append(ctx, domain.ActivityLog{
			CertificateID: c.ID,
			Action:        action,
			ByUserID:      id.UserID,
			Timestamp:     now,
			Notes:         notes,
		}); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return domain.Certificate{}, recordStoreError(ctx, s.Metrics, err)
	}

	s.Metrics.Transition(string(status))
	slogx.FromContext(ctx).Info("certificate "+string(action),
		slog.Int64("certificate_id", certID),
		slog.Int64("by_user_id", id.UserID),
	)
	return updated, nil
}
