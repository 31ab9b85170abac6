package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/metrics"
	"github.com/aussiebroadwan/custody/internal/custody/policy"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/pkg/slogx"
)

// RequestService runs the release request workflow. A request starts
// pending and an admin approves or rejects it exactly once.
type RequestService struct {
	Store   store.Store
	Metrics *metrics.Metrics
	Clock   Clock
}

// Submit files a release request for one of the caller's own certificates.
func (s *RequestService) Submit(ctx context.Context, id *domain.Identity, certID int64, purpose string) (domain.Request, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpSubmitRequest); err != nil {
		return domain.Request{}, err
	}
	if certID == 0 {
		return domain.Request{}, fmt.Errorf("%w: certificate_id is required", domain.ErrMissingField)
	}

	var created domain.Request
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		c, err := tx.Certificates().Get(ctx, certID)
		if err != nil {
			return err
		}
		if !policy.OwnsRecord(id, c.UserID) {
			return fmt.Errorf("%w: certificate %d belongs to another student", domain.ErrForbidden, certID)
		}
		created, err = tx.Requests().Create(ctx, domain.Request{
			UserID:        id.UserID,
			CertificateID: certID,
			Purpose:       strings.TrimSpace(purpose),
			Status:        domain.RequestPending,
			CreatedAt:     s.Clock.now(),
		})
		return err
	})
	if err != nil {
		return domain.Request{}, recordStoreError(ctx, s.Metrics, err)
	}

	s.Metrics.Submitted()
	slogx.FromContext(ctx).Info("request submitted",
		slog.Int64("request_id", created.ID),
		slog.Int64("certificate_id", certID),
		slog.Int64("user_id", id.UserID),
	)
	return created, nil
}

// List returns the caller's requests for a student, or every request with
// the requester's name for staff. Both carry the certificate title.
func (s *RequestService) List(ctx context.Context, id *domain.Identity) ([]domain.RequestRow, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpListRequests); err != nil {
		return nil, err
	}

	all := policy.ScopeAll(id)

	var (
		reqs []domain.Request
		err  error
	)
	if all {
		reqs, err = s.Store.Requests().List(ctx)
	} else {
		reqs, err = s.Store.Requests().ListByUser(ctx, id.UserID)
	}
	if err != nil {
		return nil, err
	}

	certs, err := s.Store.Certificates().List(ctx)
	if err != nil {
		return nil, err
	}
	titles := make(map[int64]string, len(certs))
	for _, c := range certs {
		titles[c.ID] = c.Title
	}

	var names map[int64]string
	if all {
		users, err := s.Store.Users().List(ctx)
		if err != nil {
			return nil, err
		}
		names = nameIndex(users)
	}

	rows := make([]domain.RequestRow, 0, len(reqs))
	for _, r := range reqs {
		if !policy.Visible(id, r.UserID) {
			continue
		}
		row := domain.RequestRow{Request: r, Title: titles[r.CertificateID]}
		if all {
			row.Requester = names[r.UserID]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Decide approves or rejects a pending request.
func (s *RequestService) Decide(ctx context.Context, id *domain.Identity, reqID int64, decision string) (domain.Request, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpDecideRequest); err != nil {
		return domain.Request{}, err
	}
	status, err := domain.ParseDecision(decision)
	if err != nil {
		return domain.Request{}, err
	}

	var decided domain.Request
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		r, err := tx.Requests().Get(ctx, reqID)
		if err != nil {
			return err
		}
		if r.Status.Decided() {
			return fmt.Errorf("%w: request %d is %s", domain.ErrAlreadyDecided, reqID, r.Status)
		}
		now := s.Clock.now()
		by := id.UserID
		r.Status = status
		r.DecidedBy = &by
		r.DecidedAt = &now
		if err := tx.Requests().Update(ctx, r); err != nil {
			return err
		}
		decided = r
		return nil
	})
	if err != nil {
		return domain.Request{}, recordStoreError(ctx, s.Metrics, err)
	}

	s.Metrics.Decision(string(status))
	slogx.FromContext(ctx).Info("request decided",
		slog.Int64("request_id", reqID),
		slog.String("decision", string(status)),
		slog.Int64("by_user_id", id.UserID),
	)
	return decided, nil
}
