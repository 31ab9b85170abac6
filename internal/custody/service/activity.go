package service

import (
	"context"
	"slices"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/metrics"
	"github.com/aussiebroadwan/custody/internal/custody/policy"
	"github.com/aussiebroadwan/custody/internal/custody/store"
)

type ActivityService struct {
	Store   store.Store
	Metrics *metrics.Metrics
}

// ListAll returns every activity entry, newest first, with the actor's name
// and the certificate title. Entries with equal timestamps keep insertion
// order.
func (s *ActivityService) ListAll(ctx context.Context, id *domain.Identity) ([]domain.LogRow, error) {
	if err := authorize(ctx, s.Metrics, id, policy.OpListLogs); err != nil {
		return nil, err
	}

	logs, err := s.Store.Logs().List(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.Store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	certs, err := s.Store.Certificates().List(ctx)
	if err != nil {
		return nil, err
	}

	names := nameIndex(users)
	titles := make(map[int64]string, len(certs))
	for _, c := range certs {
		titles[c.ID] = c.Title
	}

	rows := make([]domain.LogRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, domain.LogRow{ActivityLog: l, By: names[l.ByUserID], Title: titles[l.CertificateID]})
	}
	slices.SortStableFunc(rows, func(a, b domain.LogRow) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return rows, nil
}
