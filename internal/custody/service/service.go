// Package service implements the custody operations. Every exported method
// that acts on behalf of a caller takes the caller's identity and checks it
// against the access policy before touching the store.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/metrics"
	"github.com/aussiebroadwan/custody/internal/custody/policy"
	"github.com/aussiebroadwan/custody/internal/custody/store"
	"github.com/aussiebroadwan/custody/pkg/slogx"
)

// Clock returns the current time. A nil Clock means time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

func authorize(ctx context.Context, m *metrics.Metrics, id *domain.Identity, op policy.Operation) error {
	err := policy.Check(id, op)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrForbidden) {
		m.Denied(op.String())
		slogx.FromContext(ctx).Info("operation denied",
			slog.String("operation", op.String()),
			slog.Int64("user_id", id.UserID),
			slog.String("role", id.Role.String()),
		)
	}
	return err
}

// recordStoreError counts flush failures. err is returned unchanged.
func recordStoreError(ctx context.Context, m *metrics.Metrics, err error) error {
	if errors.Is(err, store.ErrFlush) {
		m.FlushFailed()
		slogx.FromContext(ctx).Error("failed to persist document", slog.Any("error", err))
	}
	return err
}

func nameIndex(users []domain.User) map[int64]string {
	idx := make(map[int64]string, len(users))
	for _, u := range users {
		idx[u.ID] = u.Name
	}
	return idx
}
