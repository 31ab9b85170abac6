package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
)

var (
	// ErrNotFound also matches domain.ErrNotFound.
	ErrNotFound = fmt.Errorf("store: %w", domain.ErrNotFound)
	// ErrInvalidRecord is returned when a write would break the document shape.
	ErrInvalidRecord = errors.New("store: invalid record")
	// ErrFlush wraps persister failures. The transaction was not applied.
	ErrFlush = errors.New("store: flush failed")
)

// Store is the root data access interface. All writes are serialised through
// a single writer; reads never block each other and always see a committed
// document.
//
// Repository writes made directly on the Store each run as their own
// transaction. Use WithTx to make several writes atomic (a ledger change and
// its activity log entry, for example).
type Store interface {
	Tx

	// WithTx runs fn against a private copy of the document. If fn returns
	// nil the copy is flushed through the persister and then becomes the
	// live document. If fn or the flush fails nothing changes, in memory or
	// on disk.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Ping verifies the persistence backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the persistence backend.
	Close() error
}

// Tx exposes the repositories. Inside WithTx they read and write the pending
// document. Tx deliberately has no WithTx of its own, so transactions cannot
// nest.
type Tx interface {
	Users() Users
	Certificates() Certificates
	Catalog() Catalog
	Requests() Requests
	Logs() Logs
}

type Users interface {
	Get(ctx context.Context, id int64) (domain.User, error)

	// GetByEmail looks up the login key. Matching is exact.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// List returns every user ordered by id.
	List(ctx context.Context) ([]domain.User, error)

	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)

	// Create allocates the id and returns the stored user.
	Create(ctx context.Context, u domain.User) (domain.User, error)

	UpdatePasswordHash(ctx context.Context, id int64, hash string) error

	// Reset removes every user. The id counter keeps counting so ids are
	// never reused.
	Reset(ctx context.Context) error
}

type Certificates interface {
	Get(ctx context.Context, id int64) (domain.Certificate, error)

	// List returns every ledger row ordered by id.
	List(ctx context.Context) ([]domain.Certificate, error)

	ListByUser(ctx context.Context, userID int64) ([]domain.Certificate, error)

	// Create allocates the id and returns the stored row.
	Create(ctx context.Context, c domain.Certificate) (domain.Certificate, error)

	// Update replaces the row with the same id.
	Update(ctx context.Context, c domain.Certificate) error

	Reset(ctx context.Context) error
}

type Catalog interface {
	List(ctx context.Context) ([]domain.CertificateType, error)
	Create(ctx context.Context, ct domain.CertificateType) (domain.CertificateType, error)
	Reset(ctx context.Context) error
}

type Requests interface {
	Get(ctx context.Context, id int64) (domain.Request, error)
	List(ctx context.Context) ([]domain.Request, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Request, error)
	Create(ctx context.Context, r domain.Request) (domain.Request, error)
	Update(ctx context.Context, r domain.Request) error
}

type Logs interface {
	// List returns entries in insertion order.
	List(ctx context.Context) ([]domain.ActivityLog, error)

	// Append allocates the id. There is no update or delete.
	Append(ctx context.Context, l domain.ActivityLog) (domain.ActivityLog, error)
}
