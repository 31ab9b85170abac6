// Package revocation tracks session token ids that were logged out before
// they expired.
package revocation

import (
	"context"
	"time"
)

// Set is a store of revoked token ids. Entries only need to live until the
// token they name would have expired anyway.
type Set interface {
	// Revoke records jti as revoked until the given time.
	Revoke(ctx context.Context, jti string, until time.Time) error

	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Prune drops entries whose tokens have expired and returns how many
	// were removed. Backends that expire entries on their own return 0.
	Prune(ctx context.Context, now time.Time) (int, error)

	Close() error
}
