package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/pkg/custodysdk"
	"github.com/aussiebroadwan/custody/pkg/slogx"
)

// writeError maps service errors onto API errors. Anything unrecognised is
// logged and reported as a server error.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		custodysdk.ErrUnauthenticated.WriteError(w)
	case errors.Is(err, domain.ErrInvalidCredential):
		// A bad session cookie is reported the same as a missing one.
		custodysdk.ErrUnauthenticated.WriteError(w)
	case errors.Is(err, domain.ErrForbidden):
		custodysdk.ErrForbidden.WriteError(w)
	case errors.Is(err, domain.ErrNotFound):
		custodysdk.ErrNotFound.WriteError(w)
	case errors.Is(err, domain.ErrMissingField):
		custodysdk.ErrMissingField.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, domain.ErrInvalidDecision):
		custodysdk.ErrInvalidDecision.WriteError(w)
	case errors.Is(err, domain.ErrAlreadyDecided):
		custodysdk.ErrAlreadyDecided.WriteError(w)
	default:
		slogx.FromContext(ctx).Error("request failed", "err", err)
		custodysdk.ErrServerError.WriteError(w)
	}
}

// pathID parses the {id} path value. A malformed id cannot name a record.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
