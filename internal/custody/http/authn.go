package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/pkg/custodysdk"
	"github.com/aussiebroadwan/custody/pkg/httpx"
	"github.com/aussiebroadwan/custody/pkg/slogx"
)

type ctxKey struct{}

func withIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// identityFrom returns nil when the request was not authenticated, which the
// services turn into domain.ErrUnauthenticated.
func identityFrom(ctx context.Context) *domain.Identity {
	id, ok := ctx.Value(ctxKey{}).(domain.Identity)
	if !ok {
		return nil
	}
	return &id
}

// AuthnMiddleware verifies the session token from the cookie or bearer
// header and puts the identity in the request context. Role checks happen
// in the services.
func AuthnMiddleware(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := httpx.TokenFromRequest(r, custodysdk.SessionCookie)
			if token == "" {
				custodysdk.ErrUnauthenticated.WriteError(w)
				return
			}

			id, err := sessions.Verify(ctx, token)
			if err != nil {
				slogx.FromContext(ctx).Debug("session rejected", "err", err)
				writeError(ctx, w, err)
				return
			}

			uid := strconv.FormatInt(id.UserID, 10)
			ctx = withIdentity(ctx, id)
			ctx = httpx.WithUserID(ctx, uid)
			ctx = slogx.With(ctx, "user_id", uid)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
