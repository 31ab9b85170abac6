package httpx

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
)

// WithUserID stores the authenticated user id so downstream middleware (rate
// limiting, logging) can key on it without knowing the session format.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxKeyUserID, userID)
}

// UserIDFromContext returns the user id set by WithUserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}

// TokenFromRequest pulls a session token from the named cookie, falling back
// to an "Authorization: Bearer" header. Returns "" when neither is present.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	authz := r.Header.Get("Authorization")
	if len(authz) > 7 && strings.EqualFold(authz[:7], "Bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	return ""
}
