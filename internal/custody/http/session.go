package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/aussiebroadwan/custody/internal/custody/domain"
	"github.com/aussiebroadwan/custody/internal/custody/service"
	"github.com/aussiebroadwan/custody/pkg/custodysdk"
	"github.com/aussiebroadwan/custody/pkg/httpx"
	"github.com/aussiebroadwan/custody/pkg/slogx"
)

// SessionHandler serves login, logout and the caller's identity.
type SessionHandler struct {
	SessionService *service.SessionService
	SecureCookie   bool
}

// HandleLogin godoc
//
//	@Summary		Sign in
//	@Description	Checks email and password and sets the session cookie. Students sign in with their roll number.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		custodysdk.LoginRequest		true	"Credentials"
//	@Success		200		{object}	custodysdk.IdentityResponse	"Signed in"
//	@Failure		400		{object}	custodysdk.APIError			"Missing email or password"
//	@Failure		401		{object}	custodysdk.APIError			"Invalid credentials"
//	@Failure		429		{object}	custodysdk.APIError			"Too many attempts"
//	@Header			200		{string}	Set-Cookie					"token=...; HttpOnly"
//	@Router			/api/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req custodysdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		custodysdk.ErrInvalidRequest.WriteError(w)
		return
	}

	sess, err := h.SessionService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredential) {
			custodysdk.ErrInvalidCredential.WriteError(w)
			return
		}
		writeError(ctx, w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     custodysdk.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, identityResponse(sess.Identity))
}

// HandleLogout godoc
//
//	@Summary		Sign out
//	@Description	Revokes the current session, if any, and clears the cookie. Always succeeds.
//	@Tags			Session
//	@Produce		json
//	@Success		200	{object}	custodysdk.OKResponse
//	@Router			/api/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := httpx.TokenFromRequest(r, custodysdk.SessionCookie)
	if err := h.SessionService.Logout(ctx, token); err != nil {
		// The cookie is cleared regardless; the token expires on its own.
		slogx.FromContext(ctx).Warn("logout: revoke failed", "err", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     custodysdk.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, custodysdk.OKResponse{OK: true})
}

// HandleMe godoc
//
//	@Summary		Current identity
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	custodysdk.IdentityResponse
//	@Failure		401	{object}	custodysdk.APIError	"No valid session"
//	@Router			/api/me [get].
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := h.SessionService.Current(ctx, identityFrom(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, identityResponse(id))
}
