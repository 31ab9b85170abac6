package custodysdk

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginTakesTokenFromCookie(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			var req LoginRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password != "adminpass" {
				ErrInvalidCredential.WriteError(w)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "tok-123", HttpOnly: true})
			_ = json.NewEncoder(w).Encode(IdentityResponse{ID: 1, Name: "Admin User", Email: "admin", Role: "ADMIN"})
		case "/api/me":
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				ErrUnauthenticated.WriteError(w)
				return
			}
			_ = json.NewEncoder(w).Encode(IdentityResponse{ID: 1, Role: "ADMIN"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewSDKClient(srv.URL + "/")

	s, err := client.Login(t.Context(), "admin", "adminpass")
	require.NoError(t, err)
	require.Equal(t, "tok-123", s.Token())
	require.Equal(t, "ADMIN", s.Identity().Role)

	me, err := s.Me(t.Context())
	require.NoError(t, err)
	require.Equal(t, int64(1), me.ID)

	_, err = client.Login(t.Context(), "admin", "nope")
	require.ErrorIs(t, err, ErrInvalidCredential)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, err = client.NewSessionFromToken("other").Me(t.Context())
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestParseErrorResponseFallback(t *testing.T) {
	resp := &http.Response{StatusCode: http.StatusBadGateway}
	err := parseErrorResponse(resp, []byte("<html>bad gateway</html>"))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)

	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}

func TestAPIErrorIs(t *testing.T) {
	custom := ErrNotFound.WithDescription("certificate 9 not found")
	require.ErrorIs(t, custom, ErrNotFound)
	require.NotErrorIs(t, custom, ErrForbidden)
	require.Equal(t, "not found", ErrNotFound.Description)
}

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{`{"certificate_id": 7}`, 7, false},
		{`{"certificate_id": "7"}`, 7, false},
		{`{"certificate_id": ""}`, 0, false},
		{`{"certificate_id": null}`, 0, false},
		{`{}`, 0, false},
		{`{"certificate_id": "7a"}`, 0, true},
		{`{"certificate_id": true}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var req SubmitRequestRequest
			err := json.Unmarshal([]byte(tt.in), &req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, req.CertificateID)
		})
	}
}
