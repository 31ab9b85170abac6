package custodysdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/custody/pkg/httpx"
)

const (
	ErrorCodeInvalidRequest    = "invalid_request"
	ErrorCodeMissingField      = "missing_field"
	ErrorCodeInvalidDecision   = "invalid_decision"
	ErrorCodeUnauthenticated   = "unauthenticated"
	ErrorCodeInvalidCredential = "invalid_credential"
	ErrorCodeForbidden         = "forbidden"
	ErrorCodeNotFound          = "not_found"
	ErrorCodeAlreadyDecided    = "already_decided"
	ErrorCodeRateLimited       = "rate_limited"
	ErrorCodeServerError       = "server_error"
)

// APIError is the error body every endpoint writes:
//
//	{"error": "<code>", "error_description": "<text>"}
//
// The service uses it to write responses and the SDK returns it to callers.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on status and code so a response parsed by the SDK compares
// equal to the predefined error it came from.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// WriteError writes e as the response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

// WithDescription returns a copy of e with a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	cp := *e
	cp.Description = desc
	return &cp
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request body is malformed",
	}

	ErrMissingField = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeMissingField,
		Description: "a required field is missing",
	}

	ErrInvalidDecision = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidDecision,
		Description: "decision must be approved or rejected",
	}

	ErrUnauthenticated = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthenticated,
		Description: "the session is missing, invalid, expired or revoked",
	}

	ErrInvalidCredential = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredential,
		Description: "invalid credentials",
	}

	ErrForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeForbidden,
		Description: "your role may not perform this operation",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	ErrAlreadyDecided = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyDecided,
		Description: "the request has already been decided",
	}

	ErrRateLimited = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimited,
		Description: "too many requests",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var e APIError
	if err := json.Unmarshal(body, &e); err == nil && e.Code != "" {
		e.StatusCode = resp.StatusCode
		return &e
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
