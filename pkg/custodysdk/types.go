package custodysdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SessionCookie is the cookie the service sets on login.
const SessionCookie = "token"

// ID is a record id in a request body. It accepts a JSON number or a numeric
// string, which is what HTML form clients send.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err == nil {
		*id = ID(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("id must be a number or numeric string")
	}
	if s == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("id %q is not numeric", s)
	}
	*id = ID(n)
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityResponse is returned by login and /api/me.
type IdentityResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type CreateCertificateRequest struct {
	UserID      ID     `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type PresenceRequest struct {
	Present bool `json:"present"`
}

type NotesRequest struct {
	Notes string `json:"notes,omitempty"`
}

type IssueResponse struct {
	OK       bool      `json:"ok"`
	IssuedAt time.Time `json:"issued_at"`
}

type ReturnResponse struct {
	OK         bool      `json:"ok"`
	ReturnedAt time.Time `json:"returned_at"`
}

type SubmitRequestRequest struct {
	CertificateID ID     `json:"certificate_id"`
	Purpose       string `json:"purpose,omitempty"`
}

type DecisionRequest struct {
	Decision string `json:"decision"`
}

// Certificate is one ledger row. Owner is only set for staff.
type Certificate struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	CertificateTypeID *int64     `json:"certificate_id,omitempty"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	PresentInOffice   int        `json:"present_in_office"`
	Status            string     `json:"status"`
	IssueDate         *time.Time `json:"issue_date,omitempty"`
	ReturnDate        *time.Time `json:"return_date,omitempty"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	Owner             string     `json:"owner,omitempty"`
}

// Request is a release request. Requester is only set for staff.
type Request struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	CertificateID int64      `json:"certificate_id"`
	Purpose       string     `json:"purpose"`
	Status        string     `json:"status"`
	DecidedBy     *int64     `json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Title         string     `json:"title,omitempty"`
	Requester     string     `json:"requester,omitempty"`
}

type ActivityLog struct {
	ID            int64     `json:"id"`
	CertificateID int64     `json:"certificate_id"`
	Action        string    `json:"action"`
	ByUserID      int64     `json:"by_user_id"`
	Timestamp     time.Time `json:"timestamp"`
	Notes         string    `json:"notes"`
	By            string    `json:"by,omitempty"`
	Title         string    `json:"title,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is only filled in by /readyz.
type HealthChecks struct {
	Store       string `json:"store"`
	Revocations string `json:"revocations,omitempty"`
}
