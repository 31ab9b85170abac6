package domain

import (
	"fmt"
	"time"
)

// RequestStatus is pending until an admin decides, then terminal.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Decided reports whether s is a terminal status.
func (s RequestStatus) Decided() bool {
	return s == RequestApproved || s == RequestRejected
}

// ParseDecision accepts only the two terminal statuses.
func ParseDecision(s string) (RequestStatus, error) {
	switch RequestStatus(s) {
	case RequestApproved, RequestRejected:
		return RequestStatus(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDecision, s)
	}
}

// Request is a student's ask to have a held certificate released.
type Request struct {
	ID            int64         `json:"id"`
	UserID        int64         `json:"user_id"`
	CertificateID int64         `json:"certificate_id"`
	Purpose       string        `json:"purpose"`
	Status        RequestStatus `json:"status"`
	DecidedBy     *int64        `json:"decided_by,omitempty"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// RequestRow is a request joined for display. Requester is only filled for
// staff views.
type RequestRow struct {
	Request
	Title     string `json:"title,omitempty"`
	Requester string `json:"requester,omitempty"`
}
