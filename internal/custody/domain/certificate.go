package domain

import (
	"bytes"
	"fmt"
	"time"
)

// CustodyStatus tracks where a physical document is.
type CustodyStatus string

const (
	StatusNotPresent CustodyStatus = "not_present"
	StatusPresent    CustodyStatus = "present"
	StatusIssued     CustodyStatus = "issued"
	StatusReturned   CustodyStatus = "returned"
)

func (s CustodyStatus) Valid() bool {
	switch s {
	case StatusNotPresent, StatusPresent, StatusIssued, StatusReturned:
		return true
	default:
		return false
	}
}

// CertificateType is an entry of the catalog every student is expected to hand in.
type CertificateType struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Certificate is one ledger row: a single physical document held for one
// student. Nothing enforces one row per (student, type); readers must cope
// with duplicates.
type Certificate struct {
	ID                int64         `json:"id"`
	UserID            int64         `json:"user_id"`
	CertificateTypeID *int64        `json:"certificate_id,omitempty"`
	Title             string        `json:"title"`
	Description       string        `json:"description,omitempty"`
	PresentInOffice   Presence      `json:"present_in_office"`
	Status            CustodyStatus `json:"status"`
	IssueDate         *time.Time    `json:"issue_date,omitempty"`
	ReturnDate        *time.Time    `json:"return_date,omitempty"`
	SubmittedAt       *time.Time    `json:"submitted_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// CertificateRow is a ledger row as shown to a caller. Owner is only filled
// for staff views.
type CertificateRow struct {
	Certificate
	Owner string `json:"owner,omitempty"`
}

// Presence is the present_in_office flag. Documents store it as 0 or 1 but
// booleans are accepted on decode.
type Presence bool

func (p Presence) MarshalJSON() ([]byte, error) {
	if p {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (p *Presence) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "1", "true":
		*p = true
	case "0", "false", "null":
		*p = false
	default:
		return fmt.Errorf("present_in_office: unexpected value %s", b)
	}
	return nil
}
