package domain

import "time"

type LogAction string

const (
	ActionIssue  LogAction = "issue"
	ActionReturn LogAction = "return"
)

// Default notes used when an admin gives none.
const (
	DefaultIssueNote  = "Issued by admin"
	DefaultReturnNote = "Returned to office"
)

// ActivityLog records one issue or return. Entries are only ever appended.
type ActivityLog struct {
	ID            int64     `json:"id"`
	CertificateID int64     `json:"certificate_id"`
	Action        LogAction `json:"action"`
	ByUserID      int64     `json:"by_user_id"`
	Timestamp     time.Time `json:"timestamp"`
	Notes         string    `json:"notes"`
}

// LogRow is an entry joined with the actor's name and certificate title.
type LogRow struct {
	ActivityLog
	By    string `json:"by,omitempty"`
	Title string `json:"title,omitempty"`
}
