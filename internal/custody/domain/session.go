package domain

import "time"

// Identity is who a verified session belongs to.
type Identity struct {
	UserID int64  `json:"id"`
	Role   Role   `json:"role"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Session is an issued credential.
type Session struct {
	Token     string
	TokenID   string // jti, used for revocation
	Identity  Identity
	ExpiresAt time.Time
}
