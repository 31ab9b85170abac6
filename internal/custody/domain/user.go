package domain

import "time"

// User is an account created at provisioning time. Email is the login key;
// for students it holds the roll number.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"` // argon2id PHC, or bcrypt for imported documents
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity returns the session identity for u.
func (u User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role, Name: u.Name, Email: u.Email}
}
