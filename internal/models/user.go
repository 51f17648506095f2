package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`       // Primary key
	Username     string    `json:"username" db:"username"`     // Unique username
	Email        string    `json:"email" db:"email"`           // Unique email
	PasswordHash string    `json:"-" db:"password_hash"`       // Salted bcrypt hash, never serialized
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // Last update timestamp
}

// UserPayload is the public projection of a user returned by the API.
type UserPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Payload maps a database record to its public projection.
func (u *UserDB) Payload() UserPayload {
	return UserPayload{
		Username: u.Username,
		Email:    u.Email,
	}
}
