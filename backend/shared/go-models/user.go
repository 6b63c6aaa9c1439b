// go-models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the login identity behind tenants and admins.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`

	PasswordHash *string `json:"-"`

	// Set when a contract is initiated for a user without a password.
	// Only the hash is stored; the raw token travels in the email.
	RegistrationTokenHash      *string    `json:"-"`
	RegistrationTokenExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasPassword reports whether the user already completed registration.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// FullName joins first and last name, skipping blanks.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
