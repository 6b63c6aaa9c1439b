// go-models/tenant.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is a prospective or current renter. The login lives on User.
type Tenant struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	DocumentNumber *string   `json:"document_number,omitempty"`
	Phone          *string   `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
