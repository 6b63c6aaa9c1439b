package models

import (
	"time"

	"github.com/google/uuid"
)

type AccountStatusType string

const (
	AccountStatusIncomplete AccountStatusType = "INCOMPLETE"
	AccountStatusActive     AccountStatusType = "ACTIVE"
	AccountStatusSuspended  AccountStatusType = "SUSPENDED"
)

// Admin represents an administrative user. It is keyed by its own id but
// resolved from the authenticated user id.
type Admin struct {
	Versioned

	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`

	// AccountStatus determines if the admin may act on processes.
	AccountStatus AccountStatusType `json:"account_status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (a *Admin) GetID() string {
	return a.ID.String()
}

func (a *Admin) IsActive() bool {
	return a.AccountStatus == AccountStatusActive
}
