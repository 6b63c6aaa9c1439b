package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractInitiated ContractStatus = "INITIATED"
	ContractActive    ContractStatus = "ACTIVE"
	ContractFinished  ContractStatus = "FINISHED"
	ContractCancelled ContractStatus = "CANCELLED"
)

// Contract is the lease record created when an admin initiates a contract.
// StartDate and EndDate are placeholders until activation.
type Contract struct {
	ID          uuid.UUID       `json:"id"`
	UnitID      uuid.UUID       `json:"unit_id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	AdminID     uuid.UUID       `json:"admin_id"`
	Status      ContractStatus  `json:"status"`
	Rent        decimal.Decimal `json:"rent"`
	Deposit     decimal.Decimal `json:"deposit"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Notes       *string         `json:"notes,omitempty"`
	InitiatedAt time.Time       `json:"initiated_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ContractLink is what gets stored under payload.contract on the process.
type ContractLink struct {
	ID          uuid.UUID       `json:"id"`
	Status      ContractStatus  `json:"status"`
	Rent        decimal.Decimal `json:"rent"`
	Deposit     decimal.Decimal `json:"deposit"`
	InitiatedAt time.Time       `json:"initiatedAt"`
}

func (c *Contract) Link() ContractLink {
	return ContractLink{
		ID:          c.ID,
		Status:      c.Status,
		Rent:        c.Rent,
		Deposit:     c.Deposit,
		InitiatedAt: c.InitiatedAt,
	}
}
