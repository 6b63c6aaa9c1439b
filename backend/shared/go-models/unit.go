// go-models/unit.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit represents a rentable space inside a property.
type Unit struct {
	Versioned

	ID         uuid.UUID        `json:"id"`
	PropertyID uuid.UUID        `json:"property_id"`
	UnitNumber string           `json:"unit_number"`
	BaseRent   *decimal.Decimal `json:"base_rent,omitempty"`
	Deposit    *decimal.Decimal `json:"deposit,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

func (u *Unit) GetID() string {
	return u.ID.String()
}

// Rentable reports whether the unit has a positive base rent.
func (u *Unit) Rentable() bool {
	return u.BaseRent != nil && u.BaseRent.IsPositive()
}

// EffectiveDeposit is the unit deposit when set, otherwise the base rent.
func (u *Unit) EffectiveDeposit() decimal.Decimal {
	if u.Deposit != nil {
		return *u.Deposit
	}
	if u.BaseRent != nil {
		return *u.BaseRent
	}
	return decimal.Zero
}
