package models

import (
	"strings"
	"time"
)

// GuaranteeType is the applicant's chosen collateral mechanism.
type GuaranteeType string

const (
	GuaranteeSimple     GuaranteeType = "simple"
	GuaranteeInsurance  GuaranteeType = "insurance"
	GuaranteeReinforced GuaranteeType = "reinforced"
	GuaranteeMixed      GuaranteeType = "mixed"
	GuaranteeDouble     GuaranteeType = "double"
)

// SecuritySelection is payload.security.
type SecuritySelection struct {
	SelectedSecurity GuaranteeType `json:"selectedSecurity"`
	CoDebtors        []CoDebtor    `json:"coDebtors"`
}

type CoDebtorState string

const (
	CoDebtorPending   CoDebtorState = "PENDING"
	CoDebtorExpired   CoDebtorState = "EXPIRED"
	CoDebtorConfirmed CoDebtorState = "CONFIRMED"
)

// CoDebtor is a guarantor embedded in payload.security.coDebtors.
type CoDebtor struct {
	Name           string `json:"name"`
	LastName       string `json:"lastName"`
	BirthDate      string `json:"birthDate"`
	DocumentNumber string `json:"documentNumber"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`

	Token          string     `json:"token,omitempty"`
	TokenExpiresAt *time.Time `json:"tokenExpiresAt,omitempty"`
	ConfirmedAt    *time.Time `json:"confirmedAt,omitempty"`
}

// State derives the per-token state. Confirmed wins over expiry: a
// confirmation recorded before expiry stays valid forever.
func (c CoDebtor) State(now time.Time) CoDebtorState {
	if c.ConfirmedAt != nil {
		return CoDebtorConfirmed
	}
	if c.TokenExpiresAt == nil || !now.Before(*c.TokenExpiresAt) {
		return CoDebtorExpired
	}
	return CoDebtorPending
}

// SameParty matches co-debtors by document number and email.
func (c CoDebtor) SameParty(o CoDebtor) bool {
	return strings.TrimSpace(c.DocumentNumber) == strings.TrimSpace(o.DocumentNumber) &&
		strings.EqualFold(strings.TrimSpace(c.Email), strings.TrimSpace(o.Email))
}

// KeepConfirmed returns next with the token state of every party that
// already confirmed under prior carried over. confirmedAt is never cleared
// by a re-submission.
func KeepConfirmed(next []CoDebtor, prior *SecuritySelection) []CoDebtor {
	out := make([]CoDebtor, len(next))
	copy(out, next)
	if prior == nil {
		return out
	}
	for i := range out {
		for _, old := range prior.CoDebtors {
			if old.ConfirmedAt != nil && out[i].SameParty(old) {
				out[i].Token = old.Token
				out[i].TokenExpiresAt = old.TokenExpiresAt
				out[i].ConfirmedAt = old.ConfirmedAt
				break
			}
		}
	}
	return out
}

// FullName joins name and last name.
func (c CoDebtor) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.Name) + " " + strings.TrimSpace(c.LastName))
}

// Identity returns the applicant-supplied fields only, with no token state.
func (c CoDebtor) Identity() CoDebtor {
	return CoDebtor{
		Name:           c.Name,
		LastName:       c.LastName,
		BirthDate:      c.BirthDate,
		DocumentNumber: c.DocumentNumber,
		Email:          c.Email,
		Phone:          c.Phone,
	}
}
