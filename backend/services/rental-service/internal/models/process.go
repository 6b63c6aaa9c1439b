package models

import (
	"time"

	"github.com/google/uuid"
	shared_models "github.com/trying-dev/properties/backend/shared/go-models"
)

type ProcessStatus string

const (
	StatusInProgress         ProcessStatus = "IN_PROGRESS"
	StatusInEvaluation       ProcessStatus = "IN_EVALUATION"
	StatusWaitingForFeedback ProcessStatus = "WAITING_FOR_FEEDBACK"
	StatusApproved           ProcessStatus = "APPROVED"
	StatusRejected           ProcessStatus = "REJECTED"
	StatusCancelled          ProcessStatus = "CANCELLED"
)

// OpenStatuses are the statuses an admin queue may be filtered by.
var OpenStatuses = []ProcessStatus{
	StatusInProgress,
	StatusInEvaluation,
	StatusWaitingForFeedback,
}

func (s ProcessStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusInEvaluation, StatusWaitingForFeedback,
		StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsClosed is true for the terminal statuses.
func (s ProcessStatus) IsClosed() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// Process is one tenant's rental application.
type Process struct {
	shared_models.Versioned

	ID          uuid.UUID      `json:"id"`
	TenantID    *uuid.UUID     `json:"tenant_id,omitempty"`
	UnitID      *uuid.UUID     `json:"unit_id,omitempty"`
	AdminID     *uuid.UUID     `json:"admin_id,omitempty"`
	ContractID  *uuid.UUID     `json:"contract_id,omitempty"`
	Status      ProcessStatus  `json:"status"`
	CurrentStep int            `json:"current_step"`
	Payload     ProcessPayload `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (p *Process) GetID() string {
	return p.ID.String()
}

// OwnedBy reports whether the process belongs to the given tenant.
func (p *Process) OwnedBy(tenantID uuid.UUID) bool {
	return p.TenantID != nil && *p.TenantID == tenantID
}

// ProcessSummary is the list view used by tenant and admin listings.
type ProcessSummary struct {
	ID                 uuid.UUID     `json:"id"`
	TenantID           *uuid.UUID    `json:"tenant_id,omitempty"`
	UnitID             *uuid.UUID    `json:"unit_id,omitempty"`
	ContractID         *uuid.UUID    `json:"contract_id,omitempty"`
	Status             ProcessStatus `json:"status"`
	CurrentStep        int           `json:"current_step"`
	Profile            string        `json:"profile,omitempty"`
	SelectedSecurity   GuaranteeType `json:"selected_security,omitempty"`
	CoDebtorsTotal     int           `json:"co_debtors_total"`
	CoDebtorsConfirmed int           `json:"co_debtors_confirmed"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// Summary never fails: an unreadable security block counts as no co-debtors.
func (p *Process) Summary() ProcessSummary {
	s := ProcessSummary{
		ID:          p.ID,
		TenantID:    p.TenantID,
		UnitID:      p.UnitID,
		ContractID:  p.ContractID,
		Status:      p.Status,
		CurrentStep: p.CurrentStep,
		Profile:     p.Payload.Profile(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if sec, err := p.Payload.Security(); err == nil && sec != nil {
		s.SelectedSecurity = sec.SelectedSecurity
		s.CoDebtorsTotal = len(sec.CoDebtors)
		for _, cd := range sec.CoDebtors {
			if cd.ConfirmedAt != nil {
				s.CoDebtorsConfirmed++
			}
		}
	}
	return s
}
