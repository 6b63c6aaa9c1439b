package dtos

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
)

// CreateProcessRequest starts an application for the authenticated tenant.
type CreateProcessRequest struct {
	UnitID      *string                    `json:"unit_id" validate:"omitempty,uuid"`
	CurrentStep *int                       `json:"current_step" validate:"omitempty,min=1,max=3"`
	Payload     map[string]json.RawMessage `json:"payload"`
}

// AdvanceStepRequest submits the payload patch for step 1 or 2. Step 3
// goes through SubmitSecurityRequest.
type AdvanceStepRequest struct {
	Step    int                        `json:"step" validate:"required,oneof=1 2"`
	Payload map[string]json.RawMessage `json:"payload" validate:"required"`
}

type CoDebtorInput struct {
	Name           string `json:"name"`
	LastName       string `json:"last_name"`
	BirthDate      string `json:"birth_date"`
	DocumentNumber string `json:"document_number"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
}

func (c CoDebtorInput) ToModel() models.CoDebtor {
	return models.CoDebtor{
		Name:           c.Name,
		LastName:       c.LastName,
		BirthDate:      c.BirthDate,
		DocumentNumber: c.DocumentNumber,
		Email:          c.Email,
		Phone:          c.Phone,
	}
}

// SubmitSecurityRequest is step 3. Per-co-debtor field checks depend on the
// guarantee type and are done by the step validator, not by tags.
type SubmitSecurityRequest struct {
	SelectedSecurity string          `json:"selected_security" validate:"required"`
	CoDebtors        []CoDebtorInput `json:"co_debtors" validate:"max=2"`
}

func (r SubmitSecurityRequest) CoDebtorModels() []models.CoDebtor {
	out := make([]models.CoDebtor, len(r.CoDebtors))
	for i, c := range r.CoDebtors {
		out[i] = c.ToModel()
	}
	return out
}

// ConfirmCoDebtorRequest comes from the emailed link (query) or a JSON body.
// Malformed values are reported as an invalid link, not field by field.
type ConfirmCoDebtorRequest struct {
	ProcessID string `json:"process_id" validate:"required"`
	Token     string `json:"token" validate:"required,max=256"`
}

type UpdateProcessStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=IN_PROGRESS IN_EVALUATION WAITING_FOR_FEEDBACK APPROVED REJECTED CANCELLED"`
}

// ProcessResponse is the API view of a process. Co-debtor tokens are
// never included.
type ProcessResponse struct {
	ID          uuid.UUID             `json:"id"`
	TenantID    *uuid.UUID            `json:"tenant_id,omitempty"`
	UnitID      *uuid.UUID            `json:"unit_id,omitempty"`
	AdminID     *uuid.UUID            `json:"admin_id,omitempty"`
	ContractID  *uuid.UUID            `json:"contract_id,omitempty"`
	Status      models.ProcessStatus  `json:"status"`
	CurrentStep int                   `json:"current_step"`
	Payload     models.ProcessPayload `json:"payload"`
	RowVersion  int64                 `json:"row_version"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func NewProcessResponse(p *models.Process) ProcessResponse {
	return ProcessResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		UnitID:      p.UnitID,
		AdminID:     p.AdminID,
		ContractID:  p.ContractID,
		Status:      p.Status,
		CurrentStep: p.CurrentStep,
		Payload:     p.Payload.Redacted(),
		RowVersion:  p.RowVersion,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// SecurityStepResponse pairs the updated process with delivery outcomes.
type SecurityStepResponse struct {
	Process       ProcessResponse `json:"process"`
	Confirmations any             `json:"confirmations"`
}

type DeleteProcessResponse struct {
	ID      uuid.UUID `json:"id"`
	Deleted bool      `json:"deleted"`
}
