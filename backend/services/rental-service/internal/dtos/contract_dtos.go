package dtos

type InitializeContractRequest struct {
	UnitID    string  `json:"unit_id" validate:"required,uuid"`
	TenantID  string  `json:"tenant_id" validate:"required,uuid"`
	ProcessID *string `json:"process_id" validate:"omitempty,uuid"`
	Notes     *string `json:"notes" validate:"omitempty,max=2000"`
}
