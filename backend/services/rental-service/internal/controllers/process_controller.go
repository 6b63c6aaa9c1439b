package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/dtos"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/services"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

// ProcessController serves the tenant side of the application workflow.
type ProcessController struct {
	processService *services.ProcessService
	validate       *validator.Validate
}

func NewProcessController(processService *services.ProcessService) *ProcessController {
	return &ProcessController{
		processService: processService,
		validate:       validator.New(),
	}
}

// POST /api/v1/rental/processes
func (c *ProcessController) CreateProcessHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CreateProcessRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	p, err := c.processService.CreateProcess(r.Context(), userID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.NewProcessResponse(p))
}

// GET /api/v1/rental/processes
func (c *ProcessController) ListProcessesHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	list, err := c.processService.ListTenantProcesses(r.Context(), userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GET /api/v1/rental/processes/{id}
func (c *ProcessController) GetProcessHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	processID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	p, err := c.processService.GetTenantProcess(r.Context(), processID, userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewProcessResponse(p))
}

// DELETE /api/v1/rental/processes/{id}
func (c *ProcessController) DeleteProcessHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	processID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	if err := c.processService.DeleteTenantProcess(r.Context(), processID, userID); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.DeleteProcessResponse{ID: processID, Deleted: true})
}

// POST /api/v1/rental/processes/{id}/steps
func (c *ProcessController) AdvanceStepHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	processID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.AdvanceStepRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	p, err := c.processService.AdvanceStep(r.Context(), processID, userID, req.Step, models.ProcessPayload(req.Payload))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewProcessResponse(p))
}

// POST /api/v1/rental/processes/{id}/security
func (c *ProcessController) SubmitSecurityHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	processID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.SubmitSecurityRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	res, err := c.processService.SubmitSecurityStep(
		r.Context(), processID, userID,
		models.GuaranteeType(req.SelectedSecurity), req.CoDebtorModels(),
	)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SecurityStepResponse{
		Process:       dtos.NewProcessResponse(res.Process),
		Confirmations: res.Confirmations,
	})
}

// POST /api/v1/rental/processes/{id}/security/resend
func (c *ProcessController) ResendConfirmationsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	processID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	res, err := c.processService.ResendConfirmations(r.Context(), processID, userID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}
