package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/dtos"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/services"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

type AdminController struct {
	processService *services.ProcessService
	validate       *validator.Validate
}

func NewAdminController(processService *services.ProcessService) *AdminController {
	return &AdminController{
		processService: processService,
		validate:       validator.New(),
	}
}

// GET /api/v1/rental/admin/processes?status=IN_EVALUATION&status=...
func (c *AdminController) ListQueueHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.processService.ListAdminQueue(r.Context(), r.URL.Query()["status"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GET /api/v1/rental/admin/processes/{id}
func (c *AdminController) GetProcessHandler(w http.ResponseWriter, r *http.Request) {
	processID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	p, err := c.processService.GetProcess(r.Context(), processID)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewProcessResponse(p))
}

// PATCH /api/v1/rental/admin/processes/{id}/status
func (c *AdminController) UpdateStatusHandler(w http.ResponseWriter, r *http.Request) {
	adminUserID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	processID, err := pathID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.UpdateProcessStatusRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	p, err := c.processService.UpdateProcessStatus(r.Context(), adminUserID, processID, models.ProcessStatus(req.Status))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.NewProcessResponse(p))
}

// POST /api/v1/rental/admin/contracts
func (c *AdminController) InitializeContractHandler(w http.ResponseWriter, r *http.Request) {
	adminUserID, err := getUserID(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.InitializeContractRequest
	if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	res, err := c.processService.InitializeContract(r.Context(), adminUserID, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, res)
}
