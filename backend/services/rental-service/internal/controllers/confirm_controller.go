package controllers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/dtos"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/services"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

// ConfirmController is the public endpoint co-debtors reach from their email.
type ConfirmController struct {
	processService *services.ProcessService
	validate       *validator.Validate
}

func NewConfirmController(processService *services.ProcessService) *ConfirmController {
	return &ConfirmController{
		processService: processService,
		validate:       validator.New(),
	}
}

// GET|POST /api/v1/rental/co-debtors/confirm
func (c *ConfirmController) ConfirmCoDebtorHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ConfirmCoDebtorRequest
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		req.ProcessID = q.Get("process_id")
		req.Token = q.Get("token")
		if !validateRequest(w, c.validate, &req) {
			return
		}
	} else if !decodeAndValidate(w, r, c.validate, &req) {
		return
	}

	processID, err := uuid.Parse(req.ProcessID)
	if err != nil {
		utils.HandleAppError(w, utils.InvalidTokenError("Invalid confirmation link"))
		return
	}

	res, err := c.processService.ConfirmCoDebtor(r.Context(), processID, req.Token)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}
