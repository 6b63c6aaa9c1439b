package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/config"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/constants"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/dtos"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/metrics"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/repositories"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/steps"
	shared_dtos "github.com/trying-dev/properties/backend/shared/go-dtos"
	shared_models "github.com/trying-dev/properties/backend/shared/go-models"
	shared_repos "github.com/trying-dev/properties/backend/shared/go-repositories"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

const msgProcessNotFound = "Process not found"

// ProcessRefs are the optional directory references of a process.
type ProcessRefs struct {
	TenantID *uuid.UUID
	UnitID   *uuid.UUID
}

// SecurityStepResult is returned by SubmitSecurityStep.
type SecurityStepResult struct {
	Process       *models.Process `json:"process"`
	Confirmations *IssueResult    `json:"confirmations"`
}

// ContractResult is returned by InitializeContract and, on a partial
// failure, carried as error details.
type ContractResult struct {
	Contract   *models.Contract `json:"contract"`
	ProcessID  *uuid.UUID       `json:"process_id,omitempty"`
	Onboarding string           `json:"onboarding,omitempty"`
	EmailSent  bool             `json:"email_sent"`
}

// ProcessService runs the application workflow on top of the process store.
type ProcessService struct {
	cfg         *config.Config
	processRepo repositories.ProcessRepository
	tenantRepo  shared_repos.TenantRepository
	unitRepo    shared_repos.UnitRepository
	adminRepo   shared_repos.AdminRepository
	userRepo    shared_repos.UserRepository
	audit       auditLogger
	coDebtors   *CoDebtorService
	contracts   *ContractService
	notifier    Notifier

	now      func() time.Time
	newToken func() (string, error)
}

func NewProcessService(
	cfg *config.Config,
	processRepo repositories.ProcessRepository,
	tenantRepo shared_repos.TenantRepository,
	unitRepo shared_repos.UnitRepository,
	adminRepo shared_repos.AdminRepository,
	userRepo shared_repos.UserRepository,
	auditRepo shared_repos.AdminAuditLogRepository,
	coDebtors *CoDebtorService,
	contracts *ContractService,
	notifier Notifier,
) *ProcessService {
	return &ProcessService{
		cfg:         cfg,
		processRepo: processRepo,
		tenantRepo:  tenantRepo,
		unitRepo:    unitRepo,
		adminRepo:   adminRepo,
		userRepo:    userRepo,
		audit:       auditLogger{repo: auditRepo},
		coDebtors:   coDebtors,
		contracts:   contracts,
		notifier:    notifier,
		now:         time.Now,
		newToken: func() (string, error) {
			return utils.RandomHexToken(constants.RegistrationTokenBytes)
		},
	}
}

/* ───────────── tenant operations ───────────── */

// CreateProcess opens a new IN_PROGRESS application for the caller.
func (s *ProcessService) CreateProcess(ctx context.Context, tenantUserID uuid.UUID, req dtos.CreateProcessRequest) (*models.Process, error) {
	tenant, err := s.tenantForUser(ctx, tenantUserID)
	if err != nil {
		return nil, err
	}

	refs := ProcessRefs{TenantID: &tenant.ID}
	if req.UnitID != nil {
		unitID, err := uuid.Parse(*req.UnitID)
		if err != nil {
			return nil, utils.InvalidInputError("Invalid unit_id", nil)
		}
		refs.UnitID = &unitID
	}

	payload := models.ProcessPayload(req.Payload)
	if details := reservedKeys(payload); len(details) > 0 {
		return nil, utils.InvalidInputError("Payload contains keys managed by the service", details)
	}

	step := constants.StepProfile
	if req.CurrentStep != nil {
		step = *req.CurrentStep
	}
	return s.create(ctx, refs, payload, step)
}

// create resolves refs against the directory and inserts the process.
// Unresolved refs are dropped with a warning, or rejected when strict
// linking is on.
func (s *ProcessService) create(ctx context.Context, refs ProcessRefs, payload models.ProcessPayload, currentStep int) (*models.Process, error) {
	resolved, dropped, err := s.resolveRefs(ctx, refs)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		payload = models.ProcessPayload{}
	}
	if currentStep < constants.StepProfile {
		currentStep = constants.StepProfile
	}

	p := &models.Process{
		ID:          uuid.New(),
		TenantID:    resolved.TenantID,
		UnitID:      resolved.UnitID,
		Status:      models.StatusInProgress,
		CurrentStep: currentStep,
		Payload:     payload.Clone(),
	}
	if err := s.processRepo.Create(ctx, p); err != nil {
		return nil, utils.InternalError("Failed to create process", err)
	}

	metrics.ObserveProcessCreated(len(dropped) > 0)
	utils.Logger.WithFields(logrus.Fields{
		"processID": p.ID,
		"dropped":   dropped,
	}).Info("Process created")
	return p, nil
}

func (s *ProcessService) resolveRefs(ctx context.Context, refs ProcessRefs) (ProcessRefs, []string, error) {
	out := ProcessRefs{}
	var dropped []string

	check := func(field string, id *uuid.UUID, exists func(uuid.UUID) (bool, error)) (*uuid.UUID, error) {
		if id == nil {
			return nil, nil
		}
		ok, err := exists(*id)
		if err != nil {
			return nil, utils.InternalError(fmt.Sprintf("Failed to resolve %s", field), err)
		}
		if ok {
			return id, nil
		}
		if s.cfg.LDFlag_StrictReferenceLinking {
			return nil, utils.InvalidInputError("Unknown reference", []shared_dtos.ValidationErrorDetail{{
				Field:   field,
				Message: fmt.Sprintf("Field '%s' does not reference an existing record", field),
				Code:    "validation_reference",
			}})
		}
		utils.Logger.WithFields(logrus.Fields{"field": field, "id": *id}).Warn("Dropping unresolved process reference")
		dropped = append(dropped, field)
		return nil, nil
	}

	var err error
	if out.TenantID, err = check("tenant_id", refs.TenantID, func(id uuid.UUID) (bool, error) {
		t, err := s.tenantRepo.GetByID(ctx, id)
		return t != nil, err
	}); err != nil {
		return out, nil, err
	}
	if out.UnitID, err = check("unit_id", refs.UnitID, func(id uuid.UUID) (bool, error) {
		u, err := s.unitRepo.GetByID(ctx, id)
		return u != nil, err
	}); err != nil {
		return out, nil, err
	}
	return out, dropped, nil
}

// GetTenantProcess hides processes of other tenants as NotFound.
func (s *ProcessService) GetTenantProcess(ctx context.Context, processID, tenantUserID uuid.UUID) (*models.Process, error) {
	tenant, err := s.tenantForUser(ctx, tenantUserID)
	if err != nil {
		return nil, err
	}
	p, err := s.processRepo.GetByID(ctx, processID)
	if err != nil {
		return nil, utils.InternalError("Failed to load process", err)
	}
	if p == nil {
		return nil, utils.NotFoundError(msgProcessNotFound)
	}
	if !p.OwnedBy(tenant.ID) {
		return nil, utils.HiddenForbiddenError(msgProcessNotFound)
	}
	return p, nil
}

func (s *ProcessService) ListTenantProcesses(ctx context.Context, tenantUserID uuid.UUID) ([]models.ProcessSummary, error) {
	tenant, err := s.tenantForUser(ctx, tenantUserID)
	if err != nil {
		return nil, err
	}
	list, err := s.processRepo.ListByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, utils.InternalError("Failed to list processes", err)
	}
	return summaries(list), nil
}

// DeleteTenantProcess removes one of the caller's processes. Another
// tenant's process is reported as NotFound and left untouched.
func (s *ProcessService) DeleteTenantProcess(ctx context.Context, processID, tenantUserID uuid.UUID) error {
	tenant, err := s.tenantForUser(ctx, tenantUserID)
	if err != nil {
		return err
	}
	ok, err := s.processRepo.DeleteForTenant(ctx, processID, tenant.ID)
	if err != nil {
		return utils.InternalError("Failed to delete process", err)
	}
	if !ok {
		return utils.NotFoundError(msgProcessNotFound)
	}
	utils.Logger.WithFields(logrus.Fields{"processID": processID, "tenantID": tenant.ID}).Info("Process deleted")
	return nil
}

// AdvanceStep merges patch into the payload and moves past step 1 or 2.
// Basic info is merged fill-only-blanks: stored fields are never
// overwritten. The merged payload must satisfy the step.
func (s *ProcessService) AdvanceStep(
	ctx context.Context,
	processID, tenantUserID uuid.UUID,
	step int,
	patch models.ProcessPayload,
) (*models.Process, error) {
	if step != constants.StepProfile && step != constants.StepBasicInfo {
		return nil, utils.InvalidInputError(fmt.Sprintf("Step %d cannot be submitted here", step), nil)
	}
	if details := reservedKeys(patch); len(details) > 0 {
		return nil, utils.InvalidInputError("Payload contains keys managed by the service", details)
	}
	tenant, err := s.tenantForUser(ctx, tenantUserID)
	if err != nil {
		return nil, err
	}

	var out *models.Process
	err = s.processRepo.UpdateWithRetry(ctx, processID, func(p *models.Process) error {
		if !p.OwnedBy(tenant.ID) {
			return utils.HiddenForbiddenError(msgProcessNotFound)
		}
		if p.Status.IsClosed() {
			return utils.InvalidInputError(fmt.Sprintf("Process is %s", p.Status), nil)
		}
		if step > p.CurrentStep {
			return utils.InvalidInputError(fmt.Sprintf("Step %d is not reachable yet; current step is %d", step, p.CurrentStep), nil)
		}

		merged, err := mergeStep(p.Payload, patch)
		if err != nil {
			return err
		}
		if missing := steps.Missing(step, merged); len(missing) > 0 {
			return utils.InvalidInputError(fmt.Sprintf("Step %d is incomplete", step), missing)
		}

		p.Payload = merged
		if next := step + 1; next > p.CurrentStep {
			p.CurrentStep = next
		}
		p.UpdatedAt = s.now()
		out = p
		return nil
	})
	if err != nil {
		metrics.ObserveStep(step, metrics.ResultInvalid)
		return nil, storeError(err, msgProcessNotFound)
	}

	metrics.ObserveStep(step, metrics.ResultOK)
	utils.Logger.WithFields(logrus.Fields{"processID": processID, "step": step}).Info("Process step completed")
	return out, nil
}

// mergeStep is Merge plus fill-only-blanks for basic info.
func mergeStep(current, patch models.ProcessPayload) (models.ProcessPayload, error) {
	merged := current.Merge(patch)
	if _, ok := patch[models.PayloadKeyBasicInfo]; !ok {
		return merged, nil
	}

	stored, err := current.BasicInfo()
	if err != nil {
		// An unreadable stored value has nothing worth preserving.
		stored = models.BasicInfo{}
	}
	incoming, err := patch.BasicInfo()
	if err != nil {
		return nil, utils.InvalidInputError("basicInfo must be an object", []shared_dtos.ValidationErrorDetail{{
			Field:   models.PayloadKeyBasicInfo,
			Message: "Field 'basicInfo' must be an object",
			Code:    "validation_type",
		}})
	}
	if err := merged.SetBasicInfo(stored.FillBlanks(incoming)); err != nil {
		return nil, utils.InternalError("Failed to encode basic info", err)
	}
	return merged, nil
}

// SubmitSecurityStep validates the guarantee, issues co-debtor tokens and,
// once every notification went out, moves the process to IN_EVALUATION.
// Re-submitting replaces pending tokens; confirmations already recorded are kept.
func (s *ProcessService) SubmitSecurityStep(
	ctx context.Context,
	processID, tenantUserID uuid.UUID,
	selected models.GuaranteeType,
	coDebtors []models.CoDebtor,
) (*SecurityStepResult, error) {
	logger := utils.Logger.WithFields(logrus.Fields{"processID": processID, "selectedSecurity": selected})

	p, err := s.GetTenantProcess(ctx, processID, tenantUserID)
	if err != nil {
		return nil, err
	}
	if p.Status.IsClosed() {
		return nil, utils.InvalidInputError(fmt.Sprintf("Process is %s", p.Status), nil)
	}
	var missing []shared_dtos.ValidationErrorDetail
	missing = append(missing, steps.Missing(constants.StepProfile, p.Payload)...)
	missing = append(missing, steps.Missing(constants.StepBasicInfo, p.Payload)...)
	if len(missing) > 0 {
		metrics.ObserveStep(constants.StepSecurity, metrics.ResultInvalid)
		return nil, utils.InvalidInputError("Profile and basic info must be completed first", missing)
	}
	if details := steps.ValidateSecurity(selected, coDebtors); len(details) > 0 {
		metrics.ObserveStep(constants.StepSecurity, metrics.ResultInvalid)
		return nil, utils.InvalidInputError("Invalid security selection", details)
	}

	issued, err := s.coDebtors.IssueConfirmations(ctx, processID, selected, coDebtors)
	if err != nil {
		metrics.ObserveStep(constants.StepSecurity, metrics.ResultFailed)
		logger.WithError(err).Warn("Security step not completed")
		return nil, err
	}

	out, err := s.markInEvaluation(ctx, processID)
	if err != nil {
		metrics.ObserveStep(constants.StepSecurity, metrics.ResultFailed)
		return nil, err
	}

	metrics.ObserveStep(constants.StepSecurity, metrics.ResultOK)
	logger.Info("Security step completed, process in evaluation")
	return &SecurityStepResult{Process: out, Confirmations: issued}, nil
}

// markInEvaluation closes the security step: IN_EVALUATION at step 4.
func (s *ProcessService) markInEvaluation(ctx context.Context, processID uuid.UUID) (*models.Process, error) {
	var out *models.Process
	err := s.processRepo.UpdateWithRetry(ctx, processID, func(p *models.Process) error {
		if !steps.CanTransition(p.Status, models.StatusInEvaluation, p.ContractID != nil) {
			return utils.InvalidInputError(fmt.Sprintf("Process cannot move from %s to %s", p.Status, models.StatusInEvaluation), nil)
		}
		p.Status = models.StatusInEvaluation
		if p.CurrentStep < constants.StepEvaluation {
			p.CurrentStep = constants.StepEvaluation
		}
		p.UpdatedAt = s.now()
		out = p
		return nil
	})
	if err != nil {
		return nil, storeError(err, msgProcessNotFound)
	}
	return out, nil
}

// ResendConfirmations re-sends pending co-debtor links of the caller's
// process. When every pending link goes out and none has expired on a
// process still IN_PROGRESS, the security step completes as if the original
// submission had succeeded.
func (s *ProcessService) ResendConfirmations(ctx context.Context, processID, tenantUserID uuid.UUID) (*IssueResult, error) {
	p, err := s.GetTenantProcess(ctx, processID, tenantUserID)
	if err != nil {
		return nil, err
	}
	res, err := s.coDebtors.Resend(ctx, processID)
	if err != nil || p.Status != models.StatusInProgress || res.hasExpired() {
		return res, err
	}
	if _, err := s.markInEvaluation(ctx, processID); err != nil {
		return res, err
	}
	metrics.ObserveStep(constants.StepSecurity, metrics.ResultOK)
	utils.Logger.WithField("processID", processID).Info("Resend completed the security step, process in evaluation")
	return res, nil
}

// ConfirmCoDebtor is the public confirmation entrypoint.
func (s *ProcessService) ConfirmCoDebtor(ctx context.Context, processID uuid.UUID, token string) (*ConfirmResult, error) {
	return s.coDebtors.Confirm(ctx, processID, token)
}

/* ───────────── admin operations ───────────── */

func (s *ProcessService) GetProcess(ctx context.Context, processID uuid.UUID) (*models.Process, error) {
	p, err := s.processRepo.GetByID(ctx, processID)
	if err != nil {
		return nil, utils.InternalError("Failed to load process", err)
	}
	if p == nil {
		return nil, utils.NotFoundError(msgProcessNotFound)
	}
	return p, nil
}

// ListAdminQueue lists open processes, oldest first. Terminal statuses
// cannot be queried here.
func (s *ProcessService) ListAdminQueue(ctx context.Context, statuses []string) ([]models.ProcessSummary, error) {
	filter := models.OpenStatuses
	if len(statuses) > 0 {
		filter = make([]models.ProcessStatus, 0, len(statuses))
		for _, raw := range statuses {
			st := models.ProcessStatus(raw)
			if !st.Valid() || st.IsClosed() {
				return nil, utils.InvalidInputError("Invalid status filter", []shared_dtos.ValidationErrorDetail{{
					Field:   "status",
					Message: fmt.Sprintf("Status '%s' is not an open process status", raw),
					Code:    "validation_oneof",
				}})
			}
			filter = append(filter, st)
		}
	}
	list, err := s.processRepo.ListByStatuses(ctx, filter)
	if err != nil {
		return nil, utils.InternalError("Failed to list processes", err)
	}
	return summaries(list), nil
}

// UpdateProcessStatus applies an admin decision to a process.
func (s *ProcessService) UpdateProcessStatus(
	ctx context.Context,
	adminUserID, processID uuid.UUID,
	status models.ProcessStatus,
) (*models.Process, error) {
	admin, err := s.activeAdmin(ctx, adminUserID)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, utils.InvalidInputError(fmt.Sprintf("Unknown status %s", status), nil)
	}

	var (
		out    *models.Process
		before models.ProcessStatus
	)
	err = s.processRepo.UpdateWithRetry(ctx, processID, func(p *models.Process) error {
		before = p.Status
		if !steps.CanTransition(p.Status, status, p.ContractID != nil) {
			return utils.InvalidInputError(fmt.Sprintf("Process cannot move from %s to %s", p.Status, status), nil)
		}
		p.Status = status
		p.AdminID = &admin.ID
		p.UpdatedAt = s.now()
		out = p
		return nil
	})
	if err != nil {
		return nil, storeError(err, msgProcessNotFound)
	}

	s.audit.log(ctx, admin.ID, processID, shared_models.AuditUpdate, shared_models.TargetProcess, map[string]any{
		"before": map[string]any{"status": before},
		"after":  map[string]any{"status": status},
	})
	utils.Logger.WithFields(logrus.Fields{
		"processID": processID,
		"adminID":   admin.ID,
		"from":      before,
		"to":        status,
	}).Info("Process status updated")
	return out, nil
}

// InitializeContract creates the unit's contract for the tenant, links it
// to the originating process and sends the onboarding email. The process
// is the explicit one when given, else the tenant's open process for the
// unit; without one the contract stands alone.
func (s *ProcessService) InitializeContract(ctx context.Context, adminUserID uuid.UUID, req dtos.InitializeContractRequest) (*ContractResult, error) {
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, utils.InvalidInputError("Invalid unit_id", nil)
	}
	tenantID, err := uuid.Parse(req.TenantID)
	if err != nil {
		return nil, utils.InvalidInputError("Invalid tenant_id", nil)
	}
	logger := utils.Logger.WithFields(logrus.Fields{"unitID": unitID, "tenantID": tenantID, "adminUserID": adminUserID})

	if err := s.notifier.Ready(); err != nil {
		logger.WithError(err).Error("Refusing to initiate contract without mail transport")
		metrics.ObserveContract(metrics.ResultFailed)
		return nil, utils.ConfigurationError("Email delivery is not configured")
	}

	target, err := s.contractTarget(ctx, req.ProcessID, tenantID, unitID)
	if err != nil {
		metrics.ObserveContract(metrics.ResultInvalid)
		return nil, err
	}

	c, err := s.contracts.Initialize(ctx, unitID, tenantID, adminUserID, req.Notes)
	if err != nil {
		metrics.ObserveContract(metrics.ResultInvalid)
		return nil, err
	}
	result := &ContractResult{Contract: c}
	s.audit.log(ctx, c.AdminID, c.ID, shared_models.AuditCreate, shared_models.TargetContract, c.Link())

	if target != nil {
		if err := s.linkContract(ctx, target.ID, c); err != nil {
			metrics.ObserveContract(metrics.ResultFailed)
			logger.WithError(err).WithField("contractID", c.ID).Error("Contract created but not linked to its process")
			return nil, &utils.AppError{
				StatusCode: http.StatusInternalServerError,
				Code:       utils.ErrCodeInternal,
				Message:    "Contract was created but could not be linked to the process",
				Err:        err,
				Details:    result,
			}
		}
		result.ProcessID = &target.ID
		s.audit.log(ctx, c.AdminID, target.ID, shared_models.AuditUpdate, shared_models.TargetProcess, map[string]any{
			"contract_id": c.ID,
		})
	} else {
		logger.WithField("contractID", c.ID).Warn("No open process found for contract; skipping link")
	}

	kind, err := s.onboard(ctx, c.TenantID)
	result.Onboarding = kind
	if err != nil {
		metrics.ObserveContract(metrics.ResultFailed)
		logger.WithError(err).Warn("Contract initiated but onboarding email failed")
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			appErr.Details = result
			return nil, appErr
		}
		return nil, utils.DependencyFailureError("Contract was created but the onboarding email could not be sent", result)
	}
	result.EmailSent = true

	metrics.ObserveContract(metrics.ResultOK)
	logger.WithFields(logrus.Fields{"contractID": c.ID, "onboarding": kind}).Info("Contract initialization complete")
	return result, nil
}

// contractTarget picks the process a new contract is linked to, or nil.
func (s *ProcessService) contractTarget(ctx context.Context, processID *string, tenantID, unitID uuid.UUID) (*models.Process, error) {
	if processID != nil {
		id, err := uuid.Parse(*processID)
		if err != nil {
			return nil, utils.InvalidInputError("Invalid process_id", nil)
		}
		p, err := s.processRepo.GetByID(ctx, id)
		if err != nil {
			return nil, utils.InternalError("Failed to load process", err)
		}
		if p == nil {
			return nil, utils.NotFoundError(msgProcessNotFound)
		}
		if !p.OwnedBy(tenantID) {
			return nil, utils.HiddenForbiddenError(msgProcessNotFound)
		}
		if p.Status.IsClosed() {
			return nil, utils.InvalidInputError(fmt.Sprintf("Process is %s", p.Status), nil)
		}
		if p.ContractID != nil {
			return nil, &utils.AppError{StatusCode: http.StatusConflict, Code: utils.ErrCodeConflict, Message: "Process already has a contract", Err: utils.ErrInvalidInput}
		}
		return p, nil
	}

	p, err := s.processRepo.FindOpenByTenantAndUnit(ctx, tenantID, unitID)
	if err != nil {
		return nil, utils.InternalError("Failed to look up process", err)
	}
	if p == nil || p.ContractID != nil {
		return nil, nil
	}
	return p, nil
}

func (s *ProcessService) linkContract(ctx context.Context, processID uuid.UUID, c *models.Contract) error {
	return s.processRepo.UpdateWithRetry(ctx, processID, func(p *models.Process) error {
		if p.ContractID != nil && *p.ContractID != c.ID {
			return fmt.Errorf("process %s already linked to contract %s", p.ID, *p.ContractID)
		}
		p.ContractID = &c.ID
		p.AdminID = &c.AdminID
		if p.UnitID == nil {
			p.UnitID = &c.UnitID
		}
		p.UpdatedAt = s.now()
		return p.Payload.Set(models.PayloadKeyContract, c.Link())
	})
}

// onboard emails the tenant's user: a registration link for first-time
// users, a continue email for everyone else.
func (s *ProcessService) onboard(ctx context.Context, tenantID uuid.UUID) (string, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil || tenant == nil {
		return "", utils.InternalError("Failed to load tenant for onboarding", err)
	}
	user, err := s.userRepo.GetByID(ctx, tenant.UserID)
	if err != nil || user == nil {
		return "", utils.InternalError("Failed to load user for onboarding", err)
	}

	kind := OnboardingKind(user)
	if kind == constants.OnboardingContinue {
		if err := s.notifier.SendContinueEmail(ctx, user.Email, user.FullName()); err != nil {
			return kind, err
		}
		return kind, nil
	}

	token, err := s.newToken()
	if err != nil {
		return kind, utils.InternalError("Could not generate registration token", err)
	}
	expires := s.now().Add(constants.RegistrationTokenTTL)
	if err := s.userRepo.SetRegistrationToken(ctx, user.ID, utils.HashToken(token), expires); err != nil {
		return kind, utils.InternalError("Failed to store registration token", err)
	}
	if err := s.notifier.SendRegistrationEmail(ctx, user.Email, user.FullName(), token); err != nil {
		return kind, err
	}
	return kind, nil
}

/* ───────────── helpers ───────────── */

func (s *ProcessService) tenantForUser(ctx context.Context, userID uuid.UUID) (*shared_models.Tenant, error) {
	t, err := s.tenantRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, utils.InternalError("Failed to load tenant", err)
	}
	if t == nil {
		return nil, utils.NotFoundError("Tenant profile not found")
	}
	return t, nil
}

func (s *ProcessService) activeAdmin(ctx context.Context, userID uuid.UUID) (*shared_models.Admin, error) {
	a, err := s.adminRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, utils.InternalError("Failed to load admin", err)
	}
	if a == nil || !a.IsActive() {
		return nil, utils.InvalidAdminError("User is not an active admin")
	}
	return a, nil
}

// reservedKeys reports payload keys only the service may write.
func reservedKeys(payload models.ProcessPayload) []shared_dtos.ValidationErrorDetail {
	var out []shared_dtos.ValidationErrorDetail
	for _, k := range []string{models.PayloadKeySecurity, models.PayloadKeyContract} {
		if _, ok := payload[k]; ok {
			out = append(out, shared_dtos.ValidationErrorDetail{
				Field:   "payload." + k,
				Message: fmt.Sprintf("Field 'payload.%s' cannot be set directly", k),
				Code:    "validation_reserved",
			})
		}
	}
	return out
}

func summaries(list []*models.Process) []models.ProcessSummary {
	out := make([]models.ProcessSummary, 0, len(list))
	for _, p := range list {
		out = append(out, p.Summary())
	}
	return out
}
