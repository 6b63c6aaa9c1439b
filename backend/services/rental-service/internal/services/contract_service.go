package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/constants"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/repositories"
	shared_models "github.com/trying-dev/properties/backend/shared/go-models"
	shared_repos "github.com/trying-dev/properties/backend/shared/go-repositories"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

// ContractService creates the first contract of an application.
type ContractService struct {
	contractRepo repositories.ContractRepository
	tenantRepo   shared_repos.TenantRepository
	adminRepo    shared_repos.AdminRepository
	now          func() time.Time
}

func NewContractService(
	contractRepo repositories.ContractRepository,
	tenantRepo shared_repos.TenantRepository,
	adminRepo shared_repos.AdminRepository,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		tenantRepo:   tenantRepo,
		adminRepo:    adminRepo,
		now:          time.Now,
	}
}

// Initialize validates unit, tenant and admin in that order and creates an
// INITIATED contract priced from the unit. The unit is read under a share
// lock in the same transaction as the insert, so its terms cannot change
// in between. Nothing is written when any check fails.
func (s *ContractService) Initialize(
	ctx context.Context,
	unitID, tenantID, adminUserID uuid.UUID,
	notes *string,
) (*models.Contract, error) {
	logger := utils.Logger.WithFields(logrus.Fields{
		"unitID":      unitID,
		"tenantID":    tenantID,
		"adminUserID": adminUserID,
	})

	c, err := s.contractRepo.CreateForUnit(ctx, unitID, func(unit *shared_models.Unit) (*models.Contract, error) {
		if unit == nil {
			return nil, utils.InvalidUnitError("Unit not found")
		}
		if !unit.Rentable() {
			return nil, utils.InvalidUnitError("Unit has no base rent configured")
		}

		tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
		if err != nil {
			return nil, utils.InternalError("Failed to load tenant", err)
		}
		if tenant == nil {
			return nil, utils.NotFoundError("Tenant not found")
		}

		admin, err := s.adminRepo.GetByUserID(ctx, adminUserID)
		if err != nil {
			return nil, utils.InternalError("Failed to load admin", err)
		}
		if admin == nil || !admin.IsActive() {
			return nil, utils.InvalidAdminError("User is not an active admin")
		}

		now := s.now().UTC()
		return &models.Contract{
			ID:          uuid.New(),
			UnitID:      unit.ID,
			TenantID:    tenant.ID,
			AdminID:     admin.ID,
			Status:      models.ContractInitiated,
			Rent:        *unit.BaseRent,
			Deposit:     unit.EffectiveDeposit(),
			StartDate:   now,
			EndDate:     now,
			Notes:       notes,
			InitiatedAt: now,
		}, nil
	})
	if err != nil {
		logger.WithError(err).Warn("Contract initiation rejected")
		return nil, storeError(err, "Unit not found")
	}

	logger.WithField("contractID", c.ID).Info("Contract initiated")
	return c, nil
}

// OnboardingKind picks the onboarding email: first-time users without a
// password get a registration email, everyone else a continue email.
func OnboardingKind(user *shared_models.User) string {
	if user.HasPassword() {
		return constants.OnboardingContinue
	}
	return constants.OnboardingRegistration
}
