package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trying-dev/properties/backend/services/rental-service/internal/constants"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/dtos"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	shared_models "github.com/trying-dev/properties/backend/shared/go-models"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

func (f *fixture) contractRequest() dtos.InitializeContractRequest {
	return dtos.InitializeContractRequest{UnitID: f.unit.ID.String(), TenantID: f.tenant.ID.String()}
}

func TestContractService_DepositDefaultsToRent(t *testing.T) {
	tests := []struct {
		name    string
		deposit *decimal.Decimal
		want    int64
	}{
		{"no deposit", nil, 2_000_000},
		{"explicit deposit", utils.Ptr(decimal.NewFromInt(2_500_000)), 2_500_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.unit.Deposit = tt.deposit

			c, err := f.contractSvc.Initialize(context.Background(), f.unit.ID, f.tenant.ID, f.adminUser.ID, nil)
			require.NoError(t, err)
			assert.True(t, c.Rent.Equal(decimal.NewFromInt(2_000_000)), "rent %s", c.Rent)
			assert.True(t, c.Deposit.Equal(decimal.NewFromInt(tt.want)), "deposit %s", c.Deposit)
			assert.Equal(t, models.ContractInitiated, c.Status)
			assert.Equal(t, fixedNow, c.InitiatedAt)
		})
	}
}

func TestContractService_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(f *fixture) (unitID, tenantID, adminUserID uuid.UUID)
		code    string
	}{
		{
			name: "unknown unit",
			prepare: func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) {
				return uuid.New(), f.tenant.ID, f.adminUser.ID
			},
			code: utils.ErrCodeInvalidUnit,
		},
		{
			name: "unit without rent",
			prepare: func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) {
				f.unit.BaseRent = nil
				return f.unit.ID, f.tenant.ID, f.adminUser.ID
			},
			code: utils.ErrCodeInvalidUnit,
		},
		{
			name: "unknown tenant",
			prepare: func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) {
				return f.unit.ID, uuid.New(), f.adminUser.ID
			},
			code: utils.ErrCodeNotFound,
		},
		{
			name: "not an admin",
			prepare: func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) {
				return f.unit.ID, f.tenant.ID, f.tenantUser.ID
			},
			code: utils.ErrCodeInvalidAdmin,
		},
		{
			name: "suspended admin",
			prepare: func(f *fixture) (uuid.UUID, uuid.UUID, uuid.UUID) {
				f.admin.AccountStatus = shared_models.AccountStatusSuspended
				return f.unit.ID, f.tenant.ID, f.adminUser.ID
			},
			code: utils.ErrCodeInvalidAdmin,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			unitID, tenantID, adminUserID := tt.prepare(f)

			_, err := f.contractSvc.Initialize(context.Background(), unitID, tenantID, adminUserID, nil)
			assert.Equal(t, tt.code, appErrCode(t, err))
			assert.Empty(t, f.contracts.rows)
		})
	}
}

func TestOnboardingKind(t *testing.T) {
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	assert.Equal(t, constants.OnboardingRegistration, OnboardingKind(&shared_models.User{}))
	assert.Equal(t, constants.OnboardingContinue, OnboardingKind(&shared_models.User{PasswordHash: &hash}))
}

func TestInitializeContract_ContinueEmailForExistingUser(t *testing.T) {
	f := newFixture()
	hash := "$2a$10$abcdefghijklmnopqrstuv"
	f.tenantUser.PasswordHash = &hash

	res, err := f.svc.InitializeContract(context.Background(), f.adminUser.ID, f.contractRequest())
	require.NoError(t, err)
	assert.Equal(t, constants.OnboardingContinue, res.Onboarding)
	assert.Len(t, f.notifier.sent(NotifyContinue), 1)
	assert.Empty(t, f.notifier.sent(NotifyRegistration))
	assert.Nil(t, f.tenantUser.RegistrationTokenHash)
}

func TestInitializeContract_NoProcessStillCreatesContract(t *testing.T) {
	f := newFixture()

	res, err := f.svc.InitializeContract(context.Background(), f.adminUser.ID, f.contractRequest())
	require.NoError(t, err)
	assert.Nil(t, res.ProcessID)
	assert.Len(t, f.contracts.rows, 1)
	assert.True(t, res.EmailSent)
}

func TestInitializeContract_NotReadyWritesNothing(t *testing.T) {
	f := newFixture()
	f.notifier.readyErr = utils.ErrConfiguration

	_, err := f.svc.InitializeContract(context.Background(), f.adminUser.ID, f.contractRequest())
	assert.Equal(t, utils.ErrCodeConfiguration, appErrCode(t, err))
	assert.Empty(t, f.contracts.rows)
	assert.Empty(t, f.audit.entries)
}

func TestInitializeContract_ExplicitProcess(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	p, err := f.svc.CreateProcess(ctx, f.tenantUser.ID, dtos.CreateProcessRequest{})
	require.NoError(t, err)

	other := f.addTenant("other@example.com")
	foreign, err := f.svc.CreateProcess(ctx, other.UserID, dtos.CreateProcessRequest{})
	require.NoError(t, err)

	req := f.contractRequest()
	req.ProcessID = utils.Ptr(foreign.ID.String())
	_, err = f.svc.InitializeContract(ctx, f.adminUser.ID, req)
	assert.Equal(t, utils.ErrCodeNotFound, appErrCode(t, err))
	assert.Empty(t, f.contracts.rows)

	req.ProcessID = utils.Ptr(p.ID.String())
	res, err := f.svc.InitializeContract(ctx, f.adminUser.ID, req)
	require.NoError(t, err)
	require.NotNil(t, res.ProcessID)
	assert.Equal(t, p.ID, *res.ProcessID)

	linked, err := f.svc.GetProcess(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.UnitID)
	assert.Equal(t, f.unit.ID, *linked.UnitID)

	_, err = f.svc.InitializeContract(ctx, f.adminUser.ID, req)
	assert.Equal(t, utils.ErrCodeConflict, appErrCode(t, err))
	assert.Len(t, f.contracts.rows, 1)
}

func TestInitializeContract_OnboardingFailureReportsContract(t *testing.T) {
	f := newFixture()
	f.notifier.failEmail[f.tenantUser.Email] = true

	_, err := f.svc.InitializeContract(context.Background(), f.adminUser.ID, f.contractRequest())
	require.Error(t, err)
	assert.Equal(t, utils.ErrCodeExternalServiceFailure, appErrCode(t, err))

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	details, ok := appErr.Details.(*ContractResult)
	require.True(t, ok)
	assert.NotNil(t, details.Contract)
	assert.False(t, details.EmailSent)
	assert.Len(t, f.contracts.rows, 1)
}

func TestContractBlocksReturnToInProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.startProcess(t)

	_, err := f.svc.UpdateProcessStatus(ctx, f.adminUser.ID, p.ID, models.StatusWaitingForFeedback)
	require.NoError(t, err)
	_, err = f.svc.UpdateProcessStatus(ctx, f.adminUser.ID, p.ID, models.StatusInProgress)
	require.NoError(t, err)

	_, err = f.svc.InitializeContract(ctx, f.adminUser.ID, f.contractRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateProcessStatus(ctx, f.adminUser.ID, p.ID, models.StatusInProgress)
	require.NoError(t, err, "same-status updates are allowed")

	_, err = f.svc.UpdateProcessStatus(ctx, f.adminUser.ID, p.ID, models.StatusWaitingForFeedback)
	require.NoError(t, err)
	_, err = f.svc.UpdateProcessStatus(ctx, f.adminUser.ID, p.ID, models.StatusInProgress)
	assert.Equal(t, utils.ErrCodeValidation, appErrCode(t, err))
}
