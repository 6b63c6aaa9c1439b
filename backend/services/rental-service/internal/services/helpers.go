package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	shared_models "github.com/trying-dev/properties/backend/shared/go-models"
	shared_repos "github.com/trying-dev/properties/backend/shared/go-repositories"
	utils "github.com/trying-dev/properties/backend/shared/go-utils"
)

// storeError turns a repository error into an AppError. AppErrors raised
// inside a mutate callback pass through untouched.
func storeError(err error, notFoundMsg string) error {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, pgx.ErrNoRows):
		return utils.NotFoundError(notFoundMsg)
	case errors.Is(err, utils.ErrRowVersionConflict):
		return utils.ConflictError("The process was modified concurrently, please retry")
	default:
		return utils.InternalError("An unexpected error occurred", err)
	}
}

// auditLogger writes best-effort admin audit entries.
type auditLogger struct {
	repo shared_repos.AdminAuditLogRepository
}

func (a auditLogger) log(
	ctx context.Context,
	adminID, targetID uuid.UUID,
	action shared_models.AuditAction,
	targetType shared_models.AuditTargetType,
	details any,
) {
	var detailsJSON *json.RawMessage
	if details != nil {
		if b, err := json.Marshal(details); err == nil {
			raw := json.RawMessage(b)
			detailsJSON = &raw
		}
	}
	if err := a.repo.Create(ctx, &shared_models.AdminAuditLog{
		ID:         uuid.New(),
		AdminID:    adminID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		Details:    detailsJSON,
	}); err != nil {
		utils.Logger.WithError(err).WithField("targetID", targetID).Warn("Failed to write admin audit log")
	}
}
