// backend/shared/go-repositories/admin_audit_log_repository.go
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/trying-dev/properties/backend/shared/go-models"
)

type AdminAuditLogRepository interface {
	Create(ctx context.Context, logEntry *models.AdminAuditLog) error
	ListByTarget(ctx context.Context, targetID uuid.UUID) ([]*models.AdminAuditLog, error)
}

type adminAuditLogRepo struct {
	db DB
}

func NewAdminAuditLogRepository(db DB) AdminAuditLogRepository {
	return &adminAuditLogRepo{db: db}
}

func (r *adminAuditLogRepo) Create(ctx context.Context, logEntry *models.AdminAuditLog) error {
	q := `
        INSERT INTO admin_audit_logs (
            id, admin_id, action, target_id, target_type, details, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, NOW())
    `
	_, err := r.db.Exec(ctx, q,
		logEntry.ID,
		logEntry.AdminID,
		logEntry.Action,
		logEntry.TargetID,
		logEntry.TargetType,
		logEntry.Details,
	)
	return err
}

// ListByTarget returns the trail for one process or contract, oldest first.
func (r *adminAuditLogRepo) ListByTarget(ctx context.Context, targetID uuid.UUID) ([]*models.AdminAuditLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, admin_id, action, target_id, target_type, details, created_at
		FROM admin_audit_logs
		WHERE target_id=$1
		ORDER BY created_at ASC
	`, targetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.AdminAuditLog
	for rows.Next() {
		var e models.AdminAuditLog
		var action, target string
		if err := rows.Scan(&e.ID, &e.AdminID, &action, &e.TargetID, &target, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Action = models.AuditAction(action)
		e.TargetType = models.AuditTargetType(target)
		out = append(out, &e)
	}
	return out, rows.Err()
}
