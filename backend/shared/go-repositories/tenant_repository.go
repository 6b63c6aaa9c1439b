// go-repositories/tenant_repository.go
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/trying-dev/properties/backend/shared/go-models"
)

type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Tenant, error)
}

type tenantRepo struct {
	db DB
}

func NewTenantRepository(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tenants (id, user_id, document_number, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4, NOW(), NOW())
	`, t.ID, t.UserID, t.DocumentNumber, t.Phone)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return r.scanTenant(r.db.QueryRow(ctx, baseSelectTenant()+" WHERE id=$1", id))
}

func (r *tenantRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Tenant, error) {
	return r.scanTenant(r.db.QueryRow(ctx, baseSelectTenant()+" WHERE user_id=$1", userID))
}

func baseSelectTenant() string {
	return `
		SELECT id, user_id, document_number, phone, created_at, updated_at
		FROM tenants`
}

func (r *tenantRepo) scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	if err := row.Scan(&t.ID, &t.UserID, &t.DocumentNumber, &t.Phone, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
