// go-repositories/admin_repository.go
package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/trying-dev/properties/backend/shared/go-models"
)

// AdminRepository defines the interface for admin data operations.
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Admin, error)
	UpdateIfVersion(ctx context.Context, admin *models.Admin, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Admin) error) error
}

type adminRepo struct {
	*BaseVersionedRepo[*models.Admin]
	db DB
}

// NewAdminRepository creates a new instance of the admin repository.
func NewAdminRepository(db DB) AdminRepository {
	r := &adminRepo{db: db}
	selectStmt := baseSelectAdmin() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanAdmin)
	return r
}

func (r *adminRepo) Create(ctx context.Context, admin *models.Admin) error {
	status := admin.AccountStatus
	if status == "" {
		status = models.AccountStatusIncomplete
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO admins (
			id, user_id, username, account_status,
			created_at, updated_at, row_version
		) VALUES ($1, $2, $3, $4, NOW(), NOW(), 1)
	`, admin.ID, admin.UserID, admin.Username, string(status))
	return err
}

// GetByUserID resolves the admin record behind an authenticated user id.
func (r *adminRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Admin, error) {
	row := r.db.QueryRow(ctx, baseSelectAdmin()+" WHERE user_id=$1", userID)
	return r.scanAdmin(row)
}

func (r *adminRepo) UpdateIfVersion(ctx context.Context, admin *models.Admin, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE admins SET
			username=$1, account_status=$2,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$3 AND row_version=$4`,
		admin.Username, string(admin.AccountStatus), admin.ID, expected,
	)
}

func (r *adminRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Admin) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func baseSelectAdmin() string {
	return `
		SELECT id, user_id, username, account_status,
		       row_version, created_at, updated_at
		FROM admins`
}

func (r *adminRepo) scanAdmin(row pgx.Row) (*models.Admin, error) {
	var admin models.Admin
	var acc string

	err := row.Scan(
		&admin.ID, &admin.UserID, &admin.Username, &acc,
		&admin.RowVersion, &admin.CreatedAt, &admin.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	admin.AccountStatus = models.AccountStatusType(acc)
	return &admin, nil
}
