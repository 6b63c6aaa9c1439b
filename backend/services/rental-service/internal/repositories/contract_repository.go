package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	shared_models "github.com/trying-dev/properties/backend/shared/go-models"
	shared_repos "github.com/trying-dev/properties/backend/shared/go-repositories"
)

// BuildContractFunc derives a contract from the locked unit. unit is nil
// when it does not exist. Returning an error aborts the transaction.
type BuildContractFunc func(unit *shared_models.Unit) (*models.Contract, error)

type ContractRepository interface {
	// CreateForUnit locks the unit FOR SHARE, lets build derive the terms
	// and inserts the contract, all in one transaction.
	CreateForUnit(ctx context.Context, unitID uuid.UUID, build BuildContractFunc) (*models.Contract, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Contract, error)
}

type contractRepo struct {
	db shared_repos.DB
}

func NewContractRepository(db shared_repos.DB) ContractRepository {
	return &contractRepo{db: db}
}

func (r *contractRepo) CreateForUnit(ctx context.Context, unitID uuid.UUID, build BuildContractFunc) (_ *models.Contract, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	unit, err := shared_repos.ScanUnit(tx.QueryRow(ctx,
		shared_repos.BaseSelectUnit()+" WHERE id=$1 AND deleted_at IS NULL FOR SHARE", unitID))
	if err != nil {
		return nil, err
	}

	c, err := build(unit)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO contracts (
			id, unit_id, tenant_id, admin_id, status,
			rent, deposit, start_date, end_date, notes,
			initiated_at, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11, NOW())
		RETURNING created_at
	`,
		c.ID, c.UnitID, c.TenantID, c.AdminID, string(c.Status),
		c.Rent, c.Deposit, c.StartDate, c.EndDate, c.Notes,
		c.InitiatedAt,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *contractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	return r.scanContract(r.db.QueryRow(ctx, baseSelectContract()+" WHERE id=$1", id))
}

func (r *contractRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Contract, error) {
	rows, err := r.db.Query(ctx, baseSelectContract()+" WHERE tenant_id=$1 ORDER BY created_at DESC", tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Contract
	for rows.Next() {
		c, err := r.scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func baseSelectContract() string {
	return `
		SELECT id, unit_id, tenant_id, admin_id, status,
		       rent::text, deposit::text, start_date, end_date, notes,
		       initiated_at, created_at
		FROM contracts`
}

func (r *contractRepo) scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	var status, rent, deposit string
	if err := row.Scan(
		&c.ID, &c.UnitID, &c.TenantID, &c.AdminID, &status,
		&rent, &deposit, &c.StartDate, &c.EndDate, &c.Notes,
		&c.InitiatedAt, &c.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	c.Status = models.ContractStatus(status)

	var err error
	if c.Rent, err = decimal.NewFromString(rent); err != nil {
		return nil, err
	}
	if c.Deposit, err = decimal.NewFromString(deposit); err != nil {
		return nil, err
	}
	return &c, nil
}
