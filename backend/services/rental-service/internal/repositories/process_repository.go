package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/trying-dev/properties/backend/services/rental-service/internal/models"
	shared_repos "github.com/trying-dev/properties/backend/shared/go-repositories"
)

/* ───────────── public interface ───────────── */

type ProcessRepository interface {
	Create(ctx context.Context, p *models.Process) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Process, error)

	UpdateIfVersion(ctx context.Context, p *models.Process, expected int64) (pgconn.CommandTag, error)
	// UpdateWithRetry reloads and re-applies mutate until the row_version
	// compare-and-swap succeeds, so concurrent writers to disjoint payload
	// keys both survive.
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Process) error) error

	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Process, error)
	ListByStatuses(ctx context.Context, statuses []models.ProcessStatus) ([]*models.Process, error)
	FindOpenByTenantAndUnit(ctx context.Context, tenantID, unitID uuid.UUID) (*models.Process, error)

	// DeleteForTenant reports false when no row matched both id and tenant.
	DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) (bool, error)
}

/* ───────────── implementation ───────────── */

type processRepo struct {
	*shared_repos.BaseVersionedRepo[*models.Process]
	db shared_repos.DB
}

func NewProcessRepository(db shared_repos.DB) ProcessRepository {
	r := &processRepo{db: db}
	r.BaseVersionedRepo = shared_repos.NewBaseRepo(db, baseSelectProcess()+" WHERE id=$1", r.scanProcess)
	return r
}

/* ---------- create ---------- */

func (r *processRepo) Create(ctx context.Context, p *models.Process) error {
	payload, err := encodePayload(p.Payload)
	if err != nil {
		return err
	}
	if p.CurrentStep < 1 {
		p.CurrentStep = 1
	}
	if p.Status == "" {
		p.Status = models.StatusInProgress
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO processes (
			id, tenant_id, unit_id, admin_id, contract_id,
			status, current_step, payload,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
		RETURNING created_at, updated_at, row_version
	`,
		p.ID, p.TenantID, p.UnitID, p.AdminID, p.ContractID,
		string(p.Status), p.CurrentStep, payload,
	)
	return row.Scan(&p.CreatedAt, &p.UpdatedAt, &p.RowVersion)
}

/* ---------- reads ---------- */

func (r *processRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Process, error) {
	return r.List(ctx, baseSelectProcess()+`
		WHERE tenant_id=$1
		ORDER BY updated_at DESC`, tenantID)
}

func (r *processRepo) ListByStatuses(ctx context.Context, statuses []models.ProcessStatus) ([]*models.Process, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}

	return r.List(ctx, baseSelectProcess()+`
		WHERE status = ANY($1)
		ORDER BY updated_at ASC`, names)
}

func (r *processRepo) FindOpenByTenantAndUnit(ctx context.Context, tenantID, unitID uuid.UUID) (*models.Process, error) {
	row := r.db.QueryRow(ctx, baseSelectProcess()+`
		WHERE tenant_id=$1 AND unit_id=$2
		  AND status NOT IN ('APPROVED','REJECTED','CANCELLED')
		ORDER BY updated_at DESC
		LIMIT 1`, tenantID, unitID)
	return r.scanProcess(row)
}

/* ---------- update / delete ---------- */

func (r *processRepo) UpdateIfVersion(ctx context.Context, p *models.Process, expected int64) (pgconn.CommandTag, error) {
	payload, err := encodePayload(p.Payload)
	if err != nil {
		return nil, err
	}
	return r.db.Exec(ctx, `
		UPDATE processes SET
			tenant_id=$1, unit_id=$2, admin_id=$3, contract_id=$4,
			status=$5, current_step=$6, payload=$7,
			updated_at=NOW(), row_version=row_version+1
		WHERE id=$8 AND row_version=$9`,
		p.TenantID, p.UnitID, p.AdminID, p.ContractID,
		string(p.Status), p.CurrentStep, payload,
		p.ID, expected,
	)
}

func (r *processRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Process) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

func (r *processRepo) DeleteForTenant(ctx context.Context, id, tenantID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM processes WHERE id=$1 AND tenant_id=$2`, id, tenantID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

/* ---------- internals ---------- */

func baseSelectProcess() string {
	return `
		SELECT id, tenant_id, unit_id, admin_id, contract_id,
		       status, current_step, payload,
		       created_at, updated_at, row_version
		FROM processes`
}

func (r *processRepo) scanProcess(row pgx.Row) (*models.Process, error) {
	var p models.Process
	var status string
	var payload pgtype.JSONB

	if err := row.Scan(
		&p.ID, &p.TenantID, &p.UnitID, &p.AdminID, &p.ContractID,
		&status, &p.CurrentStep, &payload,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.Status = models.ProcessStatus(status)
	p.Payload = models.ProcessPayload{}
	if payload.Status == pgtype.Present && len(payload.Bytes) > 0 {
		if err := json.Unmarshal(payload.Bytes, &p.Payload); err != nil {
			return nil, fmt.Errorf("decode payload of process %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func encodePayload(p models.ProcessPayload) (*pgtype.JSONB, error) {
	if p == nil {
		p = models.ProcessPayload{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return &pgtype.JSONB{Bytes: b, Status: pgtype.Present}, nil
}
