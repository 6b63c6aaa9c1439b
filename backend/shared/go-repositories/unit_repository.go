package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"
	"github.com/trying-dev/properties/backend/shared/go-models"
)

/* ───────────── public interface ───────────── */

// UnitRepository is read-mostly here: unit CRUD belongs to the property
// catalogue, the rental flow only prices contracts from it.
type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	*BaseVersionedRepo[*models.Unit]
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	r := &unitRepo{db: db}
	selectStmt := BaseSelectUnit() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, ScanUnit)
	return r
}

/* ---------- create ---------- */

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO units (
			id, property_id, unit_number, base_rent, deposit,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5, NOW(), NOW(), 1)
	`, u.ID, u.PropertyID, u.UnitNumber, u.BaseRent, u.Deposit)
	return err
}

/* ---------- reads ---------- */

/* ---------- update ---------- */

func (r *unitRepo) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE units
		SET unit_number=$1, base_rent=$2, deposit=$3,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$4 AND row_version=$5
	`, u.UnitNumber, u.BaseRent, u.Deposit, u.ID, expected)
}

func (r *unitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id, mutate, r.UpdateIfVersion)
}

/* ---------- internals ---------- */

// BaseSelectUnit is exported so transactional callers can add locking
// clauses (FOR SHARE) while reusing the column list and scanner.
func BaseSelectUnit() string {
	return `
		SELECT id, property_id, unit_number, base_rent::text, deposit::text,
		created_at, updated_at, row_version
		FROM units`
}

// ScanUnit returns nil, nil when the row does not exist. Money columns are
// read as text so they round-trip exactly through decimal.Decimal.
func ScanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	var rent, deposit *string
	if err := row.Scan(
		&u.ID, &u.PropertyID, &u.UnitNumber,
		&rent, &deposit,
		&u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var err error
	if u.BaseRent, err = parseMoney(rent); err != nil {
		return nil, err
	}
	if u.Deposit, err = parseMoney(deposit); err != nil {
		return nil, err
	}
	return &u, nil
}

func parseMoney(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid numeric %q: %w", *s, err)
	}
	return &d, nil
}
