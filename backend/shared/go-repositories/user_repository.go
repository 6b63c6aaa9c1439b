// go-repositories/user_repository.go
package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/trying-dev/properties/backend/shared/go-models"
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// SetRegistrationToken stores the hash of a first-access token.
	SetRegistrationToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (
			id, email, first_name, last_name, password_hash,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5, NOW(), NOW())
	`, u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash)
	return err
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, baseSelectUser()+" WHERE id=$1", id))
}

func (r *userRepo) SetRegistrationToken(ctx context.Context, id uuid.UUID, tokenHash string, expiresAt time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET registration_token_hash=$1, registration_token_expires_at=$2, updated_at=NOW()
		WHERE id=$3
	`, tokenHash, expiresAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func baseSelectUser() string {
	return `
		SELECT id, email, first_name, last_name, password_hash,
		       registration_token_hash, registration_token_expires_at,
		       created_at, updated_at
		FROM users`
}

func (r *userRepo) scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.RegistrationTokenHash, &u.RegistrationTokenExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
