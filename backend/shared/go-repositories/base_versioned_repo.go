package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

// BaseVersionedRepo is embedded by repositories whose rows carry a
// row_version. It owns the select-by-id statement and the row scanner, and
// layers the optimistic update loop on top of them.
type BaseVersionedRepo[T EntityWithVersion] struct {
	db         DB
	selectByID string
	scan       func(row pgx.Row) (T, error)
}

// NewBaseRepo is called by concrete repositories. selectByID must take the
// id as $1; scan returns the zero T when the row does not exist.
func NewBaseRepo[T EntityWithVersion](
	db DB,
	selectByID string,
	scan func(pgx.Row) (T, error),
) *BaseVersionedRepo[T] {
	return &BaseVersionedRepo[T]{db: db, selectByID: selectByID, scan: scan}
}

func (b *BaseVersionedRepo[T]) GetByID(ctx context.Context, id uuid.UUID) (T, error) {
	return b.scan(b.db.QueryRow(ctx, b.selectByID, id))
}

// List runs query and scans every row with the same scanner GetByID uses.
func (b *BaseVersionedRepo[T]) List(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := b.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := b.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateWithRetry reloads the row before every attempt so mutate never works
// on a stale copy.
func (b *BaseVersionedRepo[T]) UpdateWithRetry(
	ctx context.Context,
	id uuid.UUID,
	mutate func(T) error,
	updateIfVersion UpdateIfVersionFunc[T],
) error {
	load := func(ctx context.Context, _ string) (T, error) { return b.GetByID(ctx, id) }
	return WithRetry(ctx, DefaultMaxRetries, id.String(), load, updateIfVersion, mutate)
}
