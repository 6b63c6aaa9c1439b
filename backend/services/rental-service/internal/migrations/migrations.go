// Package migrations carries the rental schema. It is idempotent and is
// applied by the integration suite and by local tooling.
package migrations

import (
	"context"
	_ "embed"
	"fmt"

	shared_repos "github.com/trying-dev/properties/backend/shared/go-repositories"
)

//go:embed schema.sql
var Schema string

// Apply runs Schema against db.
func Apply(ctx context.Context, db shared_repos.DB) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply rental schema: %w", err)
	}
	return nil
}
