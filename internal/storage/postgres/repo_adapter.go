// This adapter wires the Postgres backend into the storage-agnostic factory
// by registering a constructor at init time.
package postgres

import (
	"context"

	"olistetl/internal/storage"
)

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN)
	})
}
