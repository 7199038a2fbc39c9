// This adapter wires the SQL Server backend into the storage-agnostic
// factory by registering a constructor at init time.
package mssql

import (
	"context"

	"olistetl/internal/storage"
)

var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg.DSN)
	})
}
