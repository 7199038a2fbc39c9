// Package all registers every storage backend with the factory. The CLI
// blank-imports it so the config alone decides which backend runs.
package all

import (
	_ "olistetl/internal/storage/mssql"
	_ "olistetl/internal/storage/postgres"
	_ "olistetl/internal/storage/sqlite"
)
