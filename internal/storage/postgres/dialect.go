package postgres

import (
	"fmt"

	"olistetl/internal/ddl"
)

type dialect struct{}

func (dialect) SQLType(k ddl.Kind) string {
	switch k {
	case ddl.KindInt:
		return "BIGINT"
	case ddl.KindFloat:
		return "DOUBLE PRECISION"
	case ddl.KindBool:
		return "BOOLEAN"
	case ddl.KindTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func (d dialect) KeySQLType(k ddl.Kind) string { return d.SQLType(k) }

func (dialect) YearOf(expr string) string  { return fmt.Sprintf("to_char(%s, 'YYYY')", expr) }
func (dialect) MonthOf(expr string) string { return fmt.Sprintf("to_char(%s, 'MM')", expr) }
func (dialect) MonthKey(expr string) string {
	return fmt.Sprintf("to_char(%s, 'YYYY-MM')", expr)
}
func (dialect) DateOf(expr string) string {
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", expr)
}
func (dialect) DiffDays(a, b string) string {
	return fmt.Sprintf("(EXTRACT(EPOCH FROM (%s - %s)) / 86400.0)", a, b)
}
func (dialect) TruncInt(expr string) string {
	// trunc, not CAST: Postgres CAST to integer rounds half away from zero.
	return fmt.Sprintf("CAST(trunc(%s) AS BIGINT)", expr)
}
func (dialect) Limit(n int) string { return fmt.Sprintf("LIMIT %d", n) }
