package sqlite

import (
	"fmt"

	"olistetl/internal/ddl"
)

// dialect renders SQLite SQL fragments. Timestamps are stored as ISO-8601
// text (see bindValues), which is the form strftime/julianday expect.
type dialect struct{}

func (dialect) SQLType(k ddl.Kind) string {
	switch k {
	case ddl.KindInt:
		return "INTEGER"
	case ddl.KindFloat:
		return "REAL"
	case ddl.KindBool:
		return "INTEGER"
	case ddl.KindTimestamp:
		return "TEXT"
	default:
		return "TEXT"
	}
}

func (d dialect) KeySQLType(k ddl.Kind) string { return d.SQLType(k) }

func (dialect) YearOf(expr string) string  { return fmt.Sprintf("strftime('%%Y', %s)", expr) }
func (dialect) MonthOf(expr string) string { return fmt.Sprintf("strftime('%%m', %s)", expr) }
func (dialect) MonthKey(expr string) string {
	return fmt.Sprintf("strftime('%%Y-%%m', %s)", expr)
}
func (dialect) DateOf(expr string) string { return fmt.Sprintf("date(%s)", expr) }
func (dialect) DiffDays(a, b string) string {
	return fmt.Sprintf("(julianday(%s) - julianday(%s))", a, b)
}
func (dialect) TruncInt(expr string) string {
	// CAST to INTEGER truncates toward zero in SQLite.
	return fmt.Sprintf("CAST(%s AS INTEGER)", expr)
}
func (dialect) Limit(n int) string { return fmt.Sprintf("LIMIT %d", n) }
