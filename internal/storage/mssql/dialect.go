package mssql

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
		return "FLOAT"
	case ddl.KindBool:
		return "BIT"
	case ddl.KindTimestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}

// KeySQLType bounds text keys: NVARCHAR(MAX) is not valid as an index key
// column, and 450 is the widest NVARCHAR that fits the 900-byte index limit.
func (d dialect) KeySQLType(k ddl.Kind) string {
	if k == ddl.KindText {
		return "NVARCHAR(450)"
	}
	return d.SQLType(k)
}

func (dialect) YearOf(expr string) string {
	return fmt.Sprintf("CAST(YEAR(%s) AS VARCHAR(4))", expr)
}
func (dialect) MonthOf(expr string) string {
	return fmt.Sprintf("RIGHT('0' + CAST(MONTH(%s) AS VARCHAR(2)), 2)", expr)
}
func (dialect) MonthKey(expr string) string {
	return fmt.Sprintf("FORMAT(%s, 'yyyy-MM')", expr)
}
func (dialect) DateOf(expr string) string {
	return fmt.Sprintf("CONVERT(VARCHAR(10), %s, 23)", expr)
}
func (dialect) DiffDays(a, b string) string {
	return fmt.Sprintf("(CAST(DATEDIFF(SECOND, %s, %s) AS FLOAT) / 86400.0)", b, a)
}
func (dialect) TruncInt(expr string) string {
	// ROUND(x, 0, 1) truncates instead of rounding.
	return fmt.Sprintf("CAST(ROUND(%s, 0, 1) AS BIGINT)", expr)
}
func (dialect) Limit(n int) string {
	return fmt.Sprintf("OFFSET 0 ROWS FETCH NEXT %d ROWS ONLY", n)
}
