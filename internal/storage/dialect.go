package storage

import "olistetl/internal/ddl"

// Dialect supplies the backend-specific SQL fragments the analytical queries
// are composed from. Methods that take an expression return a new SQL
// expression; none of them quote or validate their input.
//
// Conventions shared by all backends:
//
//   - YearOf / MonthOf produce text ('2017', '03'); month is zero-padded so
//     lexical and numeric ordering agree.
//   - DiffDays produces fractional days (a - b).
//   - TruncInt truncates toward zero, never rounds.
type Dialect interface {
	// SQLType maps a portable column kind to the backend's column type.
	SQLType(k ddl.Kind) string

	// KeySQLType maps a kind to a column type usable in a primary key.
	// Backends whose default text type cannot be indexed (SQL Server's
	// NVARCHAR(MAX)) return a bounded type here.
	KeySQLType(k ddl.Kind) string

	// YearOf returns expr's 4-digit year as text.
	YearOf(expr string) string

	// MonthOf returns expr's zero-padded 2-digit month as text.
	MonthOf(expr string) string

	// MonthKey returns expr's 'YYYY-MM' bucket as text.
	MonthKey(expr string) string

	// DateOf returns expr's calendar date as 'YYYY-MM-DD' text.
	DateOf(expr string) string

	// DiffDays returns (a - b) in fractional days.
	DiffDays(a, b string) string

	// TruncInt returns expr truncated toward zero as an integer.
	TruncInt(expr string) string

	// Limit returns the clause suffix restricting a query to n rows. The
	// query it is appended to must carry an ORDER BY.
	Limit(n int) string
}
