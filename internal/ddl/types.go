package ddl

// Kind is a database-agnostic column kind. Backends map kinds to concrete
// SQL types through their Dialect (e.g. KindTimestamp becomes TEXT on SQLite
// and TIMESTAMP on Postgres).
type Kind string

const (
	KindText      Kind = "text"
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindBool      Kind = "bool"
	KindTimestamp Kind = "timestamp"
)

// ColumnDef describes a single column in a table definition produced or
// consumed by ddl.
//
// Fields:
//   - Name: logical column name (unquoted; quoting/escaping happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, TIMESTAMP)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
}

// TableDef holds a table name and an ordered list of columns. The name is
// emitted verbatim; quoting is the caller's concern.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}
