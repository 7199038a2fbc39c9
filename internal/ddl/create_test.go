package ddl

import (
	"strings"
	"testing"
)

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	td := TableDef{
		Name: "olist_orders",
		Columns: []ColumnDef{
			{Name: "order_id", SQLType: "TEXT", PrimaryKey: true},
			{Name: "order_status", SQLType: "TEXT", Nullable: true},
			{Name: "order_purchase_timestamp", SQLType: "TIMESTAMP", Nullable: true},
		},
	}

	got, err := BuildCreateTableSQL(td)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}

	want := "CREATE TABLE olist_orders (" +
		"order_id TEXT NOT NULL, " +
		"order_status TEXT, " +
		"order_purchase_timestamp TIMESTAMP, " +
		"PRIMARY KEY (order_id))"
	if got != want {
		t.Fatalf("BuildCreateTableSQL =\n  %s\nwant\n  %s", got, want)
	}
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		td   TableDef
		frag string
	}{
		{"empty table name", TableDef{Columns: []ColumnDef{{Name: "a", SQLType: "TEXT"}}}, "table name"},
		{"no columns", TableDef{Name: "t"}, "no columns"},
		{"empty column name", TableDef{Name: "t", Columns: []ColumnDef{{SQLType: "TEXT"}}}, "empty name"},
		{"missing type", TableDef{Name: "t", Columns: []ColumnDef{{Name: "a"}}}, "missing SQLType"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := BuildCreateTableSQL(tc.td); err == nil || !strings.Contains(err.Error(), tc.frag) {
				t.Fatalf("BuildCreateTableSQL err = %v, want substring %q", err, tc.frag)
			}
		})
	}
}
