package load

import (
	"context"
	"fmt"

	"olistetl/internal/ddl"
	"olistetl/internal/storage"
)

// monthAbbrevs is the fixed month lookup, index 0 = January. It replaces a
// CASE/WHEN ladder in the queries: the pairs are materialized as a 12-row
// reference table that reports LEFT JOIN against.
var monthAbbrevs = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// createMonths rebuilds the months reference relation
// (month_no '01'..'12' -> month_name 'Jan'..'Dec').
func createMonths(ctx context.Context, repo storage.Repository) error {
	d := repo.Dialect()

	if err := repo.Exec(ctx, "DROP TABLE IF EXISTS months"); err != nil {
		return fmt.Errorf("load: drop months: %w", err)
	}
	create := fmt.Sprintf(
		"CREATE TABLE months (month_no %s NOT NULL, month_name %s NOT NULL, PRIMARY KEY (month_no))",
		d.KeySQLType(ddl.KindText), d.SQLType(ddl.KindText),
	)
	if err := repo.Exec(ctx, create); err != nil {
		return fmt.Errorf("load: create months: %w", err)
	}

	rows := make([][]any, 0, len(monthAbbrevs))
	for i, name := range monthAbbrevs {
		rows = append(rows, []any{fmt.Sprintf("%02d", i+1), name})
	}
	if _, err := repo.CopyFrom(ctx, "months", []string{"month_no", "month_name"}, rows); err != nil {
		return fmt.Errorf("load: fill months: %w", err)
	}
	return nil
}

// createViews rebuilds the shared business views. delivered_orders is the
// single source of truth for the delivered rule: status = 'delivered' AND a
// non-null customer delivery timestamp.
func createViews(ctx context.Context, repo storage.Repository) error {
	stmts := []string{
		"DROP VIEW IF EXISTS delivered_orders",
		`CREATE VIEW delivered_orders AS
SELECT *
FROM olist_orders
WHERE order_status = 'delivered'
  AND order_delivered_customer_date IS NOT NULL`,
	}
	for _, s := range stmts {
		if err := repo.Exec(ctx, s); err != nil {
			return fmt.Errorf("load: views: %w", err)
		}
	}
	return nil
}
