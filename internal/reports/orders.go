package reports

import (
	"context"
	"fmt"
	"time"

	"olistetl/internal/storage"
)

// GlobalAmmountOrderStatus counts orders per status. The column name keeps
// the dataset's historical spelling.
func GlobalAmmountOrderStatus(ctx context.Context, repo storage.Repository) (*Relation, error) {
	sql := `SELECT order_status AS "order_status",
       COUNT(order_id) AS "Ammount"
FROM olist_orders
GROUP BY order_status
ORDER BY order_status ASC`

	return collect(ctx, repo, "global_ammount_order_status", sql)
}

// OrdersPerMonth counts 2017 orders per purchase month ('YYYY-MM').
func OrdersPerMonth(ctx context.Context, repo storage.Repository) (*Relation, error) {
	d := repo.Dialect()
	bucket := d.MonthKey("order_purchase_timestamp")

	sql := fmt.Sprintf(`SELECT %s AS "month",
       COUNT(order_id) AS "orders"
FROM olist_orders
WHERE %s = '2017'
GROUP BY %s
ORDER BY "month" ASC`,
		bucket, d.YearOf("order_purchase_timestamp"), bucket)

	return collect(ctx, repo, "orders_per_month", sql)
}

// OrdersPerDayAndHolidays2017 counts 2017 orders per purchase day and flags
// the days that are public holidays. The date column is returned as epoch
// milliseconds at UTC midnight and the holiday flag as a bool.
func OrdersPerDayAndHolidays2017(ctx context.Context, repo storage.Repository) (*Relation, error) {
	d := repo.Dialect()

	// Counts are aggregated per day before the holiday join, and holiday
	// days are deduplicated, so multiple holiday rows on one date cannot
	// inflate the count or duplicate the day.
	sql := fmt.Sprintf(`SELECT t.pday AS "date",
       t.order_count AS "order_count",
       CASE WHEN h.hday IS NULL THEN 0 ELSE 1 END AS "holiday"
FROM (
    SELECT %s AS pday, COUNT(order_id) AS order_count
    FROM olist_orders
    WHERE %s = '2017'
    GROUP BY %s
) t
LEFT JOIN (
    SELECT DISTINCT %s AS hday FROM public_holidays
) h ON h.hday = t.pday
ORDER BY t.pday ASC`,
		d.DateOf("order_purchase_timestamp"),
		d.YearOf("order_purchase_timestamp"),
		d.DateOf("order_purchase_timestamp"),
		d.DateOf("date"))

	rel, err := collect(ctx, repo, "orders_per_day_and_holidays_2017", sql)
	if err != nil {
		return nil, err
	}

	// Post-process in place: 'YYYY-MM-DD' -> epoch ms, 0/1 -> bool.
	for _, row := range rel.Rows {
		if s, ok := row[0].(string); ok {
			day, err := time.Parse("2006-01-02", s)
			if err != nil {
				return nil, fmt.Errorf("reports: orders_per_day_and_holidays_2017: bad day %q: %w", s, err)
			}
			row[0] = day.UTC().UnixMilli()
		}
		row[2] = asBool(row[2])
	}
	return rel, nil
}

// FreightValueWeightRelationship pairs each delivered-status order's total
// freight cost with its total product weight. The filter is on status alone,
// not the delivery timestamp, and missing freight or weight values count as
// zero rather than nulling the order's total.
func FreightValueWeightRelationship(ctx context.Context, repo storage.Repository) (*Relation, error) {
	sql := `SELECT i.order_id AS "order_id",
       SUM(COALESCE(i.freight_value, 0.0)) AS "freight_value",
       SUM(COALESCE(pr.product_weight_g, 0.0)) AS "product_weight_g"
FROM olist_order_items i
JOIN olist_orders o ON o.order_id = i.order_id
LEFT JOIN olist_products pr ON pr.product_id = i.product_id
WHERE o.order_status = 'delivered'
GROUP BY i.order_id
ORDER BY i.order_id ASC`

	return collect(ctx, repo, "freight_value_weight_relationship", sql)
}

func asBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return false
	}
}
