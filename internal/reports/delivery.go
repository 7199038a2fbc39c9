package reports

import (
	"context"
	"fmt"

	"olistetl/internal/storage"
)

// DeliveryDateDifference reports, per customer state, the integer-truncated
// average of (estimated delivery date - actual delivery date) in whole days.
// Positive means delivered early. Every order with a non-null delivery
// timestamp counts, regardless of status.
func DeliveryDateDifference(ctx context.Context, repo storage.Repository) (*Relation, error) {
	d := repo.Dialect()

	perOrder := d.TruncInt(d.DiffDays(
		"o.order_estimated_delivery_date", "o.order_delivered_customer_date"))

	sql := fmt.Sprintf(`SELECT c.customer_state AS "State",
       %s AS "Delivery_Difference"
FROM (
    SELECT o.customer_id, %s AS day_diff
    FROM olist_orders o
    WHERE o.order_delivered_customer_date IS NOT NULL
) diffs
JOIN olist_customers c ON c.customer_id = diffs.customer_id
GROUP BY c.customer_state
ORDER BY "Delivery_Difference" ASC, "State" ASC`,
		d.TruncInt("AVG(diffs.day_diff)"), perOrder)

	return collect(ctx, repo, "delivery_date_difference", sql)
}

// RealVsEstimatedDeliveredTime compares the average real delivery time
// against the average estimated delivery time per purchase month, with the
// years 2016-2018 pivoted into six columns. Both durations are measured from
// the purchase timestamp in fractional days; months with no data in a year
// show 0.
func RealVsEstimatedDeliveredTime(ctx context.Context, repo storage.Repository) (*Relation, error) {
	d := repo.Dialect()
	purchased := "o.order_purchase_timestamp"

	sql := fmt.Sprintf(`SELECT t.month_no AS "month_no",
       COALESCE(m.month_name, '0') AS "month",
       COALESCE(AVG(CASE WHEN t.yr = '2016' THEN t.real_days END), 0.0) AS "Year2016_real_time",
       COALESCE(AVG(CASE WHEN t.yr = '2017' THEN t.real_days END), 0.0) AS "Year2017_real_time",
       COALESCE(AVG(CASE WHEN t.yr = '2018' THEN t.real_days END), 0.0) AS "Year2018_real_time",
       COALESCE(AVG(CASE WHEN t.yr = '2016' THEN t.est_days END), 0.0) AS "Year2016_estimated_time",
       COALESCE(AVG(CASE WHEN t.yr = '2017' THEN t.est_days END), 0.0) AS "Year2017_estimated_time",
       COALESCE(AVG(CASE WHEN t.yr = '2018' THEN t.est_days END), 0.0) AS "Year2018_estimated_time"
FROM (
    SELECT %s AS month_no,
           %s AS yr,
           %s AS real_days,
           %s AS est_days
    FROM delivered_orders o
) t
LEFT JOIN months m ON m.month_no = t.month_no
GROUP BY t.month_no, m.month_name
ORDER BY t.month_no ASC`,
		d.MonthOf(purchased), d.YearOf(purchased),
		d.DiffDays("o.order_delivered_customer_date", purchased),
		d.DiffDays("o.order_estimated_delivery_date", purchased))

	return collect(ctx, repo, "real_vs_estimated_delivered_time", sql)
}
