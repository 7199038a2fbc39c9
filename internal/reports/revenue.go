package reports

import (
	"context"
	"fmt"

	"olistetl/internal/storage"
)

// RevenueByMonthYear sums payment value per delivery month with the years
// 2016-2018 pivoted into separate columns. Payments are deduplicated to one
// row per (customer, order, delivery timestamp, payment value) before the
// sum, so repeated join rows cannot double-count. Months with no revenue in
// a year show 0, never NULL, and a month code outside the lookup table falls
// back to the '0' label instead of failing.
func RevenueByMonthYear(ctx context.Context, repo storage.Repository) (*Relation, error) {
	d := repo.Dialect()
	delivered := "o.order_delivered_customer_date"

	sql := fmt.Sprintf(`SELECT pays.month_no AS "month_no",
       COALESCE(m.month_name, '0') AS "month",
       SUM(CASE WHEN pays.yr = '2016' THEN pays.payment_value ELSE 0.0 END) AS "Year2016",
       SUM(CASE WHEN pays.yr = '2017' THEN pays.payment_value ELSE 0.0 END) AS "Year2017",
       SUM(CASE WHEN pays.yr = '2018' THEN pays.payment_value ELSE 0.0 END) AS "Year2018"
FROM (
    SELECT DISTINCT o.customer_id,
           o.order_id,
           o.order_delivered_customer_date,
           %s AS yr,
           %s AS month_no,
           p.payment_value
    FROM delivered_orders o
    JOIN olist_order_payments p ON p.order_id = o.order_id
) pays
LEFT JOIN months m ON m.month_no = pays.month_no
GROUP BY pays.month_no, m.month_name
ORDER BY pays.month_no ASC`,
		d.YearOf(delivered), d.MonthOf(delivered))

	return collect(ctx, repo, "revenue_by_month_year", sql)
}

// categoryRevenueSQL builds the category revenue ranking shared by the top
// and bottom variants. The payments join fans payment value out across every
// item row of a multi-item order, so Revenue here is a deliberately inflated
// per-category metric; RevenuePerState is the pre-aggregated counterpart.
func categoryRevenueSQL(repo storage.Repository, direction string) string {
	d := repo.Dialect()
	return fmt.Sprintf(`SELECT t.product_category_name_english AS "Category",
       COUNT(DISTINCT o.order_id) AS "Num_order",
       SUM(p.payment_value) AS "Revenue"
FROM olist_products pr
JOIN product_category_name_translation t
  ON t.product_category_name = pr.product_category_name
JOIN olist_order_items i ON i.product_id = pr.product_id
JOIN delivered_orders o ON o.order_id = i.order_id
JOIN olist_order_payments p ON p.order_id = o.order_id
WHERE t.product_category_name_english IS NOT NULL
GROUP BY t.product_category_name_english
ORDER BY "Revenue" %s, "Category" ASC %s`, direction, d.Limit(10))
}

// Top10RevenueCategories ranks the ten highest-revenue product categories.
func Top10RevenueCategories(ctx context.Context, repo storage.Repository) (*Relation, error) {
	return collect(ctx, repo, "top_10_revenue_categories", categoryRevenueSQL(repo, "DESC"))
}

// Top10LeastRevenueCategories ranks the ten lowest-revenue categories.
func Top10LeastRevenueCategories(ctx context.Context, repo storage.Repository) (*Relation, error) {
	return collect(ctx, repo, "top_10_least_revenue_categories", categoryRevenueSQL(repo, "ASC"))
}

// RevenuePerState sums true per-order revenue by customer state. Payments
// are pre-aggregated to one total per order and only then joined to the
// distinct (order, state) pairs, so multi-item orders contribute their
// payment total exactly once.
func RevenuePerState(ctx context.Context, repo storage.Repository) (*Relation, error) {
	d := repo.Dialect()

	sql := fmt.Sprintf(`SELECT os.customer_state AS "State",
       SUM(pay.order_total) AS "Revenue"
FROM (
    SELECT DISTINCT o.order_id, c.customer_state
    FROM delivered_orders o
    JOIN olist_customers c ON c.customer_id = o.customer_id
) os
JOIN (
    SELECT order_id, SUM(payment_value) AS order_total
    FROM olist_order_payments
    GROUP BY order_id
) pay ON pay.order_id = os.order_id
GROUP BY os.customer_state
ORDER BY "Revenue" DESC, "State" ASC %s`, d.Limit(10))

	return collect(ctx, repo, "revenue_per_state", sql)
}
