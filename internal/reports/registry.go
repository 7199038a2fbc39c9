package reports

import (
	"context"
	"fmt"

	"olistetl/internal/storage"
)

type entry struct {
	name string
	run  Runner
}

// registry lists every report in its fixed execution order. Names are the
// stable identifiers results are persisted under.
var registry = []entry{
	{"revenue_by_month_year", RevenueByMonthYear},
	{"delivery_date_difference", DeliveryDateDifference},
	{"real_vs_estimated_delivered_time", RealVsEstimatedDeliveredTime},
	{"top_10_revenue_categories", Top10RevenueCategories},
	{"revenue_per_state", RevenuePerState},
	{"top_10_least_revenue_categories", Top10LeastRevenueCategories},
	{"global_ammount_order_status", GlobalAmmountOrderStatus},
	{"orders_per_month", OrdersPerMonth},
	{"orders_per_day_and_holidays_2017", OrdersPerDayAndHolidays2017},
	{"freight_value_weight_relationship", FreightValueWeightRelationship},
}

// Names returns every report name in execution order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.name)
	}
	return out
}

// Lookup returns the runner for name, or false if no such report exists.
func Lookup(name string) (Runner, bool) {
	for _, e := range registry {
		if e.name == name {
			return e.run, true
		}
	}
	return nil, false
}

// Run executes the report called name against repo.
func Run(ctx context.Context, repo storage.Repository, name string) (*Relation, error) {
	run, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("reports: unknown report %q", name)
	}
	return run(ctx, repo)
}
