package reports

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"olistetl/internal/dataset"
	"olistetl/internal/load"
	"olistetl/internal/storage"
	_ "olistetl/internal/storage/sqlite"
)

func ts(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mkTable builds a dataset.Table for the named schema from row maps; columns
// absent from a map load as NULL.
func mkTable(t *testing.T, name string, rows []map[string]any) *dataset.Table {
	t.Helper()

	var sch dataset.Schema
	found := false
	for _, s := range dataset.Schemas() {
		if s.Table == name {
			sch, found = s, true
			break
		}
	}
	if !found {
		if h := dataset.HolidaysSchema(); h.Table == name {
			sch, found = h, true
		}
	}
	if !found {
		t.Fatalf("no schema for table %q", name)
	}

	tbl := &dataset.Table{Name: sch.Table, Columns: sch.Columns}
	for _, m := range rows {
		row := make([]any, len(sch.Columns))
		for i, c := range sch.Columns {
			row[i] = m[c.Name]
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl
}

// fixtureTables is a small constructed marketplace:
//
//	o1  c1/SP  delivered  purchased Mar 1, delivered Mar 15, estimated Mar 20,
//	           paid 100 in two installments (60 + 40); second item references
//	           a product missing from olist_products
//	o2  c2/RJ  delivered  purchased May 2, delivered May 10, estimated May 8, paid 90, 3 items
//	o3  c1/SP  delivered  but delivery timestamp NULL, paid 50, 1 item
//	o4  c2/RJ  shipped    delivered Jun 5, estimated Jun 8, paid 10
//
// March 1 carries two public-holiday rows on the same date.
func fixtureTables(t *testing.T) []*dataset.Table {
	t.Helper()

	orders := mkTable(t, "olist_orders", []map[string]any{
		{"order_id": "o1", "customer_id": "c1", "order_status": "delivered",
			"order_purchase_timestamp":      ts(2017, 3, 1),
			"order_delivered_customer_date": ts(2017, 3, 15),
			"order_estimated_delivery_date": ts(2017, 3, 20)},
		{"order_id": "o2", "customer_id": "c2", "order_status": "delivered",
			"order_purchase_timestamp":      ts(2017, 5, 2),
			"order_delivered_customer_date": ts(2017, 5, 10),
			"order_estimated_delivery_date": ts(2017, 5, 8)},
		{"order_id": "o3", "customer_id": "c1", "order_status": "delivered",
			"order_purchase_timestamp":      ts(2017, 3, 10),
			"order_estimated_delivery_date": ts(2017, 3, 25)},
		{"order_id": "o4", "customer_id": "c2", "order_status": "shipped",
			"order_purchase_timestamp":      ts(2017, 6, 1),
			"order_delivered_customer_date": ts(2017, 6, 5),
			"order_estimated_delivery_date": ts(2017, 6, 8)},
	})

	payments := mkTable(t, "olist_order_payments", []map[string]any{
		{"order_id": "o1", "payment_sequential": int64(1), "payment_type": "credit_card", "payment_installments": int64(2), "payment_value": 60.0},
		{"order_id": "o1", "payment_sequential": int64(2), "payment_type": "credit_card", "payment_installments": int64(2), "payment_value": 40.0},
		{"order_id": "o2", "payment_sequential": int64(1), "payment_type": "boleto", "payment_installments": int64(1), "payment_value": 90.0},
		{"order_id": "o3", "payment_sequential": int64(1), "payment_type": "credit_card", "payment_installments": int64(1), "payment_value": 50.0},
		{"order_id": "o4", "payment_sequential": int64(1), "payment_type": "voucher", "payment_installments": int64(1), "payment_value": 10.0},
	})

	items := mkTable(t, "olist_order_items", []map[string]any{
		{"order_id": "o1", "order_item_id": int64(1), "product_id": "p1", "seller_id": "s1", "shipping_limit_date": ts(2017, 3, 5), "price": 95.0, "freight_value": 10.0},
		{"order_id": "o1", "order_item_id": int64(2), "product_id": "px", "seller_id": "s1", "shipping_limit_date": ts(2017, 3, 5), "price": 5.0, "freight_value": 2.0},
		{"order_id": "o3", "order_item_id": int64(1), "product_id": "p1", "seller_id": "s1", "shipping_limit_date": ts(2017, 3, 12), "price": 45.0, "freight_value": 7.0},
		{"order_id": "o2", "order_item_id": int64(1), "product_id": "p2", "seller_id": "s1", "shipping_limit_date": ts(2017, 5, 5), "price": 28.0, "freight_value": 5.0},
		{"order_id": "o2", "order_item_id": int64(2), "product_id": "p2", "seller_id": "s1", "shipping_limit_date": ts(2017, 5, 5), "price": 28.0, "freight_value": 5.0},
		{"order_id": "o2", "order_item_id": int64(3), "product_id": "p2", "seller_id": "s1", "shipping_limit_date": ts(2017, 5, 5), "price": 28.0, "freight_value": 5.0},
		{"order_id": "o4", "order_item_id": int64(1), "product_id": "p1", "seller_id": "s1", "shipping_limit_date": ts(2017, 6, 3), "price": 8.0, "freight_value": 2.0},
	})

	customers := mkTable(t, "olist_customers", []map[string]any{
		{"customer_id": "c1", "customer_unique_id": "u1", "customer_zip_code_prefix": "01000", "customer_city": "sao paulo", "customer_state": "SP"},
		{"customer_id": "c2", "customer_unique_id": "u2", "customer_zip_code_prefix": "20000", "customer_city": "rio de janeiro", "customer_state": "RJ"},
	})

	products := mkTable(t, "olist_products", []map[string]any{
		{"product_id": "p1", "product_category_name": "moveis_decoracao", "product_weight_g": 1000.0},
		{"product_id": "p2", "product_category_name": "beleza_saude", "product_weight_g": 500.0},
	})

	translation := mkTable(t, "product_category_name_translation", []map[string]any{
		{"product_category_name": "moveis_decoracao", "product_category_name_english": "furniture_decor"},
		{"product_category_name": "beleza_saude", "product_category_name_english": "health_beauty"},
	})

	holidays := mkTable(t, "public_holidays", []map[string]any{
		{"date": ts(2017, 3, 1), "local_name": "Carnaval", "name": "Carnival", "country_code": "BR", "is_fixed": false, "is_global": true},
		{"date": ts(2017, 3, 1), "local_name": "Início do Carnaval", "name": "Carnival Start", "country_code": "BR", "is_fixed": false, "is_global": false},
	})

	return []*dataset.Table{orders, items, payments, customers, products, translation, holidays}
}

func materializedRepo(t *testing.T) storage.Repository {
	t.Helper()

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{
		Kind: "sqlite",
		DSN:  "file:" + filepath.Join(t.TempDir(), "reports.sqlite"),
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(repo.Close)

	if err := load.Materialize(ctx, repo, fixtureTables(t), 0); err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	return repo
}

func colIdx(t *testing.T, rel *Relation, name string) int {
	t.Helper()
	for i, c := range rel.Columns {
		if c == name {
			return i
		}
	}
	t.Fatalf("%s: no column %q in %v", rel.Name, name, rel.Columns)
	return -1
}

// rowBy returns the first row whose column col equals want.
func rowBy(t *testing.T, rel *Relation, col string, want any) []any {
	t.Helper()
	i := colIdx(t, rel, col)
	for _, r := range rel.Rows {
		if r[i] == want {
			return r
		}
	}
	t.Fatalf("%s: no row with %s=%v", rel.Name, col, want)
	return nil
}

func TestRevenueByMonthYear(t *testing.T) {
	t.Parallel()

	repo := materializedRepo(t)
	rel, err := RevenueByMonthYear(context.Background(), repo)
	if err != nil {
		t.Fatalf("RevenueByMonthYear: %v", err)
	}

	wantCols := []string{"month_no", "month", "Year2016", "Year2017", "Year2018"}
	if !reflect.DeepEqual(rel.Columns, wantCols) {
		t.Fatalf("columns = %v, want %v", rel.Columns, wantCols)
	}

	// Only o1 and o2 are delivered with a timestamp; o3 (paid 50) must not
	// appear even though its status is delivered.
	if len(rel.Rows) != 2 {
		t.Fatalf("rows = %d, want 2: %v", len(rel.Rows), rel.Rows)
	}

	mar := rowBy(t, rel, "month_no", "03")
	if mar[1] != "Mar" || mar[2] != 0.0 || mar[3] != 100.0 || mar[4] != 0.0 {
		t.Errorf("March row = %v, want [03 Mar 0 100 0]", mar)
	}
	may := rowBy(t, rel, "month_no", "05")
	if may[1] != "May" || may[3] != 90.0 {
		t.Errorf("May row = %v, want Year2017=90", may)
	}

	// Ordered by month number ascending.
	if rel.Rows[0][0] != "03" || rel.Rows[1][0] != "05" {
		t.Errorf("row order = [%v %v], want [03 05]", rel.Rows[0][0], rel.Rows[1][0])
	}

	// Sum across the pivoted years equals total delivered revenue.
	var total float64
	for _, r := range rel.Rows {
		total += r[2].(float64) + r[3].(float64) + r[4].(float64)
	}
	if total != 190.0 {
		t.Errorf("pivot total = %v, want 190 (o1=100 + o2=90, o3 excluded)", total)
	}
}

func TestRevenueByMonthYearIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := materializedRepo(t)

	first, err := RevenueByMonthYear(ctx, repo)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := RevenueByMonthYear(ctx, repo)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n first: %v\nsecond: %v", first.Rows, second.Rows)
	}
}

func TestRevenueByMonthYearUnknownMonthSentinel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := materializedRepo(t)

	// Knock March out of the lookup table: the report must fall back to the
	// '0' label rather than dropping or failing the row.
	if err := repo.Exec(ctx, "DELETE FROM months WHERE month_no = '03'"); err != nil {
		t.Fatalf("delete month: %v", err)
	}

	rel, err := RevenueByMonthYear(ctx, repo)
	if err != nil {
		t.Fatalf("RevenueByMonthYear: %v", err)
	}
	mar := rowBy(t, rel, "month_no", "03")
	if mar[1] != "0" {
		t.Errorf("unmapped month label = %v, want \"0\"", mar[1])
	}
	if mar[3] != 100.0 {
		t.Errorf("Year2017 = %v, want 100 (revenue must survive the missing label)", mar[3])
	}
}

func TestDeliveryDateDifference(t *testing.T) {
	t.Parallel()

	repo := materializedRepo(t)
	rel, err := DeliveryDateDifference(context.Background(), repo)
	if err != nil {
		t.Fatalf("DeliveryDateDifference: %v", err)
	}

	// SP: only o1 counts (o3 has no delivery timestamp): 20 - 15 = 5.
	// RJ: o2 (-2, late) and o4 (3, shipped status still counts): avg 0.5,
	// truncated to 0. Ordered by difference ascending, so RJ first.
	want := [][]any{
		{"RJ", int64(0)},
		{"SP", int64(5)},
	}
	if !reflect.DeepEqual(rel.Rows, want) {
		t.Errorf("rows = %v, want %v", rel.Rows, want)
	}
}

func TestRealVsEstimatedDeliveredTime(t *testing.T) {
	t.Parallel()

	repo := materializedRepo(t)
	rel, err := RealVsEstimatedDeliveredTime(context.Background(), repo)
	if err != nil {
		t.Fatalf("RealVsEstimatedDeliveredTime: %v", err)
	}

	// Buckets follow the purchase timestamp; only delivered orders with a
	// timestamp qualify (o1, o2).
	mar := rowBy(t, rel, "month_no", "03")
	if mar[1] != "Mar" {
		t.Errorf("March label = %v", mar[1])
	}
	real2017 := mar[colIdx(t, rel, "Year2017_real_time")]
	est2017 := mar[colIdx(t, rel, "Year2017_estimated_time")]
	if real2017 != 14.0 || est2017 != 19.0 {
		t.Errorf("March 2017 = real %v est %v, want 14 / 19", real2017, est2017)
	}
	if v := mar[colIdx(t, rel, "Year2016_real_time")]; v != 0.0 {
		t.Errorf("empty year pivot = %v, want 0", v)
	}

	may := rowBy(t, rel, "month_no", "05")
	if may[colIdx(t, rel, "Year2017_real_time")] != 8.0 ||
		may[colIdx(t, rel, "Year2017_estimated_time")] != 6.0 {
		t.Errorf("May row = %v, want real 8 est 6", may)
	}
}

func TestCategoryFanOutVsPreAggregatedState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := materializedRepo(t)

	cats, err := Top10RevenueCategories(ctx, repo)
	if err != nil {
		t.Fatalf("Top10RevenueCategories: %v", err)
	}
	states, err := RevenuePerState(ctx, repo)
	if err != nil {
		t.Fatalf("RevenuePerState: %v", err)
	}

	// o2 has 3 items and a single 90.0 payment: the item join fans the
	// payment out to 3 rows, so the category metric triples it while the
	// pre-aggregated state metric keeps the true 90.
	hb := rowBy(t, cats, "Category", "health_beauty")
	if hb[1] != int64(1) || hb[2] != 270.0 {
		t.Errorf("health_beauty = %v, want Num_order=1 Revenue=270", hb)
	}
	rj := rowBy(t, states, "State", "RJ")
	if rj[1] != 90.0 {
		t.Errorf("RJ revenue = %v, want 90", rj[1])
	}
	if hb[2].(float64) != 3*rj[1].(float64) {
		t.Errorf("fan-out factor: category %v vs 3 x state %v", hb[2], rj[1])
	}

	// o1 contributes a single joinable item (its second item's product is
	// unknown), so both metrics agree on its 100 total.
	fd := rowBy(t, cats, "Category", "furniture_decor")
	sp := rowBy(t, states, "State", "SP")
	if fd[2] != 100.0 || sp[1] != 100.0 {
		t.Errorf("furniture_decor = %v, SP = %v, want 100 in both", fd[2], sp[1])
	}

	// Ranking orders: categories by fanned revenue desc, states by true
	// revenue desc.
	if cats.Rows[0][0] != "health_beauty" || states.Rows[0][0] != "SP" {
		t.Errorf("order: categories %v, states %v", cats.Rows[0][0], states.Rows[0][0])
	}

	least, err := Top10LeastRevenueCategories(ctx, repo)
	if err != nil {
		t.Fatalf("Top10LeastRevenueCategories: %v", err)
	}
	if least.Rows[0][0] != "furniture_decor" {
		t.Errorf("least-revenue first row = %v, want furniture_decor", least.Rows[0][0])
	}
}

func TestGlobalAmmountOrderStatus(t *testing.T) {
	t.Parallel()

	repo := materializedRepo(t)
	rel, err := GlobalAmmountOrderStatus(context.Background(), repo)
	if err != nil {
		t.Fatalf("GlobalAmmountOrderStatus: %v", err)
	}

	want := [][]any{
		{"delivered", int64(3)},
		{"shipped", int64(1)},
	}
	if !reflect.DeepEqual(rel.Rows, want) {
		t.Errorf("rows = %v, want %v", rel.Rows, want)
	}
}

func TestOrdersPerMonth(t *testing.T) {
	t.Parallel()

	repo := materializedRepo(t)
	rel, err := OrdersPerMonth(context.Background(), repo)
	if err != nil {
		t.Fatalf("OrdersPerMonth: %v", err)
	}

	want := [][]any{
		{"2017-03", int64(2)},
		{"2017-05", int64(1)},
		{"2017-06", int64(1)},
	}
	if !reflect.DeepEqual(rel.Rows, want) {
		t.Errorf("rows = %v, want %v", rel.Rows, want)
	}
}

func TestOrdersPerDayAndHolidays2017(t *testing.T) {
	t.Parallel()

	repo := materializedRepo(t)
	rel, err := OrdersPerDayAndHolidays2017(context.Background(), repo)
	if err != nil {
		t.Fatalf("OrdersPerDayAndHolidays2017: %v", err)
	}

	want := [][]any{
		{ts(2017, 3, 1).UnixMilli(), int64(1), true},
		{ts(2017, 3, 10).UnixMilli(), int64(1), false},
		{ts(2017, 5, 2).UnixMilli(), int64(1), false},
		{ts(2017, 6, 1).UnixMilli(), int64(1), false},
	}
	if !reflect.DeepEqual(rel.Rows, want) {
		t.Errorf("rows = %v, want %v", rel.Rows, want)
	}
}

func TestFreightValueWeightRelationship(t *testing.T) {
	t.Parallel()

	repo := materializedRepo(t)
	rel, err := FreightValueWeightRelationship(context.Background(), repo)
	if err != nil {
		t.Fatalf("FreightValueWeightRelationship: %v", err)
	}

	// o1's second item has no product row, so its weight contributes 0 while
	// its freight still counts. o3 qualifies on status alone despite the
	// missing delivery timestamp; shipped o4 does not.
	want := [][]any{
		{"o1", 12.0, 1000.0},
		{"o2", 15.0, 1500.0},
		{"o3", 7.0, 1000.0},
	}
	if !reflect.DeepEqual(rel.Rows, want) {
		t.Errorf("rows = %v, want %v", rel.Rows, want)
	}
}

func TestMultiPaymentOrderCountedOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := materializedRepo(t)

	// o1 paid 100 across two installments; both the monthly pivot and the
	// state rollup must see the full total exactly once.
	rev, err := RevenueByMonthYear(ctx, repo)
	if err != nil {
		t.Fatalf("RevenueByMonthYear: %v", err)
	}
	mar := rowBy(t, rev, "month_no", "03")
	if got := mar[colIdx(t, rev, "Year2017")]; got != 100.0 {
		t.Errorf("March Year2017 = %v, want 100 (60 + 40 installments)", got)
	}

	states, err := RevenuePerState(ctx, repo)
	if err != nil {
		t.Fatalf("RevenuePerState: %v", err)
	}
	sp := rowBy(t, states, "State", "SP")
	if sp[1] != 100.0 {
		t.Errorf("SP revenue = %v, want 100 (60 + 40 installments)", sp[1])
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	names := Names()
	if len(names) != len(registry) {
		t.Fatalf("Names() = %d entries, want %d", len(names), len(registry))
	}
	if names[0] != "revenue_by_month_year" {
		t.Errorf("first report = %q", names[0])
	}
	for _, n := range names {
		if _, ok := Lookup(n); !ok {
			t.Errorf("Lookup(%q) not found", n)
		}
	}
	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup accepted unknown report")
	}
	if _, err := Run(context.Background(), nil, "nope"); err == nil {
		t.Error("Run accepted unknown report")
	}
}

func TestQueryErrorOnMissingTables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{
		Kind: "sqlite",
		DSN:  "file:" + filepath.Join(t.TempDir(), "empty.sqlite"),
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	t.Cleanup(repo.Close)

	// Nothing materialized: every report must surface ErrQuery.
	if _, err := RevenueByMonthYear(ctx, repo); !errors.Is(err, ErrQuery) {
		t.Errorf("err = %v, want ErrQuery", err)
	}
}
