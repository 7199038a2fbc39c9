package dataset

import "olistetl/internal/ddl"

// Schema declares one CSV source: the physical table name it materializes
// into, the default CSV filename, and the typed column list. Columns not
// declared here are ignored when present in the file.
type Schema struct {
	Table   string
	CSVName string
	Columns []Column

	// PrimaryKey lists the columns forming the table's key, if any.
	PrimaryKey []string
}

// Schemas returns the full marketplace dataset in load order. Every table is
// required; a missing CSV aborts the extract stage.
func Schemas() []Schema {
	return []Schema{
		{
			Table:   "olist_orders",
			CSVName: "olist_orders_dataset.csv",
			Columns: []Column{
				{Name: "order_id", Kind: ddl.KindText},
				{Name: "customer_id", Kind: ddl.KindText},
				{Name: "order_status", Kind: ddl.KindText},
				{Name: "order_purchase_timestamp", Kind: ddl.KindTimestamp},
				{Name: "order_approved_at", Kind: ddl.KindTimestamp},
				{Name: "order_delivered_carrier_date", Kind: ddl.KindTimestamp},
				{Name: "order_delivered_customer_date", Kind: ddl.KindTimestamp},
				{Name: "order_estimated_delivery_date", Kind: ddl.KindTimestamp},
			},
			PrimaryKey: []string{"order_id"},
		},
		{
			Table:   "olist_order_items",
			CSVName: "olist_order_items_dataset.csv",
			Columns: []Column{
				{Name: "order_id", Kind: ddl.KindText},
				{Name: "order_item_id", Kind: ddl.KindInt},
				{Name: "product_id", Kind: ddl.KindText},
				{Name: "seller_id", Kind: ddl.KindText},
				{Name: "shipping_limit_date", Kind: ddl.KindTimestamp},
				{Name: "price", Kind: ddl.KindFloat},
				{Name: "freight_value", Kind: ddl.KindFloat},
			},
			PrimaryKey: []string{"order_id", "order_item_id"},
		},
		{
			Table:   "olist_order_payments",
			CSVName: "olist_order_payments_dataset.csv",
			Columns: []Column{
				{Name: "order_id", Kind: ddl.KindText},
				{Name: "payment_sequential", Kind: ddl.KindInt},
				{Name: "payment_type", Kind: ddl.KindText},
				{Name: "payment_installments", Kind: ddl.KindInt},
				{Name: "payment_value", Kind: ddl.KindFloat},
			},
		},
		{
			Table:   "olist_customers",
			CSVName: "olist_customers_dataset.csv",
			Columns: []Column{
				{Name: "customer_id", Kind: ddl.KindText},
				{Name: "customer_unique_id", Kind: ddl.KindText},
				{Name: "customer_zip_code_prefix", Kind: ddl.KindText},
				{Name: "customer_city", Kind: ddl.KindText},
				{Name: "customer_state", Kind: ddl.KindText},
			},
			PrimaryKey: []string{"customer_id"},
		},
		{
			Table:   "olist_products",
			CSVName: "olist_products_dataset.csv",
			Columns: []Column{
				{Name: "product_id", Kind: ddl.KindText},
				{Name: "product_category_name", Kind: ddl.KindText},
				{Name: "product_name_lenght", Kind: ddl.KindInt},
				{Name: "product_description_lenght", Kind: ddl.KindInt},
				{Name: "product_photos_qty", Kind: ddl.KindInt},
				{Name: "product_weight_g", Kind: ddl.KindFloat},
				{Name: "product_length_cm", Kind: ddl.KindFloat},
				{Name: "product_height_cm", Kind: ddl.KindFloat},
				{Name: "product_width_cm", Kind: ddl.KindFloat},
			},
			PrimaryKey: []string{"product_id"},
		},
		{
			Table:   "olist_sellers",
			CSVName: "olist_sellers_dataset.csv",
			Columns: []Column{
				{Name: "seller_id", Kind: ddl.KindText},
				{Name: "seller_zip_code_prefix", Kind: ddl.KindText},
				{Name: "seller_city", Kind: ddl.KindText},
				{Name: "seller_state", Kind: ddl.KindText},
			},
			PrimaryKey: []string{"seller_id"},
		},
		{
			// Zip prefixes repeat, so no key.
			Table:   "olist_geolocation",
			CSVName: "olist_geolocation_dataset.csv",
			Columns: []Column{
				{Name: "geolocation_zip_code_prefix", Kind: ddl.KindText},
				{Name: "geolocation_lat", Kind: ddl.KindFloat},
				{Name: "geolocation_lng", Kind: ddl.KindFloat},
				{Name: "geolocation_city", Kind: ddl.KindText},
				{Name: "geolocation_state", Kind: ddl.KindText},
			},
		},
		{
			// review_id is not unique in the raw dump, so no key.
			Table:   "olist_order_reviews",
			CSVName: "olist_order_reviews_dataset.csv",
			Columns: []Column{
				{Name: "review_id", Kind: ddl.KindText},
				{Name: "order_id", Kind: ddl.KindText},
				{Name: "review_score", Kind: ddl.KindInt},
				{Name: "review_comment_title", Kind: ddl.KindText},
				{Name: "review_comment_message", Kind: ddl.KindText},
				{Name: "review_creation_date", Kind: ddl.KindTimestamp},
				{Name: "review_answer_timestamp", Kind: ddl.KindTimestamp},
			},
		},
		{
			Table:   "product_category_name_translation",
			CSVName: "product_category_name_translation.csv",
			Columns: []Column{
				{Name: "product_category_name", Kind: ddl.KindText},
				{Name: "product_category_name_english", Kind: ddl.KindText},
			},
			PrimaryKey: []string{"product_category_name"},
		},
	}
}

// HolidaysSchema describes the public_holidays table appended by the
// holidays client. It is not read from CSV.
func HolidaysSchema() Schema {
	return Schema{
		Table: "public_holidays",
		Columns: []Column{
			{Name: "date", Kind: ddl.KindTimestamp},
			{Name: "local_name", Kind: ddl.KindText},
			{Name: "name", Kind: ddl.KindText},
			{Name: "country_code", Kind: ddl.KindText},
			{Name: "is_fixed", Kind: ddl.KindBool},
			{Name: "is_global", Kind: ddl.KindBool},
			{Name: "launch_year", Kind: ddl.KindInt},
		},
	}
}
