package persistence

import "strings"

// sortColumns whitelists the columns a listing may be ordered by. Order
// fields arrive straight from query strings, so only whitelisted names ever
// reach ORDER BY.
type sortColumns map[string]bool

// sortable always allows id and the audit timestamps
func sortable(columns ...string) sortColumns {
	set := sortColumns{"id": true, "created_at": true, "updated_at": true}
	for _, c := range columns {
		set[c] = true
	}
	return set
}

func (s sortColumns) without(column string) sortColumns {
	out := make(sortColumns, len(s))
	for c := range s {
		if c != column {
			out[c] = true
		}
	}
	return out
}

var (
	ItemSortFields = sortable("name", "code", "status",
		"stock_current_quantity", "stock_minimum_stock", "price_selling_price", "price_cost_price")
	ClassificationSortFields  = sortable("name", "status", "sort_order")
	KOTSortFields             = sortable("kot_number", "table_number", "kot_type", "status", "total_amount", "completed_at")
	SaleSortFields            = sortable("bill_number", "bill_type", "sale_date", "customer_name", "status", "payment_status", "pricing_grand_total")
	PurchaseSortFields        = sortable("purchase_number", "purchase_date", "vendor_name", "status", "payment_status", "pricing_grand_total")
	PartySortFields           = sortable("name", "type", "status", "points_balance")
	CouponSortFields          = sortable("code", "status", "valid_to", "used_count")
	StockAdjustmentSortFields = sortable("item_name", "type", "quantity")
)

// ValidateSortOrder returns ASC only for "asc" in any case; everything else is DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns the trimmed field when allowed lists it, and
// defaultField otherwise
func ValidateSortField(sortField string, allowed sortColumns, defaultField string) string {
	if field := strings.TrimSpace(sortField); allowed[field] {
		return field
	}
	return defaultField
}
