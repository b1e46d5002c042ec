package persistence

import (
	"context"
	"sort"
	"time"

	"github.com/foodcourt/pos/internal/domain/kitchen"
	"github.com/foodcourt/pos/internal/domain/report"
	"github.com/foodcourt/pos/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportRepository implements report.Repository with aggregate queries.
// Every SUM is wrapped in COALESCE since decimal.Decimal cannot scan NULL.
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// completedSales selects the completed bills of the tenant inside the range
func (r *GormReportRepository) completedSales(ctx context.Context, f report.Filter) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("sales").
		Where("sales.tenant_id = ? AND sales.status = ?", f.TenantID, trade.SaleStatusCompleted).
		Where("sales.sale_date >= ? AND sales.sale_date < ?", f.Range.Start, f.Range.End)
}

// completedSaleLines joins bill lines to completedSales
func (r *GormReportRepository) completedSaleLines(ctx context.Context, f report.Filter) *gorm.DB {
	return r.completedSales(ctx, f).
		Joins("JOIN sale_items ON sale_items.sale_id = sales.id")
}

// SalesSummary totals completed bills and splits them by payment method
func (r *GormReportRepository) SalesSummary(ctx context.Context, f report.Filter) (*report.SalesSummary, error) {
	var totals struct {
		BillCount      int64
		GrossAmount    decimal.Decimal
		DiscountAmount decimal.Decimal
		TaxAmount      decimal.Decimal
		NetAmount      decimal.Decimal
		AmountReceived decimal.Decimal
	}
	if err := r.completedSales(ctx, f).
		Select(`COUNT(*) AS bill_count,
			COALESCE(SUM(pricing_sub_total), 0) AS gross_amount,
			COALESCE(SUM(pricing_discount_amount), 0) AS discount_amount,
			COALESCE(SUM(pricing_tax_amount), 0) AS tax_amount,
			COALESCE(SUM(pricing_grand_total), 0) AS net_amount,
			COALESCE(SUM(payment_amount_received), 0) AS amount_received`).
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	var methods []report.PaymentMethodTotal
	if err := r.completedSales(ctx, f).
		Select(`payment_method AS method, COUNT(*) AS bill_count,
			COALESCE(SUM(pricing_grand_total), 0) AS amount`).
		Group("payment_method").
		Order("payment_method").
		Scan(&methods).Error; err != nil {
		return nil, err
	}
	if methods == nil {
		methods = []report.PaymentMethodTotal{}
	}

	return &report.SalesSummary{
		BillCount:       totals.BillCount,
		GrossAmount:     totals.GrossAmount,
		DiscountAmount:  totals.DiscountAmount,
		TaxAmount:       totals.TaxAmount,
		NetAmount:       totals.NetAmount,
		AmountReceived:  totals.AmountReceived,
		ByPaymentMethod: methods,
	}, nil
}

// DailySales returns one row per day that has bills. Days are bucketed in Go in the
// time zone of the range, which keeps the query free of dialect date functions.
func (r *GormReportRepository) DailySales(ctx context.Context, f report.Filter) ([]report.DailySales, error) {
	var rows []struct {
		SaleDate   time.Time
		GrandTotal decimal.Decimal
		TaxAmount  decimal.Decimal
	}
	if err := r.completedSales(ctx, f).
		Select("sale_date, pricing_grand_total AS grand_total, pricing_tax_amount AS tax_amount").
		Order("sale_date").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	loc := f.Range.Start.Location()
	var out []report.DailySales
	index := make(map[string]int)
	for _, row := range rows {
		key := row.SaleDate.In(loc).Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			out = append(out, report.DailySales{Date: key, NetAmount: decimal.Zero, TaxAmount: decimal.Zero})
			i = len(out) - 1
			index[key] = i
		}
		out[i].BillCount++
		out[i].NetAmount = out[i].NetAmount.Add(row.GrandTotal)
		out[i].TaxAmount = out[i].TaxAmount.Add(row.TaxAmount)
	}
	return out, nil
}

// TopItems ranks sold items by quantity, then revenue
func (r *GormReportRepository) TopItems(ctx context.Context, f report.Filter) ([]report.TopItem, error) {
	var items []report.TopItem
	query := r.completedSaleLines(ctx, f).
		Select(`sale_items.item_id AS item_id, MAX(sale_items.item_name) AS item_name,
			COALESCE(SUM(sale_items.quantity), 0) AS quantity,
			COALESCE(SUM(sale_items.total_amount), 0) AS revenue`).
		Group("sale_items.item_id").
		Order("quantity DESC, revenue DESC")
	if f.TopN > 0 {
		query = query.Limit(f.TopN)
	}
	if err := query.Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GSTSlabs groups the lines of GST bills by tax rate
func (r *GormReportRepository) GSTSlabs(ctx context.Context, f report.Filter) ([]report.GSTSlab, error) {
	var rows []struct {
		TaxRate      decimal.Decimal
		TaxableValue decimal.Decimal
		TaxAmount    decimal.Decimal
	}
	if err := r.completedSaleLines(ctx, f).
		Where("sales.bill_type = ?", trade.BillTypeGST).
		Select(`sale_items.tax_rate AS tax_rate,
			COALESCE(SUM(sale_items.total_amount), 0) AS taxable_value,
			COALESCE(SUM(sale_items.tax_amount), 0) AS tax_amount`).
		Group("sale_items.tax_rate").
		Order("sale_items.tax_rate").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	slabs := make([]report.GSTSlab, len(rows))
	for i, row := range rows {
		slabs[i] = report.GSTSlab{TaxRate: row.TaxRate, TaxableValue: row.TaxableValue, TaxAmount: row.TaxAmount}
	}
	return slabs, nil
}

// ProfitLoss sums revenue net of tax, the cost of the goods sold at current cost
// prices and the purchases booked in the range
func (r *GormReportRepository) ProfitLoss(ctx context.Context, f report.Filter) (*report.ProfitLoss, error) {
	var sales struct {
		GrandTotal decimal.Decimal
		TaxAmount  decimal.Decimal
	}
	if err := r.completedSales(ctx, f).
		Select(`COALESCE(SUM(pricing_grand_total), 0) AS grand_total,
			COALESCE(SUM(pricing_tax_amount), 0) AS tax_amount`).
		Scan(&sales).Error; err != nil {
		return nil, err
	}

	var cost struct{ Amount decimal.Decimal }
	if err := r.completedSaleLines(ctx, f).
		Joins("LEFT JOIN items ON items.id = sale_items.item_id").
		Select("COALESCE(SUM(sale_items.quantity * COALESCE(items.price_cost_price, 0)), 0) AS amount").
		Scan(&cost).Error; err != nil {
		return nil, err
	}

	var purchases struct{ Amount decimal.Decimal }
	if err := r.db.WithContext(ctx).
		Table("purchases").
		Where("tenant_id = ? AND status <> ?", f.TenantID, trade.PurchaseStatusCancelled).
		Where("purchase_date >= ? AND purchase_date < ?", f.Range.Start, f.Range.End).
		Select("COALESCE(SUM(pricing_grand_total), 0) AS amount").
		Scan(&purchases).Error; err != nil {
		return nil, err
	}

	return &report.ProfitLoss{
		Revenue:      sales.GrandTotal.Sub(sales.TaxAmount),
		TaxCollected: sales.TaxAmount,
		CostOfGoods:  cost.Amount,
		Purchases:    purchases.Amount,
	}, nil
}

// CashEntries merges sale receipts and purchase payments in date order
func (r *GormReportRepository) CashEntries(ctx context.Context, f report.Filter) ([]report.CashEntry, error) {
	var receipts []struct {
		SaleDate       time.Time
		BillNumber     string
		CustomerName   string
		PaymentMethod  string
		AmountReceived decimal.Decimal
	}
	if err := r.completedSales(ctx, f).
		Where("payment_amount_received > 0").
		Select(`sale_date, bill_number, customer_name, payment_method,
			payment_amount_received AS amount_received`).
		Scan(&receipts).Error; err != nil {
		return nil, err
	}

	var payments []struct {
		PurchaseDate   time.Time
		PurchaseNumber string
		VendorName     string
		PaymentMethod  string
		AmountReceived decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Table("purchases").
		Where("tenant_id = ? AND status <> ?", f.TenantID, trade.PurchaseStatusCancelled).
		Where("purchase_date >= ? AND purchase_date < ?", f.Range.Start, f.Range.End).
		Where("payment_amount_received > 0").
		Select(`purchase_date, purchase_number, vendor_name, payment_method,
			payment_amount_received AS amount_received`).
		Scan(&payments).Error; err != nil {
		return nil, err
	}

	entries := make([]report.CashEntry, 0, len(receipts)+len(payments))
	for _, s := range receipts {
		entries = append(entries, report.CashEntry{
			Date:      s.SaleDate,
			Reference: s.BillNumber,
			Party:     s.CustomerName,
			Method:    s.PaymentMethod,
			Direction: report.CashIn,
			Amount:    s.AmountReceived,
		})
	}
	for _, p := range payments {
		entries = append(entries, report.CashEntry{
			Date:      p.PurchaseDate,
			Reference: p.PurchaseNumber,
			Party:     p.VendorName,
			Method:    p.PaymentMethod,
			Direction: report.CashOut,
			Amount:    p.AmountReceived,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Reference < entries[j].Reference
		}
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

// KOTStatusCounts counts the tickets opened in the range by status
func (r *GormReportRepository) KOTStatusCounts(ctx context.Context, f report.Filter) ([]report.KOTStatusCount, error) {
	var counts []report.KOTStatusCount
	if err := r.db.WithContext(ctx).
		Model(&kitchen.KOT{}).
		Where("tenant_id = ?", f.TenantID).
		Where("created_at >= ? AND created_at < ?", f.Range.Start, f.Range.End).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount").
		Group("status").
		Order("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// StockValuation values every item's current quantity at its cost price
func (r *GormReportRepository) StockValuation(ctx context.Context, tenantID uuid.UUID) (*report.StockValuation, error) {
	var v report.StockValuation
	if err := r.db.WithContext(ctx).
		Table("items").
		Where("tenant_id = ?", tenantID).
		Select(`COUNT(*) AS item_count,
			COALESCE(SUM(stock_current_quantity), 0) AS total_quantity,
			COALESCE(SUM(stock_current_quantity * price_cost_price), 0) AS total_value,
			COALESCE(SUM(CASE WHEN stock_minimum_stock > 0 AND stock_current_quantity <= stock_minimum_stock THEN 1 ELSE 0 END), 0) AS low_stock_count,
			COALESCE(SUM(CASE WHEN stock_current_quantity <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock`).
		Scan(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// Ensure GormReportRepository implements Repository
var _ report.Repository = (*GormReportRepository)(nil)
