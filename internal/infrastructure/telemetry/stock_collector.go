package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockCollector reports per-tenant stock health at scrape time
type StockCollector struct {
	db      *gorm.DB
	logger  *zap.Logger
	timeout time.Duration

	lowStock   *prometheus.Desc
	outOfStock *prometheus.Desc
	stockValue *prometheus.Desc
}

// NewStockCollector creates the collector. Each scrape runs one grouped
// query over the items table.
func NewStockCollector(db *gorm.DB, logger *zap.Logger) *StockCollector {
	return &StockCollector{
		db:      db,
		logger:  logger,
		timeout: 5 * time.Second,
		lowStock: prometheus.NewDesc("pos_stock_low_items",
			"Items at or below their minimum stock", []string{"tenant_id"}, nil),
		outOfStock: prometheus.NewDesc("pos_stock_out_of_stock_items",
			"Items with no stock left", []string{"tenant_id"}, nil),
		stockValue: prometheus.NewDesc("pos_stock_value",
			"Current stock valued at cost price", []string{"tenant_id"}, nil),
	}
}

// Describe implements prometheus.Collector
func (c *StockCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.lowStock
	ch <- c.outOfStock
	ch <- c.stockValue
}

// Collect implements prometheus.Collector
func (c *StockCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	var rows []struct {
		TenantID   string
		LowStock   float64
		OutOfStock float64
		StockValue float64
	}
	err := c.db.WithContext(ctx).
		Table("items").
		Select(`tenant_id,
			COALESCE(SUM(CASE WHEN stock_minimum_stock > 0 AND stock_current_quantity <= stock_minimum_stock THEN 1 ELSE 0 END), 0) AS low_stock,
			COALESCE(SUM(CASE WHEN stock_current_quantity <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock,
			COALESCE(SUM(stock_current_quantity * price_cost_price), 0) AS stock_value`).
		Group("tenant_id").
		Scan(&rows).Error
	if err != nil {
		c.logger.Warn("stock metrics query failed", zap.Error(err))
		return
	}
	for _, r := range rows {
		ch <- prometheus.MustNewConstMetric(c.lowStock, prometheus.GaugeValue, r.LowStock, r.TenantID)
		ch <- prometheus.MustNewConstMetric(c.outOfStock, prometheus.GaugeValue, r.OutOfStock, r.TenantID)
		ch <- prometheus.MustNewConstMetric(c.stockValue, prometheus.GaugeValue, r.StockValue, r.TenantID)
	}
}
