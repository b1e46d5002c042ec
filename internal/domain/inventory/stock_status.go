package inventory

import "github.com/shopspring/decimal"

// StockStatus is the label shown next to a stock bucket
type StockStatus string

const (
	StockStatusOutOfStock  StockStatus = "OutOfStock"
	StockStatusLowStock    StockStatus = "LowStock"
	StockStatusOverstock   StockStatus = "Overstock"
	StockStatusWellStocked StockStatus = "WellStocked"
)

// DeriveStockStatus labels a stock level against its thresholds.
// A max of zero or less means the bucket has no ceiling.
func DeriveStockStatus(stock, min, max decimal.Decimal) StockStatus {
	switch {
	case stock.LessThanOrEqual(decimal.Zero):
		return StockStatusOutOfStock
	case stock.LessThanOrEqual(min):
		return StockStatusLowStock
	case max.IsPositive() && stock.GreaterThan(max):
		return StockStatusOverstock
	default:
		return StockStatusWellStocked
	}
}
