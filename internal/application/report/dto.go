package report

import (
	"time"

	"github.com/foodcourt/pos/internal/domain/report"
	"github.com/shopspring/decimal"
)

// Query is the common query of the report endpoints. Dates are YYYY-MM-DD in the
// shop time zone and both ends are inclusive; empty dates mean today.
type Query struct {
	StartDate      string `form:"startDate"`
	EndDate        string `form:"endDate"`
	Limit          int    `form:"limit"`
	OpeningBalance string `form:"openingBalance"`
}

// maxRangeDays bounds how far a single report may look
const maxRangeDays = 366

// Dashboard is the landing page summary: today's sales and tickets, the stock
// position and the best sellers
type Dashboard struct {
	Date        string                 `json:"date"`
	Sales       *report.SalesSummary   `json:"sales"`
	Kitchen     *report.KOTSummary     `json:"kitchen"`
	Stock       *report.StockValuation `json:"stock"`
	TopItems    []report.TopItem       `json:"topItems"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

func parseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
