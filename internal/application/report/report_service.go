package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodcourt/pos/internal/domain/report"
	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// ReportService answers the read-only report queries. Results are cached for a
// short TTL keyed by tenant, report and range; a failing cache only costs a query.
type ReportService struct {
	repo     report.Repository
	cache    report.Cache
	cacheTTL time.Duration
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService creates a new ReportService. cache may be nil to disable caching.
func NewReportService(repo report.Repository, cache report.Cache, cacheTTL time.Duration, location *time.Location, logger *zap.Logger) *ReportService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// SalesSummary returns bill count, amounts and the split by payment method
func (s *ReportService) SalesSummary(ctx context.Context, tenantID uuid.UUID, q Query) (*report.SalesSummary, error) {
	f, err := s.filter(tenantID, q, 0)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, "sales-summary", f, func() (*report.SalesSummary, error) {
		summary, err := s.repo.SalesSummary(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("sales summary: %w", err)
		}
		summary.Range = f.Range
		summary.ComputeAverage()
		return summary, nil
	})
}

// DailySales returns one point per calendar day of the range, zero-filled
func (s *ReportService) DailySales(ctx context.Context, tenantID uuid.UUID, q Query) ([]report.DailySales, error) {
	f, err := s.filter(tenantID, q, 0)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, "daily-sales", f, func() ([]report.DailySales, error) {
		rows, err := s.repo.DailySales(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("daily sales: %w", err)
		}
		return fillDays(f.Range, rows), nil
	})
}

// TopItems ranks items by quantity sold
func (s *ReportService) TopItems(ctx context.Context, tenantID uuid.UUID, q Query) ([]report.TopItem, error) {
	f, err := s.filter(tenantID, q, 10)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, "top-items", f, func() ([]report.TopItem, error) {
		items, err := s.repo.TopItems(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("top items: %w", err)
		}
		for i := range items {
			items[i].Rank = i + 1
		}
		return items, nil
	})
}

// GST groups GST bills by tax rate with the CGST/SGST split
func (s *ReportService) GST(ctx context.Context, tenantID uuid.UUID, q Query) (*report.GSTReport, error) {
	f, err := s.filter(tenantID, q, 0)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, "gst", f, func() (*report.GSTReport, error) {
		slabs, err := s.repo.GSTSlabs(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("gst slabs: %w", err)
		}
		r := &report.GSTReport{Range: f.Range, Slabs: slabs}
		if r.Slabs == nil {
			r.Slabs = []report.GSTSlab{}
		}
		r.Totals()
		return r, nil
	})
}

// ProfitLoss compares revenue with the cost of goods sold
func (s *ReportService) ProfitLoss(ctx context.Context, tenantID uuid.UUID, q Query) (*report.ProfitLoss, error) {
	f, err := s.filter(tenantID, q, 0)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, "profit-loss", f, func() (*report.ProfitLoss, error) {
		pl, err := s.repo.ProfitLoss(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("profit and loss: %w", err)
		}
		pl.Range = f.Range
		pl.Compute()
		return pl, nil
	})
}

// CashBook lists receipts and payments with a running balance from the opening balance
func (s *ReportService) CashBook(ctx context.Context, tenantID uuid.UUID, q Query) (*report.CashBook, error) {
	opening, err := parseAmount(q.OpeningBalance)
	if err != nil {
		return nil, shared.NewValidationError("invalid opening balance %q", q.OpeningBalance)
	}
	f, err := s.filter(tenantID, q, 0)
	if err != nil {
		return nil, err
	}
	entries, err := cached(ctx, s, "cash-book", f, func() ([]report.CashEntry, error) {
		entries, err := s.repo.CashEntries(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("cash entries: %w", err)
		}
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []report.CashEntry{}
	}
	// The opening balance is a request parameter, so the running balance is computed
	// after the cache.
	book := &report.CashBook{Range: f.Range, OpeningBalance: opening, Entries: entries}
	book.Run()
	return book, nil
}

// KOTSummary counts tickets by status
func (s *ReportService) KOTSummary(ctx context.Context, tenantID uuid.UUID, q Query) (*report.KOTSummary, error) {
	f, err := s.filter(tenantID, q, 0)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, "kot-summary", f, func() (*report.KOTSummary, error) {
		counts, err := s.repo.KOTStatusCounts(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("kot summary: %w", err)
		}
		summary := &report.KOTSummary{Range: f.Range, ByStatus: counts}
		if summary.ByStatus == nil {
			summary.ByStatus = []report.KOTStatusCount{}
		}
		for _, c := range counts {
			summary.Total += c.Count
		}
		return summary, nil
	})
}

// StockValuation values current stock at cost. It is never cached.
func (s *ReportService) StockValuation(ctx context.Context, tenantID uuid.UUID) (*report.StockValuation, error) {
	v, err := s.repo.StockValuation(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("stock valuation: %w", err)
	}
	return v, nil
}

// Dashboard combines today's figures for the landing page
func (s *ReportService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*Dashboard, error) {
	today := Query{}
	sales, err := s.SalesSummary(ctx, tenantID, today)
	if err != nil {
		return nil, err
	}
	kitchen, err := s.KOTSummary(ctx, tenantID, today)
	if err != nil {
		return nil, err
	}
	stock, err := s.StockValuation(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	top, err := s.TopItems(ctx, tenantID, Query{Limit: 5})
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.location)
	return &Dashboard{
		Date:        now.Format(dateLayout),
		Sales:       sales,
		Kitchen:     kitchen,
		Stock:       stock,
		TopItems:    top,
		GeneratedAt: now,
	}, nil
}

// filter parses the query into a tenant-scoped range in the shop time zone
func (s *ReportService) filter(tenantID uuid.UUID, q Query, defaultTop int) (report.Filter, error) {
	from, err := s.parseDate("startDate", q.StartDate)
	if err != nil {
		return report.Filter{}, err
	}
	to, err := s.parseDate("endDate", q.EndDate)
	if err != nil {
		return report.Filter{}, err
	}
	r := report.NewRange(from, to, s.now().In(s.location))
	if r.End.Sub(r.Start) > maxRangeDays*24*time.Hour+time.Hour {
		return report.Filter{}, shared.NewValidationError("date range cannot exceed %d days", maxRangeDays)
	}

	top := q.Limit
	if top <= 0 {
		top = defaultTop
	}
	if top > 100 {
		top = 100
	}
	return report.Filter{TenantID: tenantID, Range: r, TopN: top}, nil
}

func (s *ReportService) parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, s.location)
	if err != nil {
		return time.Time{}, shared.NewValidationError("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

// cached returns the cached result for the report and filter or computes and stores it
func cached[T any](ctx context.Context, s *ReportService, name string, f report.Filter, compute func() (T, error)) (T, error) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return compute()
	}
	key := cacheKey(name, f)

	var zero T
	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		s.logger.Warn("Discarding unreadable cached report", zap.String("key", key))
	case !errors.Is(err, report.ErrCacheMiss):
		s.logger.Warn("Report cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err := compute()
	if err != nil {
		return zero, err
	}
	if raw, err := json.Marshal(v); err == nil {
		if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
			s.logger.Warn("Report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func cacheKey(name string, f report.Filter) string {
	return fmt.Sprintf("report:%s:%s:%d:%d:%d", f.TenantID, name, f.Range.Start.Unix(), f.Range.End.Unix(), f.TopN)
}

// fillDays returns one entry per day of the range, keeping the order of the calendar
func fillDays(r report.Range, rows []report.DailySales) []report.DailySales {
	byDate := make(map[string]report.DailySales, len(rows))
	for _, row := range rows {
		byDate[row.Date] = row
	}
	var out []report.DailySales
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		row, ok := byDate[key]
		if !ok {
			row = report.DailySales{Date: key, NetAmount: decimal.Zero, TaxAmount: decimal.Zero}
		}
		out = append(out, row)
	}
	return out
}
