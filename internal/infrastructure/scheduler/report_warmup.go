package scheduler

import (
	"context"
	"errors"
	"fmt"

	reportapp "github.com/foodcourt/pos/internal/application/report"
	"github.com/foodcourt/pos/internal/domain/report"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReportSource is the part of the report service the warm-up calls
type ReportSource interface {
	SalesSummary(ctx context.Context, tenantID uuid.UUID, q reportapp.Query) (*report.SalesSummary, error)
	DailySales(ctx context.Context, tenantID uuid.UUID, q reportapp.Query) ([]report.DailySales, error)
	TopItems(ctx context.Context, tenantID uuid.UUID, q reportapp.Query) ([]report.TopItem, error)
	GST(ctx context.Context, tenantID uuid.UUID, q reportapp.Query) (*report.GSTReport, error)
	ProfitLoss(ctx context.Context, tenantID uuid.UUID, q reportapp.Query) (*report.ProfitLoss, error)
	KOTSummary(ctx context.Context, tenantID uuid.UUID, q reportapp.Query) (*report.KOTSummary, error)
}

// ReportWarmer computes the closed day's reports so the morning's first
// requests are served from the cache
type ReportWarmer struct {
	reports ReportSource
	logger  *zap.Logger
}

// NewReportWarmer creates a warm-up executor
func NewReportWarmer(reports ReportSource, logger *zap.Logger) *ReportWarmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportWarmer{reports: reports, logger: logger}
}

// Execute implements JobExecutor. Every report is attempted; the errors are
// joined.
func (w *ReportWarmer) Execute(ctx context.Context, job *Job) error {
	day := job.Day.Format("2006-01-02")
	q := reportapp.Query{StartDate: day, EndDate: day}

	steps := []struct {
		name string
		run  func() error
	}{
		{"sales-summary", func() error { _, err := w.reports.SalesSummary(ctx, job.TenantID, q); return err }},
		{"daily-sales", func() error { _, err := w.reports.DailySales(ctx, job.TenantID, q); return err }},
		{"top-items", func() error { _, err := w.reports.TopItems(ctx, job.TenantID, q); return err }},
		{"gst", func() error { _, err := w.reports.GST(ctx, job.TenantID, q); return err }},
		{"profit-loss", func() error { _, err := w.reports.ProfitLoss(ctx, job.TenantID, q); return err }},
		{"kot-summary", func() error { _, err := w.reports.KOTSummary(ctx, job.TenantID, q); return err }},
	}

	var errs []error
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := step.run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	w.logger.Debug("Reports warmed",
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("day", day),
	)
	return nil
}
