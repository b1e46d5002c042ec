package telemetry

import (
	"context"
	"time"

	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type slowQueryStartKey struct{}

// RegisterDBTracing installs otelgorm so every statement becomes a span, and a
// callback logging statements slower than cfg.DBSlowQueryThresh. Query
// variables stay out of spans unless cfg.DBLogFullSQL is set.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, dbSystem string, logger *zap.Logger, opts ...otelgorm.Option) error {
	if !cfg.DBTraceEnabled {
		return nil
	}
	opts = append([]otelgorm.Option{otelgorm.WithDBName(dbSystem)}, opts...)
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := registerSlowQueryLog(db, cfg.DBSlowQueryThresh, cfg.DBLogFullSQL, logger); err != nil {
		return err
	}
	logger.Info("Database tracing enabled",
		zap.String("db_system", dbSystem),
		zap.Bool("log_full_sql", cfg.DBLogFullSQL),
		zap.Duration("slow_query_threshold", cfg.DBSlowQueryThresh),
	)
	return nil
}

func registerSlowQueryLog(db *gorm.DB, threshold time.Duration, withSQL bool, logger *zap.Logger) error {
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, slowQueryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		if tx.Statement.Context == nil {
			return
		}
		start, ok := tx.Statement.Context.Value(slowQueryStartKey{}).(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(start)
		if elapsed <= threshold {
			return
		}
		fields := []zap.Field{
			zap.String("table", tx.Statement.Table),
			zap.Duration("elapsed", elapsed),
			zap.Int64("rows", tx.Statement.RowsAffected),
			zap.String("trace_id", GetTraceID(tx.Statement.Context)),
		}
		if withSQL {
			fields = append(fields, zap.String("sql", tx.Statement.SQL.String()))
		}
		logger.Warn("slow query", fields...)
	}

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("pos:slow_before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("pos:slow_after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("pos:slow_before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("pos:slow_after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("pos:slow_before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("pos:slow_after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("pos:slow_before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("pos:slow_after_delete", after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("pos:slow_before_raw", before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("pos:slow_after_raw", after)
}
