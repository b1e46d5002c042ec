package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantProvider lists the shops that have at least one active user
type TenantProvider interface {
	ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// Schedule is a fixed time of day
type Schedule struct {
	Minute int
	Hour   int
}

// ParseSchedule parses "minute hour", e.g. "30 2" for 02:30
func ParseSchedule(expr string) (Schedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 2 {
		return Schedule{}, fmt.Errorf("%w: %q: want \"minute hour\"", ErrInvalidSchedule, expr)
	}
	minute, err := strconv.Atoi(fields[0])
	if err != nil || minute < 0 || minute > 59 {
		return Schedule{}, fmt.Errorf("%w: minute %q", ErrInvalidSchedule, fields[0])
	}
	hour, err := strconv.Atoi(fields[1])
	if err != nil || hour < 0 || hour > 23 {
		return Schedule{}, fmt.Errorf("%w: hour %q", ErrInvalidSchedule, fields[1])
	}
	return Schedule{Minute: minute, Hour: hour}, nil
}

// Next returns the first occurrence strictly after now, in loc
func (s Schedule) Next(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.Hour, s.Minute, 0, 0, loc)
	if !next.After(local) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, s.Hour, s.Minute, 0, 0, loc)
	}
	return next
}

// DailyTrigger submits one job per active tenant for the previous business
// day, once a day at the scheduled time
type DailyTrigger struct {
	schedule   Schedule
	location   *time.Location
	scheduler  *Scheduler
	tenants    TenantProvider
	maxRetries int
	logger     *zap.Logger
	now        func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewDailyTrigger creates a trigger. A nil location means UTC.
func NewDailyTrigger(schedule Schedule, location *time.Location, scheduler *Scheduler, tenants TenantProvider, maxRetries int, logger *zap.Logger) *DailyTrigger {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		schedule:   schedule,
		location:   location,
		scheduler:  scheduler,
		tenants:    tenants,
		maxRetries: maxRetries,
		logger:     logger,
		now:        time.Now,
	}
}

// Start starts the trigger loop
func (t *DailyTrigger) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.wg.Add(1)
	go t.loop(ctx)

	t.logger.Info("Report warm-up trigger started",
		zap.Int("hour", t.schedule.Hour),
		zap.Int("minute", t.schedule.Minute),
		zap.String("location", t.location.String()),
	)
}

// Stop stops the trigger loop and waits for it to exit
func (t *DailyTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.mu.Unlock()

	t.cancel()
	t.wg.Wait()
	t.logger.Info("Report warm-up trigger stopped")
}

func (t *DailyTrigger) loop(ctx context.Context) {
	defer t.wg.Done()
	for {
		next := t.schedule.Next(t.now(), t.location)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if _, err := t.Fire(ctx); err != nil {
				t.logger.Error("Report warm-up trigger failed", zap.Error(err))
			}
		}
	}
}

// Fire submits the jobs for the day before today in the shop time zone and
// returns how many were queued
func (t *DailyTrigger) Fire(ctx context.Context) (int, error) {
	tenantIDs, err := t.tenants.ActiveTenantIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list active tenants: %w", err)
	}

	local := t.now().In(t.location)
	day := time.Date(local.Year(), local.Month(), local.Day()-1, 0, 0, 0, 0, t.location)

	submitted := 0
	for _, tenantID := range tenantIDs {
		if err := t.scheduler.Submit(NewJob(tenantID, day, t.maxRetries)); err != nil {
			t.logger.Warn("Failed to submit warm-up job",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		submitted++
	}

	t.logger.Info("Report warm-up jobs submitted",
		zap.String("day", day.Format("2006-01-02")),
		zap.Int("tenants", len(tenantIDs)),
		zap.Int("submitted", submitted),
	)
	return submitted, nil
}
