package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTenants struct {
	ids []uuid.UUID
	err error
}

func (s staticTenants) ActiveTenantIDs(context.Context) ([]uuid.UUID, error) {
	return s.ids, s.err
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		want    Schedule
		wantErr bool
	}{
		{name: "half past two", expr: "30 2", want: Schedule{Minute: 30, Hour: 2}},
		{name: "midnight", expr: "0 0", want: Schedule{}},
		{name: "extra whitespace", expr: "  15   4 ", want: Schedule{Minute: 15, Hour: 4}},
		{name: "cron style", expr: "0 2 * * *", wantErr: true},
		{name: "empty", expr: "", wantErr: true},
		{name: "minute out of range", expr: "60 2", wantErr: true},
		{name: "hour out of range", expr: "0 24", wantErr: true},
		{name: "not a number", expr: "a 2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSchedule(tt.expr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSchedule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedule_Next(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	s := Schedule{Minute: 30, Hour: 2}

	t.Run("later today", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 1, 0, 0, 0, ist)
		assert.Equal(t, time.Date(2026, 3, 14, 2, 30, 0, 0, ist), s.Next(now, ist))
	})

	t.Run("already passed rolls to tomorrow", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 2, 30, 0, 0, ist)
		assert.Equal(t, time.Date(2026, 3, 15, 2, 30, 0, 0, ist), s.Next(now, ist))
	})

	t.Run("computed in shop time", func(t *testing.T) {
		// 21:30 UTC on the 13th is 03:00 IST on the 14th
		now := time.Date(2026, 3, 13, 21, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 3, 15, 2, 30, 0, 0, ist), s.Next(now, ist))
	})
}

func TestDailyTrigger_Fire(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	shopA, shopB := uuid.New(), uuid.New()

	t.Run("submits previous day per tenant", func(t *testing.T) {
		exec := newRecordingExecutor(2)
		s := NewScheduler(Config{Workers: 1}, exec, nil)
		require.NoError(t, s.Start(context.Background()))
		defer s.Stop(context.Background())

		trigger := NewDailyTrigger(Schedule{Minute: 30, Hour: 2}, ist, s, staticTenants{ids: []uuid.UUID{shopA, shopB}}, 1, nil)
		trigger.now = func() time.Time { return time.Date(2026, 3, 13, 21, 0, 0, 0, time.UTC) }

		n, err := trigger.Fire(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		jobs := exec.wait(t)
		tenants := []uuid.UUID{jobs[0].TenantID, jobs[1].TenantID}
		assert.ElementsMatch(t, []uuid.UUID{shopA, shopB}, tenants)
		for _, job := range jobs {
			assert.Equal(t, "2026-03-13", job.Day.Format("2006-01-02"))
			assert.Equal(t, 1, job.MaxRetries)
		}
	})

	t.Run("tenant lookup fails", func(t *testing.T) {
		s := NewScheduler(Config{}, newRecordingExecutor(0), nil)
		trigger := NewDailyTrigger(Schedule{}, nil, s, staticTenants{err: errors.New("db down")}, 0, nil)

		n, err := trigger.Fire(context.Background())
		assert.Error(t, err)
		assert.Zero(t, n)
	})

	t.Run("stopped scheduler queues nothing", func(t *testing.T) {
		s := NewScheduler(Config{}, newRecordingExecutor(0), nil)
		trigger := NewDailyTrigger(Schedule{}, nil, s, staticTenants{ids: []uuid.UUID{shopA}}, 0, nil)

		n, err := trigger.Fire(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestDailyTrigger_StartStop(t *testing.T) {
	s := NewScheduler(Config{}, newRecordingExecutor(0), nil)
	trigger := NewDailyTrigger(Schedule{Minute: 0, Hour: 3}, nil, s, staticTenants{}, 0, nil)

	trigger.Start(context.Background())
	trigger.Start(context.Background())

	done := make(chan struct{})
	go func() {
		trigger.Stop()
		trigger.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("trigger did not stop")
	}
}
