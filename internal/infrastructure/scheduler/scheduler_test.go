package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingExecutor records completed jobs; failures makes the first n
// executions fail
type recordingExecutor struct {
	failures atomic.Int32
	calls    atomic.Int32

	mu   sync.Mutex
	jobs []*Job
	want int
	done chan struct{}
}

func newRecordingExecutor(want int) *recordingExecutor {
	return &recordingExecutor{want: want, done: make(chan struct{})}
}

func (e *recordingExecutor) Execute(_ context.Context, job *Job) error {
	e.calls.Add(1)
	if e.failures.Add(-1) >= 0 {
		return errors.New("report query failed")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, job)
	if len(e.jobs) == e.want {
		close(e.done)
	}
	return nil
}

func (e *recordingExecutor) wait(t *testing.T) []*Job {
	t.Helper()
	select {
	case <-e.done:
	case <-time.After(2 * time.Second):
		t.Fatal("jobs did not complete")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*Job(nil), e.jobs...)
}

func TestJob_Lifecycle(t *testing.T) {
	now := time.Date(2026, 3, 14, 2, 30, 0, 0, time.UTC)
	job := NewJob(uuid.New(), now.Truncate(24*time.Hour), 1)
	assert.Equal(t, JobStatusPending, job.Status)

	job.Start(now)
	assert.Equal(t, JobStatusRunning, job.Status)

	job.Fail(now, "boom")
	assert.True(t, job.ShouldRetry())

	job.ScheduleRetry(now, time.Minute)
	assert.Equal(t, JobStatusPending, job.Status)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, now.Add(time.Minute), *job.NextRetryAt)
	assert.Empty(t, job.Error)

	job.Start(now)
	job.Fail(now, "boom again")
	assert.False(t, job.ShouldRetry())

	job.Complete(now)
	assert.Equal(t, JobStatusSuccess, job.Status)
}

func TestScheduler_SubmitNotRunning(t *testing.T) {
	s := NewScheduler(Config{}, newRecordingExecutor(0), nil)

	err := s.Submit(NewJob(uuid.New(), time.Now(), 0))

	assert.ErrorIs(t, err, ErrSchedulerNotRunning)
}

func TestScheduler_QueueFull(t *testing.T) {
	s := NewScheduler(Config{QueueSize: 1}, newRecordingExecutor(0), nil)
	// running without workers keeps the queue from draining
	s.isRunning = true

	require.NoError(t, s.Submit(NewJob(uuid.New(), time.Now(), 0)))
	assert.ErrorIs(t, s.Submit(NewJob(uuid.New(), time.Now(), 0)), ErrJobQueueFull)
}

func TestScheduler_RetriesFailedJob(t *testing.T) {
	exec := newRecordingExecutor(1)
	exec.failures.Store(1)
	s := NewScheduler(Config{Workers: 1, RetryDelay: time.Millisecond}, exec, nil)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	require.NoError(t, s.Submit(NewJob(uuid.New(), time.Now(), 1)))

	jobs := exec.wait(t)
	require.Len(t, jobs, 1)
	assert.Equal(t, 1, jobs[0].RetryCount)
	assert.Equal(t, int32(2), exec.calls.Load())
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s := NewScheduler(Config{Workers: 3}, newRecordingExecutor(0), nil)
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
	assert.NoError(t, s.Stop(ctx))
}
