package cache

import (
	"context"
	"sync"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
)

const sweepInterval = 5 * time.Minute

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

// InMemoryIdempotencyStore keeps idempotency keys in process memory. Keys are
// not shared between server instances, so it only fits a single-node till or
// tests.
type InMemoryIdempotencyStore struct {
	mu       sync.Mutex
	deadline map[string]time.Time
	done     chan struct{}
	stopped  sync.WaitGroup
	once     sync.Once
}

// NewInMemoryIdempotencyStore returns a store that sweeps expired keys every
// few minutes until Close
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		deadline: make(map[string]time.Time),
		done:     make(chan struct{}),
	}
	s.stopped.Add(1)
	go s.sweepLoop()
	return s
}

func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if until, ok := s.deadline[key]; ok && now.Before(until) {
		return false, nil
	}
	s.deadline[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	until, ok := s.deadline[key]
	s.mu.Unlock()
	return ok && time.Now().Before(until), nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.deadline, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper; calling it again is a no-op
func (s *InMemoryIdempotencyStore) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.stopped.Wait()
	})
	return nil
}

// Size is the number of keys held, expired ones included until the next sweep
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deadline)
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.stopped.Done()
	tick := time.NewTicker(sweepInterval)
	defer tick.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-tick.C:
			s.sweep(time.Now())
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, until := range s.deadline {
		if !now.Before(until) {
			delete(s.deadline, key)
		}
	}
}
