// Package event carries domain events from the services to their side effects:
// operator notifications, the kitchen display and the Kafka topic.
package event

import (
	"context"
	"sync"

	"github.com/foodcourt/pos/internal/domain/shared"
	"go.uber.org/zap"
)

// Runner is a handler with a background loop the bus starts and stops with itself
type Runner interface {
	Run(ctx context.Context) error
}

// InMemoryEventBus implements EventBus with synchronous in-process dispatch.
// Events are published after the database transaction commits, so a failing
// handler never rolls back the change that raised the event.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger

	mu      sync.Mutex
	runners []Runner
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish hands every event to its handlers in order. Handler errors are logged
// and never returned.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("handler failed to process event",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("tenant_id", event.TenantID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. Without explicit types the handler's own
// EventTypes are used.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// AddRunner attaches a background loop that runs between Start and Stop
func (b *InMemoryEventBus) AddRunner(r Runner) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runners = append(b.runners, r)
}

// Start launches the attached runners
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b.cancel = cancel
	for _, r := range b.runners {
		b.wg.Add(1)
		go func(r Runner) {
			defer b.wg.Done()
			if err := r.Run(runCtx); err != nil && runCtx.Err() == nil {
				b.logger.Error("event runner stopped", zap.Error(err))
			}
		}(r)
	}
	b.logger.Info("event bus started", zap.Int("runners", len(b.runners)))
	return nil
}

// Stop cancels the runners and waits for them until ctx expires
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch calls the handler and turns a panic into a logged error
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return handler.Handle(ctx, event)
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
