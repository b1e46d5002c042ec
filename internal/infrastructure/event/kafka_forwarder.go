package event

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/foodcourt/pos/internal/domain/shared"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the forwarder uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a writer for the configured topic
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 50 * time.Millisecond
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           batchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

// ErrForwarderFull is returned when the forward buffer is full and the event is dropped
var ErrForwarderFull = errors.New("kafka forward buffer is full")

// KafkaForwarder copies domain events to a Kafka topic. Handle only enqueues, so
// a slow broker never delays the request that raised the event; Run drains the
// queue in the background. Messages are keyed by tenant to keep a shop's events
// in order on one partition.
type KafkaForwarder struct {
	writer  MessageWriter
	queue   chan kafka.Message
	logger  *zap.Logger
	sent    atomic.Int64
	dropped atomic.Int64
}

// NewKafkaForwarder creates a forwarder with a queue of bufferSize messages
func NewKafkaForwarder(writer MessageWriter, bufferSize int, logger *zap.Logger) *KafkaForwarder {
	if bufferSize <= 0 {
		bufferSize = 1024
	}
	return &KafkaForwarder{
		writer: writer,
		queue:  make(chan kafka.Message, bufferSize),
		logger: logger,
	}
}

// EventTypes subscribes to every event
func (f *KafkaForwarder) EventTypes() []string {
	return nil
}

// Handle encodes the event and queues it
func (f *KafkaForwarder) Handle(_ context.Context, event shared.DomainEvent) error {
	value, err := Encode(event)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(event.TenantID().String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
		},
		Time: event.OccurredAt(),
	}
	select {
	case f.queue <- msg:
		return nil
	default:
		f.dropped.Add(1)
		return ErrForwarderFull
	}
}

// Run writes queued messages until ctx is cancelled, then flushes what is left
// and closes the writer
func (f *KafkaForwarder) Run(ctx context.Context) error {
	defer func() {
		if err := f.writer.Close(); err != nil {
			f.logger.Warn("failed to close kafka writer", zap.Error(err))
		}
	}()
	for {
		select {
		case msg := <-f.queue:
			f.write(ctx, msg)
		case <-ctx.Done():
			f.flush()
			return nil
		}
	}
}

// flush writes the queued messages with a short deadline of its own
func (f *KafkaForwarder) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case msg := <-f.queue:
			f.write(ctx, msg)
		default:
			return
		}
	}
}

func (f *KafkaForwarder) write(ctx context.Context, msg kafka.Message) {
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		f.dropped.Add(1)
		f.logger.Error("failed to forward event to kafka",
			zap.ByteString("tenant_id", msg.Key),
			zap.Error(err),
		)
		return
	}
	f.sent.Add(1)
}

// Sent returns how many events reached the broker
func (f *KafkaForwarder) Sent() int64 {
	return f.sent.Load()
}

// Dropped returns how many events were lost to a full queue or a write error
func (f *KafkaForwarder) Dropped() int64 {
	return f.dropped.Load()
}

var (
	_ shared.EventHandler = (*KafkaForwarder)(nil)
	_ Runner              = (*KafkaForwarder)(nil)
)
