package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationLevel classifies how prominently an operator should see a notification
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is an operator-facing message raised by non-UI logic
type Notification struct {
	TenantID  uuid.UUID         `json:"tenantId"`
	Level     NotificationLevel `json:"level"`
	Topic     string            `json:"topic"`
	Message   string            `json:"message"`
	Data      map[string]any    `json:"data,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewNotification creates a notification stamped with the current time
func NewNotification(tenantID uuid.UUID, level NotificationLevel, topic, message string) Notification {
	return Notification{
		TenantID:  tenantID,
		Level:     level,
		Topic:     topic,
		Message:   message,
		CreatedAt: time.Now(),
	}
}

// Notifier delivers notifications to whoever is watching (kitchen display, back office).
// Services receive a Notifier through their constructor.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier discards every notification
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(context.Context, Notification) error { return nil }

// NotifierFunc adapts a function to the Notifier interface
type NotifierFunc func(ctx context.Context, n Notification) error

// Notify implements Notifier
func (f NotifierFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }
