package inventory

import (
	"context"
	"fmt"

	"github.com/foodcourt/pos/internal/domain/inventory"
	"github.com/foodcourt/pos/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationTopicStock is the topic of stock alerts sent to the operator
const NotificationTopicStock = "stock"

// StockLowHandler turns StockLow events into operator notifications
type StockLowHandler struct {
	logger   *zap.Logger
	notifier shared.Notifier
}

// NewStockLowHandler creates a handler for StockLow events. A nil notifier
// only logs the alert.
func NewStockLowHandler(logger *zap.Logger, notifier shared.Notifier) *StockLowHandler {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &StockLowHandler{
		logger:   logger,
		notifier: notifier,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StockLowHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockLow}
}

// Handle processes a StockLowEvent
func (h *StockLowHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowEvent, ok := event.(*inventory.StockLowEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", inventory.EventTypeStockLow),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockLow, event.EventType())
	}

	h.logger.Warn("stock at or below minimum",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("item_id", lowEvent.ItemID.String()),
		zap.String("item_name", lowEvent.ItemName),
		zap.String("current_quantity", lowEvent.CurrentQuantity.String()),
		zap.String("minimum_stock", lowEvent.MinimumStock.String()),
	)

	level := shared.NotificationWarning
	message := fmt.Sprintf("Low stock: %s has %s left (minimum %s)",
		lowEvent.ItemName, lowEvent.CurrentQuantity.String(), lowEvent.MinimumStock.String())
	if !lowEvent.CurrentQuantity.IsPositive() {
		level = shared.NotificationError
		message = fmt.Sprintf("Out of stock: %s", lowEvent.ItemName)
	}

	n := shared.NewNotification(event.TenantID(), level, NotificationTopicStock, message)
	n.Data = map[string]any{
		"itemId":          lowEvent.ItemID.String(),
		"currentQuantity": lowEvent.CurrentQuantity.String(),
		"minimumStock":    lowEvent.MinimumStock.String(),
	}
	if err := h.notifier.Notify(ctx, n); err != nil {
		// Notification failure must not fail event handling
		h.logger.Error("failed to send stock alert",
			zap.String("item_id", lowEvent.ItemID.String()),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*StockLowHandler)(nil)
