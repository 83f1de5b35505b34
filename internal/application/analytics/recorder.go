package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/analytics"
	"github.com/shop/backend/internal/domain/checkout"
	"github.com/shop/backend/internal/domain/shared"
)

// Recorder subscribes to domain events and writes behavioral records.
// It runs on the best-effort side of the bus: a failed write is logged and
// dropped, it never reaches the publisher.
type Recorder struct {
	events analytics.UserEventRepository
	logger *zap.Logger
}

// NewRecorder creates an analytics recorder
func NewRecorder(events analytics.UserEventRepository, logger *zap.Logger) *Recorder {
	return &Recorder{events: events, logger: logger}
}

// EventTypes returns the bus subscriptions for the recorder
func (r *Recorder) EventTypes() []string {
	return []string{checkout.EventTypeOrderCreated}
}

// Handle writes one purchase record per order line
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*checkout.OrderCreatedEvent)
	if !ok {
		return nil
	}

	orderID := created.AggregateID()
	for _, line := range created.Lines {
		record, err := analytics.NewUserEvent(analytics.UserEventPurchase, event.OccurredAt())
		if err != nil {
			return err
		}
		record.UserID = created.UserID
		record.OrderID = &orderID
		productID := line.ProductID
		record.ProductID = &productID
		record.Quantity = line.Quantity
		record.Amount = line.UnitPrice.Mul(decimalFromInt(line.Quantity))

		if err := r.events.Save(ctx, record); err != nil {
			r.logger.Warn("failed to record purchase event",
				zap.String("order_number", created.OrderNumber),
				zap.Error(err))
			return err
		}
	}
	return nil
}

// RecordProductView writes a product view record, fire-and-forget from the
// HTTP layer
func (r *Recorder) RecordProductView(ctx context.Context, view ProductViewInput) {
	record, err := analytics.NewUserEvent(analytics.UserEventProductView, time.Now())
	if err != nil {
		return
	}
	record.UserID = view.UserID
	record.SessionKey = view.SessionKey
	record.ProductID = &view.ProductID
	record.Quantity = 1

	if err := r.events.Save(ctx, record); err != nil {
		r.logger.Debug("failed to record product view", zap.Error(err))
	}
}

// RecordCartAdd writes a cart addition record, fire-and-forget from the
// HTTP layer
func (r *Recorder) RecordCartAdd(ctx context.Context, add CartAddInput) {
	record, err := analytics.NewUserEvent(analytics.UserEventAddToCart, time.Now())
	if err != nil {
		return
	}
	record.UserID = add.UserID
	record.SessionKey = add.SessionKey
	record.ProductID = &add.ProductID
	record.Quantity = add.Quantity

	if err := r.events.Save(ctx, record); err != nil {
		r.logger.Debug("failed to record cart add", zap.Error(err))
	}
}
