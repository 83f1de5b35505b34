package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
)

// Event type constants for the checkout context
const (
	EventTypeOrderCreated          = "checkout.order.created"
	EventTypeOrderPaymentConfirmed = "checkout.order.payment_confirmed"
)

// OrderCreatedLine summarizes one order line inside the created event
type OrderCreatedLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderCreatedEvent is published after an order transaction commits.
// Consumers (the analytics recorder) are best-effort; failures never touch
// the committed order.
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string             `json:"order_number"`
	UserID      *uuid.UUID         `json:"user_id,omitempty"`
	Subtotal    decimal.Decimal    `json:"subtotal"`
	Total       decimal.Decimal    `json:"total"`
	Lines       []OrderCreatedLine `json:"lines"`
}

// NewOrderCreatedEvent creates an event from a persisted order
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	lines := make([]OrderCreatedLine, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, OrderCreatedLine{
			ProductID: l.ProductID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "Order", order.ID),
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Subtotal:        order.Subtotal,
		Total:           order.Total,
		Lines:           lines,
	}
}

// OrderPaymentConfirmedEvent is published when a payment settles
type OrderPaymentConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	UserID      *uuid.UUID      `json:"user_id,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Method      PaymentMethod   `json:"method"`
}

// NewOrderPaymentConfirmedEvent creates an event from a paid order
func NewOrderPaymentConfirmedEvent(order *Order) *OrderPaymentConfirmedEvent {
	return &OrderPaymentConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaymentConfirmed, "Order", order.ID),
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Total:           order.Total,
		Method:          order.PaymentMethod,
	}
}
