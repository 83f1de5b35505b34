package checkout

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID with lines preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds the most recent order with the given number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAllForUser finds orders belonging to a user
	FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Order, error)

	// FindAll finds orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates an order together with its lines
	Save(ctx context.Context, order *Order) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByOrderID finds the payment attached to an order
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Payment, error)

	// FindByGatewayPaymentID finds a payment by the gateway's payment ID
	FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*Payment, error)

	// Save creates or updates a payment
	Save(ctx context.Context, payment *Payment) error
}
