package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/checkout"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// Config carries the checkout tunables loaded from configuration
type Config struct {
	// ShippingFlatRate is charged per order; zero means shipping is free
	ShippingFlatRate decimal.Decimal
	// FreeShippingThreshold waives the flat rate once the subtotal reaches
	// it; zero disables the waiver
	FreeShippingThreshold decimal.Decimal
	// CollectAllLineErrors switches the assembler from first-failure-wins
	// to gathering every failing line
	CollectAllLineErrors bool
}

// CheckoutService places orders. CreateOrder is the single writer for the
// order/payment/stock tables; everything it does happens inside one
// database transaction.
type CheckoutService struct {
	txScope   TransactionScope
	orders    checkout.OrderRepository
	assembler *Assembler
	eventBus  shared.EventPublisher
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewCheckoutService creates a checkout service
func NewCheckoutService(
	txScope TransactionScope,
	orders checkout.OrderRepository,
	eventBus shared.EventPublisher,
	cfg Config,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		txScope:   txScope,
		orders:    orders,
		assembler: NewAssembler(cfg.CollectAllLineErrors),
		eventBus:  eventBus,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder validates, prices and persists an order atomically.
//
// Inside one transaction: the product and variant rows backing every
// requested line are locked for update, the lines are re-priced from the
// catalog, stock is decremented, and the order, its lines and the payment
// record are inserted. Any failure rolls all of it back; a lock
// wait timeout surfaces as LOCK_TIMEOUT and is safe to retry, every other
// rejection is permanent for that input.
//
// The order.created event is published after commit, best-effort.
func (s *CheckoutService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	method := checkout.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+req.PaymentMethod)
	}

	// Orders settled at the counter arrive already paid; everything else
	// starts pending and waits for the gateway webhook.
	initialPaymentStatus := checkout.PaymentStatusPending
	if req.PaymentStatus != "" {
		initialPaymentStatus = checkout.PaymentStatus(req.PaymentStatus)
		if !initialPaymentStatus.IsValid() {
			return nil, shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status: "+req.PaymentStatus)
		}
	}

	var order *checkout.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.ShippingAddressID != nil {
			exists, err := repos.Addresses.Exists(ctx, *req.ShippingAddressID)
			if err != nil {
				return err
			}
			if !exists {
				return shared.ErrInvalidAddress
			}
		}

		assembly, err := s.assembler.Assemble(ctx, repos.Products, req.Items)
		if err != nil {
			return err
		}

		shippingCost, err := s.resolveShipping(req.Shipping, assembly.Subtotal)
		if err != nil {
			return err
		}
		orderNumber := checkout.GenerateOrderNumber(s.now())

		order, err = checkout.NewOrder(orderNumber, req.UserID, req.ShippingAddressID,
			checkout.Contact{Email: req.ContactEmail, Phone: req.ContactPhone},
			assembly.Subtotal, shippingCost, method, initialPaymentStatus)
		if err != nil {
			return err
		}
		order.Notes = req.Notes

		for _, line := range assembly.Lines {
			var variantID *uuid.UUID
			if line.Variant != nil {
				variantID = &line.Variant.ID
			}
			if _, err := order.AddLine(line.Product.ID, variantID, line.ProductName, line.Quantity, line.UnitPrice); err != nil {
				return err
			}
		}

		if err := repos.Orders.Save(ctx, order); err != nil {
			return err
		}

		for i := range assembly.Lines {
			line := &assembly.Lines[i]
			if line.Variant == nil {
				continue
			}
			if err := line.Variant.Decrease(line.Quantity); err != nil {
				return err
			}
			if err := repos.Products.SaveVariant(ctx, line.Variant); err != nil {
				return err
			}
		}

		payment, err := checkout.NewPayment(order, s.now())
		if err != nil {
			return err
		}
		return repos.Payments.Save(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	s.publishCreated(ctx, order)

	return NewOrderResponse(order), nil
}

// GetOrder returns one order with its lines
func (s *CheckoutService) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewOrderResponse(order), nil
}

// ListOrdersForUser returns a user's orders, newest first
func (s *CheckoutService) ListOrdersForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]OrderResponse, error) {
	orders, err := s.orders.FindAllForUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, *NewOrderResponse(&orders[i]))
	}
	return responses, nil
}

// UpdateOrderStatus transitions an order's fulfillment status. The state
// machine on the aggregate rejects invalid jumps.
func (s *CheckoutService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, target checkout.OrderStatus) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateStatus(target); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return NewOrderResponse(order), nil
}

// resolveShipping takes the cost the caller declared, or falls back to the
// configured flat rate when the request carries no shipping block
func (s *CheckoutService) resolveShipping(declared *ShippingInput, subtotal valueobject.Money) (valueobject.Money, error) {
	if declared == nil {
		return s.shippingCost(subtotal), nil
	}
	if declared.Cost.IsNegative() {
		return valueobject.ZeroARS(), shared.NewDomainError("INVALID_SHIPPING_COST", "Shipping cost cannot be negative")
	}
	return valueobject.NewMoneyARS(declared.Cost), nil
}

// shippingCost resolves the default shipping charge for a subtotal
func (s *CheckoutService) shippingCost(subtotal valueobject.Money) valueobject.Money {
	if s.cfg.ShippingFlatRate.IsZero() {
		return valueobject.ZeroARS()
	}
	if s.cfg.FreeShippingThreshold.IsPositive() &&
		subtotal.Amount().GreaterThanOrEqual(s.cfg.FreeShippingThreshold) {
		return valueobject.ZeroARS()
	}
	return valueobject.NewMoneyARS(s.cfg.ShippingFlatRate)
}

// publishCreated emits order.created after the transaction committed.
// Publish failures are logged and swallowed; the order stands either way.
func (s *CheckoutService) publishCreated(ctx context.Context, order *checkout.Order) {
	event := checkout.NewOrderCreatedEvent(order)
	if err := s.eventBus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order created event",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}
