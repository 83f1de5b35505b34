package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/checkout"
	"github.com/shop/backend/internal/domain/shared"
)

// WebhookNotification is the gateway's webhook payload. Only payment
// notifications are acted on; everything else is acknowledged and dropped.
type WebhookNotification struct {
	Type   string `json:"type"`
	DataID string `json:"data_id"`
}

// CreatePreferenceResponse returns the hosted checkout for an order
type CreatePreferenceResponse struct {
	PreferenceID string `json:"preference_id"`
	CheckoutURL  string `json:"checkout_url"`
}

// WebhookService settles payments from gateway notifications. Settlement
// runs in one transaction covering the payment record and the order's
// payment status; duplicate notifications are dropped before any database
// work via the notification store.
type WebhookService struct {
	txScope  TransactionScope
	gateway  Gateway
	store    NotificationStore
	payments checkout.PaymentRepository
	orders   checkout.OrderRepository
	eventBus shared.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewWebhookService creates a webhook service
func NewWebhookService(
	txScope TransactionScope,
	gateway Gateway,
	store NotificationStore,
	payments checkout.PaymentRepository,
	orders checkout.OrderRepository,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *WebhookService {
	return &WebhookService{
		txScope:  txScope,
		gateway:  gateway,
		store:    store,
		payments: payments,
		orders:   orders,
		eventBus: eventBus,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleNotification processes one gateway webhook call. Unknown types and
// duplicates return nil so the gateway stops retrying.
func (s *WebhookService) HandleNotification(ctx context.Context, notification WebhookNotification) error {
	if notification.Type != "payment" || notification.DataID == "" {
		return nil
	}

	first, err := s.store.MarkProcessed(ctx, notification.Type+":"+notification.DataID)
	if err != nil {
		return err
	}
	if !first {
		s.logger.Debug("duplicate gateway notification dropped",
			zap.String("data_id", notification.DataID))
		return nil
	}

	info, err := s.gateway.GetPayment(ctx, notification.DataID)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(info.ExternalReference)
	if err != nil {
		return shared.NewDomainError("INVALID_REFERENCE",
			"Gateway payment carries no usable order reference: "+info.ExternalReference)
	}

	var settled *checkout.Order
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		payment, err := repos.Payments.FindByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		order, err := repos.Orders.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		switch info.Status {
		case GatewayStatusApproved:
			if err := payment.MarkPaid(info.ID, info.StatusDetail, s.now()); err != nil {
				return err
			}
			payment.PayerEmail = info.PayerEmail
			if err := order.ConfirmPayment(); err != nil {
				return err
			}
			settled = order
		case GatewayStatusRejected:
			if err := payment.MarkRejected(info.ID, info.StatusDetail, s.now()); err != nil {
				return err
			}
			if err := order.RejectPayment(); err != nil {
				return err
			}
		default:
			// still pending at the gateway, nothing to record
			return nil
		}

		if err := repos.Payments.Save(ctx, payment); err != nil {
			return err
		}
		return repos.Orders.Save(ctx, order)
	})
	if err != nil {
		return err
	}

	if settled != nil {
		s.publishEvents(ctx, settled)
	}
	return nil
}

// CreatePreference creates a hosted gateway checkout for a pending
// card_gateway order and stores the preference ID on its payment record.
func (s *WebhookService) CreatePreference(ctx context.Context, orderID uuid.UUID) (*CreatePreferenceResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != checkout.PaymentMethodCardGateway {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD",
			"Only card_gateway orders use a hosted checkout")
	}
	if order.PaymentStatus != checkout.PaymentStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Order payment is not pending")
	}

	payment, err := s.payments.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	preference, err := s.gateway.CreatePreference(ctx, PreferenceRequest{
		ExternalReference: order.ID.String(),
		Title:             "Pedido " + order.OrderNumber,
		Amount:            order.Total,
		PayerEmail:        order.Contact.Email,
	})
	if err != nil {
		return nil, err
	}

	payment.PreferenceID = preference.ID
	if err := s.payments.Save(ctx, payment); err != nil {
		return nil, err
	}

	return &CreatePreferenceResponse{
		PreferenceID: preference.ID,
		CheckoutURL:  preference.CheckoutURL,
	}, nil
}

// publishEvents drains the order's domain events onto the bus, best-effort
func (s *WebhookService) publishEvents(ctx context.Context, order *checkout.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish payment events",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	}
}
