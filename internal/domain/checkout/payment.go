package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// Payment is the order-time payment record. It is created in the same
// transaction as the order and later updated by the payment-confirmation
// webhook; settlement truth lives with the external gateway.
type Payment struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber string          `gorm:"size:50"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Method      PaymentMethod   `gorm:"size:20;not null"`
	Status      PaymentStatus   `gorm:"size:20;not null;default:'pending'"`

	// Gateway correlation fields, populated as the gateway reports back
	PreferenceID     string `gorm:"size:100;index"`
	GatewayPaymentID string `gorm:"size:100;index"`
	PayerEmail       string `gorm:"size:255"`
	StatusDetail     string `gorm:"size:100"`

	PaidAt *time.Time
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates the payment record accompanying a new order.
// PaidAt stays nil while the initial status is pending; a non-pending
// initial status (cash settled in store) stamps it immediately.
func NewPayment(order *Order, now time.Time) (*Payment, error) {
	if order == nil {
		return nil, shared.ErrInvalidInput
	}

	p := &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Amount:      order.Total,
		Method:      order.PaymentMethod,
		Status:      order.PaymentStatus,
	}
	if order.PaymentStatus != PaymentStatusPending {
		paidAt := now
		p.PaidAt = &paidAt
	}
	return p, nil
}

// AmountMoney returns the payment amount as a Money value object
func (p *Payment) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyARS(p.Amount)
}

// MarkPaid records a successful gateway settlement
func (p *Payment) MarkPaid(gatewayPaymentID, statusDetail string, when time.Time) error {
	if p.Status == PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Payment is already settled")
	}
	p.Status = PaymentStatusPaid
	p.GatewayPaymentID = gatewayPaymentID
	p.StatusDetail = statusDetail
	p.PaidAt = &when
	p.UpdatedAt = when
	return nil
}

// MarkRejected records a failed gateway settlement
func (p *Payment) MarkRejected(gatewayPaymentID, statusDetail string, when time.Time) error {
	if p.Status == PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot reject a settled payment")
	}
	p.Status = PaymentStatusRejected
	p.GatewayPaymentID = gatewayPaymentID
	p.StatusDetail = statusDetail
	p.UpdatedAt = when
	return nil
}
