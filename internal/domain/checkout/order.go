package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusInPreparation OrderStatus = "in_preparation"
	OrderStatusShipped       OrderStatus = "shipped"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusInPreparation, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusInPreparation:
		return target == OrderStatusShipped || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PaymentStatus represents the settlement status of an order's payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusRejected:
		return true
	}
	return false
}

// PaymentMethod represents how the customer intends to pay
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCardGateway  PaymentMethod = "card_gateway"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCardGateway, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// OrderLine is one purchased quantity of a product/variant within an order.
// Name and unit price are value copies frozen at order time; later catalog
// edits never touch them. Immutable after creation.
type OrderLine struct {
	shared.BaseEntity
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID   *uuid.UUID      `gorm:"type:uuid"`
	ProductName string          `gorm:"size:255;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "order_lines"
}

// NewOrderLine creates an order line with the frozen name/price snapshot
func NewOrderLine(orderID, productID uuid.UUID, variantID *uuid.UUID, productName string, quantity int, unitPrice valueobject.Money) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.ErrProductNotFound
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name snapshot cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &OrderLine{
		BaseEntity:  shared.NewBaseEntity(),
		OrderID:     orderID,
		ProductID:   productID,
		VariantID:   variantID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Subtotal:    unitPrice.MultiplyByInt(int64(quantity)).Amount(),
	}, nil
}

// UnitPriceMoney returns the unit price as a Money value object
func (l *OrderLine) UnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyARS(l.UnitPrice)
}

// SubtotalMoney returns the line subtotal as a Money value object
func (l *OrderLine) SubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyARS(l.Subtotal)
}

// Contact holds the order's contact details; guest checkouts carry no user,
// so the contact data lives on the order itself.
type Contact struct {
	Email string `gorm:"column:contact_email;size:255;not null"`
	Phone string `gorm:"column:contact_phone;size:50"`
}

// Order is the aggregate root for a placed order. It is created once,
// atomically, by the checkout service; afterwards only the payment webhook
// and shipment tracking mutate it.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber   string          `gorm:"size:50;not null;index"`
	UserID        *uuid.UUID      `gorm:"type:uuid;index"`
	AddressID     *uuid.UUID      `gorm:"type:uuid"`
	Contact       Contact         `gorm:"embedded"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status        OrderStatus     `gorm:"size:20;not null;default:'in_preparation'"`
	PaymentStatus PaymentStatus   `gorm:"size:20;not null;default:'pending'"`
	PaymentMethod PaymentMethod   `gorm:"size:20;not null"`
	Notes         string          `gorm:"type:text"`
	Active        bool            `gorm:"not null;default:true"`

	Lines []OrderLine `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates an order header in its initial state. The total is
// derived from subtotal + shipping cost here, in decimal arithmetic, so the
// two can never drift apart.
func NewOrder(orderNumber string, userID, addressID *uuid.UUID, contact Contact, subtotal, shippingCost valueobject.Money, method PaymentMethod, paymentStatus PaymentStatus) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if contact.Email == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact email cannot be empty")
	}
	if subtotal.IsNegative() || shippingCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amounts cannot be negative")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(method))
	}
	if !paymentStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status: "+string(paymentStatus))
	}

	total, err := subtotal.Add(shippingCost)
	if err != nil {
		return nil, err
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		AddressID:         addressID,
		Contact:           contact,
		Subtotal:          subtotal.Amount(),
		Total:             total.Amount(),
		Status:            OrderStatusInPreparation,
		PaymentStatus:     paymentStatus,
		PaymentMethod:     method,
		Active:            true,
		Lines:             make([]OrderLine, 0),
	}, nil
}

// AddLine attaches a line to the order. Only valid while the order is being
// assembled, before it is persisted.
func (o *Order) AddLine(productID uuid.UUID, variantID *uuid.UUID, productName string, quantity int, unitPrice valueobject.Money) (*OrderLine, error) {
	line, err := NewOrderLine(o.ID, productID, variantID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	o.Lines = append(o.Lines, *line)
	return &o.Lines[len(o.Lines)-1], nil
}

// SubtotalMoney returns the order subtotal as a Money value object
func (o *Order) SubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyARS(o.Subtotal)
}

// TotalMoney returns the order total as a Money value object
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyARS(o.Total)
}

// ShippingCostMoney returns the shipping portion of the total
func (o *Order) ShippingCostMoney() valueobject.Money {
	return valueobject.NewMoneyARS(o.Total.Sub(o.Subtotal))
}

// TotalQuantity sums the quantities of all lines
func (o *Order) TotalQuantity() int {
	total := 0
	for _, l := range o.Lines {
		total += l.Quantity
	}
	return total
}

// UpdateStatus transitions the fulfillment status, enforcing the state machine
func (o *Order) UpdateStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition order from "+string(o.Status)+" to "+string(target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// ConfirmPayment marks the order as paid. Called by the payment webhook
// collaborator after gateway settlement.
func (o *Order) ConfirmPayment() error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Order payment is already confirmed")
	}
	o.PaymentStatus = PaymentStatusPaid
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderPaymentConfirmedEvent(o))
	return nil
}

// RejectPayment marks the order's payment as rejected
func (o *Order) RejectPayment() error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot reject an already paid order")
	}
	o.PaymentStatus = PaymentStatusRejected
	o.UpdatedAt = time.Now()
	return nil
}
