package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/checkout"
)

// OrderItemInput is one requested cart line. The client may display its own
// price but it is never trusted; pricing is re-derived server side.
type OrderItemInput struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" binding:"required"`
}

// ShippingInput is the shipping block of an order request. The cost is
// declared by the caller; a missing block falls back to the configured rate.
type ShippingInput struct {
	Cost decimal.Decimal `json:"cost"`
}

// CreateOrderRequest is the payload for placing an order. UserID and
// SessionKey are populated from the request context, never from the body.
// PaymentStatus covers payments settled at creation time (cash in store);
// empty means pending.
type CreateOrderRequest struct {
	UserID            *uuid.UUID       `json:"-"`
	SessionKey        string           `json:"-"`
	Items             []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	ShippingAddressID *uuid.UUID       `json:"shipping_address_id"`
	Shipping          *ShippingInput   `json:"shipping"`
	ContactEmail      string           `json:"contact_email" binding:"required,email"`
	ContactPhone      string           `json:"contact_phone"`
	PaymentMethod     string           `json:"payment_method" binding:"required,oneof=cash card_gateway bank_transfer"`
	PaymentStatus     string           `json:"payment_status" binding:"omitempty,oneof=pending paid"`
	Notes             string           `json:"notes"`
}

// UpdateOrderStatusRequest is the payload for a staff status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=in_preparation shipped delivered cancelled"`
}

// OrderLineResponse is one line of a placed order
type OrderLineResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitPrice   string     `json:"unit_price"`
	Subtotal    string     `json:"subtotal"`
}

// OrderResponse is the representation of an order returned to clients
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	UserID        *uuid.UUID          `json:"-"`
	OrderNumber   string              `json:"order_number"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	PaymentMethod string              `json:"payment_method"`
	ContactEmail  string              `json:"contact_email"`
	ContactPhone  string              `json:"contact_phone,omitempty"`
	Subtotal      string              `json:"subtotal"`
	ShippingCost  string              `json:"shipping_cost"`
	Total         string              `json:"total"`
	Notes         string              `json:"notes,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Lines         []OrderLineResponse `json:"lines"`
}

// NewOrderResponse maps an order aggregate to its response representation
func NewOrderResponse(order *checkout.Order) *OrderResponse {
	lines := make([]OrderLineResponse, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, OrderLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			VariantID:   l.VariantID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPriceMoney().StringFixed(2),
			Subtotal:    l.SubtotalMoney().StringFixed(2),
		})
	}
	return &OrderResponse{
		ID:            order.ID,
		UserID:        order.UserID,
		OrderNumber:   order.OrderNumber,
		Status:        order.Status.String(),
		PaymentStatus: string(order.PaymentStatus),
		PaymentMethod: string(order.PaymentMethod),
		ContactEmail:  order.Contact.Email,
		ContactPhone:  order.Contact.Phone,
		Subtotal:      order.SubtotalMoney().StringFixed(2),
		ShippingCost:  order.ShippingCostMoney().StringFixed(2),
		Total:         order.TotalMoney().StringFixed(2),
		Notes:         order.Notes,
		CreatedAt:     order.CreatedAt,
		Lines:         lines,
	}
}
