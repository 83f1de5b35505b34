package cart

import (
	"github.com/google/uuid"
)

// AddItemRequest is the payload for adding a selection to the cart
type AddItemRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id"`
	Quantity  int        `json:"quantity" binding:"required"`
}

// UpdateItemRequest is the payload for changing a cart line's quantity
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CartItemResponse is one cart line priced against the current catalog
type CartItemResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitPrice   string     `json:"unit_price"`
	Subtotal    string     `json:"subtotal"`
	Available   bool       `json:"available"`
}

// CartResponse is the cart representation returned to clients. Prices and
// availability reflect the catalog at read time, not a reservation.
type CartResponse struct {
	ID            uuid.UUID          `json:"id"`
	TotalQuantity int                `json:"total_quantity"`
	Subtotal      string             `json:"subtotal"`
	Items         []CartItemResponse `json:"items"`
}
