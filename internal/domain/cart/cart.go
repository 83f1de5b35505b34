package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// CartItem is one product/variant selection held in a cart. Prices are not
// frozen here; the cart always reprices from the catalog and checkout
// re-derives everything under lock.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null"`
	VariantID *uuid.UUID `gorm:"type:uuid"`
	Quantity  int        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Cart is a user- or session-owned shopping cart. Exactly one of UserID and
// SessionKey identifies the owner; guests carry a session key until login.
type Cart struct {
	shared.BaseAggregateRoot
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	SessionKey string     `gorm:"size:64;index"`
	Active     bool       `gorm:"not null;default:true"`

	Items []CartItem `gorm:"foreignKey:CartID"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCartForUser creates an empty cart owned by a user
func NewCartForUser(userID uuid.UUID) (*Cart, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            &userID,
		Active:            true,
		Items:             make([]CartItem, 0),
	}, nil
}

// NewCartForSession creates an empty cart keyed by an anonymous session
func NewCartForSession(sessionKey string) (*Cart, error) {
	if sessionKey == "" {
		return nil, shared.ErrInvalidInput
	}
	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SessionKey:        sessionKey,
		Active:            true,
		Items:             make([]CartItem, 0),
	}, nil
}

// findItem locates the item matching product + variant, nil if absent
func (c *Cart) findItem(productID uuid.UUID, variantID *uuid.UUID) *CartItem {
	for i := range c.Items {
		item := &c.Items[i]
		if item.ProductID != productID {
			continue
		}
		if (item.VariantID == nil) != (variantID == nil) {
			continue
		}
		if item.VariantID == nil || *item.VariantID == *variantID {
			return item
		}
	}
	return nil
}

// AddItem adds quantity of a product/variant, merging with an existing line
func (c *Cart) AddItem(productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	if productID == uuid.Nil {
		return shared.ErrProductNotFound
	}
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}

	if existing := c.findItem(productID, variantID); existing != nil {
		existing.Quantity += quantity
		existing.UpdatedAt = time.Now()
		return nil
	}

	c.Items = append(c.Items, CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		ProductID:  productID,
		VariantID:  variantID,
		Quantity:   quantity,
	})
	return nil
}

// UpdateItemQuantity replaces the quantity of an existing line
func (c *Cart) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			c.Items[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem deletes a line from the cart
func (c *Cart) RemoveItem(itemID uuid.UUID) error {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

// Clear empties the cart, typically after a successful checkout
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
}

// TotalQuantity sums the quantities of all lines
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal prices the cart against the supplied unit prices, keyed by item ID.
// Items without a price entry are skipped; the caller decides whether that is
// an error.
func (c *Cart) Subtotal(unitPrices map[uuid.UUID]decimal.Decimal) valueobject.Money {
	total := decimal.Zero
	for _, item := range c.Items {
		price, ok := unitPrices[item.ID]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return valueobject.NewMoneyARS(total)
}
