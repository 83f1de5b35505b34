package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// Size is a catalog of garment sizes (XS, S, M, ...)
type Size struct {
	shared.BaseEntity
	Name      string `gorm:"size:50;not null;uniqueIndex"`
	SortOrder int    `gorm:"not null;default:0"`
	Active    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Size) TableName() string {
	return "sizes"
}

// Color is a catalog of available colors
type Color struct {
	shared.BaseEntity
	Name    string `gorm:"size:50;not null;uniqueIndex"`
	HexCode string `gorm:"size:7"`
	Active  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Color) TableName() string {
	return "colors"
}

// Variant is one sellable (product, size, color) combination with its own
// stock counter. Stock is the only contended resource in the system: every
// mutation must happen while holding an exclusive row lock on the variant
// (ProductRepository.FindVariantForUpdate), held until the enclosing
// transaction commits or aborts.
type Variant struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_variant_product_size_color,priority:1"`
	SizeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_variant_product_size_color,priority:2"`
	ColorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_variant_product_size_color,priority:3"`
	Stock     int       `gorm:"not null;default:0"`
	Active    bool      `gorm:"not null;default:true"`

	Product *Product `gorm:"foreignKey:ProductID"`
	Size    *Size    `gorm:"foreignKey:SizeID"`
	Color   *Color   `gorm:"foreignKey:ColorID"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// DisplayName renders "Product (Size - Color)" when the associations are
// loaded; order lines freeze this string at creation time.
func (v *Variant) DisplayName() string {
	product := "variant " + v.ID.String()
	if v.Product != nil {
		product = v.Product.Name
	}
	if v.Size != nil && v.Color != nil {
		return fmt.Sprintf("%s (%s - %s)", product, v.Size.Name, v.Color.Name)
	}
	return product
}

// HasStock reports whether the variant is active and holds at least quantity
// units. An inactive variant never has stock, regardless of its counter.
func (v *Variant) HasStock(quantity int) bool {
	return v.Active && v.Stock >= quantity
}

// CheckStock verifies that quantity can be sold from this variant.
// Fails with INVALID_QUANTITY for non-positive quantities and with
// INSUFFICIENT_STOCK when the active stock does not cover the request.
func (v *Variant) CheckStock(quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	if !v.HasStock(quantity) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s. Available: %d", v.DisplayName(), v.Stock))
	}
	return nil
}

// Decrease subtracts quantity from the stock counter after a CheckStock
// pass; it never drives the counter negative.
func (v *Variant) Decrease(quantity int) error {
	if err := v.CheckStock(quantity); err != nil {
		return err
	}
	v.Stock -= quantity
	v.UpdatedAt = time.Now()
	return nil
}

// Increase adds quantity to the stock counter (restocks, cancellations).
// No upper bound is enforced.
func (v *Variant) Increase(quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidQuantity
	}
	v.Stock += quantity
	v.UpdatedAt = time.Now()
	return nil
}

// FinalPrice resolves the selling price for this variant. Variants do not
// carry independent pricing; the price is the owning product's base price.
func (v *Variant) FinalPrice() (valueobject.Money, error) {
	if v.Product == nil {
		return valueobject.Money{}, shared.NewDomainError("PRODUCT_NOT_LOADED", "Variant product association is not loaded")
	}
	return v.Product.BasePriceMoney(), nil
}

// Disable soft-disables the variant, fully blocking sales even with stock > 0
func (v *Variant) Disable() {
	v.Active = false
	v.UpdatedAt = time.Now()
}

// Enable re-activates the variant
func (v *Variant) Enable() {
	v.Active = true
	v.UpdatedAt = time.Now()
}
