package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// Category groups products for browsing
type Category struct {
	shared.BaseEntity
	Name        string `gorm:"size:100;not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
		Active:      true,
	}, nil
}

// Product is a catalog entry. Pricing lives on the product; variants carry
// stock only and resolve their final price from the product's base price.
// Historical order lines copy name and price, so later catalog edits never
// rewrite order history.
type Product struct {
	shared.BaseAggregateRoot
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Material    string          `gorm:"size:100"`
	Active      bool            `gorm:"not null;default:true"`
	Featured    bool            `gorm:"not null;default:false"`

	Variants []Variant `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(categoryID uuid.UUID, name string, basePrice valueobject.Money) (*Product, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		Name:              name,
		BasePrice:         basePrice.Amount(),
		Active:            true,
		Variants:          make([]Variant, 0),
	}, nil
}

// BasePriceMoney returns the base price as a Money value object
func (p *Product) BasePriceMoney() valueobject.Money {
	return valueobject.NewMoneyARS(p.BasePrice)
}

// TotalStock sums the stock of all loaded variants
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// AvailableStock sums the stock of active loaded variants. This is the
// aggregate count the legacy no-variant order path is checked against.
func (p *Product) AvailableStock() int {
	total := 0
	for _, v := range p.Variants {
		if v.Active {
			total += v.Stock
		}
	}
	return total
}

// HasAvailableStock reports whether the aggregate active stock covers quantity
func (p *Product) HasAvailableStock(quantity int) bool {
	return p.Active && p.AvailableStock() >= quantity
}

// Disable soft-disables the product. Disabled products stay referenced by
// historical orders but can no longer be sold.
func (p *Product) Disable() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

// Enable re-activates the product
func (p *Product) Enable() {
	p.Active = true
	p.UpdatedAt = time.Now()
}

// AddVariant creates a variant for a size/color combination and attaches it
// to the product. Uniqueness per (product, size, color) is enforced by the
// database index; the in-memory check catches the common case early.
func (p *Product) AddVariant(size Size, color Color, stock int) (*Variant, error) {
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Initial stock cannot be negative")
	}
	for i := range p.Variants {
		if p.Variants[i].SizeID == size.ID && p.Variants[i].ColorID == color.ID {
			return nil, shared.ErrAlreadyExists
		}
	}

	variant := Variant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  p.ID,
		SizeID:     size.ID,
		ColorID:    color.ID,
		Size:       &size,
		Color:      &color,
		Stock:      stock,
		Active:     true,
	}
	p.Variants = append(p.Variants, variant)
	p.UpdatedAt = time.Now()
	return &p.Variants[len(p.Variants)-1], nil
}
