package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product and variant persistence
type ProductRepository interface {
	// FindByID finds a product by its ID with variants preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForUpdate finds a product by ID while acquiring an exclusive
	// row lock (SELECT ... FOR UPDATE). Variants are preloaded so the
	// aggregate stock of legacy no-variant order lines can be checked.
	// Must be called inside a transaction; the lock is held until the
	// transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll finds products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a product and its attached variants
	Save(ctx context.Context, product *Product) error

	// FindVariantByID finds a variant with size/color/product preloaded
	FindVariantByID(ctx context.Context, id uuid.UUID) (*Variant, error)

	// FindVariantForUpdate finds a variant scoped to a product while
	// acquiring an exclusive row lock on the variant row. Returns
	// VARIANT_NOT_FOUND when the variant is missing or belongs to a
	// different product. Must be called inside a transaction.
	FindVariantForUpdate(ctx context.Context, variantID, productID uuid.UUID) (*Variant, error)

	// FindVariantByIDForUpdate locks a variant by ID alone; used by the
	// stock maintenance operations where no product scoping applies.
	FindVariantByIDForUpdate(ctx context.Context, id uuid.UUID) (*Variant, error)

	// SaveVariant persists a single variant's state (stock, active flag)
	SaveVariant(ctx context.Context, variant *Variant) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Save(ctx context.Context, category *Category) error
}
