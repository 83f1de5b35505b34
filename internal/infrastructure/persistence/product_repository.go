package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product with variants and their size/color preloaded
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Preload("Variants.Size").
		Preload("Variants.Color").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrProductNotFound
		}
		return nil, mapError(err)
	}
	return &product, nil
}

// FindByIDForUpdate locks the product row (SELECT ... FOR UPDATE) and loads
// its variants. The preloads run as separate, unlocked queries; the variant
// rows that will be mutated are locked individually by FindVariantForUpdate.
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Variants").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrProductNotFound
		}
		return nil, mapError(err)
	}
	return &product, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx), filter).
		Preload("Variants").
		Preload("Variants.Size").
		Preload("Variants.Color")

	query = applyOrdering(query, filter)
	query = applyPagination(query, filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// Save creates or updates a product and its attached variants
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return mapError(r.db.WithContext(ctx).Save(product).Error)
}

// FindVariantByID finds a variant with its associations preloaded
func (r *GormProductRepository) FindVariantByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Size").
		Preload("Color").
		First(&variant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrVariantNotFound
		}
		return nil, mapError(err)
	}
	return &variant, nil
}

// FindVariantForUpdate locks a variant row scoped to a product. A variant
// that exists under a different product reports VARIANT_NOT_FOUND, the same
// as a missing one.
func (r *GormProductRepository) FindVariantForUpdate(ctx context.Context, variantID, productID uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&variant, "id = ? AND product_id = ?", variantID, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrVariantNotFound
		}
		return nil, mapError(err)
	}
	if err := r.loadVariantRefs(ctx, &variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

// FindVariantByIDForUpdate locks a variant row by ID alone
func (r *GormProductRepository) FindVariantByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var variant catalog.Variant
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&variant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrVariantNotFound
		}
		return nil, mapError(err)
	}
	if err := r.loadVariantRefs(ctx, &variant); err != nil {
		return nil, err
	}
	return &variant, nil
}

// SaveVariant persists a single variant's state
func (r *GormProductRepository) SaveVariant(ctx context.Context, variant *catalog.Variant) error {
	return mapError(r.db.WithContext(ctx).
		Model(&catalog.Variant{}).
		Where("id = ?", variant.ID).
		Updates(map[string]any{
			"stock":      variant.Stock,
			"active":     variant.Active,
			"updated_at": variant.UpdatedAt,
		}).Error)
}

// loadVariantRefs loads the size/color rows after a locked read; the locked
// SELECT itself cannot carry preloads without widening the lock to the
// referenced tables.
func (r *GormProductRepository) loadVariantRefs(ctx context.Context, variant *catalog.Variant) error {
	if variant.SizeID != uuid.Nil {
		var size catalog.Size
		if err := r.db.WithContext(ctx).First(&size, "id = ?", variant.SizeID).Error; err == nil {
			variant.Size = &size
		}
	}
	if variant.ColorID != uuid.Nil {
		var color catalog.Color
		if err := r.db.WithContext(ctx).First(&color, "id = ?", variant.ColorID).Error; err == nil {
			variant.Color = &color
		}
	}
	return nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if active, ok := filter.Filters["active"].(bool); ok {
		query = query.Where("active = ?", active)
	}
	if categoryID, ok := filter.Filters["category_id"].(uuid.UUID); ok {
		query = query.Where("category_id = ?", categoryID)
	}
	if featured, ok := filter.Filters["featured"].(bool); ok {
		query = query.Where("featured = ?", featured)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// orderableColumns whitelists the columns callers may sort by
var orderableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"base_price": true,
}

// applyOrdering applies the filter's ordering with a safe fallback
func applyOrdering(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if !orderableColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "DESC"
	if filter.OrderDir == "asc" {
		dir = "ASC"
	}
	return query.Order(orderBy + " " + dir)
}

// applyPagination applies the filter's page window
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
