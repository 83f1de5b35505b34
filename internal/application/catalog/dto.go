package catalog

import (
	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/catalog"
)

// ListProductsQuery carries the catalog listing filters
type ListProductsQuery struct {
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	CategoryID *uuid.UUID `form:"category_id"`
	Featured   *bool      `form:"featured"`
	Search     string     `form:"search"`
}

// VariantResponse is one size/color combination of a product
type VariantResponse struct {
	ID        uuid.UUID `json:"id"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Stock     int       `json:"stock"`
	Available bool      `json:"available"`
}

// ProductResponse is the catalog representation returned to clients
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	CategoryID  uuid.UUID         `json:"category_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	BasePrice   string            `json:"base_price"`
	Material    string            `json:"material,omitempty"`
	Featured    bool              `json:"featured"`
	TotalStock  int               `json:"total_stock"`
	Variants    []VariantResponse `json:"variants"`
}

// NewProductResponse maps a product aggregate to its response representation
func NewProductResponse(product *catalog.Product) *ProductResponse {
	variants := make([]VariantResponse, 0, len(product.Variants))
	for i := range product.Variants {
		v := &product.Variants[i]
		resp := VariantResponse{
			ID:        v.ID,
			Stock:     v.Stock,
			Available: v.HasStock(1),
		}
		if v.Size != nil {
			resp.Size = v.Size.Name
		}
		if v.Color != nil {
			resp.Color = v.Color.Name
		}
		variants = append(variants, resp)
	}
	return &ProductResponse{
		ID:          product.ID,
		CategoryID:  product.CategoryID,
		Name:        product.Name,
		Description: product.Description,
		BasePrice:   product.BasePriceMoney().StringFixed(2),
		Material:    product.Material,
		Featured:    product.Featured,
		TotalStock:  product.AvailableStock(),
		Variants:    variants,
	}
}

// CategoryResponse is the category representation returned to clients
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// NewCategoryResponse maps a category to its response representation
func NewCategoryResponse(category *catalog.Category) *CategoryResponse {
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
	}
}
