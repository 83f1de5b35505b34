package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
)

// ProductService is the catalog read side: browsing uses plain reads, no
// locks. Availability shown here may go stale; checkout revalidates under
// lock.
type ProductService struct {
	products   catalog.ProductRepository
	categories catalog.CategoryRepository
	logger     *zap.Logger
}

// NewProductService creates a product service
func NewProductService(products catalog.ProductRepository, categories catalog.CategoryRepository, logger *zap.Logger) *ProductService {
	return &ProductService{products: products, categories: categories, logger: logger}
}

// ListProducts returns a page of active products matching the query
func (s *ProductService) ListProducts(ctx context.Context, query ListProductsQuery) (*shared.Paginated[ProductResponse], error) {
	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 && query.PageSize <= 100 {
		filter.PageSize = query.PageSize
	}
	filter.Search = query.Search
	filter.Filters["active"] = true
	if query.CategoryID != nil {
		filter.Filters["category_id"] = *query.CategoryID
	}
	if query.Featured != nil {
		filter.Filters["featured"] = *query.Featured
	}

	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, *NewProductResponse(&products[i]))
	}
	page := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetProduct returns one active product with its variants
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, shared.ErrProductNotFound
	}
	return NewProductResponse(product), nil
}

// ListCategories returns the active categories
func (s *ProductService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	filter := shared.DefaultFilter()
	filter.Filters["active"] = true
	filter.OrderBy = "name"
	filter.OrderDir = "asc"

	categories, err := s.categories.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, *NewCategoryResponse(&categories[i]))
	}
	return responses, nil
}
