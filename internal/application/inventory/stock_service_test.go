package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if p := args.Get(0); p != nil {
		return p.([]catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepository) FindVariantByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*catalog.Variant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) FindVariantForUpdate(ctx context.Context, variantID, productID uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, variantID, productID)
	if v := args.Get(0); v != nil {
		return v.(*catalog.Variant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) FindVariantByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*catalog.Variant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepository) SaveVariant(ctx context.Context, variant *catalog.Variant) error {
	return m.Called(ctx, variant).Error(0)
}

func newTestVariant(t *testing.T, stock int) *catalog.Variant {
	t.Helper()
	price, err := valueobject.NewMoneyARSFromString("500.00")
	require.NoError(t, err)
	product, err := catalog.NewProduct(uuid.New(), "Remera Clasica", price)
	require.NoError(t, err)
	size := catalog.Size{BaseEntity: shared.NewBaseEntity(), Name: "M", Active: true}
	color := catalog.Color{BaseEntity: shared.NewBaseEntity(), Name: "Rojo", Active: true}
	variant, err := product.AddVariant(size, color, stock)
	require.NoError(t, err)
	variant.Product = product
	return variant
}

func newStockService(products catalog.ProductRepository) *StockService {
	return NewStockService(&NoOpTransactionScope{Products: products}, zap.NewNop())
}

func TestIncrementAddsStock(t *testing.T) {
	variant := newTestVariant(t, 3)
	products := new(mockProductRepository)
	products.On("FindVariantByIDForUpdate", mock.Anything, variant.ID).Return(variant, nil)
	products.On("SaveVariant", mock.Anything, variant).Return(nil)

	resp, err := newStockService(products).Increment(context.Background(), variant.ID,
		AdjustStockRequest{Quantity: 10, Reason: "restock"})

	require.NoError(t, err)
	assert.Equal(t, 13, resp.Stock)
	products.AssertExpectations(t)
}

func TestDecrementGuardedByAvailability(t *testing.T) {
	variant := newTestVariant(t, 3)
	products := new(mockProductRepository)
	products.On("FindVariantByIDForUpdate", mock.Anything, variant.ID).Return(variant, nil)

	_, err := newStockService(products).Decrement(context.Background(), variant.ID,
		AdjustStockRequest{Quantity: 5, Reason: "correction"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	assert.Equal(t, 3, variant.Stock)
	products.AssertNotCalled(t, "SaveVariant", mock.Anything, mock.Anything)
}

func TestAdjustRejectsNonPositiveQuantity(t *testing.T) {
	variant := newTestVariant(t, 3)
	products := new(mockProductRepository)
	products.On("FindVariantByIDForUpdate", mock.Anything, variant.ID).Return(variant, nil)

	_, err := newStockService(products).Increment(context.Background(), variant.ID,
		AdjustStockRequest{Quantity: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidQuantity)

	_, err = newStockService(products).Decrement(context.Background(), variant.ID,
		AdjustStockRequest{Quantity: -2})
	assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
}

func TestAdjustUnknownVariant(t *testing.T) {
	missing := uuid.New()
	products := new(mockProductRepository)
	products.On("FindVariantByIDForUpdate", mock.Anything, missing).Return(nil, shared.ErrVariantNotFound)

	_, err := newStockService(products).Increment(context.Background(), missing,
		AdjustStockRequest{Quantity: 1})
	assert.ErrorIs(t, err, shared.ErrVariantNotFound)
}
