package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

// buildProduct creates a product with one M/Rojo variant holding stock units
func buildProduct(t *testing.T, name, price string, stock int) (*catalog.Product, *catalog.Variant) {
	t.Helper()
	basePrice, err := valueobject.NewMoneyARSFromString(price)
	require.NoError(t, err)
	product, err := catalog.NewProduct(uuid.New(), name, basePrice)
	require.NoError(t, err)

	size := catalog.Size{BaseEntity: shared.NewBaseEntity(), Name: "M", Active: true}
	color := catalog.Color{BaseEntity: shared.NewBaseEntity(), Name: "Rojo", Active: true}
	variant, err := product.AddVariant(size, color, stock)
	require.NoError(t, err)
	variant.Product = product
	return product, variant
}

func TestAssembleVariantLine(t *testing.T) {
	product, variant := buildProduct(t, "Remera Clasica", "500.00", 10)
	products := new(mockProductRepository)
	products.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
	products.On("FindVariantForUpdate", mock.Anything, variant.ID, product.ID).Return(variant, nil)

	assembly, err := NewAssembler(false).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, assembly.Lines, 1)
	line := assembly.Lines[0]
	assert.Equal(t, "Remera Clasica (M - Rojo)", line.ProductName)
	assert.Equal(t, "500.00", line.UnitPrice.StringFixed(2))
	assert.Equal(t, "1500.00", line.Subtotal.StringFixed(2))
	assert.Equal(t, "1500.00", assembly.Subtotal.StringFixed(2))
	// assembly must not mutate stock
	assert.Equal(t, 10, variant.Stock)
}

func TestAssembleIgnoresClientPricing(t *testing.T) {
	// price always re-derived from the product base price
	product, variant := buildProduct(t, "Remera Clasica", "999.99", 5)
	products := new(mockProductRepository)
	products.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
	products.On("FindVariantForUpdate", mock.Anything, variant.ID, product.ID).Return(variant, nil)

	assembly, err := NewAssembler(false).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "999.99", assembly.Lines[0].UnitPrice.StringFixed(2))
}

func TestAssembleLegacyLineChecksAggregateStock(t *testing.T) {
	product, _ := buildProduct(t, "Remera Clasica", "500.00", 4)
	products := new(mockProductRepository)
	products.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)

	assembler := NewAssembler(false)

	assembly, err := assembler.Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, Quantity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, "Remera Clasica", assembly.Lines[0].ProductName)
	assert.Nil(t, assembly.Lines[0].Variant)

	_, err = assembler.Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, Quantity: 5},
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
}

func TestAssembleProductNotFound(t *testing.T) {
	missingID := uuid.New()
	products := new(mockProductRepository)
	products.On("FindByIDForUpdate", mock.Anything, missingID).Return(nil, shared.ErrProductNotFound)

	_, err := NewAssembler(false).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: missingID, Quantity: 1},
	})
	assert.ErrorIs(t, err, shared.ErrProductNotFound)
}

func TestAssembleInactiveProductNotSellable(t *testing.T) {
	product, _ := buildProduct(t, "Remera Clasica", "500.00", 10)
	product.Disable()
	products := new(mockProductRepository)
	products.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)

	_, err := NewAssembler(false).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	assert.ErrorIs(t, err, shared.ErrProductNotFound)
}

func TestAssembleVariantScopedToProduct(t *testing.T) {
	product, _ := buildProduct(t, "Remera Clasica", "500.00", 10)
	foreignVariantID := uuid.New()
	products := new(mockProductRepository)
	products.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
	products.On("FindVariantForUpdate", mock.Anything, foreignVariantID, product.ID).
		Return(nil, shared.ErrVariantNotFound)

	_, err := NewAssembler(false).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, VariantID: &foreignVariantID, Quantity: 1},
	})
	assert.ErrorIs(t, err, shared.ErrVariantNotFound)
}

func TestAssembleInvalidQuantityBeforeLookup(t *testing.T) {
	products := new(mockProductRepository)

	_, err := NewAssembler(false).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: uuid.New(), Quantity: 0},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	products.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

func TestAssembleFirstFailureWins(t *testing.T) {
	product, variant := buildProduct(t, "Remera Clasica", "500.00", 10)
	products := new(mockProductRepository)

	_, err := NewAssembler(false).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: -1},
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
	})
	assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	products.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

func TestAssembleCollectAllGathersEveryFailure(t *testing.T) {
	product, variant := buildProduct(t, "Remera Clasica", "500.00", 2)
	missingID := uuid.New()
	products := new(mockProductRepository)
	products.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
	products.On("FindByIDForUpdate", mock.Anything, missingID).Return(nil, shared.ErrProductNotFound)
	products.On("FindVariantForUpdate", mock.Anything, variant.ID, product.ID).Return(variant, nil)

	_, err := NewAssembler(true).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: 0},
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
		{ProductID: missingID, Quantity: 1},
	})

	var assemblyErr *AssemblyError
	require.ErrorAs(t, err, &assemblyErr)
	require.Len(t, assemblyErr.Lines, 2)
	assert.Equal(t, 0, assemblyErr.Lines[0].Index)
	assert.Equal(t, 2, assemblyErr.Lines[1].Index)

	// errors.As through the wrapper still yields a DomainError
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
}

func TestAssembleMergesDuplicateVariantLines(t *testing.T) {
	product, variant := buildProduct(t, "Remera Clasica", "500.00", 5)
	products := new(mockProductRepository)
	products.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
	products.On("FindVariantForUpdate", mock.Anything, variant.ID, product.ID).Return(variant, nil)

	assembly, err := NewAssembler(false).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2},
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: 3},
	})
	require.NoError(t, err)

	require.Len(t, assembly.Lines, 1)
	assert.Equal(t, 5, assembly.Lines[0].Quantity)
	assert.Equal(t, "2500.00", assembly.Subtotal.StringFixed(2))
}

func TestAssembleDuplicateLinesCannotOversell(t *testing.T) {
	// two qty-1 lines against a single unit must not both pass the stock
	// check
	product, variant := buildProduct(t, "Remera Clasica", "500.00", 1)
	products := new(mockProductRepository)
	products.On("FindByIDForUpdate", mock.Anything, product.ID).Return(product, nil)
	products.On("FindVariantForUpdate", mock.Anything, variant.ID, product.ID).Return(variant, nil)

	_, err := NewAssembler(false).Assemble(context.Background(), products, []OrderItemInput{
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
		{ProductID: product.ID, VariantID: &variant.ID, Quantity: 1},
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
}

func TestAssembleEmptyOrder(t *testing.T) {
	_, err := NewAssembler(false).Assemble(context.Background(), new(mockProductRepository), nil)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMPTY_ORDER", domainErr.Code)
}
