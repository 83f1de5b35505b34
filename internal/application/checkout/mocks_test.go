package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/checkout"
	"github.com/shop/backend/internal/domain/customer"
	"github.com/shop/backend/internal/domain/shared"
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

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*checkout.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*checkout.Order, error) {
	args := m.Called(ctx, orderNumber)
	if o := args.Get(0); o != nil {
		return o.(*checkout.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]checkout.Order, error) {
	args := m.Called(ctx, userID, filter)
	if o := args.Get(0); o != nil {
		return o.([]checkout.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]checkout.Order, error) {
	args := m.Called(ctx, filter)
	if o := args.Get(0); o != nil {
		return o.([]checkout.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOrderRepository) Save(ctx context.Context, order *checkout.Order) error {
	return m.Called(ctx, order).Error(0)
}

type mockPaymentRepository struct {
	mock.Mock
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Payment, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*checkout.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*checkout.Payment, error) {
	args := m.Called(ctx, orderID)
	if p := args.Get(0); p != nil {
		return p.(*checkout.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentRepository) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*checkout.Payment, error) {
	args := m.Called(ctx, gatewayPaymentID)
	if p := args.Get(0); p != nil {
		return p.(*checkout.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPaymentRepository) Save(ctx context.Context, payment *checkout.Payment) error {
	return m.Called(ctx, payment).Error(0)
}

type mockAddressRepository struct {
	mock.Mock
}

func (m *mockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Address, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*customer.Address), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAddressRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockAddressRepository) FindAllForUser(ctx context.Context, userID uuid.UUID) ([]customer.Address, error) {
	args := m.Called(ctx, userID)
	if a := args.Get(0); a != nil {
		return a.([]customer.Address), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAddressRepository) Save(ctx context.Context, address *customer.Address) error {
	return m.Called(ctx, address).Error(0)
}

// capturingPublisher records published events; Err, when set, is returned
// from Publish to exercise the best-effort path.
type capturingPublisher struct {
	Events []shared.DomainEvent
	Err    error
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, events...)
	return nil
}
