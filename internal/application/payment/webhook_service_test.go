package payment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/checkout"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

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

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	args := m.Called(ctx, req)
	if p := args.Get(0); p != nil {
		return p.(*Preference), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockGateway) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	args := m.Called(ctx, paymentID)
	if p := args.Get(0); p != nil {
		return p.(*PaymentInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

// memoryStore is an in-test notification store
type memoryStore struct {
	seen map[string]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{seen: make(map[string]bool)}
}

func (s *memoryStore) MarkProcessed(_ context.Context, key string) (bool, error) {
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

type capturingPublisher struct {
	Events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.Events = append(p.Events, events...)
	return nil
}

type webhookFixture struct {
	orders    *mockOrderRepository
	payments  *mockPaymentRepository
	gateway   *mockGateway
	store     *memoryStore
	publisher *capturingPublisher
	service   *WebhookService
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	f := &webhookFixture{
		orders:    new(mockOrderRepository),
		payments:  new(mockPaymentRepository),
		gateway:   new(mockGateway),
		store:     newMemoryStore(),
		publisher: &capturingPublisher{},
	}
	scope := &NoOpTransactionScope{Repos: TransactionalRepositories{
		Orders:   f.orders,
		Payments: f.payments,
	}}
	f.service = NewWebhookService(scope, f.gateway, f.store, f.payments, f.orders, f.publisher, zap.NewNop())
	return f
}

func newPendingOrder(t *testing.T, method checkout.PaymentMethod) (*checkout.Order, *checkout.Payment) {
	t.Helper()
	subtotal, err := valueobject.NewMoneyARSFromString("1500.00")
	require.NoError(t, err)
	order, err := checkout.NewOrder("PN20260315134502", nil, nil,
		checkout.Contact{Email: "cliente@example.com"},
		subtotal, valueobject.ZeroARS(), method, checkout.PaymentStatusPending)
	require.NoError(t, err)
	payment, err := checkout.NewPayment(order, time.Now())
	require.NoError(t, err)
	return order, payment
}

func TestHandleNotificationApproved(t *testing.T) {
	order, payment := newPendingOrder(t, checkout.PaymentMethodCardGateway)
	f := newWebhookFixture(t)
	f.gateway.On("GetPayment", mock.Anything, "mp-777").Return(&PaymentInfo{
		ID:                "mp-777",
		Status:            GatewayStatusApproved,
		StatusDetail:      "accredited",
		ExternalReference: order.ID.String(),
		PayerEmail:        "cliente@example.com",
		Amount:            decimal.RequireFromString("1500.00"),
	}, nil)
	f.payments.On("FindByOrderID", mock.Anything, order.ID).Return(payment, nil)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.payments.On("Save", mock.Anything, payment).Return(nil)
	f.orders.On("Save", mock.Anything, order).Return(nil)

	err := f.service.HandleNotification(context.Background(),
		WebhookNotification{Type: "payment", DataID: "mp-777"})
	require.NoError(t, err)

	assert.Equal(t, checkout.PaymentStatusPaid, payment.Status)
	assert.NotNil(t, payment.PaidAt)
	assert.Equal(t, "mp-777", payment.GatewayPaymentID)
	assert.Equal(t, checkout.PaymentStatusPaid, order.PaymentStatus)

	require.Len(t, f.publisher.Events, 1)
	assert.Equal(t, checkout.EventTypeOrderPaymentConfirmed, f.publisher.Events[0].EventType())
}

func TestHandleNotificationRejected(t *testing.T) {
	order, payment := newPendingOrder(t, checkout.PaymentMethodCardGateway)
	f := newWebhookFixture(t)
	f.gateway.On("GetPayment", mock.Anything, "mp-778").Return(&PaymentInfo{
		ID:                "mp-778",
		Status:            GatewayStatusRejected,
		StatusDetail:      "cc_rejected_insufficient_amount",
		ExternalReference: order.ID.String(),
	}, nil)
	f.payments.On("FindByOrderID", mock.Anything, order.ID).Return(payment, nil)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.payments.On("Save", mock.Anything, payment).Return(nil)
	f.orders.On("Save", mock.Anything, order).Return(nil)

	err := f.service.HandleNotification(context.Background(),
		WebhookNotification{Type: "payment", DataID: "mp-778"})
	require.NoError(t, err)

	assert.Equal(t, checkout.PaymentStatusRejected, payment.Status)
	assert.Nil(t, payment.PaidAt)
	assert.Equal(t, checkout.PaymentStatusRejected, order.PaymentStatus)
	assert.Empty(t, f.publisher.Events)
}

func TestHandleNotificationDuplicateDropped(t *testing.T) {
	order, payment := newPendingOrder(t, checkout.PaymentMethodCardGateway)
	f := newWebhookFixture(t)
	f.gateway.On("GetPayment", mock.Anything, "mp-777").Return(&PaymentInfo{
		ID:                "mp-777",
		Status:            GatewayStatusApproved,
		ExternalReference: order.ID.String(),
	}, nil).Once()
	f.payments.On("FindByOrderID", mock.Anything, order.ID).Return(payment, nil)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.payments.On("Save", mock.Anything, payment).Return(nil)
	f.orders.On("Save", mock.Anything, order).Return(nil)

	notification := WebhookNotification{Type: "payment", DataID: "mp-777"}
	require.NoError(t, f.service.HandleNotification(context.Background(), notification))
	require.NoError(t, f.service.HandleNotification(context.Background(), notification))

	f.gateway.AssertNumberOfCalls(t, "GetPayment", 1)
}

func TestHandleNotificationIgnoresOtherTypes(t *testing.T) {
	f := newWebhookFixture(t)

	require.NoError(t, f.service.HandleNotification(context.Background(),
		WebhookNotification{Type: "merchant_order", DataID: "123"}))
	require.NoError(t, f.service.HandleNotification(context.Background(),
		WebhookNotification{Type: "payment"}))

	f.gateway.AssertNotCalled(t, "GetPayment", mock.Anything, mock.Anything)
}

func TestHandleNotificationPendingStatusNoWrites(t *testing.T) {
	order, payment := newPendingOrder(t, checkout.PaymentMethodCardGateway)
	f := newWebhookFixture(t)
	f.gateway.On("GetPayment", mock.Anything, "mp-779").Return(&PaymentInfo{
		ID:                "mp-779",
		Status:            GatewayStatusPending,
		ExternalReference: order.ID.String(),
	}, nil)
	f.payments.On("FindByOrderID", mock.Anything, order.ID).Return(payment, nil)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	err := f.service.HandleNotification(context.Background(),
		WebhookNotification{Type: "payment", DataID: "mp-779"})
	require.NoError(t, err)

	f.payments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCreatePreference(t *testing.T) {
	order, payment := newPendingOrder(t, checkout.PaymentMethodCardGateway)
	f := newWebhookFixture(t)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	f.payments.On("FindByOrderID", mock.Anything, order.ID).Return(payment, nil)
	f.gateway.On("CreatePreference", mock.Anything, mock.MatchedBy(func(req PreferenceRequest) bool {
		return req.ExternalReference == order.ID.String() && req.Amount.Equal(order.Total)
	})).Return(&Preference{ID: "pref-1", CheckoutURL: "https://gateway.example/pref-1"}, nil)
	f.payments.On("Save", mock.Anything, payment).Return(nil)

	resp, err := f.service.CreatePreference(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, "pref-1", resp.PreferenceID)
	assert.Equal(t, "pref-1", payment.PreferenceID)
}

func TestCreatePreferenceOnlyForCardGateway(t *testing.T) {
	order, _ := newPendingOrder(t, checkout.PaymentMethodCash)
	f := newWebhookFixture(t)
	f.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)

	_, err := f.service.CreatePreference(context.Background(), order.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PAYMENT_METHOD", domainErr.Code)
}
