package checkout

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/domain/shared/valueobject"
)

func money(t *testing.T, s string) valueobject.Money {
	t.Helper()
	m, err := valueobject.NewMoneyARSFromString(s)
	require.NoError(t, err)
	return m
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	contact := Contact{Email: "cliente@example.com", Phone: "+54 11 5555-0101"}
	order, err := NewOrder("PN20260315104502", nil, nil, contact,
		money(t, "1500.00"), money(t, "250.00"),
		PaymentMethodCash, PaymentStatusPending)
	require.NoError(t, err)
	return order
}

func TestGenerateOrderNumber(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 45, 2, 0, time.FixedZone("ART", -3*3600))

	got := GenerateOrderNumber(at)

	// 10:45:02 ART is 13:45:02 UTC
	assert.Equal(t, "PN20260315134502", got)
}

func TestGenerateOrderNumberSameSecondCollides(t *testing.T) {
	at := time.Date(2026, 3, 15, 10, 45, 2, 0, time.UTC)

	assert.Equal(t, GenerateOrderNumber(at), GenerateOrderNumber(at.Add(500*time.Millisecond)))
}

func TestNewOrderComputesTotal(t *testing.T) {
	order := newTestOrder(t)

	assert.Equal(t, "1500.00", order.SubtotalMoney().StringFixed(2))
	assert.Equal(t, "1750.00", order.TotalMoney().StringFixed(2))
	assert.Equal(t, "250.00", order.ShippingCostMoney().StringFixed(2))
	assert.Equal(t, OrderStatusInPreparation, order.Status)
	assert.Equal(t, PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.Active)
}

func TestNewOrderValidation(t *testing.T) {
	contact := Contact{Email: "cliente@example.com"}

	_, err := NewOrder("", nil, nil, contact, money(t, "100.00"), money(t, "0"), PaymentMethodCash, PaymentStatusPending)
	assert.Error(t, err)

	_, err = NewOrder("PN20260315104502", nil, nil, Contact{}, money(t, "100.00"), money(t, "0"), PaymentMethodCash, PaymentStatusPending)
	assert.Error(t, err)

	_, err = NewOrder("PN20260315104502", nil, nil, contact, money(t, "100.00"), money(t, "0"), PaymentMethod("crypto"), PaymentStatusPending)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PAYMENT_METHOD", domainErr.Code)
}

func TestAddLineFreezesSnapshot(t *testing.T) {
	order := newTestOrder(t)
	productID := uuid.New()
	variantID := uuid.New()

	line, err := order.AddLine(productID, &variantID, "Remera Clasica (M - Rojo)", 3, money(t, "500.00"))
	require.NoError(t, err)

	assert.Equal(t, order.ID, line.OrderID)
	assert.Equal(t, "Remera Clasica (M - Rojo)", line.ProductName)
	assert.Equal(t, "1500.00", line.SubtotalMoney().StringFixed(2))
	assert.Equal(t, 3, order.TotalQuantity())
}

func TestAddLineRejectsInvalidQuantity(t *testing.T) {
	order := newTestOrder(t)

	_, err := order.AddLine(uuid.New(), nil, "Remera Clasica", 0, money(t, "500.00"))
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_QUANTITY", domainErr.Code)
}

func TestOrderStatusTransitions(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.UpdateStatus(OrderStatusShipped))
	require.NoError(t, order.UpdateStatus(OrderStatusDelivered))

	err := order.UpdateStatus(OrderStatusCancelled)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestOrderCancelOnlyFromPreparation(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.UpdateStatus(OrderStatusCancelled))
	assert.Error(t, order.UpdateStatus(OrderStatusShipped))
}

func TestConfirmPayment(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.ConfirmPayment())
	assert.Equal(t, PaymentStatusPaid, order.PaymentStatus)

	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeOrderPaymentConfirmed, events[0].EventType())

	assert.Error(t, order.ConfirmPayment())
}

func TestRejectPaymentAfterPaidFails(t *testing.T) {
	order := newTestOrder(t)

	require.NoError(t, order.ConfirmPayment())
	assert.Error(t, order.RejectPayment())
}

func TestNewPaymentPendingHasNoPaidAt(t *testing.T) {
	order := newTestOrder(t)

	payment, err := NewPayment(order, time.Now())
	require.NoError(t, err)

	assert.Equal(t, order.ID, payment.OrderID)
	assert.Equal(t, order.OrderNumber, payment.OrderNumber)
	assert.Equal(t, "1750.00", payment.AmountMoney().StringFixed(2))
	assert.Equal(t, PaymentStatusPending, payment.Status)
	assert.Nil(t, payment.PaidAt)
}

func TestNewPaymentSettledStampsPaidAt(t *testing.T) {
	contact := Contact{Email: "cliente@example.com"}
	order, err := NewOrder("PN20260315104502", nil, nil, contact,
		money(t, "1500.00"), money(t, "0"), PaymentMethodCash, PaymentStatusPaid)
	require.NoError(t, err)

	now := time.Now()
	payment, err := NewPayment(order, now)
	require.NoError(t, err)

	require.NotNil(t, payment.PaidAt)
	assert.Equal(t, now, *payment.PaidAt)
}

func TestPaymentMarkPaid(t *testing.T) {
	order := newTestOrder(t)
	payment, err := NewPayment(order, time.Now())
	require.NoError(t, err)

	when := time.Now()
	require.NoError(t, payment.MarkPaid("mp-12345", "accredited", when))

	assert.Equal(t, PaymentStatusPaid, payment.Status)
	assert.Equal(t, "mp-12345", payment.GatewayPaymentID)
	require.NotNil(t, payment.PaidAt)
	assert.Equal(t, when, *payment.PaidAt)

	assert.Error(t, payment.MarkPaid("mp-12345", "accredited", when))
	assert.Error(t, payment.MarkRejected("mp-12345", "cc_rejected", when))
}

func TestOrderCreatedEventCarriesLines(t *testing.T) {
	order := newTestOrder(t)
	variantID := uuid.New()
	_, err := order.AddLine(uuid.New(), &variantID, "Remera Clasica (M - Rojo)", 2, money(t, "750.00"))
	require.NoError(t, err)

	event := NewOrderCreatedEvent(order)

	assert.Equal(t, EventTypeOrderCreated, event.EventType())
	assert.Equal(t, order.ID, event.AggregateID())
	assert.Equal(t, order.OrderNumber, event.OrderNumber)
	require.Len(t, event.Lines, 1)
	assert.Equal(t, 2, event.Lines[0].Quantity)
	assert.Equal(t, &variantID, event.Lines[0].VariantID)
}
