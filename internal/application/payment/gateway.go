package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway statuses as reported by the payment provider
const (
	GatewayStatusApproved = "approved"
	GatewayStatusRejected = "rejected"
	GatewayStatusPending  = "pending"
)

// PreferenceRequest describes the checkout the gateway should host
type PreferenceRequest struct {
	ExternalReference string
	Title             string
	Amount            decimal.Decimal
	PayerEmail        string
}

// Preference is a hosted checkout created at the gateway
type Preference struct {
	ID          string
	CheckoutURL string
}

// PaymentInfo is the gateway's view of a payment, fetched when a webhook
// notification arrives
type PaymentInfo struct {
	ID                string
	Status            string
	StatusDetail      string
	ExternalReference string
	PayerEmail        string
	Amount            decimal.Decimal
}

// Gateway abstracts the external payment provider
type Gateway interface {
	// CreatePreference creates a hosted checkout for an order
	CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error)

	// GetPayment fetches the current state of a payment
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

// NotificationStore deduplicates gateway notifications. The gateway retries
// webhooks aggressively, so the same notification can arrive many times.
type NotificationStore interface {
	// MarkProcessed records a notification key and reports whether this
	// call was the first to see it
	MarkProcessed(ctx context.Context, key string) (bool, error)
}
