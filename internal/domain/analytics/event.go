package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
)

// UserEventType classifies a recorded user event
type UserEventType string

const (
	UserEventProductView UserEventType = "product_view"
	UserEventAddToCart   UserEventType = "add_to_cart"
	UserEventPurchase    UserEventType = "purchase"
	UserEventSearch      UserEventType = "search"
)

// IsValid checks if the type is a known UserEventType
func (t UserEventType) IsValid() bool {
	switch t {
	case UserEventProductView, UserEventAddToCart, UserEventPurchase, UserEventSearch:
		return true
	}
	return false
}

// UserEvent is one recorded behavioral event. Writes are fire-and-forget
// from the bus subscriber; losing one is acceptable, failing a checkout
// over one is not.
type UserEvent struct {
	shared.BaseEntity
	UserID     *uuid.UUID      `gorm:"type:uuid;index"`
	SessionKey string          `gorm:"size:64"`
	EventType  UserEventType   `gorm:"size:30;not null;index"`
	ProductID  *uuid.UUID      `gorm:"type:uuid;index"`
	OrderID    *uuid.UUID      `gorm:"type:uuid"`
	Quantity   int             `gorm:"not null;default:0"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	OccurredAt time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (UserEvent) TableName() string {
	return "user_events"
}

// NewUserEvent creates a user event stamped at the given instant
func NewUserEvent(eventType UserEventType, occurredAt time.Time) (*UserEvent, error) {
	if !eventType.IsValid() {
		return nil, shared.NewDomainError("INVALID_EVENT_TYPE", "Unknown user event type: "+string(eventType))
	}
	return &UserEvent{
		BaseEntity: shared.NewBaseEntity(),
		EventType:  eventType,
		OccurredAt: occurredAt,
	}, nil
}
