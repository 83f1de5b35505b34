package customer

import (
	"github.com/google/uuid"

	"github.com/shop/backend/internal/domain/shared"
)

// Address is a customer shipping address. Checkout only needs to verify that
// a submitted address exists and belongs to the buyer; the full address book
// lives behind the account endpoints.
type Address struct {
	shared.BaseEntity
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Street     string    `gorm:"size:255;not null"`
	Number     string    `gorm:"size:20;not null"`
	Floor      string    `gorm:"size:20"`
	Apartment  string    `gorm:"size:20"`
	City       string    `gorm:"size:100;not null"`
	Province   string    `gorm:"size:100;not null"`
	PostalCode string    `gorm:"size:20;not null"`
	IsDefault  bool      `gorm:"not null;default:false"`
	Active     bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// NewAddress creates a shipping address for a user
func NewAddress(userID uuid.UUID, street, number, city, province, postalCode string) (*Address, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	if street == "" || number == "" || city == "" || province == "" || postalCode == "" {
		return nil, shared.NewDomainError("INVALID_ADDRESS_DATA", "Street, number, city, province and postal code are required")
	}
	return &Address{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Street:     street,
		Number:     number,
		City:       city,
		Province:   province,
		PostalCode: postalCode,
		Active:     true,
	}, nil
}

// MarkDefault flags this address as the user's default
func (a *Address) MarkDefault() {
	a.IsDefault = true
}
