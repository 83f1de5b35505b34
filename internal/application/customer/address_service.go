package customer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/customer"
	"github.com/shop/backend/internal/domain/shared"
)

// CreateAddressRequest is the payload for adding a shipping address
type CreateAddressRequest struct {
	Street     string `json:"street" binding:"required"`
	Number     string `json:"number" binding:"required"`
	Floor      string `json:"floor"`
	Apartment  string `json:"apartment"`
	City       string `json:"city" binding:"required"`
	Province   string `json:"province" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	IsDefault  bool   `json:"is_default"`
}

// AddressResponse is the address representation returned to clients
type AddressResponse struct {
	ID         uuid.UUID `json:"id"`
	Street     string    `json:"street"`
	Number     string    `json:"number"`
	Floor      string    `json:"floor,omitempty"`
	Apartment  string    `json:"apartment,omitempty"`
	City       string    `json:"city"`
	Province   string    `json:"province"`
	PostalCode string    `json:"postal_code"`
	IsDefault  bool      `json:"is_default"`
}

// NewAddressResponse maps an address to its response representation
func NewAddressResponse(address *customer.Address) *AddressResponse {
	return &AddressResponse{
		ID:         address.ID,
		Street:     address.Street,
		Number:     address.Number,
		Floor:      address.Floor,
		Apartment:  address.Apartment,
		City:       address.City,
		Province:   address.Province,
		PostalCode: address.PostalCode,
		IsDefault:  address.IsDefault,
	}
}

// AddressService manages a user's address book
type AddressService struct {
	addresses customer.AddressRepository
	logger    *zap.Logger
}

// NewAddressService creates an address service
func NewAddressService(addresses customer.AddressRepository, logger *zap.Logger) *AddressService {
	return &AddressService{addresses: addresses, logger: logger}
}

// ListAddresses returns a user's active addresses, default first
func (s *AddressService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]AddressResponse, error) {
	addresses, err := s.addresses.FindAllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	responses := make([]AddressResponse, 0, len(addresses))
	for i := range addresses {
		responses = append(responses, *NewAddressResponse(&addresses[i]))
	}
	return responses, nil
}

// CreateAddress adds an address to a user's address book
func (s *AddressService) CreateAddress(ctx context.Context, userID uuid.UUID, req CreateAddressRequest) (*AddressResponse, error) {
	address, err := customer.NewAddress(userID, req.Street, req.Number, req.City, req.Province, req.PostalCode)
	if err != nil {
		return nil, err
	}
	address.Floor = req.Floor
	address.Apartment = req.Apartment
	if req.IsDefault {
		if err := s.clearDefault(ctx, userID); err != nil {
			return nil, err
		}
		address.MarkDefault()
	}

	if err := s.addresses.Save(ctx, address); err != nil {
		return nil, err
	}
	return NewAddressResponse(address), nil
}

// DeleteAddress soft-deletes a user's address. Historical orders keep
// referencing the row.
func (s *AddressService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	address, err := s.addresses.FindByID(ctx, addressID)
	if err != nil {
		return err
	}
	if address.UserID != userID {
		return shared.ErrNotFound
	}
	address.Active = false
	address.IsDefault = false
	address.UpdatedAt = time.Now()
	return s.addresses.Save(ctx, address)
}

// clearDefault unsets the current default before promoting a new one
func (s *AddressService) clearDefault(ctx context.Context, userID uuid.UUID) error {
	addresses, err := s.addresses.FindAllForUser(ctx, userID)
	if err != nil {
		return err
	}
	for i := range addresses {
		if !addresses[i].IsDefault {
			continue
		}
		addresses[i].IsDefault = false
		addresses[i].UpdatedAt = time.Now()
		if err := s.addresses.Save(ctx, &addresses[i]); err != nil {
			return err
		}
	}
	return nil
}
