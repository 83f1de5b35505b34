package customer

import (
	"context"

	"github.com/google/uuid"
)

// AddressRepository defines the interface for address persistence
type AddressRepository interface {
	// FindByID finds an active address by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// Exists reports whether an active address with the given ID exists
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// FindAllForUser finds a user's active addresses
	FindAllForUser(ctx context.Context, userID uuid.UUID) ([]Address, error)

	// Save creates or updates an address
	Save(ctx context.Context, address *Address) error
}
