package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByID finds a cart by ID with items preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Cart, error)

	// FindActiveForUser finds the user's active cart, ErrNotFound when absent
	FindActiveForUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// FindActiveForSession finds the session's active cart, ErrNotFound when absent
	FindActiveForSession(ctx context.Context, sessionKey string) (*Cart, error)

	// Save creates or updates a cart together with its items
	Save(ctx context.Context, cart *Cart) error

	// DeleteItems removes cart items by ID
	DeleteItems(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) error
}
