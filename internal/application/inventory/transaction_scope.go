package inventory

import (
	"context"

	"github.com/shop/backend/internal/domain/catalog"
)

// TransactionScope executes stock adjustments within a database transaction
// so the variant row lock taken by the ForUpdate finder holds until commit.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(products catalog.ProductRepository) error) error
}

// NoOpTransactionScope runs fn against a fixed repository without any
// transaction. For tests.
type NoOpTransactionScope struct {
	Products catalog.ProductRepository
}

// Execute runs fn directly, with no transactional guarantees
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(products catalog.ProductRepository) error) error {
	return fn(s.Products)
}
