package checkout

import (
	"context"

	"github.com/shop/backend/internal/domain/catalog"
	"github.com/shop/backend/internal/domain/checkout"
	"github.com/shop/backend/internal/domain/customer"
)

// TransactionalRepositories bundles the repositories a checkout transaction
// touches. Inside Execute all of them share one database transaction, so row
// locks taken through Products are held until the scope commits or aborts.
type TransactionalRepositories struct {
	Products  catalog.ProductRepository
	Orders    checkout.OrderRepository
	Payments  checkout.PaymentRepository
	Addresses customer.AddressRepository
}

// TransactionScope executes a function within a single database transaction.
// Returning an error from fn rolls everything back; returning nil commits.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs fn against fixed repositories without any
// transaction. For tests.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a transaction scope backed by the given repositories
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{Repos: repos}
}

// Execute runs fn directly, with no transactional guarantees
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}
