package payment

import (
	"context"

	"github.com/shop/backend/internal/domain/checkout"
)

// TransactionalRepositories bundles the repositories a payment confirmation
// touches within one database transaction.
type TransactionalRepositories struct {
	Orders   checkout.OrderRepository
	Payments checkout.PaymentRepository
}

// TransactionScope executes a function within a single database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope runs fn against fixed repositories without any
// transaction. For tests.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute runs fn directly, with no transactional guarantees
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}
