package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	appcheckout "github.com/shop/backend/internal/application/checkout"
	appinventory "github.com/shop/backend/internal/application/inventory"
	apppayment "github.com/shop/backend/internal/application/payment"
	"github.com/shop/backend/internal/domain/catalog"
)

// applyLockTimeout bounds how long SELECT ... FOR UPDATE waits inside the
// transaction. SET LOCAL reverts on commit or rollback, so the session pool
// is not polluted.
func applyLockTimeout(tx *gorm.DB, timeout time.Duration) error {
	if timeout <= 0 {
		return nil
	}
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())
	return tx.Exec(stmt).Error
}

// GormCheckoutTransactionScope implements checkout's TransactionScope with a
// GORM transaction. Every repository handed to fn runs on the same *gorm.DB
// transaction handle.
type GormCheckoutTransactionScope struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewGormCheckoutTransactionScope creates a checkout transaction scope
func NewGormCheckoutTransactionScope(db *gorm.DB, lockTimeout time.Duration) *GormCheckoutTransactionScope {
	return &GormCheckoutTransactionScope{db: db, lockTimeout: lockTimeout}
}

// Execute runs fn within a database transaction
func (s *GormCheckoutTransactionScope) Execute(ctx context.Context, fn func(repos appcheckout.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyLockTimeout(tx, s.lockTimeout); err != nil {
			return err
		}
		repos := appcheckout.TransactionalRepositories{
			Products:  NewGormProductRepository(tx),
			Orders:    NewGormOrderRepository(tx),
			Payments:  NewGormPaymentRepository(tx),
			Addresses: NewGormAddressRepository(tx),
		}
		return fn(repos)
	})
	return mapError(err)
}

var _ appcheckout.TransactionScope = (*GormCheckoutTransactionScope)(nil)

// GormInventoryTransactionScope implements inventory's TransactionScope with
// a GORM transaction
type GormInventoryTransactionScope struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewGormInventoryTransactionScope creates an inventory transaction scope
func NewGormInventoryTransactionScope(db *gorm.DB, lockTimeout time.Duration) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db, lockTimeout: lockTimeout}
}

// Execute runs fn within a database transaction
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(products catalog.ProductRepository) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyLockTimeout(tx, s.lockTimeout); err != nil {
			return err
		}
		return fn(NewGormProductRepository(tx))
	})
	return mapError(err)
}

var _ appinventory.TransactionScope = (*GormInventoryTransactionScope)(nil)

// GormPaymentTransactionScope implements payment's TransactionScope with a
// GORM transaction
type GormPaymentTransactionScope struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

// NewGormPaymentTransactionScope creates a payment transaction scope
func NewGormPaymentTransactionScope(db *gorm.DB, lockTimeout time.Duration) *GormPaymentTransactionScope {
	return &GormPaymentTransactionScope{db: db, lockTimeout: lockTimeout}
}

// Execute runs fn within a database transaction
func (s *GormPaymentTransactionScope) Execute(ctx context.Context, fn func(repos apppayment.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyLockTimeout(tx, s.lockTimeout); err != nil {
			return err
		}
		repos := apppayment.TransactionalRepositories{
			Orders:   NewGormOrderRepository(tx),
			Payments: NewGormPaymentRepository(tx),
		}
		return fn(repos)
	})
	return mapError(err)
}

var _ apppayment.TransactionScope = (*GormPaymentTransactionScope)(nil)
