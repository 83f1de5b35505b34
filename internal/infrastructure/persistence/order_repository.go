package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/checkout"
	"github.com/shop/backend/internal/domain/shared"
)

// GormOrderRepository implements checkout.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates an order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with lines preloaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Order, error) {
	var order checkout.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &order, nil
}

// FindByOrderNumber finds the most recent order carrying the number.
// Order numbers are second-resolution timestamps and can collide, so the
// newest row wins.
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*checkout.Order, error) {
	var order checkout.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("order_number = ?", orderNumber).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &order, nil
}

// FindAllForUser finds a user's orders, newest first
func (r *GormOrderRepository) FindAllForUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]checkout.Order, error) {
	var orders []checkout.Order
	query := r.db.WithContext(ctx).
		Preload("Lines").
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC")
	query = applyPagination(query, filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// FindAll finds orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]checkout.Order, error) {
	var orders []checkout.Order
	query := r.applyFilter(r.db.WithContext(ctx), filter).
		Preload("Lines").
		Order("created_at DESC")
	query = applyPagination(query, filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&checkout.Order{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// Save creates or updates an order together with its lines
func (r *GormOrderRepository) Save(ctx context.Context, order *checkout.Order) error {
	return mapError(r.db.WithContext(ctx).Save(order).Error)
}

func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"].(string); ok {
		query = query.Where("status = ?", status)
	}
	if paymentStatus, ok := filter.Filters["payment_status"].(string); ok {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if filter.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	return query.Where("active = ?", true)
}

var _ checkout.OrderRepository = (*GormOrderRepository)(nil)

// GormPaymentRepository implements checkout.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a payment repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.Payment, error) {
	var payment checkout.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &payment, nil
}

// FindByOrderID finds the payment attached to an order
func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*checkout.Payment, error) {
	var payment checkout.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &payment, nil
}

// FindByGatewayPaymentID finds a payment by the gateway's payment ID
func (r *GormPaymentRepository) FindByGatewayPaymentID(ctx context.Context, gatewayPaymentID string) (*checkout.Payment, error) {
	var payment checkout.Payment
	err := r.db.WithContext(ctx).
		First(&payment, "gateway_payment_id = ?", gatewayPaymentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &payment, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *checkout.Payment) error {
	return mapError(r.db.WithContext(ctx).Save(payment).Error)
}

var _ checkout.PaymentRepository = (*GormPaymentRepository)(nil)
