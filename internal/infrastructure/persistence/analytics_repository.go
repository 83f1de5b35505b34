package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shop/backend/internal/domain/analytics"
	"github.com/shop/backend/internal/domain/shared"
)

// GormUserEventRepository implements analytics.UserEventRepository using GORM
type GormUserEventRepository struct {
	db *gorm.DB
}

// NewGormUserEventRepository creates a user event repository
func NewGormUserEventRepository(db *gorm.DB) *GormUserEventRepository {
	return &GormUserEventRepository{db: db}
}

// Save persists a user event
func (r *GormUserEventRepository) Save(ctx context.Context, event *analytics.UserEvent) error {
	return mapError(r.db.WithContext(ctx).Save(event).Error)
}

// FindBetween returns events in [from, to)
func (r *GormUserEventRepository) FindBetween(ctx context.Context, from, to time.Time) ([]analytics.UserEvent, error) {
	var events []analytics.UserEvent
	err := r.db.WithContext(ctx).
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Order("occurred_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, mapError(err)
	}
	return events, nil
}

// CountByType counts events of a type in [from, to)
func (r *GormUserEventRepository) CountByType(ctx context.Context, eventType analytics.UserEventType, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&analytics.UserEvent{}).
		Where("event_type = ? AND occurred_at >= ? AND occurred_at < ?", eventType, from, to).
		Count(&count).Error
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

var _ analytics.UserEventRepository = (*GormUserEventRepository)(nil)

// GormMetricRepository implements analytics.MetricRepository using GORM
type GormMetricRepository struct {
	db *gorm.DB
}

// NewGormMetricRepository creates a metric repository
func NewGormMetricRepository(db *gorm.DB) *GormMetricRepository {
	return &GormMetricRepository{db: db}
}

// FindDailyByDate returns the rollup for a day
func (r *GormMetricRepository) FindDailyByDate(ctx context.Context, date time.Time) (*analytics.DailyMetric, error) {
	var metric analytics.DailyMetric
	err := r.db.WithContext(ctx).First(&metric, "date = ?", date).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &metric, nil
}

// FindDailyRange returns rollups for dates in [from, to)
func (r *GormMetricRepository) FindDailyRange(ctx context.Context, from, to time.Time) ([]analytics.DailyMetric, error) {
	var metrics []analytics.DailyMetric
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date ASC").
		Find(&metrics).Error
	if err != nil {
		return nil, mapError(err)
	}
	return metrics, nil
}

// SaveDaily creates or updates a daily rollup
func (r *GormMetricRepository) SaveDaily(ctx context.Context, metric *analytics.DailyMetric) error {
	return mapError(r.db.WithContext(ctx).Save(metric).Error)
}

// FindProductByDate returns one product's rollup for a day
func (r *GormMetricRepository) FindProductByDate(ctx context.Context, productID uuid.UUID, date time.Time) (*analytics.ProductMetric, error) {
	var metric analytics.ProductMetric
	err := r.db.WithContext(ctx).
		First(&metric, "product_id = ? AND date = ?", productID, date).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, mapError(err)
	}
	return &metric, nil
}

// FindTopProducts returns product rollups in [from, to) ordered by units sold
func (r *GormMetricRepository) FindTopProducts(ctx context.Context, from, to time.Time, limit int) ([]analytics.ProductMetric, error) {
	var metrics []analytics.ProductMetric
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("units_sold DESC").
		Limit(limit).
		Find(&metrics).Error
	if err != nil {
		return nil, mapError(err)
	}
	return metrics, nil
}

// SaveProduct creates or updates a product rollup
func (r *GormMetricRepository) SaveProduct(ctx context.Context, metric *analytics.ProductMetric) error {
	return mapError(r.db.WithContext(ctx).Save(metric).Error)
}

var _ analytics.MetricRepository = (*GormMetricRepository)(nil)
