package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserEventRepository defines the interface for user event persistence
type UserEventRepository interface {
	// Save persists a user event
	Save(ctx context.Context, event *UserEvent) error

	// FindBetween returns events in [from, to)
	FindBetween(ctx context.Context, from, to time.Time) ([]UserEvent, error)

	// CountByType counts events of a type in [from, to)
	CountByType(ctx context.Context, eventType UserEventType, from, to time.Time) (int64, error)
}

// MetricRepository defines the interface for metric rollup persistence
type MetricRepository interface {
	// FindDailyByDate returns the rollup for a day, ErrNotFound when absent
	FindDailyByDate(ctx context.Context, date time.Time) (*DailyMetric, error)

	// FindDailyRange returns rollups for dates in [from, to)
	FindDailyRange(ctx context.Context, from, to time.Time) ([]DailyMetric, error)

	// SaveDaily creates or updates a daily rollup
	SaveDaily(ctx context.Context, metric *DailyMetric) error

	// FindProductByDate returns one product's rollup for a day, ErrNotFound when absent
	FindProductByDate(ctx context.Context, productID uuid.UUID, date time.Time) (*ProductMetric, error)

	// FindTopProducts returns product rollups in [from, to) ordered by units sold
	FindTopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductMetric, error)

	// SaveProduct creates or updates a product rollup
	SaveProduct(ctx context.Context, metric *ProductMetric) error
}
