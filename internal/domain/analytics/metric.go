package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shop/backend/internal/domain/shared"
)

// DailyMetric is the per-day rollup the aggregation job maintains.
// One row per calendar day (store local date), upserted on each run.
type DailyMetric struct {
	shared.BaseEntity
	Date       time.Time       `gorm:"type:date;not null;uniqueIndex"`
	Orders     int             `gorm:"not null;default:0"`
	UnitsSold  int             `gorm:"not null;default:0"`
	Revenue    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CartAdds   int             `gorm:"not null;default:0"`
	ItemsViews int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (DailyMetric) TableName() string {
	return "daily_metrics"
}

// ProductMetric is the per-product, per-day rollup
type ProductMetric struct {
	shared.BaseEntity
	ProductID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_product_metric_day"`
	Date      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_product_metric_day"`
	Views     int             `gorm:"not null;default:0"`
	CartAdds  int             `gorm:"not null;default:0"`
	UnitsSold int             `gorm:"not null;default:0"`
	Revenue   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductMetric) TableName() string {
	return "product_metrics"
}

// NewDailyMetric creates an empty rollup row for a day
func NewDailyMetric(date time.Time) *DailyMetric {
	return &DailyMetric{
		BaseEntity: shared.NewBaseEntity(),
		Date:       date,
		Revenue:    decimal.Zero,
	}
}

// NewProductMetric creates an empty per-product rollup row for a day
func NewProductMetric(productID uuid.UUID, date time.Time) *ProductMetric {
	return &ProductMetric{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Date:       date,
		Revenue:    decimal.Zero,
	}
}
