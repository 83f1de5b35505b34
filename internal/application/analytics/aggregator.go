package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/analytics"
	"github.com/shop/backend/internal/domain/shared"
)

// ProductViewInput identifies a product view for recording
type ProductViewInput struct {
	UserID     *uuid.UUID
	SessionKey string
	ProductID  uuid.UUID
}

// CartAddInput identifies a cart addition for recording
type CartAddInput struct {
	UserID     *uuid.UUID
	SessionKey string
	ProductID  uuid.UUID
	Quantity   int
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// Aggregator rebuilds the daily and per-product rollups from the raw user
// events. Runs are idempotent: each run recomputes the day from scratch and
// upserts, so the scheduler can fire it repeatedly.
type Aggregator struct {
	events  analytics.UserEventRepository
	metrics analytics.MetricRepository
	logger  *zap.Logger
}

// NewAggregator creates a metrics aggregator
func NewAggregator(events analytics.UserEventRepository, metrics analytics.MetricRepository, logger *zap.Logger) *Aggregator {
	return &Aggregator{events: events, metrics: metrics, logger: logger}
}

// AggregateDay recomputes the rollups for the UTC day containing at
func (a *Aggregator) AggregateDay(ctx context.Context, at time.Time) error {
	day := at.UTC().Truncate(24 * time.Hour)
	next := day.Add(24 * time.Hour)

	events, err := a.events.FindBetween(ctx, day, next)
	if err != nil {
		return err
	}

	daily, err := a.metrics.FindDailyByDate(ctx, day)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		daily = analytics.NewDailyMetric(day)
	}
	daily.Orders = 0
	daily.UnitsSold = 0
	daily.Revenue = decimal.Zero
	daily.CartAdds = 0
	daily.ItemsViews = 0

	perProduct := make(map[uuid.UUID]*analytics.ProductMetric)
	orders := make(map[uuid.UUID]struct{})

	for i := range events {
		event := &events[i]
		var product *analytics.ProductMetric
		if event.ProductID != nil {
			product = perProduct[*event.ProductID]
			if product == nil {
				product, err = a.loadProductMetric(ctx, *event.ProductID, day)
				if err != nil {
					return err
				}
				perProduct[*event.ProductID] = product
			}
		}

		switch event.EventType {
		case analytics.UserEventPurchase:
			if event.OrderID != nil {
				orders[*event.OrderID] = struct{}{}
			}
			daily.UnitsSold += event.Quantity
			daily.Revenue = daily.Revenue.Add(event.Amount)
			if product != nil {
				product.UnitsSold += event.Quantity
				product.Revenue = product.Revenue.Add(event.Amount)
			}
		case analytics.UserEventAddToCart:
			daily.CartAdds++
			if product != nil {
				product.CartAdds++
			}
		case analytics.UserEventProductView:
			daily.ItemsViews++
			if product != nil {
				product.Views++
			}
		}
	}
	daily.Orders = len(orders)

	if err := a.metrics.SaveDaily(ctx, daily); err != nil {
		return err
	}
	for _, product := range perProduct {
		if err := a.metrics.SaveProduct(ctx, product); err != nil {
			return err
		}
	}

	a.logger.Info("daily metrics aggregated",
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("orders", daily.Orders),
		zap.Int("units_sold", daily.UnitsSold),
		zap.String("revenue", daily.Revenue.StringFixed(2)))
	return nil
}

func (a *Aggregator) loadProductMetric(ctx context.Context, productID uuid.UUID, day time.Time) (*analytics.ProductMetric, error) {
	metric, err := a.metrics.FindProductByDate(ctx, productID, day)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		metric = analytics.NewProductMetric(productID, day)
	}
	metric.Views = 0
	metric.CartAdds = 0
	metric.UnitsSold = 0
	metric.Revenue = decimal.Zero
	return metric, nil
}

// TopProducts returns the best selling product rollups in [from, to)
func (a *Aggregator) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]analytics.ProductMetric, error) {
	if limit <= 0 {
		limit = 10
	}
	return a.metrics.FindTopProducts(ctx, from, to, limit)
}

// DailyRange returns the daily rollups in [from, to)
func (a *Aggregator) DailyRange(ctx context.Context, from, to time.Time) ([]analytics.DailyMetric, error) {
	return a.metrics.FindDailyRange(ctx, from, to)
}
