package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appanalytics "github.com/shop/backend/internal/application/analytics"
)

// metricsRangeQuery bounds a metrics read. Dates are inclusive days in
// YYYY-MM-DD form; the range defaults to the last 30 days.
type metricsRangeQuery struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q metricsRangeQuery) window(now time.Time) (time.Time, time.Time, error) {
	to := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	from := to.AddDate(0, 0, -30)

	if q.From != "" {
		parsed, err := time.Parse("2006-01-02", q.From)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if q.To != "" {
		parsed, err := time.Parse("2006-01-02", q.To)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

// AnalyticsHandler exposes the metric rollups to staff
type AnalyticsHandler struct {
	BaseHandler
	aggregator *appanalytics.Aggregator
}

// NewAnalyticsHandler creates an analytics handler
func NewAnalyticsHandler(aggregator *appanalytics.Aggregator) *AnalyticsHandler {
	return &AnalyticsHandler{aggregator: aggregator}
}

// DailyMetrics handles GET /api/v1/analytics/daily
func (h *AnalyticsHandler) DailyMetrics(c *gin.Context) {
	var query metricsRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	from, to, err := query.window(time.Now())
	if err != nil {
		h.BadRequest(c, "Dates must be in YYYY-MM-DD form")
		return
	}

	metrics, err := h.aggregator.DailyRange(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}

// TopProducts handles GET /api/v1/analytics/top-products
func (h *AnalyticsHandler) TopProducts(c *gin.Context) {
	var query metricsRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	from, to, err := query.window(time.Now())
	if err != nil {
		h.BadRequest(c, "Dates must be in YYYY-MM-DD form")
		return
	}

	metrics, err := h.aggregator.TopProducts(c.Request.Context(), from, to, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, metrics)
}
