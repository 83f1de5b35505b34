package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/domain/catalog"
)

// AdjustStockRequest is the payload for a manual stock adjustment
type AdjustStockRequest struct {
	Quantity int    `json:"quantity" binding:"required"`
	Reason   string `json:"reason"`
}

// StockAdjustmentResponse reports the variant's stock after an adjustment
type StockAdjustmentResponse struct {
	VariantID uuid.UUID `json:"variant_id"`
	Stock     int       `json:"stock"`
}

// StockService exposes the maintenance operations on variant stock:
// restocks, manual corrections and cancellation reversals. Adjustments use
// the same row-locking discipline as checkout, so they serialize against
// concurrent order placement on the same variant.
type StockService struct {
	txScope TransactionScope
	logger  *zap.Logger
}

// NewStockService creates a stock service
func NewStockService(txScope TransactionScope, logger *zap.Logger) *StockService {
	return &StockService{txScope: txScope, logger: logger}
}

// Increment adds quantity to a variant's stock
func (s *StockService) Increment(ctx context.Context, variantID uuid.UUID, req AdjustStockRequest) (*StockAdjustmentResponse, error) {
	return s.adjust(ctx, variantID, req, true)
}

// Decrement removes quantity from a variant's stock, guarded by the same
// availability check as a sale
func (s *StockService) Decrement(ctx context.Context, variantID uuid.UUID, req AdjustStockRequest) (*StockAdjustmentResponse, error) {
	return s.adjust(ctx, variantID, req, false)
}

func (s *StockService) adjust(ctx context.Context, variantID uuid.UUID, req AdjustStockRequest, increment bool) (*StockAdjustmentResponse, error) {
	var resp *StockAdjustmentResponse
	err := s.txScope.Execute(ctx, func(products catalog.ProductRepository) error {
		variant, err := products.FindVariantByIDForUpdate(ctx, variantID)
		if err != nil {
			return err
		}

		if increment {
			err = variant.Increase(req.Quantity)
		} else {
			err = variant.Decrease(req.Quantity)
		}
		if err != nil {
			return err
		}

		if err := products.SaveVariant(ctx, variant); err != nil {
			return err
		}
		resp = &StockAdjustmentResponse{VariantID: variant.ID, Stock: variant.Stock}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("variant_id", variantID.String()),
		zap.Int("quantity", req.Quantity),
		zap.Bool("increment", increment),
		zap.String("reason", req.Reason),
		zap.Int("stock", resp.Stock))
	return resp, nil
}
