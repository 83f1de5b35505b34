package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appinventory "github.com/shop/backend/internal/application/inventory"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// InventoryHandler exposes the stock maintenance operations. These routes
// sit behind mandatory authentication.
type InventoryHandler struct {
	BaseHandler
	stock *appinventory.StockService
}

// NewInventoryHandler creates an inventory handler
func NewInventoryHandler(stock *appinventory.StockService) *InventoryHandler {
	return &InventoryHandler{stock: stock}
}

// IncrementStock handles POST /api/v1/inventory/variants/:id/increment
func (h *InventoryHandler) IncrementStock(c *gin.Context) {
	h.adjust(c, h.stock.Increment)
}

// DecrementStock handles POST /api/v1/inventory/variants/:id/decrement
func (h *InventoryHandler) DecrementStock(c *gin.Context) {
	h.adjust(c, h.stock.Decrement)
}

type adjustFunc func(ctx context.Context, variantID uuid.UUID, req appinventory.AdjustStockRequest) (*appinventory.StockAdjustmentResponse, error)

func (h *InventoryHandler) adjust(c *gin.Context, op adjustFunc) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid variant ID")
		return
	}
	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := op(c.Request.Context(), uuid.MustParse(idReq.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
