package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcart "github.com/shop/backend/internal/application/cart"
	appcheckout "github.com/shop/backend/internal/application/checkout"
	"github.com/shop/backend/internal/domain/checkout"
	"github.com/shop/backend/internal/domain/shared"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// CheckoutHandler exposes order placement and order reads
type CheckoutHandler struct {
	BaseHandler
	checkout *appcheckout.CheckoutService
	carts    *appcart.CartService
}

// NewCheckoutHandler creates a checkout handler
func NewCheckoutHandler(checkout *appcheckout.CheckoutService, carts *appcart.CartService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, carts: carts}
}

// CreateOrder handles POST /api/v1/orders. Orders can be placed logged in or
// as a guest with a session key.
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	var req appcheckout.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.UserID = middleware.GetAuthenticatedUserID(c)
	req.SessionKey = middleware.GetSessionKey(c)
	if req.UserID == nil && req.SessionKey == "" {
		h.BadRequest(c, "A session key is required for guest orders")
		return
	}

	order, err := h.checkout.CreateOrder(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// a cart clear failure must not fail the placed order
	_ = h.carts.Clear(c.Request.Context(), appcart.Owner{
		UserID:     req.UserID,
		SessionKey: req.SessionKey,
	})

	h.Created(c, order)
}

// GetOrder handles GET /api/v1/orders/:id. Users see their own orders only.
func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	orderID := uuid.MustParse(idReq.ID)

	order, err := h.checkout.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	userID := middleware.GetAuthenticatedUserID(c)
	if userID == nil || order.UserID == nil || *order.UserID != *userID {
		h.HandleError(c, shared.ErrNotFound)
		return
	}

	h.Success(c, order)
}

// UpdateStatus handles PATCH /api/v1/orders/:id/status. Staff move orders
// through preparation, shipment and delivery here.
func (h *CheckoutHandler) UpdateStatus(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}
	var req appcheckout.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.checkout.UpdateOrderStatus(c.Request.Context(), uuid.MustParse(idReq.ID), checkout.OrderStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ListOrders handles GET /api/v1/orders for the authenticated user
func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	userID := middleware.GetAuthenticatedUserID(c)
	if userID == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var listReq dto.ListRequest
	if err := c.ShouldBindQuery(&listReq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	if listReq.Page > 0 {
		filter.Page = listReq.Page
	}
	if listReq.PageSize > 0 {
		filter.PageSize = listReq.PageSize
	}

	orders, err := h.checkout.ListOrdersForUser(c.Request.Context(), *userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}
