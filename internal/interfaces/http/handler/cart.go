package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appanalytics "github.com/shop/backend/internal/application/analytics"
	appcart "github.com/shop/backend/internal/application/cart"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// CartHandler exposes the shopping cart. Carts work for authenticated users
// and for guests identified by the X-Session-Key header.
type CartHandler struct {
	BaseHandler
	carts    *appcart.CartService
	recorder *appanalytics.Recorder
}

// NewCartHandler creates a cart handler
func NewCartHandler(carts *appcart.CartService, recorder *appanalytics.Recorder) *CartHandler {
	return &CartHandler{carts: carts, recorder: recorder}
}

func (h *CartHandler) owner(c *gin.Context) (appcart.Owner, bool) {
	owner := appcart.Owner{
		UserID:     middleware.GetAuthenticatedUserID(c),
		SessionKey: middleware.GetSessionKey(c),
	}
	if owner.UserID == nil && owner.SessionKey == "" {
		h.BadRequest(c, "A session key is required for guest carts")
		return owner, false
	}
	return owner, true
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	cart, err := h.carts.GetCart(c.Request.Context(), owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	var req appcart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.recorder.RecordCartAdd(c.Request.Context(), appanalytics.CartAddInput{
		UserID:     owner.UserID,
		SessionKey: owner.SessionKey,
		ProductID:  req.ProductID,
		Quantity:   req.Quantity,
	})

	h.Success(c, cart)
}

// UpdateItem handles PUT /api/v1/cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}
	var req appcart.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	cart, err := h.carts.UpdateItem(c.Request.Context(), owner, uuid.MustParse(idReq.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem handles DELETE /api/v1/cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid cart item ID")
		return
	}
	cart, err := h.carts.RemoveItem(c.Request.Context(), owner, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	if err := h.carts.Clear(c.Request.Context(), owner); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
