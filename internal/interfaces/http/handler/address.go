package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcustomer "github.com/shop/backend/internal/application/customer"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// AddressHandler exposes the authenticated user's address book
type AddressHandler struct {
	BaseHandler
	addresses *appcustomer.AddressService
}

// NewAddressHandler creates an address handler
func NewAddressHandler(addresses *appcustomer.AddressService) *AddressHandler {
	return &AddressHandler{addresses: addresses}
}

// ListAddresses handles GET /api/v1/addresses
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	userID := middleware.GetAuthenticatedUserID(c)
	if userID == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addresses, err := h.addresses.ListAddresses(c.Request.Context(), *userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, addresses)
}

// CreateAddress handles POST /api/v1/addresses
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	userID := middleware.GetAuthenticatedUserID(c)
	if userID == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appcustomer.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	address, err := h.addresses.CreateAddress(c.Request.Context(), *userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, address)
}

// DeleteAddress handles DELETE /api/v1/addresses/:id
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID := middleware.GetAuthenticatedUserID(c)
	if userID == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid address ID")
		return
	}

	if err := h.addresses.DeleteAddress(c.Request.Context(), *userID, uuid.MustParse(idReq.ID)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
