package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apppayment "github.com/shop/backend/internal/application/payment"
	"github.com/shop/backend/internal/interfaces/http/dto"
)

// PaymentHandler exposes the gateway integration: hosted checkout creation
// and the webhook endpoint the gateway calls back on.
type PaymentHandler struct {
	BaseHandler
	webhooks *apppayment.WebhookService
}

// NewPaymentHandler creates a payment handler
func NewPaymentHandler(webhooks *apppayment.WebhookService) *PaymentHandler {
	return &PaymentHandler{webhooks: webhooks}
}

// CreatePreference handles POST /api/v1/orders/:id/preference
func (h *PaymentHandler) CreatePreference(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.webhooks.CreatePreference(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Webhook handles POST /api/v1/payments/webhook. The gateway expects a 2xx
// to stop retrying; duplicates and unknown types are acknowledged as well.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	notification := apppayment.WebhookNotification{
		Type:   c.Query("type"),
		DataID: c.Query("data.id"),
	}
	if notification.Type == "" {
		var body struct {
			Type string `json:"type"`
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			notification.Type = body.Type
			notification.DataID = body.Data.ID
		}
	}

	if err := h.webhooks.HandleNotification(c.Request.Context(), notification); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}
