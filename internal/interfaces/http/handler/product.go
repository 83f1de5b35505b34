package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appanalytics "github.com/shop/backend/internal/application/analytics"
	appcatalog "github.com/shop/backend/internal/application/catalog"
	"github.com/shop/backend/internal/interfaces/http/dto"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// ProductHandler exposes the public catalog
type ProductHandler struct {
	BaseHandler
	products *appcatalog.ProductService
	recorder *appanalytics.Recorder
}

// NewProductHandler creates a product handler
func NewProductHandler(products *appcatalog.ProductService, recorder *appanalytics.Recorder) *ProductHandler {
	return &ProductHandler{products: products, recorder: recorder}
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var query appcatalog.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.products.ListProducts(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetProduct handles GET /api/v1/products/:id and records the view
func (h *ProductHandler) GetProduct(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}
	productID := uuid.MustParse(idReq.ID)

	product, err := h.products.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.recorder.RecordProductView(c.Request.Context(), appanalytics.ProductViewInput{
		UserID:     middleware.GetAuthenticatedUserID(c),
		SessionKey: middleware.GetSessionKey(c),
		ProductID:  productID,
	})

	h.Success(c, product)
}

// ListCategories handles GET /api/v1/categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.products.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}
