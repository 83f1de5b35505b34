package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shop/backend/internal/infrastructure/auth"
	"github.com/shop/backend/internal/infrastructure/config"
	"github.com/shop/backend/internal/interfaces/http/handler"
	"github.com/shop/backend/internal/interfaces/http/middleware"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Products  *handler.ProductHandler
	Carts     *handler.CartHandler
	Checkout  *handler.CheckoutHandler
	Inventory *handler.InventoryHandler
	Payments  *handler.PaymentHandler
	Addresses *handler.AddressHandler
	Analytics *handler.AnalyticsHandler
	System    *handler.SystemHandler
}

// New builds the gin engine with the full middleware stack and all routes
// mounted under /api/v1.
//
// Route groups by access level:
//   - storefront: anonymous or authenticated, guests carry X-Session-Key
//   - account: valid bearer token required
//   - staff: bearer token with the staff flag
//   - webhook: unauthenticated, called by the payment gateway
func New(cfg *config.Config, log *zap.Logger, jwtService *auth.JWTService, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order matters: the request ID must exist before anything
	// that logs or traces, and recovery must wrap everything below it.
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.Tracing(cfg.App.Name, cfg.Telemetry.Enabled))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.SessionKey())

	engine.GET("/health", h.System.Health)
	engine.GET("/ping", h.System.Ping)

	api := engine.Group("/api/v1")

	storefront := api.Group("", middleware.OptionalJWTAuth(jwtService))
	{
		storefront.GET("/products", h.Products.ListProducts)
		storefront.GET("/products/:id", h.Products.GetProduct)
		storefront.GET("/categories", h.Products.ListCategories)

		storefront.GET("/cart", h.Carts.GetCart)
		storefront.DELETE("/cart", h.Carts.Clear)
		storefront.POST("/cart/items", h.Carts.AddItem)
		storefront.PUT("/cart/items/:id", h.Carts.UpdateItem)
		storefront.DELETE("/cart/items/:id", h.Carts.RemoveItem)

		storefront.POST("/orders", h.Checkout.CreateOrder)
		storefront.POST("/orders/:id/preference", h.Payments.CreatePreference)
	}

	account := api.Group("", middleware.JWTAuth(jwtService))
	{
		account.GET("/orders", h.Checkout.ListOrders)
		account.GET("/orders/:id", h.Checkout.GetOrder)

		account.GET("/addresses", h.Addresses.ListAddresses)
		account.POST("/addresses", h.Addresses.CreateAddress)
		account.DELETE("/addresses/:id", h.Addresses.DeleteAddress)
	}

	staff := api.Group("", middleware.JWTAuth(jwtService), middleware.StaffOnly())
	{
		staff.POST("/inventory/variants/:id/increment", h.Inventory.IncrementStock)
		staff.POST("/inventory/variants/:id/decrement", h.Inventory.DecrementStock)

		staff.PATCH("/orders/:id/status", h.Checkout.UpdateStatus)

		staff.GET("/analytics/daily", h.Analytics.DailyMetrics)
		staff.GET("/analytics/top-products", h.Analytics.TopProducts)
	}

	api.POST("/payments/webhook", h.Payments.Webhook)

	return engine
}
