package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/storefront-backend/internal/domain"
	httpH "github.com/yungbote/storefront-backend/internal/http/handlers"
	httpMW "github.com/yungbote/storefront-backend/internal/http/middleware"
	"github.com/yungbote/storefront-backend/internal/observability"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	// TracingService enables otelgin spans under this service name.
	TracingService string

	AuthHandler            *httpH.AuthHandler
	AuthMiddleware         *httpMW.AuthMiddleware
	CustomerHandler        *httpH.CustomerHandler
	RoleHandler            *httpH.RoleHandler
	ProductHandler         *httpH.ProductHandler
	CategoryHandler        *httpH.CategoryHandler
	ProductCategoryHandler *httpH.ProductCategoryHandler
	CartHandler            *httpH.CartHandler
	CartItemHandler        *httpH.ItemHandler[types.CartItem]
	OrderHandler           *httpH.OrderHandler
	OrderItemHandler       *httpH.ItemHandler[types.OrderItem]
	AnalyticsHandler       *httpH.AnalyticsHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.Observe(cfg.Log, cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Ops
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			// Refresh only needs the refresh token; the access token may have expired.
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Catalog (public reads)
		if cfg.ProductHandler != nil {
			api.GET("/products", cfg.ProductHandler.List)
			api.GET("/products/by-category", cfg.ProductHandler.ListByCategory)
			api.GET("/products/:id", cfg.ProductHandler.Get)
		}
		if cfg.CategoryHandler != nil {
			api.GET("/categories", cfg.CategoryHandler.List)
			api.GET("/categories/:id", cfg.CategoryHandler.Get)
		}
	}

	if cfg.AuthMiddleware == nil {
		return r
	}

	protected := api.Group("/", cfg.AuthMiddleware.RequireAuth())
	{
		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.CustomerHandler != nil {
			protected.GET("/me", cfg.CustomerHandler.Me)
			protected.GET("/customers", cfg.CustomerHandler.List)
			protected.GET("/customers/:id", cfg.CustomerHandler.Get)
			protected.PUT("/customers/:id", cfg.CustomerHandler.Update)
			protected.DELETE("/customers/:id", cfg.CustomerHandler.Delete)
		}

		// Catalog writes
		if cfg.ProductHandler != nil {
			protected.POST("/products", cfg.ProductHandler.Create)
			protected.PUT("/products/:id", cfg.ProductHandler.Update)
			protected.DELETE("/products/:id", cfg.ProductHandler.Delete)
		}
		if cfg.CategoryHandler != nil {
			protected.POST("/categories", cfg.CategoryHandler.Create)
			protected.PUT("/categories/:id", cfg.CategoryHandler.Update)
			protected.DELETE("/categories/:id", cfg.CategoryHandler.Delete)
		}
		if cfg.ProductCategoryHandler != nil {
			protected.GET("/product-categories", cfg.ProductCategoryHandler.List)
			protected.POST("/product-categories", cfg.ProductCategoryHandler.Add)
			protected.DELETE("/product-categories/:product_id/:category_id", cfg.ProductCategoryHandler.Remove)
		}

		// Carts
		if cfg.CartHandler != nil {
			protected.GET("/carts", cfg.CartHandler.List)
			protected.GET("/carts/:id", cfg.CartHandler.Get)
			protected.POST("/carts", cfg.CartHandler.Create)
			protected.PUT("/carts/:id", cfg.CartHandler.Replace)
			protected.DELETE("/carts/:id", cfg.CartHandler.Delete)
		}
		if cfg.CartItemHandler != nil {
			protected.GET("/cart-items", cfg.CartItemHandler.List)
			protected.GET("/cart-items/:id", cfg.CartItemHandler.Get)
			protected.POST("/cart-items", cfg.CartItemHandler.Create)
			protected.PUT("/cart-items/:id", cfg.CartItemHandler.Update)
			protected.DELETE("/cart-items/:id", cfg.CartItemHandler.Delete)
		}

		// Orders
		if cfg.OrderHandler != nil {
			protected.GET("/orders", cfg.OrderHandler.List)
			protected.GET("/orders/:id", cfg.OrderHandler.Get)
			protected.POST("/orders", cfg.OrderHandler.Create)
			protected.PUT("/orders/:id", cfg.OrderHandler.Replace)
			protected.DELETE("/orders/:id", cfg.OrderHandler.Delete)
		}
		if cfg.OrderItemHandler != nil {
			protected.GET("/order-items", cfg.OrderItemHandler.List)
			protected.GET("/order-items/:id", cfg.OrderItemHandler.Get)
			protected.POST("/order-items", cfg.OrderItemHandler.Create)
			protected.PUT("/order-items/:id", cfg.OrderItemHandler.Update)
			protected.DELETE("/order-items/:id", cfg.OrderItemHandler.Delete)
		}
	}

	admin := protected.Group("/admin", cfg.AuthMiddleware.RequireRole(types.RoleAdmin))
	{
		if cfg.RoleHandler != nil {
			admin.GET("/roles", cfg.RoleHandler.List)
			admin.GET("/roles/:id", cfg.RoleHandler.Get)
			admin.POST("/roles", cfg.RoleHandler.Create)
			admin.PUT("/roles/:id", cfg.RoleHandler.Rename)
			admin.DELETE("/roles/:id", cfg.RoleHandler.Delete)
			admin.POST("/roles/assign", cfg.RoleHandler.Assign)
		}

		if cfg.AnalyticsHandler != nil {
			admin.GET("/analytics/orders-over-time", cfg.AnalyticsHandler.OrdersOverTime)
			admin.GET("/analytics/revenue-over-time", cfg.AnalyticsHandler.RevenueOverTime)
			admin.GET("/analytics/orders-by-category", cfg.AnalyticsHandler.OrdersByCategory)
			admin.GET("/analytics/aov-by-category", cfg.AnalyticsHandler.AovByCategory)
			admin.GET("/analytics/top-products", cfg.AnalyticsHandler.TopProducts)
		}
	}

	return r
}
