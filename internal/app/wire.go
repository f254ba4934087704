package app

import (
	"gorm.io/gorm"

	redisclient "github.com/yungbote/storefront-backend/internal/clients/redis"
	dataagg "github.com/yungbote/storefront-backend/internal/data/aggregates"
	"github.com/yungbote/storefront-backend/internal/data/repos"
	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	apphttp "github.com/yungbote/storefront-backend/internal/http"
	httpH "github.com/yungbote/storefront-backend/internal/http/handlers"
	httpMW "github.com/yungbote/storefront-backend/internal/http/middleware"
	"github.com/yungbote/storefront-backend/internal/observability"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/services"
)

// Deps are the resources the object graph is built on. Cache and Metrics
// may be nil.
type Deps struct {
	Log     *logger.Logger
	DB      *gorm.DB
	Cache   redisclient.Cache
	Metrics *observability.Metrics
}

type Repos struct {
	Customer        repos.CustomerRepo
	Role            repos.RoleRepo
	CustomerToken   repos.CustomerTokenRepo
	Product         repos.ProductRepo
	Category        repos.CategoryRepo
	ProductCategory repos.ProductCategoryRepo
	Cart            repos.CartRepo
	CartItem        repos.CartItemRepo
	Order           repos.OrderRepo
	OrderItem       repos.OrderItemRepo
	Outbox          repos.OutboxEventRepo
}

type Aggregates struct {
	Runner dataagg.TxRunner
	Cart   domainagg.CartAggregate
	Order  domainagg.OrderAggregate
}

type Services struct {
	Auth            services.AuthService
	Customer        services.CustomerService
	Role            services.RoleService
	Product         services.ProductService
	Category        services.CategoryService
	ProductCategory services.ProductCategoryService
	Cart            services.CartService
	CartItem        services.CartItemService
	Order           services.OrderService
	OrderItem       services.OrderItemService
	Analytics       services.AnalyticsService
}

// Graph is everything Wire builds.
type Graph struct {
	Repos      Repos
	Aggregates Aggregates
	Services   Services
	Router     apphttp.RouterConfig
}

func Wire(cfg Config, deps Deps) Graph {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	r := wireRepos(deps.DB, log)
	aggs := wireAggregates(cfg, deps, log, r)
	svc := wireServices(cfg, deps, log, r, aggs)
	return Graph{
		Repos:      r,
		Aggregates: aggs,
		Services:   svc,
		Router:     wireRouter(cfg, deps, log, svc),
	}
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Customer:        repos.NewCustomerRepo(db, log),
		Role:            repos.NewRoleRepo(db, log),
		CustomerToken:   repos.NewCustomerTokenRepo(db, log),
		Product:         repos.NewProductRepo(db, log),
		Category:        repos.NewCategoryRepo(db, log),
		ProductCategory: repos.NewProductCategoryRepo(db, log),
		Cart:            repos.NewCartRepo(db, log),
		CartItem:        repos.NewCartItemRepo(db, log),
		Order:           repos.NewOrderRepo(db, log),
		OrderItem:       repos.NewOrderItemRepo(db, log),
		Outbox:          repos.NewOutboxEventRepo(db, log),
	}
}

func wireAggregates(cfg Config, deps Deps, log *logger.Logger, r Repos) Aggregates {
	log.Info("Wiring aggregates...")
	runner := dataagg.NewGormTxRunner(deps.DB)
	base := dataagg.BaseDeps{
		DB:     deps.DB,
		Log:    log,
		Runner: runner,
		Hooks:  dataagg.NewMetricsHooks(deps.Metrics),
	}
	return Aggregates{
		Runner: runner,
		Cart: dataagg.NewCartAggregate(dataagg.CartAggregateDeps{
			Base:      base,
			Carts:     r.Cart,
			Items:     r.CartItem,
			Products:  r.Product,
			Customers: r.Customer,
		}),
		Order: dataagg.NewOrderAggregate(dataagg.OrderAggregateDeps{
			Base:      base,
			Orders:    r.Order,
			Items:     r.OrderItem,
			Products:  r.Product,
			Customers: r.Customer,
			Outbox:    r.Outbox,
			Topic:     cfg.Kafka.OrdersTopic,
		}),
	}
}

func wireServices(cfg Config, deps Deps, log *logger.Logger, r Repos, aggs Aggregates) Services {
	log.Info("Wiring services...")
	analytics := services.NewAnalyticsService(log, r.Order, deps.Cache, deps.Metrics, services.AnalyticsConfig{
		CacheTTL: cfg.Analytics.CacheTTL,
	})
	return Services{
		Auth: services.NewAuthService(deps.DB, log, r.Customer, r.Role, r.CustomerToken, services.AuthConfig{
			SecretKey:  cfg.Auth.JWTSecretKey,
			Issuer:     cfg.Auth.JWTIssuer,
			Audience:   cfg.Auth.JWTAudience,
			AccessTTL:  cfg.Auth.AccessTokenTTL,
			RefreshTTL: cfg.Auth.RefreshTokenTTL,
		}),
		Customer:        services.NewCustomerService(deps.DB, log, r.Customer, r.CustomerToken),
		Role:            services.NewRoleService(deps.DB, log, r.Role, r.Customer),
		Product:         services.NewProductService(deps.DB, log, r.Product, r.Category, analytics),
		Category:        services.NewCategoryService(deps.DB, log, r.Category, analytics),
		ProductCategory: services.NewProductCategoryService(log, r.ProductCategory, r.Product, r.Category, analytics),
		Cart:            services.NewCartService(log, r.Cart, aggs.Cart),
		CartItem:        services.NewCartItemService(deps.DB, log, r.Cart, r.CartItem, r.Product),
		Order:           services.NewOrderService(log, r.Order, aggs.Order, analytics),
		OrderItem:       services.NewOrderItemService(deps.DB, log, r.Order, r.OrderItem, r.Product, analytics),
		Analytics:       analytics,
	}
}

func wireRouter(cfg Config, deps Deps, log *logger.Logger, svc Services) apphttp.RouterConfig {
	log.Info("Wiring handlers...")
	tracing := ""
	if observability.TracingEnabled() {
		tracing = cfg.ServiceName
	}
	return apphttp.RouterConfig{
		Log:            log,
		Metrics:        deps.Metrics,
		CORSOrigins:    cfg.Auth.CORSOrigins,
		TracingService: tracing,

		AuthHandler:            httpH.NewAuthHandler(svc.Auth, cfg.Auth.CookieSecure),
		AuthMiddleware:         httpMW.NewAuthMiddleware(log, svc.Auth),
		CustomerHandler:        httpH.NewCustomerHandler(svc.Customer),
		RoleHandler:            httpH.NewRoleHandler(svc.Role),
		ProductHandler:         httpH.NewProductHandler(svc.Product),
		CategoryHandler:        httpH.NewCategoryHandler(svc.Category),
		ProductCategoryHandler: httpH.NewProductCategoryHandler(svc.ProductCategory),
		CartHandler:            httpH.NewCartHandler(svc.Cart),
		CartItemHandler:        httpH.NewCartItemHandler(svc.CartItem),
		OrderHandler:           httpH.NewOrderHandler(svc.Order),
		OrderItemHandler:       httpH.NewOrderItemHandler(svc.OrderItem),
		AnalyticsHandler:       httpH.NewAnalyticsHandler(svc.Analytics),
		HealthHandler:          httpH.NewHealthHandler(deps.DB),
	}
}
