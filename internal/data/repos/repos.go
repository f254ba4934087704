package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos/auth"
	"github.com/yungbote/storefront-backend/internal/data/repos/catalog"
	"github.com/yungbote/storefront-backend/internal/data/repos/customer"
	"github.com/yungbote/storefront-backend/internal/data/repos/outbox"
	"github.com/yungbote/storefront-backend/internal/data/repos/sales"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type CustomerRepo = customer.CustomerRepo
type RoleRepo = customer.RoleRepo
type CustomerTokenRepo = auth.CustomerTokenRepo

type ProductRepo = catalog.ProductRepo
type CategoryRepo = catalog.CategoryRepo
type ProductCategoryRepo = catalog.ProductCategoryRepo

type CartRepo = sales.CartRepo
type CartItemRepo = sales.CartItemRepo
type OrderRepo = sales.OrderRepo
type OrderItemRepo = sales.OrderItemRepo

type OutboxEventRepo = outbox.OutboxEventRepo

func NewCustomerRepo(db *gorm.DB, log *logger.Logger) CustomerRepo {
	return customer.NewCustomerRepo(db, log)
}
func NewRoleRepo(db *gorm.DB, log *logger.Logger) RoleRepo { return customer.NewRoleRepo(db, log) }
func NewCustomerTokenRepo(db *gorm.DB, log *logger.Logger) CustomerTokenRepo {
	return auth.NewCustomerTokenRepo(db, log)
}

func NewProductRepo(db *gorm.DB, log *logger.Logger) ProductRepo {
	return catalog.NewProductRepo(db, log)
}
func NewCategoryRepo(db *gorm.DB, log *logger.Logger) CategoryRepo {
	return catalog.NewCategoryRepo(db, log)
}
func NewProductCategoryRepo(db *gorm.DB, log *logger.Logger) ProductCategoryRepo {
	return catalog.NewProductCategoryRepo(db, log)
}

func NewCartRepo(db *gorm.DB, log *logger.Logger) CartRepo { return sales.NewCartRepo(db, log) }
func NewCartItemRepo(db *gorm.DB, log *logger.Logger) CartItemRepo {
	return sales.NewCartItemRepo(db, log)
}
func NewOrderRepo(db *gorm.DB, log *logger.Logger) OrderRepo { return sales.NewOrderRepo(db, log) }
func NewOrderItemRepo(db *gorm.DB, log *logger.Logger) OrderItemRepo {
	return sales.NewOrderItemRepo(db, log)
}

func NewOutboxEventRepo(db *gorm.DB, log *logger.Logger) OutboxEventRepo {
	return outbox.NewOutboxEventRepo(db, log)
}
