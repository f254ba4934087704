package domain

import (
	"github.com/yungbote/storefront-backend/internal/domain/auth"
	"github.com/yungbote/storefront-backend/internal/domain/catalog"
	"github.com/yungbote/storefront-backend/internal/domain/customer"
	"github.com/yungbote/storefront-backend/internal/domain/events"
	"github.com/yungbote/storefront-backend/internal/domain/sales"
)

const (
	RoleAdmin    = customer.RoleAdmin
	RoleCustomer = customer.RoleCustomer

	OutboxStatusPending   = events.StatusPending
	OutboxStatusPublished = events.StatusPublished
	OutboxStatusFailed    = events.StatusFailed

	EventOrderCreated = events.TypeOrderCreated
	EventOrderUpdated = events.TypeOrderUpdated
	EventOrderDeleted = events.TypeOrderDeleted
)

type (
	Customer      = customer.Customer
	Role          = customer.Role
	CustomerRole  = customer.CustomerRole
	CustomerToken = auth.CustomerToken

	Product         = catalog.Product
	Category        = catalog.Category
	ProductCategory = catalog.ProductCategory

	Cart      = sales.Cart
	CartItem  = sales.CartItem
	Order     = sales.Order
	OrderItem = sales.OrderItem

	OutboxEvent = events.OutboxEvent
)
