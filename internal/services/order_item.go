package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type OrderItemService interface {
	// List returns every line for admins, or the lines of one order when orderID is set.
	List(ctx context.Context, orderID uint) ([]*types.OrderItem, error)
	Get(ctx context.Context, id uint) (*types.OrderItem, error)
	Create(ctx context.Context, in ItemInput) (*types.OrderItem, error)
	SetQuantity(ctx context.Context, id uint, quantity int) (*types.OrderItem, error)
	Delete(ctx context.Context, id uint) error
}

type orderItemService struct {
	db          *gorm.DB
	log         *logger.Logger
	orders      repos.OrderRepo
	items       repos.OrderItemRepo
	products    repos.ProductRepo
	invalidator AnalyticsInvalidator
}

func NewOrderItemService(db *gorm.DB, log *logger.Logger, orders repos.OrderRepo, items repos.OrderItemRepo, products repos.ProductRepo, inv AnalyticsInvalidator) OrderItemService {
	return &orderItemService{
		db:          db,
		log:         log.With("service", "OrderItemService"),
		orders:      orders,
		items:       items,
		products:    products,
		invalidator: orNop(inv),
	}
}

func (s *orderItemService) authorizeOrder(ctx context.Context, dbc dbctx.Context, op string, orderID uint) error {
	order, err := s.orders.GetByID(dbc, orderID)
	if err != nil {
		return storeErr(op, err)
	}
	if order == nil {
		return notFoundErr(op, "order not found: %d", orderID)
	}
	return requireSelfOrAdmin(ctx, op, order.CustomerID)
}

func (s *orderItemService) List(ctx context.Context, orderID uint) ([]*types.OrderItem, error) {
	const op = "OrderItem.List"
	if _, err := caller(ctx, op); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if orderID == 0 {
		if !isAdmin(ctx) {
			return nil, validationErr(op, "order_id is required")
		}
		out, err := s.items.List(dbc)
		if err != nil {
			return nil, storeErr(op, err)
		}
		return out, nil
	}
	if err := s.authorizeOrder(ctx, dbc, op, orderID); err != nil {
		return nil, err
	}
	out, err := s.items.ListByOrderID(dbc, orderID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *orderItemService) Get(ctx context.Context, id uint) (*types.OrderItem, error) {
	const op = "OrderItem.Get"
	dbc := dbctx.Context{Ctx: ctx}
	item, err := s.items.GetByID(dbc, id)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if item == nil {
		return nil, notFoundErr(op, "order item not found: %d", id)
	}
	if err := s.authorizeOrder(ctx, dbc, op, item.OrderID); err != nil {
		return nil, err
	}
	return item, nil
}

// Create adds a single line. The order price is left as stored.
func (s *orderItemService) Create(ctx context.Context, in ItemInput) (*types.OrderItem, error) {
	const op = "OrderItem.Create"
	if in.Quantity < 1 {
		return nil, validationErr(op, "quantity must be at least 1")
	}
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.authorizeOrder(ctx, dbc, op, in.ParentID); err != nil {
			return err
		}
		if err := requireProduct(dbc, s.products, op, in.ProductID); err != nil {
			return err
		}
		created, err := s.items.Create(dbc, []*types.OrderItem{{OrderID: in.ParentID, ProductID: in.ProductID, Quantity: in.Quantity}})
		if err != nil {
			return err
		}
		id = created[0].ID
		return nil
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *orderItemService) SetQuantity(ctx context.Context, id uint, quantity int) (*types.OrderItem, error) {
	const op = "OrderItem.SetQuantity"
	if quantity < 1 {
		return nil, validationErr(op, "quantity must be at least 1")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.items.UpdateQuantity(dbctx.Context{Ctx: ctx}, id, quantity); err != nil {
		return nil, storeErr(op, err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *orderItemService) Delete(ctx context.Context, id uint) error {
	const op = "OrderItem.Delete"
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.items.DeleteByIDs(dbctx.Context{Ctx: ctx}, []uint{id})
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return notFoundErr(op, "order item not found: %d", id)
	}
	s.invalidate(ctx)
	return nil
}

func (s *orderItemService) invalidate(ctx context.Context) {
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.log.Warn("analytics cache invalidation failed", "error", err)
	}
}
