package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type OrderService interface {
	List(ctx context.Context) ([]*types.Order, error)
	Get(ctx context.Context, id uint) (*types.Order, error)
	Create(ctx context.Context, in OrderInput) (*types.Order, error)
	Replace(ctx context.Context, id uint, in OrderInput) (*types.Order, error)
	Delete(ctx context.Context, id uint) error
}

// OrderInput is the desired order. A zero CustomerID means the caller on
// create and "unchanged" on replace; a nil OrderDate means now or unchanged.
type OrderInput struct {
	CustomerID uuid.UUID
	Price      *decimal.Decimal
	OrderDate  *time.Time
	Items      []domainagg.LineInput
}

type orderService struct {
	log         *logger.Logger
	orders      repos.OrderRepo
	agg         domainagg.OrderAggregate
	invalidator AnalyticsInvalidator
}

func NewOrderService(log *logger.Logger, orders repos.OrderRepo, agg domainagg.OrderAggregate, inv AnalyticsInvalidator) OrderService {
	return &orderService{
		log:         log.With("service", "OrderService"),
		orders:      orders,
		agg:         agg,
		invalidator: orNop(inv),
	}
}

func (s *orderService) List(ctx context.Context) ([]*types.Order, error) {
	const op = "Order.List"
	rd, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	var out []*types.Order
	if isAdmin(ctx) {
		out, err = s.orders.List(dbc)
	} else {
		out, err = s.orders.ListByCustomerIDs(dbc, []uuid.UUID{rd.CustomerID})
	}
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *orderService) Get(ctx context.Context, id uint) (*types.Order, error) {
	const op = "Order.Get"
	order, err := s.load(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(ctx, op, order.CustomerID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *orderService) load(ctx context.Context, op string, id uint) (*types.Order, error) {
	order, err := s.orders.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if order == nil {
		return nil, notFoundErr(op, "order not found: %d", id)
	}
	return order, nil
}

func (s *orderService) Create(ctx context.Context, in OrderInput) (*types.Order, error) {
	const op = "Order.Create"
	owner, err := resolveOwner(ctx, op, in.CustomerID)
	if err != nil {
		return nil, err
	}
	create := domainagg.CreateOrderInput{
		CustomerID: owner,
		Price:      in.Price,
		Items:      in.Items,
	}
	if in.OrderDate != nil {
		create.OrderDate = *in.OrderDate
	}
	res, err := s.agg.Create(ctx, create)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("order created", "order_id", res.ID, "lines", len(in.Items))
	return s.load(ctx, op, res.ID)
}

func (s *orderService) Replace(ctx context.Context, id uint, in OrderInput) (*types.Order, error) {
	const op = "Order.Replace"
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if in.CustomerID != uuid.Nil {
		if err := requireSelfOrAdmin(ctx, op, in.CustomerID); err != nil {
			return nil, err
		}
	}
	res, err := s.agg.Replace(ctx, domainagg.ReplaceOrderInput{
		OrderID:    id,
		CustomerID: in.CustomerID,
		Price:      in.Price,
		OrderDate:  in.OrderDate,
		Items:      in.Items,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Debug("order reconciled", "order_id", id, "mutations", len(res.Mutations))
	return s.load(ctx, op, id)
}

func (s *orderService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.agg.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *orderService) invalidate(ctx context.Context) {
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.log.Warn("analytics cache invalidation failed", "error", err)
	}
}
