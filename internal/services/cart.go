package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type CartService interface {
	List(ctx context.Context) ([]*types.Cart, error)
	Get(ctx context.Context, id uint) (*types.Cart, error)
	Create(ctx context.Context, in CartInput) (*types.Cart, error)
	Replace(ctx context.Context, id uint, in CartInput) (*types.Cart, error)
	Delete(ctx context.Context, id uint) error
}

// CartInput is the desired cart. A zero CustomerID means the caller.
type CartInput struct {
	CustomerID uuid.UUID
	Price      *decimal.Decimal
	Items      []domainagg.LineInput
}

type cartService struct {
	log   *logger.Logger
	carts repos.CartRepo
	agg   domainagg.CartAggregate
}

func NewCartService(log *logger.Logger, carts repos.CartRepo, agg domainagg.CartAggregate) CartService {
	return &cartService{
		log:   log.With("service", "CartService"),
		carts: carts,
		agg:   agg,
	}
}

func (s *cartService) List(ctx context.Context) ([]*types.Cart, error) {
	const op = "Cart.List"
	rd, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	var out []*types.Cart
	if isAdmin(ctx) {
		out, err = s.carts.List(dbc)
	} else {
		out, err = s.carts.ListByCustomerID(dbc, rd.CustomerID)
	}
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *cartService) Get(ctx context.Context, id uint) (*types.Cart, error) {
	const op = "Cart.Get"
	cart, err := s.load(ctx, op, id)
	if err != nil {
		return nil, err
	}
	if err := requireSelfOrAdmin(ctx, op, cart.CustomerID); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) load(ctx context.Context, op string, id uint) (*types.Cart, error) {
	cart, err := s.carts.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if cart == nil {
		return nil, notFoundErr(op, "cart not found: %d", id)
	}
	return cart, nil
}

func (s *cartService) Create(ctx context.Context, in CartInput) (*types.Cart, error) {
	const op = "Cart.Create"
	owner, err := resolveOwner(ctx, op, in.CustomerID)
	if err != nil {
		return nil, err
	}
	res, err := s.agg.Create(ctx, domainagg.CreateCartInput{
		CustomerID: owner,
		Price:      in.Price,
		Items:      in.Items,
	})
	if err != nil {
		return nil, err
	}
	return s.load(ctx, op, res.ID)
}

func (s *cartService) Replace(ctx context.Context, id uint, in CartInput) (*types.Cart, error) {
	const op = "Cart.Replace"
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if in.CustomerID != uuid.Nil {
		if err := requireSelfOrAdmin(ctx, op, in.CustomerID); err != nil {
			return nil, err
		}
	}
	res, err := s.agg.Replace(ctx, domainagg.ReplaceCartInput{
		CartID:     id,
		CustomerID: in.CustomerID,
		Price:      in.Price,
		Items:      in.Items,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("cart reconciled", "cart_id", id, "mutations", len(res.Mutations))
	return s.load(ctx, op, id)
}

func (s *cartService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.agg.Delete(ctx, id)
}

// resolveOwner picks the customer a new cart or order belongs to. Customers
// may only create for themselves; admins may name anyone.
func resolveOwner(ctx context.Context, op string, requested uuid.UUID) (uuid.UUID, error) {
	rd, err := caller(ctx, op)
	if err != nil {
		return uuid.Nil, err
	}
	if requested == uuid.Nil {
		return rd.CustomerID, nil
	}
	if err := requireSelfOrAdmin(ctx, op, requested); err != nil {
		return uuid.Nil, err
	}
	return requested, nil
}
