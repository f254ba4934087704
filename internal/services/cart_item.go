package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type CartItemService interface {
	// List returns every line for admins, or the lines of one cart when cartID is set.
	List(ctx context.Context, cartID uint) ([]*types.CartItem, error)
	Get(ctx context.Context, id uint) (*types.CartItem, error)
	Create(ctx context.Context, in ItemInput) (*types.CartItem, error)
	SetQuantity(ctx context.Context, id uint, quantity int) (*types.CartItem, error)
	Delete(ctx context.Context, id uint) error
}

// ItemInput adds one line to a cart or order. ParentID is the cart or order id.
type ItemInput struct {
	ParentID  uint
	ProductID uint
	Quantity  int
}

type cartItemService struct {
	db       *gorm.DB
	log      *logger.Logger
	carts    repos.CartRepo
	items    repos.CartItemRepo
	products repos.ProductRepo
}

func NewCartItemService(db *gorm.DB, log *logger.Logger, carts repos.CartRepo, items repos.CartItemRepo, products repos.ProductRepo) CartItemService {
	return &cartItemService{
		db:       db,
		log:      log.With("service", "CartItemService"),
		carts:    carts,
		items:    items,
		products: products,
	}
}

func (s *cartItemService) authorizeCart(ctx context.Context, dbc dbctx.Context, op string, cartID uint) error {
	cart, err := s.carts.GetByID(dbc, cartID)
	if err != nil {
		return storeErr(op, err)
	}
	if cart == nil {
		return notFoundErr(op, "cart not found: %d", cartID)
	}
	return requireSelfOrAdmin(ctx, op, cart.CustomerID)
}

func (s *cartItemService) List(ctx context.Context, cartID uint) ([]*types.CartItem, error) {
	const op = "CartItem.List"
	if _, err := caller(ctx, op); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	if cartID == 0 {
		if !isAdmin(ctx) {
			return nil, validationErr(op, "cart_id is required")
		}
		out, err := s.items.List(dbc)
		if err != nil {
			return nil, storeErr(op, err)
		}
		return out, nil
	}
	if err := s.authorizeCart(ctx, dbc, op, cartID); err != nil {
		return nil, err
	}
	out, err := s.items.ListByCartID(dbc, cartID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *cartItemService) Get(ctx context.Context, id uint) (*types.CartItem, error) {
	const op = "CartItem.Get"
	dbc := dbctx.Context{Ctx: ctx}
	item, err := s.items.GetByID(dbc, id)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if item == nil {
		return nil, notFoundErr(op, "cart item not found: %d", id)
	}
	if err := s.authorizeCart(ctx, dbc, op, item.CartID); err != nil {
		return nil, err
	}
	return item, nil
}

// Create adds a single line. The cart price is left as stored.
func (s *cartItemService) Create(ctx context.Context, in ItemInput) (*types.CartItem, error) {
	const op = "CartItem.Create"
	if in.Quantity < 1 {
		return nil, validationErr(op, "quantity must be at least 1")
	}
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.authorizeCart(ctx, dbc, op, in.ParentID); err != nil {
			return err
		}
		if err := requireProduct(dbc, s.products, op, in.ProductID); err != nil {
			return err
		}
		created, err := s.items.Create(dbc, []*types.CartItem{{CartID: in.ParentID, ProductID: in.ProductID, Quantity: in.Quantity}})
		if err != nil {
			return err
		}
		id = created[0].ID
		return nil
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return s.Get(ctx, id)
}

func (s *cartItemService) SetQuantity(ctx context.Context, id uint, quantity int) (*types.CartItem, error) {
	const op = "CartItem.SetQuantity"
	if quantity < 1 {
		return nil, validationErr(op, "quantity must be at least 1")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.items.UpdateQuantity(dbctx.Context{Ctx: ctx}, id, quantity); err != nil {
		return nil, storeErr(op, err)
	}
	return s.Get(ctx, id)
}

func (s *cartItemService) Delete(ctx context.Context, id uint) error {
	const op = "CartItem.Delete"
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.items.DeleteByIDs(dbctx.Context{Ctx: ctx}, []uint{id})
	if err != nil {
		return storeErr(op, err)
	}
	if n == 0 {
		return notFoundErr(op, "cart item not found: %d", id)
	}
	return nil
}

func requireProduct(dbc dbctx.Context, products repos.ProductRepo, op string, id uint) error {
	if id == 0 {
		return validationErr(op, "product_id is required")
	}
	found, err := products.ExistingIDs(dbc, []uint{id})
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return validationErr(op, "products not found: %d", id)
	}
	return nil
}
