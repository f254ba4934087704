package aggregates

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	"github.com/yungbote/storefront-backend/internal/domain/reconcile"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
)

type CartAggregateDeps struct {
	Base BaseDeps

	Carts     repos.CartRepo
	Items     repos.CartItemRepo
	Products  repos.ProductRepo
	Customers repos.CustomerRepo
}

type cartAggregate struct {
	deps CartAggregateDeps
}

func NewCartAggregate(deps CartAggregateDeps) domainagg.CartAggregate {
	deps.Base = deps.Base.withDefaults()
	return &cartAggregate{deps: deps}
}

func (a *cartAggregate) configured(op string) error {
	if a.deps.Carts == nil || a.deps.Items == nil || a.deps.Products == nil || a.deps.Customers == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "cart aggregate repos not configured", nil)
	}
	return nil
}

func (a *cartAggregate) Create(ctx context.Context, in domainagg.CreateCartInput) (domainagg.WriteResult, error) {
	const op = "Sales.Cart.Create"
	var out domainagg.WriteResult
	if err := a.configured(op); err != nil {
		return out, err
	}
	if err := validateLines(op, in.Items); err != nil {
		return out, err
	}
	if err := validatePrice(op, in.Price); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := requireCustomer(dbc, a.deps.Customers, op, in.CustomerID); err != nil {
			return err
		}
		products, err := loadProducts(dbc, a.deps.Products, op, in.Items)
		if err != nil {
			return err
		}
		cart, err := a.deps.Carts.Create(dbc, &types.Cart{
			CustomerID: in.CustomerID,
			Price:      resolvePrice(in.Price, in.Items, products),
		})
		if err != nil {
			return err
		}
		muts := reconcile.Reconcile(nil, domainagg.DesiredItems(in.Items))
		if err := applyMutations(dbc, a.deps.Items, muts, a.insertItems(dbc, cart.ID)); err != nil {
			return err
		}
		out = domainagg.WriteResult{ID: cart.ID, Mutations: muts}
		return nil
	})
	return out, err
}

func (a *cartAggregate) Replace(ctx context.Context, in domainagg.ReplaceCartInput) (domainagg.WriteResult, error) {
	const op = "Sales.Cart.Replace"
	var out domainagg.WriteResult
	if err := a.configured(op); err != nil {
		return out, err
	}
	if in.CartID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "cart id is required", nil)
	}
	if err := validateLines(op, in.Items); err != nil {
		return out, err
	}
	if err := validatePrice(op, in.Price); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		cart, err := a.deps.Carts.LockByID(dbc, in.CartID)
		if err != nil {
			return err
		}
		if cart == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("cart not found: %d", in.CartID), nil)
		}
		updates := map[string]interface{}{}
		if in.CustomerID != uuid.Nil && in.CustomerID != cart.CustomerID {
			if err := requireCustomer(dbc, a.deps.Customers, op, in.CustomerID); err != nil {
				return err
			}
			updates["customer_id"] = in.CustomerID
		}

		var muts []reconcile.Mutation
		if in.Items == nil {
			if in.Price != nil {
				updates["price"] = in.Price.Round(2)
			}
		} else {
			products, err := loadProducts(dbc, a.deps.Products, op, in.Items)
			if err != nil {
				return err
			}
			stored, err := a.deps.Items.ListByCartID(dbc, cart.ID)
			if err != nil {
				return err
			}
			existing := make([]reconcile.ExistingItem, 0, len(stored))
			for _, it := range stored {
				existing = append(existing, reconcile.ExistingItem{ItemID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
			}
			muts = reconcile.Reconcile(existing, domainagg.DesiredItems(in.Items))
			if err := applyMutations(dbc, a.deps.Items, muts, a.insertItems(dbc, cart.ID)); err != nil {
				return err
			}
			updates["price"] = resolvePrice(in.Price, in.Items, products)
		}

		if err := a.deps.Carts.UpdateHeader(dbc, cart.ID, updates); err != nil {
			return err
		}
		out = domainagg.WriteResult{ID: cart.ID, Mutations: muts}
		return nil
	})
	return out, err
}

func (a *cartAggregate) Delete(ctx context.Context, cartID uint) error {
	const op = "Sales.Cart.Delete"
	if err := a.configured(op); err != nil {
		return err
	}
	if cartID == 0 {
		return domainagg.NewError(domainagg.CodeValidation, op, "cart id is required", nil)
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		deleted, err := a.deps.Carts.Delete(dbc, cartID)
		if err != nil {
			return err
		}
		if !deleted {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("cart not found: %d", cartID), nil)
		}
		return nil
	})
}

func (a *cartAggregate) insertItems(dbc dbctx.Context, cartID uint) func([]reconcile.Mutation) error {
	return func(inserts []reconcile.Mutation) error {
		items := make([]*types.CartItem, 0, len(inserts))
		for _, m := range inserts {
			items = append(items, &types.CartItem{CartID: cartID, ProductID: m.ProductID, Quantity: m.Quantity})
		}
		_, err := a.deps.Items.Create(dbc, items)
		return err
	}
}
