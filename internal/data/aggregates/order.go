package aggregates

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	"github.com/yungbote/storefront-backend/internal/domain/reconcile"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
)

const DefaultOrdersTopic = "storefront.orders"

type OrderAggregateDeps struct {
	Base BaseDeps

	Orders    repos.OrderRepo
	Items     repos.OrderItemRepo
	Products  repos.ProductRepo
	Customers repos.CustomerRepo
	Outbox    repos.OutboxEventRepo

	// Topic is stamped on outbox rows; empty uses DefaultOrdersTopic.
	Topic string
	// Now is the clock for defaulted order dates.
	Now func() time.Time
}

type orderAggregate struct {
	deps OrderAggregateDeps
}

func NewOrderAggregate(deps OrderAggregateDeps) domainagg.OrderAggregate {
	deps.Base = deps.Base.withDefaults()
	if strings.TrimSpace(deps.Topic) == "" {
		deps.Topic = DefaultOrdersTopic
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &orderAggregate{deps: deps}
}

func (a *orderAggregate) configured(op string) error {
	if a.deps.Orders == nil || a.deps.Items == nil || a.deps.Products == nil || a.deps.Customers == nil || a.deps.Outbox == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "order aggregate repos not configured", nil)
	}
	return nil
}

// OrderEvent is the JSON body of order outbox rows.
type OrderEvent struct {
	Type       string           `json:"type"`
	OrderID    uint             `json:"order_id"`
	CustomerID uuid.UUID        `json:"customer_id"`
	Price      decimal.Decimal  `json:"price"`
	OrderDate  time.Time        `json:"order_date"`
	Items      []OrderEventItem `json:"items"`
}

type OrderEventItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func (a *orderAggregate) Create(ctx context.Context, in domainagg.CreateOrderInput) (domainagg.WriteResult, error) {
	const op = "Sales.Order.Create"
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
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = a.deps.Now().UTC()
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		if err := requireCustomer(dbc, a.deps.Customers, op, in.CustomerID); err != nil {
			return err
		}
		products, err := loadProducts(dbc, a.deps.Products, op, in.Items)
		if err != nil {
			return err
		}
		order, err := a.deps.Orders.Create(dbc, &types.Order{
			CustomerID: in.CustomerID,
			Price:      resolvePrice(in.Price, in.Items, products),
			OrderDate:  orderDate,
		})
		if err != nil {
			return err
		}
		muts := reconcile.Reconcile(nil, domainagg.DesiredItems(in.Items))
		if err := applyMutations(dbc, a.deps.Items, muts, a.insertItems(dbc, order.ID)); err != nil {
			return err
		}
		if err := a.writeEvent(dbc, types.EventOrderCreated, order, in.Items); err != nil {
			return err
		}
		out = domainagg.WriteResult{ID: order.ID, Mutations: muts}
		return nil
	})
	return out, err
}

func (a *orderAggregate) Replace(ctx context.Context, in domainagg.ReplaceOrderInput) (domainagg.WriteResult, error) {
	const op = "Sales.Order.Replace"
	var out domainagg.WriteResult
	if err := a.configured(op); err != nil {
		return out, err
	}
	if in.OrderID == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "order id is required", nil)
	}
	if err := validateLines(op, in.Items); err != nil {
		return out, err
	}
	if err := validatePrice(op, in.Price); err != nil {
		return out, err
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		order, err := a.deps.Orders.LockByID(dbc, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("order not found: %d", in.OrderID), nil)
		}
		updates := map[string]interface{}{}
		if in.CustomerID != uuid.Nil && in.CustomerID != order.CustomerID {
			if err := requireCustomer(dbc, a.deps.Customers, op, in.CustomerID); err != nil {
				return err
			}
			updates["customer_id"] = in.CustomerID
			order.CustomerID = in.CustomerID
		}
		if in.OrderDate != nil && !in.OrderDate.IsZero() {
			updates["order_date"] = *in.OrderDate
			order.OrderDate = *in.OrderDate
		}
		stored, err := a.deps.Items.ListByOrderID(dbc, order.ID)
		if err != nil {
			return err
		}

		var muts []reconcile.Mutation
		lines := in.Items
		if in.Items == nil {
			lines = make([]domainagg.LineInput, 0, len(stored))
			for _, it := range stored {
				lines = append(lines, domainagg.LineInput{ProductID: it.ProductID, Quantity: it.Quantity})
			}
			if in.Price != nil {
				order.Price = in.Price.Round(2)
				updates["price"] = order.Price
			}
		} else {
			products, err := loadProducts(dbc, a.deps.Products, op, in.Items)
			if err != nil {
				return err
			}
			existing := make([]reconcile.ExistingItem, 0, len(stored))
			for _, it := range stored {
				existing = append(existing, reconcile.ExistingItem{ItemID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity})
			}
			muts = reconcile.Reconcile(existing, domainagg.DesiredItems(in.Items))
			if err := applyMutations(dbc, a.deps.Items, muts, a.insertItems(dbc, order.ID)); err != nil {
				return err
			}
			order.Price = resolvePrice(in.Price, in.Items, products)
			updates["price"] = order.Price
		}

		if err := a.deps.Orders.UpdateHeader(dbc, order.ID, updates); err != nil {
			return err
		}
		if err := a.writeEvent(dbc, types.EventOrderUpdated, order, lines); err != nil {
			return err
		}
		out = domainagg.WriteResult{ID: order.ID, Mutations: muts}
		return nil
	})
	return out, err
}

func (a *orderAggregate) Delete(ctx context.Context, orderID uint) error {
	const op = "Sales.Order.Delete"
	if err := a.configured(op); err != nil {
		return err
	}
	if orderID == 0 {
		return domainagg.NewError(domainagg.CodeValidation, op, "order id is required", nil)
	}
	return executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		order, err := a.deps.Orders.LockByID(dbc, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf("order not found: %d", orderID), nil)
		}
		if _, err := a.deps.Orders.Delete(dbc, orderID); err != nil {
			return err
		}
		return a.writeEvent(dbc, types.EventOrderDeleted, order, nil)
	})
}

func (a *orderAggregate) insertItems(dbc dbctx.Context, orderID uint) func([]reconcile.Mutation) error {
	return func(inserts []reconcile.Mutation) error {
		items := make([]*types.OrderItem, 0, len(inserts))
		for _, m := range inserts {
			items = append(items, &types.OrderItem{OrderID: orderID, ProductID: m.ProductID, Quantity: m.Quantity})
		}
		_, err := a.deps.Items.Create(dbc, items)
		return err
	}
}

func (a *orderAggregate) writeEvent(dbc dbctx.Context, eventType string, order *types.Order, lines []domainagg.LineInput) error {
	ev := OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Price:      order.Price,
		OrderDate:  order.OrderDate.UTC(),
		Items:      make([]OrderEventItem, 0, len(lines)),
	}
	for _, l := range lines {
		ev.Items = append(ev.Items, OrderEventItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	_, err = a.deps.Outbox.Create(dbc, []*types.OutboxEvent{{
		Topic:       a.deps.Topic,
		AggregateID: strconv.FormatUint(uint64(order.ID), 10),
		Type:        eventType,
		Payload:     datatypes.JSON(payload),
	}})
	return err
}
