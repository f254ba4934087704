package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/domain/reconcile"
)

// LineInput is a requested line.
type LineInput struct {
	ProductID uint
	Quantity  int
}

// CartAggregate owns cart line invariants.
//
// Failures carry codes CodeValidation, CodeNotFound, CodeConflict,
// CodeRetryable or CodeInternal.
type CartAggregate interface {
	// Create inserts a cart and its lines. Every product must exist.
	Create(ctx context.Context, in CreateCartInput) (WriteResult, error)

	// Replace updates the header and, when in.Items is non-nil, reconciles
	// the stored lines against it. Nil Items leaves the lines untouched.
	Replace(ctx context.Context, in ReplaceCartInput) (WriteResult, error)

	// Delete removes the lines, then the cart.
	Delete(ctx context.Context, cartID uint) error
}

type CreateCartInput struct {
	CustomerID uuid.UUID
	// Price is stored as given; nil computes it from current product prices.
	Price *decimal.Decimal
	Items []LineInput
}

type ReplaceCartInput struct {
	CartID uint
	// CustomerID reassigns the cart when not uuid.Nil.
	CustomerID uuid.UUID
	Price      *decimal.Decimal
	Items      []LineInput
}

// OrderAggregate owns order line invariants and order events.
type OrderAggregate interface {
	// Create inserts an order, its lines and an order.created event. The
	// customer and every product must exist.
	Create(ctx context.Context, in CreateOrderInput) (WriteResult, error)

	// Replace updates the header, reconciles the lines when in.Items is
	// non-nil and writes an order.updated event carrying the resulting lines.
	Replace(ctx context.Context, in ReplaceOrderInput) (WriteResult, error)

	// Delete removes lines and order and writes an order.deleted event.
	Delete(ctx context.Context, orderID uint) error
}

type CreateOrderInput struct {
	CustomerID uuid.UUID
	Price      *decimal.Decimal
	// OrderDate defaults to now (UTC) when zero.
	OrderDate time.Time
	Items     []LineInput
}

type ReplaceOrderInput struct {
	OrderID    uint
	CustomerID uuid.UUID
	Price      *decimal.Decimal
	OrderDate  *time.Time
	Items      []LineInput
}

// WriteResult reports the stored id and the line mutations applied.
type WriteResult struct {
	ID        uint
	Mutations []reconcile.Mutation
}

// DesiredItems converts line inputs for the reconciler.
func DesiredItems(lines []LineInput) []reconcile.DesiredItem {
	out := make([]reconcile.DesiredItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, reconcile.DesiredItem{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}
