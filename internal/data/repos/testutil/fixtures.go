package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
)

func SeedCustomer(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.Customer {
	tb.Helper()
	c := &types.Customer{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		FullName: "Test Customer",
	}
	if err := tx.WithContext(ctx).Omit("Roles").Create(c).Error; err != nil {
		tb.Fatalf("seed customer: %v", err)
	}
	return c
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Category {
	tb.Helper()
	c := &types.Category{Name: name}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, price string, categories ...*types.Category) *types.Product {
	tb.Helper()
	p := &types.Product{Name: name, Price: decimal.RequireFromString(price)}
	if err := tx.WithContext(ctx).Omit("ProductCategories").Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	for _, c := range categories {
		pc := &types.ProductCategory{ProductID: p.ID, CategoryID: c.ID}
		if err := tx.WithContext(ctx).Omit("Product", "Category").Create(pc).Error; err != nil {
			tb.Fatalf("seed product category: %v", err)
		}
	}
	return p
}

// SeedOrder creates an order with one line per product, each with the given quantity.
func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, customerID uuid.UUID, at time.Time, qty int, products ...*types.Product) *types.Order {
	tb.Helper()
	o := &types.Order{CustomerID: customerID, OrderDate: at, Price: decimal.Zero}
	if err := tx.WithContext(ctx).Omit("Items", "Customer").Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	for _, p := range products {
		it := &types.OrderItem{OrderID: o.ID, ProductID: p.ID, Quantity: qty}
		if err := tx.WithContext(ctx).Omit("Product").Create(it).Error; err != nil {
			tb.Fatalf("seed order item: %v", err)
		}
		o.Items = append(o.Items, *it)
	}
	return o
}

type Line struct {
	Product  *types.Product
	Quantity int
}

func SeedCart(tb testing.TB, ctx context.Context, tx *gorm.DB, customerID uuid.UUID, lines ...Line) *types.Cart {
	tb.Helper()
	c := &types.Cart{CustomerID: customerID, Price: decimal.Zero}
	if err := tx.WithContext(ctx).Omit("Items", "Customer").Create(c).Error; err != nil {
		tb.Fatalf("seed cart: %v", err)
	}
	for _, l := range lines {
		it := &types.CartItem{CartID: c.ID, ProductID: l.Product.ID, Quantity: l.Quantity}
		if err := tx.WithContext(ctx).Omit("Product").Create(it).Error; err != nil {
			tb.Fatalf("seed cart item: %v", err)
		}
		c.Items = append(c.Items, *it)
	}
	return c
}

// UniqueEmail avoids collisions with rows committed by other tests.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}
