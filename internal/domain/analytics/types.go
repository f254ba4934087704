package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint
	Name string
}

type Product struct {
	ID         uint
	Name       string
	Price      decimal.Decimal
	Categories []Category
}

type Item struct {
	Product  Product
	Quantity int
}

// LineTotal is quantity times the snapshot price.
func (i Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID         uint
	CustomerID string
	OrderDate  time.Time
	Price      decimal.Decimal
	Items      []Item
}

type OrdersOverTimeRow struct {
	Date         time.Time `json:"date"`
	TotalOrders  int       `json:"total_orders"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
}

type RevenueOverTimeRow struct {
	Date         time.Time       `json:"date"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	CategoryID   uint            `json:"category_id"`
	CategoryName string          `json:"category_name"`
}

type OrdersByCategoryRow struct {
	CategoryID        uint   `json:"category_id"`
	CategoryName      string `json:"category_name"`
	TotalQuantitySold int    `json:"total_quantity_sold"`
}

type AovByCategoryRow struct {
	CategoryID        uint            `json:"category_id"`
	CategoryName      string          `json:"category_name"`
	Date              time.Time       `json:"date"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

type TopProductRow struct {
	ProductID         uint            `json:"product_id"`
	ProductName       string          `json:"product_name"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}
