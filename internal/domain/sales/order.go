package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/domain/catalog"
	"github.com/yungbote/storefront-backend/internal/domain/customer"
)

type Order struct {
	ID         uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID uuid.UUID          `gorm:"type:uuid;not null;index;column:customer_id" json:"customer_id"`
	Customer   *customer.Customer `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"-"`
	Price      decimal.Decimal    `gorm:"type:decimal(12,2);not null;column:price" json:"price"`
	OrderDate  time.Time          `gorm:"not null;index;column:order_date" json:"order_date"`
	CreatedAt  time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;references:ID" json:"items"`
}

func (Order) TableName() string { return "order" }

type OrderItem struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint             `gorm:"not null;index;column:order_id" json:"order_id"`
	ProductID uint             `gorm:"not null;index;column:product_id" json:"product_id"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Quantity  int              `gorm:"not null;column:quantity" json:"quantity"`
}

func (OrderItem) TableName() string { return "order_item" }

// LineTotal is quantity times the product's current unit price. Zero when the
// product was not loaded.
func (i OrderItem) LineTotal() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
