package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yungbote/storefront-backend/internal/domain/catalog"
	"github.com/yungbote/storefront-backend/internal/domain/customer"
)

type Cart struct {
	ID         uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID uuid.UUID          `gorm:"type:uuid;not null;index;column:customer_id" json:"customer_id"`
	Customer   *customer.Customer `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"-"`
	Price      decimal.Decimal    `gorm:"type:decimal(12,2);not null;column:price" json:"price"`
	CreatedAt  time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;references:ID" json:"items"`
}

func (Cart) TableName() string { return "cart" }

type CartItem struct {
	ID        uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    uint             `gorm:"not null;index;column:cart_id" json:"cart_id"`
	ProductID uint             `gorm:"not null;index;column:product_id" json:"product_id"`
	Product   *catalog.Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Quantity  int              `gorm:"not null;column:quantity" json:"quantity"`
}

func (CartItem) TableName() string { return "cart_item" }
