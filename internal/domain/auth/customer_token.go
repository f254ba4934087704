package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/domain/customer"
)

// CustomerToken is an issued access/refresh pair. Deleting the row revokes both.
type CustomerToken struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID   uuid.UUID          `gorm:"type:uuid;index;not null;column:customer_id" json:"customer_id"`
	Customer     *customer.Customer `gorm:"constraint:OnDelete:CASCADE;foreignKey:CustomerID;references:ID" json:"-"`
	AccessToken  string             `gorm:"uniqueIndex;not null;column:access_token" json:"-"`
	RefreshToken string             `gorm:"uniqueIndex;not null;column:refresh_token" json:"-"`
	ExpiresAt    time.Time          `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt    time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CustomerToken) TableName() string { return "customer_token" }

func (t *CustomerToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
