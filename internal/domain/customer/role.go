package customer

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type Role struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:64;not null;uniqueIndex;column:name" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Role) TableName() string { return "role" }

type CustomerRole struct {
	CustomerID uuid.UUID `gorm:"type:uuid;primaryKey;column:customer_id" json:"customer_id"`
	RoleID     uint      `gorm:"primaryKey;autoIncrement:false;index;column:role_id" json:"role_id"`
}

func (CustomerRole) TableName() string { return "customer_role" }
