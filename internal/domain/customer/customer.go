package customer

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string         `gorm:"not null;column:password" json:"-"`
	FullName  string         `gorm:"column:full_name" json:"full_name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Roles []Role `gorm:"many2many:customer_role;joinForeignKey:CustomerID;joinReferences:RoleID" json:"roles,omitempty"`
}

func (Customer) TableName() string { return "customer" }

// BeforeCreate assigns the id in Go so sqlite and postgres behave the same.
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// RoleNames lists the loaded role names.
func (c *Customer) RoleNames() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.Roles))
	for _, r := range c.Roles {
		out = append(out, r.Name)
	}
	return out
}
