package catalog

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex;column:name" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	ProductCategories []ProductCategory `gorm:"foreignKey:CategoryID;references:ID" json:"-"`
}

func (Category) TableName() string { return "category" }
