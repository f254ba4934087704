package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"size:100;not null;index;column:name" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null;column:price" json:"price"`
	Featured  bool            `gorm:"not null;default:false;column:featured" json:"featured"`
	ImageURL  string          `gorm:"column:image_url" json:"image_url"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	ProductCategories []ProductCategory `gorm:"foreignKey:ProductID;references:ID" json:"-"`
}

func (Product) TableName() string { return "product" }

// CategoryIDs lists the ids of the loaded category assignments.
func (p *Product) CategoryIDs() []uint {
	if p == nil {
		return nil
	}
	out := make([]uint, 0, len(p.ProductCategories))
	for _, pc := range p.ProductCategories {
		out = append(out, pc.CategoryID)
	}
	return out
}

// CategoryNames lists names of the loaded categories, skipping assignments whose
// category was not preloaded.
func (p *Product) CategoryNames() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.ProductCategories))
	for _, pc := range p.ProductCategories {
		if pc.Category != nil {
			out = append(out, pc.Category.Name)
		}
	}
	return out
}
