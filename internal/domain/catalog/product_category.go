package catalog

// ProductCategory assigns a product to a category. The pair is the primary key.
type ProductCategory struct {
	ProductID  uint      `gorm:"primaryKey;autoIncrement:false;column:product_id" json:"product_id"`
	CategoryID uint      `gorm:"primaryKey;autoIncrement:false;index;column:category_id" json:"category_id"`
	Product    *Product  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Category   *Category `gorm:"constraint:OnDelete:CASCADE;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
}

func (ProductCategory) TableName() string { return "product_category" }
