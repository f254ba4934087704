package catalog

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type ProductCategoryRepo interface {
	List(dbc dbctx.Context) ([]*types.ProductCategory, error)
	ListByProductIDs(dbc dbctx.Context, productIDs []uint) ([]*types.ProductCategory, error)
	Add(dbc dbctx.Context, productID, categoryID uint) error
	Delete(dbc dbctx.Context, productID, categoryID uint) (bool, error)
}

type productCategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductCategoryRepo(db *gorm.DB, baseLog *logger.Logger) ProductCategoryRepo {
	return &productCategoryRepo{db: db, log: baseLog.With("repo", "ProductCategoryRepo")}
}

func (r *productCategoryRepo) List(dbc dbctx.Context) ([]*types.ProductCategory, error) {
	var results []*types.ProductCategory
	if err := dbc.DB(r.db).
		Preload("Product").
		Preload("Category").
		Order("product_id ASC, category_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productCategoryRepo) ListByProductIDs(dbc dbctx.Context, productIDs []uint) ([]*types.ProductCategory, error) {
	var results []*types.ProductCategory
	if len(productIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Preload("Category").
		Where("product_id IN ?", productIDs).
		Order("product_id ASC, category_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Add is idempotent.
func (r *productCategoryRepo) Add(dbc dbctx.Context, productID, categoryID uint) error {
	if productID == 0 || categoryID == 0 {
		return nil
	}
	row := &types.ProductCategory{ProductID: productID, CategoryID: categoryID}
	return dbc.DB(r.db).
		Omit("Product", "Category").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error
}

func (r *productCategoryRepo) Delete(dbc dbctx.Context, productID, categoryID uint) (bool, error) {
	res := dbc.DB(r.db).
		Where("product_id = ? AND category_id = ?", productID, categoryID).
		Delete(&types.ProductCategory{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
