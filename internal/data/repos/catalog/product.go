package catalog

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

const preloadProductCategories = "ProductCategories.Category"

type ProductRepo interface {
	Create(dbc dbctx.Context, products []*types.Product) ([]*types.Product, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Product, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Product, error)
	List(dbc dbctx.Context) ([]*types.Product, error)
	ListByCategoryName(dbc dbctx.Context, name string) ([]*types.Product, error)
	ExistingIDs(dbc dbctx.Context, ids []uint) ([]uint, error)
	Update(dbc dbctx.Context, product *types.Product) error
	SetCategories(dbc dbctx.Context, productID uint, categoryIDs []uint) error
	Delete(dbc dbctx.Context, id uint) (bool, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) Create(dbc dbctx.Context, products []*types.Product) ([]*types.Product, error) {
	if len(products) == 0 {
		return []*types.Product{}, nil
	}
	if err := dbc.DB(r.db).Omit("ProductCategories").Create(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepo) GetByID(dbc dbctx.Context, id uint) (*types.Product, error) {
	if id == 0 {
		return nil, nil
	}
	var p types.Product
	err := dbc.DB(r.db).
		Preload(preloadProductCategories).
		Where("id = ?", id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.Product, error) {
	var results []*types.Product
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Preload(preloadProductCategories).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productRepo) List(dbc dbctx.Context) ([]*types.Product, error) {
	var results []*types.Product
	if err := dbc.DB(r.db).
		Preload(preloadProductCategories).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productRepo) ListByCategoryName(dbc dbctx.Context, name string) ([]*types.Product, error) {
	var results []*types.Product
	name = strings.TrimSpace(name)
	if name == "" {
		return results, nil
	}
	sub := dbc.DB(r.db).
		Table("product_category").
		Select("product_category.product_id").
		Joins("JOIN category ON category.id = product_category.category_id").
		Where("LOWER(category.name) = LOWER(?)", name)
	if err := dbc.DB(r.db).
		Preload(preloadProductCategories).
		Where("id IN (?)", sub).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *productRepo) ExistingIDs(dbc dbctx.Context, ids []uint) ([]uint, error) {
	var out []uint
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Product{}).
		Where("id IN ?", ids).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *productRepo) Update(dbc dbctx.Context, product *types.Product) error {
	if product == nil || product.ID == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":      product.Name,
			"price":     product.Price,
			"featured":  product.Featured,
			"image_url": product.ImageURL,
		}).Error
}

// SetCategories replaces the product's category assignments.
func (r *productRepo) SetCategories(dbc dbctx.Context, productID uint, categoryIDs []uint) error {
	if productID == 0 {
		return nil
	}
	t := dbc.DB(r.db)
	if err := t.Where("product_id = ?", productID).Delete(&types.ProductCategory{}).Error; err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	seen := map[uint]struct{}{}
	rows := make([]types.ProductCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, types.ProductCategory{ProductID: productID, CategoryID: id})
	}
	return t.Omit("Product", "Category").Create(&rows).Error
}

func (r *productRepo) Delete(dbc dbctx.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	t := dbc.DB(r.db)
	if err := t.Where("product_id = ?", id).Delete(&types.ProductCategory{}).Error; err != nil {
		return false, err
	}
	res := t.Where("id = ?", id).Delete(&types.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
