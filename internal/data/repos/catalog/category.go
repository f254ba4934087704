package catalog

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type CategoryRepo interface {
	Create(dbc dbctx.Context, categories []*types.Category) ([]*types.Category, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Category, error)
	GetByName(dbc dbctx.Context, name string) (*types.Category, error)
	ExistingIDs(dbc dbctx.Context, ids []uint) ([]uint, error)
	List(dbc dbctx.Context) ([]*types.Category, error)
	Rename(dbc dbctx.Context, id uint, name string) (bool, error)
	Delete(dbc dbctx.Context, id uint) (bool, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) Create(dbc dbctx.Context, categories []*types.Category) ([]*types.Category, error) {
	if len(categories) == 0 {
		return []*types.Category{}, nil
	}
	if err := dbc.DB(r.db).Omit("ProductCategories").Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) GetByID(dbc dbctx.Context, id uint) (*types.Category, error) {
	if id == 0 {
		return nil, nil
	}
	var c types.Category
	err := dbc.DB(r.db).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) GetByName(dbc dbctx.Context, name string) (*types.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var c types.Category
	err := dbc.DB(r.db).Where("LOWER(name) = LOWER(?)", name).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) ExistingIDs(dbc dbctx.Context, ids []uint) ([]uint, error) {
	var out []uint
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Category{}).
		Where("id IN ?", ids).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) List(dbc dbctx.Context) ([]*types.Category, error) {
	var results []*types.Category
	if err := dbc.DB(r.db).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *categoryRepo) Rename(dbc dbctx.Context, id uint, name string) (bool, error) {
	if id == 0 {
		return false, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Category{}).
		Where("id = ?", id).
		Update("name", strings.TrimSpace(name))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *categoryRepo) Delete(dbc dbctx.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	t := dbc.DB(r.db)
	if err := t.Where("category_id = ?", id).Delete(&types.ProductCategory{}).Error; err != nil {
		return false, err
	}
	res := t.Where("id = ?", id).Delete(&types.Category{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
