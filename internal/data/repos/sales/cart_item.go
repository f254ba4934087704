package sales

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type CartItemRepo interface {
	Create(dbc dbctx.Context, items []*types.CartItem) ([]*types.CartItem, error)
	GetByID(dbc dbctx.Context, id uint) (*types.CartItem, error)
	List(dbc dbctx.Context) ([]*types.CartItem, error)
	ListByCartID(dbc dbctx.Context, cartID uint) ([]*types.CartItem, error)
	UpdateQuantity(dbc dbctx.Context, id uint, quantity int) (bool, error)
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type cartItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartItemRepo(db *gorm.DB, baseLog *logger.Logger) CartItemRepo {
	return &cartItemRepo{db: db, log: baseLog.With("repo", "CartItemRepo")}
}

func (r *cartItemRepo) Create(dbc dbctx.Context, items []*types.CartItem) ([]*types.CartItem, error) {
	if len(items) == 0 {
		return []*types.CartItem{}, nil
	}
	if err := dbc.DB(r.db).Omit("Product").Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartItemRepo) GetByID(dbc dbctx.Context, id uint) (*types.CartItem, error) {
	if id == 0 {
		return nil, nil
	}
	var it types.CartItem
	err := dbc.DB(r.db).Preload("Product").Where("id = ?", id).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *cartItemRepo) List(dbc dbctx.Context) ([]*types.CartItem, error) {
	var results []*types.CartItem
	if err := dbc.DB(r.db).Preload("Product").Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByCartID returns lines in stored (id) order.
func (r *cartItemRepo) ListByCartID(dbc dbctx.Context, cartID uint) ([]*types.CartItem, error) {
	var results []*types.CartItem
	if cartID == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("cart_id = ?", cartID).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *cartItemRepo) UpdateQuantity(dbc dbctx.Context, id uint, quantity int) (bool, error) {
	res := dbc.DB(r.db).Model(&types.CartItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *cartItemRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.CartItem{})
	return res.RowsAffected, res.Error
}
