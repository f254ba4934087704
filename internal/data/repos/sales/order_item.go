package sales

import (
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type OrderItemRepo interface {
	Create(dbc dbctx.Context, items []*types.OrderItem) ([]*types.OrderItem, error)
	GetByID(dbc dbctx.Context, id uint) (*types.OrderItem, error)
	List(dbc dbctx.Context) ([]*types.OrderItem, error)
	ListByOrderID(dbc dbctx.Context, orderID uint) ([]*types.OrderItem, error)
	UpdateQuantity(dbc dbctx.Context, id uint, quantity int) (bool, error)
	DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error)
}

type orderItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderItemRepo(db *gorm.DB, baseLog *logger.Logger) OrderItemRepo {
	return &orderItemRepo{db: db, log: baseLog.With("repo", "OrderItemRepo")}
}

func (r *orderItemRepo) Create(dbc dbctx.Context, items []*types.OrderItem) ([]*types.OrderItem, error) {
	if len(items) == 0 {
		return []*types.OrderItem{}, nil
	}
	if err := dbc.DB(r.db).Omit("Product").Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderItemRepo) GetByID(dbc dbctx.Context, id uint) (*types.OrderItem, error) {
	if id == 0 {
		return nil, nil
	}
	var it types.OrderItem
	err := dbc.DB(r.db).Preload("Product").Where("id = ?", id).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *orderItemRepo) List(dbc dbctx.Context) ([]*types.OrderItem, error) {
	var results []*types.OrderItem
	if err := dbc.DB(r.db).Preload("Product").Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByOrderID returns lines in stored (id) order.
func (r *orderItemRepo) ListByOrderID(dbc dbctx.Context, orderID uint) ([]*types.OrderItem, error) {
	var results []*types.OrderItem
	if orderID == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *orderItemRepo) UpdateQuantity(dbc dbctx.Context, id uint, quantity int) (bool, error) {
	res := dbc.DB(r.db).Model(&types.OrderItem{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderItemRepo) DeleteByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.OrderItem{})
	return res.RowsAffected, res.Error
}
