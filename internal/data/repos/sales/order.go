package sales

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type OrderRepo interface {
	Create(dbc dbctx.Context, order *types.Order) (*types.Order, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Order, error)
	List(dbc dbctx.Context) ([]*types.Order, error)
	ListByCustomerIDs(dbc dbctx.Context, customerIDs []uuid.UUID) ([]*types.Order, error)
	ListForAnalytics(dbc dbctx.Context, start, end *time.Time) ([]*types.Order, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Order, error)
	UpdateHeader(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uint) (bool, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func itemsByID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

func (r *orderRepo) Create(dbc dbctx.Context, order *types.Order) (*types.Order, error) {
	if order == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Omit("Items", "Customer").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) GetByID(dbc dbctx.Context, id uint) (*types.Order, error) {
	if id == 0 {
		return nil, nil
	}
	var o types.Order
	err := dbc.DB(r.db).
		Preload("Items", itemsByID).
		Preload(preloadItemCategories).
		Where("id = ?", id).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(dbc dbctx.Context) ([]*types.Order, error) {
	var results []*types.Order
	if err := dbc.DB(r.db).
		Preload("Items", itemsByID).
		Preload(preloadItemCategories).
		Order("order_date ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *orderRepo) ListByCustomerIDs(dbc dbctx.Context, customerIDs []uuid.UUID) ([]*types.Order, error) {
	var results []*types.Order
	if len(customerIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Preload("Items", itemsByID).
		Preload("Items.Product").
		Where("customer_id IN ?", customerIDs).
		Order("order_date ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListForAnalytics loads orders with lines, products and categories. Bounds are
// inclusive and nil bounds are open.
func (r *orderRepo) ListForAnalytics(dbc dbctx.Context, start, end *time.Time) ([]*types.Order, error) {
	q := dbc.DB(r.db).
		Preload("Items", itemsByID).
		Preload(preloadItemCategories)
	if start != nil {
		q = q.Where("order_date >= ?", *start)
	}
	if end != nil {
		q = q.Where("order_date <= ?", *end)
	}
	var results []*types.Order
	if err := q.Order("order_date ASC, id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *orderRepo) LockByID(dbc dbctx.Context, id uint) (*types.Order, error) {
	var o types.Order
	err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) UpdateHeader(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Order{}).Where("id = ?", id).Updates(updates).Error
}

func (r *orderRepo) Delete(dbc dbctx.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	t := dbc.DB(r.db)
	if err := t.Where("order_id = ?", id).Delete(&types.OrderItem{}).Error; err != nil {
		return false, err
	}
	res := t.Where("id = ?", id).Delete(&types.Order{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
