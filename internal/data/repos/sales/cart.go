package sales

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

const preloadItemCategories = "Items.Product.ProductCategories.Category"

type CartRepo interface {
	Create(dbc dbctx.Context, cart *types.Cart) (*types.Cart, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Cart, error)
	List(dbc dbctx.Context) ([]*types.Cart, error)
	ListByCustomerID(dbc dbctx.Context, customerID uuid.UUID) ([]*types.Cart, error)
	LockByID(dbc dbctx.Context, id uint) (*types.Cart, error)
	UpdateHeader(dbc dbctx.Context, id uint, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uint) (bool, error)
}

type cartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo {
	return &cartRepo{db: db, log: baseLog.With("repo", "CartRepo")}
}

// Create inserts the header only; lines go through CartItemRepo.
func (r *cartRepo) Create(dbc dbctx.Context, cart *types.Cart) (*types.Cart, error) {
	if cart == nil {
		return nil, nil
	}
	if err := dbc.DB(r.db).Omit("Items", "Customer").Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *cartRepo) GetByID(dbc dbctx.Context, id uint) (*types.Cart, error) {
	if id == 0 {
		return nil, nil
	}
	var c types.Cart
	err := dbc.DB(r.db).
		Preload("Items", itemsByID).
		Preload(preloadItemCategories).
		Where("id = ?", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) List(dbc dbctx.Context) ([]*types.Cart, error) {
	var results []*types.Cart
	if err := dbc.DB(r.db).
		Preload("Items", itemsByID).
		Preload(preloadItemCategories).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *cartRepo) ListByCustomerID(dbc dbctx.Context, customerID uuid.UUID) ([]*types.Cart, error) {
	var results []*types.Cart
	if customerID == uuid.Nil {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Preload("Items", itemsByID).
		Preload(preloadItemCategories).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// LockByID loads the header FOR UPDATE. Dialects without row locks ignore the clause.
func (r *cartRepo) LockByID(dbc dbctx.Context, id uint) (*types.Cart, error) {
	var c types.Cart
	err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) UpdateHeader(dbc dbctx.Context, id uint, updates map[string]interface{}) error {
	if id == 0 || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Cart{}).Where("id = ?", id).Updates(updates).Error
}

// Delete removes the lines before the header.
func (r *cartRepo) Delete(dbc dbctx.Context, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	t := dbc.DB(r.db)
	if err := t.Where("cart_id = ?", id).Delete(&types.CartItem{}).Error; err != nil {
		return false, err
	}
	res := t.Where("id = ?", id).Delete(&types.Cart{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
