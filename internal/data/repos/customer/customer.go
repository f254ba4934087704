package customer

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type CustomerRepo interface {
	Create(dbc dbctx.Context, customers []*types.Customer) ([]*types.Customer, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Customer, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.Customer, error)
	List(dbc dbctx.Context) ([]*types.Customer, error)
	ExistingIDs(dbc dbctx.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	UpdateProfile(dbc dbctx.Context, id uuid.UUID, email, fullName string) (bool, error)
	UpdatePassword(dbc dbctx.Context, id uuid.UUID, passwordHash string) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
}

type customerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCustomerRepo(db *gorm.DB, baseLog *logger.Logger) CustomerRepo {
	return &customerRepo{db: db, log: baseLog.With("repo", "CustomerRepo")}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *customerRepo) Create(dbc dbctx.Context, customers []*types.Customer) ([]*types.Customer, error) {
	if len(customers) == 0 {
		return []*types.Customer{}, nil
	}
	for _, c := range customers {
		c.Email = normalizeEmail(c.Email)
	}
	if err := dbc.DB(r.db).Omit("Roles").Create(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Customer, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var c types.Customer
	err := dbc.DB(r.db).Preload("Roles").Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) GetByEmail(dbc dbctx.Context, email string) (*types.Customer, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	var c types.Customer
	err := dbc.DB(r.db).Preload("Roles").Where("email = ?", email).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) List(dbc dbctx.Context) ([]*types.Customer, error) {
	var results []*types.Customer
	if err := dbc.DB(r.db).Preload("Roles").Order("created_at ASC, id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *customerRepo) ExistingIDs(dbc dbctx.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	var out []uuid.UUID
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Customer{}).
		Where("id IN ?", ids).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *customerRepo) UpdateProfile(dbc dbctx.Context, id uuid.UUID, email, fullName string) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email":     normalizeEmail(email),
			"full_name": strings.TrimSpace(fullName),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *customerRepo) UpdatePassword(dbc dbctx.Context, id uuid.UUID, passwordHash string) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Customer{}).
		Where("id = ?", id).
		Update("password", passwordHash).Error
}

// Delete soft deletes the customer and drops role links and tokens.
func (r *customerRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	t := dbc.DB(r.db)
	if err := t.Where("customer_id = ?", id).Delete(&types.CustomerRole{}).Error; err != nil {
		return false, err
	}
	if err := t.Where("customer_id = ?", id).Delete(&types.CustomerToken{}).Error; err != nil {
		return false, err
	}
	res := t.Where("id = ?", id).Delete(&types.Customer{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
