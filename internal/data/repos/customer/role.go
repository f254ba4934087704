package customer

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type RoleRepo interface {
	Create(dbc dbctx.Context, name string) (*types.Role, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Role, error)
	GetByName(dbc dbctx.Context, name string) (*types.Role, error)
	List(dbc dbctx.Context) ([]*types.Role, error)
	Rename(dbc dbctx.Context, id uint, name string) (bool, error)
	Delete(dbc dbctx.Context, id uint) (bool, error)
	Assign(dbc dbctx.Context, customerID uuid.UUID, roleID uint) error
	NamesForCustomer(dbc dbctx.Context, customerID uuid.UUID) ([]string, error)
}

type roleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleRepo(db *gorm.DB, baseLog *logger.Logger) RoleRepo {
	return &roleRepo{db: db, log: baseLog.With("repo", "RoleRepo")}
}

func (r *roleRepo) Create(dbc dbctx.Context, name string) (*types.Role, error) {
	role := &types.Role{Name: strings.ToLower(strings.TrimSpace(name))}
	if err := dbc.DB(r.db).Create(role).Error; err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleRepo) GetByID(dbc dbctx.Context, id uint) (*types.Role, error) {
	if id == 0 {
		return nil, nil
	}
	var role types.Role
	err := dbc.DB(r.db).Where("id = ?", id).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) GetByName(dbc dbctx.Context, name string) (*types.Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, nil
	}
	var role types.Role
	err := dbc.DB(r.db).Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) List(dbc dbctx.Context) ([]*types.Role, error) {
	var results []*types.Role
	if err := dbc.DB(r.db).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *roleRepo) Rename(dbc dbctx.Context, id uint, name string) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.Role{}).
		Where("id = ?", id).
		Update("name", strings.ToLower(strings.TrimSpace(name)))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *roleRepo) Delete(dbc dbctx.Context, id uint) (bool, error) {
	t := dbc.DB(r.db)
	if err := t.Where("role_id = ?", id).Delete(&types.CustomerRole{}).Error; err != nil {
		return false, err
	}
	res := t.Where("id = ?", id).Delete(&types.Role{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Assign is idempotent.
func (r *roleRepo) Assign(dbc dbctx.Context, customerID uuid.UUID, roleID uint) error {
	if customerID == uuid.Nil || roleID == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.CustomerRole{CustomerID: customerID, RoleID: roleID}).Error
}

func (r *roleRepo) NamesForCustomer(dbc dbctx.Context, customerID uuid.UUID) ([]string, error) {
	var names []string
	if customerID == uuid.Nil {
		return names, nil
	}
	if err := dbc.DB(r.db).
		Table("role").
		Joins("JOIN customer_role ON customer_role.role_id = role.id").
		Where("customer_role.customer_id = ?", customerID).
		Order("role.name ASC").
		Pluck("role.name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}
