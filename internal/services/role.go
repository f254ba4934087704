package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type RoleService interface {
	List(ctx context.Context) ([]*types.Role, error)
	Get(ctx context.Context, id uint) (*types.Role, error)
	Create(ctx context.Context, name string) (*types.Role, error)
	Rename(ctx context.Context, id uint, name string) (*types.Role, error)
	Delete(ctx context.Context, id uint) error
	Assign(ctx context.Context, customerID uuid.UUID, roleName string) error
}

type roleService struct {
	db        *gorm.DB
	log       *logger.Logger
	roles     repos.RoleRepo
	customers repos.CustomerRepo
}

func NewRoleService(db *gorm.DB, log *logger.Logger, roles repos.RoleRepo, customers repos.CustomerRepo) RoleService {
	return &roleService{
		db:        db,
		log:       log.With("service", "RoleService"),
		roles:     roles,
		customers: customers,
	}
}

func roleName(op, name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", validationErr(op, "role name is required")
	}
	if len(name) > 64 {
		return "", validationErr(op, "role name must be at most 64 characters")
	}
	return name, nil
}

func (s *roleService) List(ctx context.Context) ([]*types.Role, error) {
	out, err := s.roles.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, storeErr("Role.List", err)
	}
	return out, nil
}

func (s *roleService) Get(ctx context.Context, id uint) (*types.Role, error) {
	const op = "Role.Get"
	role, err := s.roles.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if role == nil {
		return nil, notFoundErr(op, "role not found: %d", id)
	}
	return role, nil
}

func (s *roleService) Create(ctx context.Context, name string) (*types.Role, error) {
	const op = "Role.Create"
	name, err := roleName(op, name)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.roles.GetByName(dbc, name)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if existing != nil {
		return nil, conflictErr(op, "role already exists: "+name)
	}
	role, err := s.roles.Create(dbc, name)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return role, nil
}

func (s *roleService) Rename(ctx context.Context, id uint, name string) (*types.Role, error) {
	const op = "Role.Rename"
	name, err := roleName(op, name)
	if err != nil {
		return nil, err
	}
	ok, err := s.roles.Rename(dbctx.Context{Ctx: ctx}, id, name)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if !ok {
		return nil, notFoundErr(op, "role not found: %d", id)
	}
	return s.Get(ctx, id)
}

func (s *roleService) Delete(ctx context.Context, id uint) error {
	const op = "Role.Delete"
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = s.roles.Delete(dbctx.Context{Ctx: ctx, Tx: tx}, id)
		return err
	})
	if err != nil {
		return storeErr(op, err)
	}
	if !deleted {
		return notFoundErr(op, "role not found: %d", id)
	}
	return nil
}

// Assign links an existing role to an existing customer. Repeated calls are no-ops.
func (s *roleService) Assign(ctx context.Context, customerID uuid.UUID, name string) error {
	const op = "Role.Assign"
	name, err := roleName(op, name)
	if err != nil {
		return err
	}
	dbc := dbctx.Context{Ctx: ctx}
	customer, err := s.customers.GetByID(dbc, customerID)
	if err != nil {
		return storeErr(op, err)
	}
	if customer == nil {
		return notFoundErr(op, "customer not found: %s", customerID)
	}
	role, err := s.roles.GetByName(dbc, name)
	if err != nil {
		return storeErr(op, err)
	}
	if role == nil {
		return notFoundErr(op, "role not found: %s", name)
	}
	if err := s.roles.Assign(dbc, customerID, role.ID); err != nil {
		return storeErr(op, err)
	}
	s.log.Info("role assigned", "customer_id", customerID, "role", name)
	return nil
}
