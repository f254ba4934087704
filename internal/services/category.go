package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type CategoryService interface {
	List(ctx context.Context) ([]*types.Category, error)
	Get(ctx context.Context, id uint) (*types.Category, error)
	Create(ctx context.Context, name string) (*types.Category, error)
	Rename(ctx context.Context, id uint, name string) (*types.Category, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	db          *gorm.DB
	log         *logger.Logger
	categories  repos.CategoryRepo
	invalidator AnalyticsInvalidator
}

func NewCategoryService(db *gorm.DB, log *logger.Logger, categories repos.CategoryRepo, inv AnalyticsInvalidator) CategoryService {
	return &categoryService{
		db:          db,
		log:         log.With("service", "CategoryService"),
		categories:  categories,
		invalidator: orNop(inv),
	}
}

func categoryName(op, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", validationErr(op, "name is required")
	}
	if len(name) > 100 {
		return "", validationErr(op, "name must be at most 100 characters")
	}
	return name, nil
}

func (s *categoryService) List(ctx context.Context) ([]*types.Category, error) {
	out, err := s.categories.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, storeErr("Category.List", err)
	}
	return out, nil
}

func (s *categoryService) Get(ctx context.Context, id uint) (*types.Category, error) {
	const op = "Category.Get"
	c, err := s.categories.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if c == nil {
		return nil, notFoundErr(op, "category not found: %d", id)
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, name string) (*types.Category, error) {
	const op = "Category.Create"
	name, err := categoryName(op, name)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.categories.GetByName(dbc, name)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if existing != nil {
		return nil, conflictErr(op, "category already exists: "+name)
	}
	created, err := s.categories.Create(dbc, []*types.Category{{Name: name}})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return created[0], nil
}

func (s *categoryService) Rename(ctx context.Context, id uint, name string) (*types.Category, error) {
	const op = "Category.Rename"
	name, err := categoryName(op, name)
	if err != nil {
		return nil, err
	}
	ok, err := s.categories.Rename(dbctx.Context{Ctx: ctx}, id, name)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if !ok {
		return nil, notFoundErr(op, "category not found: %d", id)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	const op = "Category.Delete"
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = s.categories.Delete(dbctx.Context{Ctx: ctx, Tx: tx}, id)
		return err
	})
	if err != nil {
		return storeErr(op, err)
	}
	if !deleted {
		return notFoundErr(op, "category not found: %d", id)
	}
	s.invalidate(ctx)
	return nil
}

func (s *categoryService) invalidate(ctx context.Context) {
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.log.Warn("analytics cache invalidation failed", "error", err)
	}
}
