package services

import (
	"context"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type ProductCategoryService interface {
	List(ctx context.Context) ([]*types.ProductCategory, error)
	Add(ctx context.Context, productID, categoryID uint) (*types.ProductCategory, error)
	Remove(ctx context.Context, productID, categoryID uint) error
}

type productCategoryService struct {
	log         *logger.Logger
	links       repos.ProductCategoryRepo
	products    repos.ProductRepo
	categories  repos.CategoryRepo
	invalidator AnalyticsInvalidator
}

func NewProductCategoryService(log *logger.Logger, links repos.ProductCategoryRepo, products repos.ProductRepo, categories repos.CategoryRepo, inv AnalyticsInvalidator) ProductCategoryService {
	return &productCategoryService{
		log:         log.With("service", "ProductCategoryService"),
		links:       links,
		products:    products,
		categories:  categories,
		invalidator: orNop(inv),
	}
}

func (s *productCategoryService) List(ctx context.Context) ([]*types.ProductCategory, error) {
	out, err := s.links.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, storeErr("ProductCategory.List", err)
	}
	return out, nil
}

// Add assigns a product to a category. Assigning twice is not an error.
func (s *productCategoryService) Add(ctx context.Context, productID, categoryID uint) (*types.ProductCategory, error) {
	const op = "ProductCategory.Add"
	dbc := dbctx.Context{Ctx: ctx}
	product, err := s.products.GetByID(dbc, productID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if product == nil {
		return nil, notFoundErr(op, "product not found: %d", productID)
	}
	category, err := s.categories.GetByID(dbc, categoryID)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if category == nil {
		return nil, notFoundErr(op, "category not found: %d", categoryID)
	}
	if err := s.links.Add(dbc, productID, categoryID); err != nil {
		return nil, storeErr(op, err)
	}
	s.invalidate(ctx)
	return &types.ProductCategory{ProductID: productID, CategoryID: categoryID, Category: category}, nil
}

func (s *productCategoryService) Remove(ctx context.Context, productID, categoryID uint) error {
	const op = "ProductCategory.Remove"
	ok, err := s.links.Delete(dbctx.Context{Ctx: ctx}, productID, categoryID)
	if err != nil {
		return storeErr(op, err)
	}
	if !ok {
		return notFoundErr(op, "product %d is not in category %d", productID, categoryID)
	}
	s.invalidate(ctx)
	return nil
}

func (s *productCategoryService) invalidate(ctx context.Context) {
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.log.Warn("analytics cache invalidation failed", "error", err)
	}
}
