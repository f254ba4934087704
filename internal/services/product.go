package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

var minUnitPrice = decimal.RequireFromString("0.01")

type ProductService interface {
	List(ctx context.Context) ([]*types.Product, error)
	Get(ctx context.Context, id uint) (*types.Product, error)
	ListByCategoryName(ctx context.Context, name string) ([]*types.Product, error)
	Create(ctx context.Context, in ProductInput) (*types.Product, error)
	Update(ctx context.Context, id uint, in ProductInput) (*types.Product, error)
	Delete(ctx context.Context, id uint) error
}

type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Featured    bool
	ImageURL    string
	CategoryIDs []uint
}

type productService struct {
	db          *gorm.DB
	log         *logger.Logger
	products    repos.ProductRepo
	categories  repos.CategoryRepo
	invalidator AnalyticsInvalidator
}

func NewProductService(db *gorm.DB, log *logger.Logger, products repos.ProductRepo, categories repos.CategoryRepo, inv AnalyticsInvalidator) ProductService {
	return &productService{
		db:          db,
		log:         log.With("service", "ProductService"),
		products:    products,
		categories:  categories,
		invalidator: orNop(inv),
	}
}

func (s *productService) List(ctx context.Context) ([]*types.Product, error) {
	out, err := s.products.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, storeErr("Product.List", err)
	}
	return out, nil
}

func (s *productService) Get(ctx context.Context, id uint) (*types.Product, error) {
	const op = "Product.Get"
	p, err := s.products.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if p == nil {
		return nil, notFoundErr(op, "product not found: %d", id)
	}
	return p, nil
}

func (s *productService) ListByCategoryName(ctx context.Context, name string) ([]*types.Product, error) {
	const op = "Product.ListByCategoryName"
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr(op, "category_name is required")
	}
	out, err := s.products.ListByCategoryName(dbctx.Context{Ctx: ctx}, name)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func validateProductInput(op string, in *ProductInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if in.Name == "" {
		return validationErr(op, "name is required")
	}
	if len(in.Name) > 100 {
		return validationErr(op, "name must be at most 100 characters")
	}
	if in.Price.LessThan(minUnitPrice) {
		return validationErr(op, "price must be at least %s", minUnitPrice.StringFixed(2))
	}
	in.Price = in.Price.Round(2)
	return nil
}

// requireCategories fails with a validation error naming every unknown id.
func (s *productService) requireCategories(dbc dbctx.Context, op string, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.categories.ExistingIDs(dbc, ids)
	if err != nil {
		return err
	}
	have := make(map[uint]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []string
	seen := map[uint]struct{}{}
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, id := range sorted {
		if _, ok := have[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, fmt.Sprint(id))
	}
	if len(missing) > 0 {
		return validationErr(op, "categories not found: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*types.Product, error) {
	const op = "Product.Create"
	if err := validateProductInput(op, &in); err != nil {
		return nil, err
	}
	var id uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.requireCategories(dbc, op, in.CategoryIDs); err != nil {
			return err
		}
		created, err := s.products.Create(dbc, []*types.Product{{
			Name:     in.Name,
			Price:    in.Price,
			Featured: in.Featured,
			ImageURL: in.ImageURL,
		}})
		if err != nil {
			return err
		}
		id = created[0].ID
		return s.products.SetCategories(dbc, id, in.CategoryIDs)
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Update replaces every field, including the category set.
func (s *productService) Update(ctx context.Context, id uint, in ProductInput) (*types.Product, error) {
	const op = "Product.Update"
	if err := validateProductInput(op, &in); err != nil {
		return nil, err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := s.products.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return notFoundErr(op, "product not found: %d", id)
		}
		if err := s.requireCategories(dbc, op, in.CategoryIDs); err != nil {
			return err
		}
		if err := s.products.Update(dbc, &types.Product{
			ID:       id,
			Name:     in.Name,
			Price:    in.Price,
			Featured: in.Featured,
			ImageURL: in.ImageURL,
		}); err != nil {
			return err
		}
		return s.products.SetCategories(dbc, id, in.CategoryIDs)
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	s.invalidate(ctx)
	return s.Get(ctx, id)
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	const op = "Product.Delete"
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = s.products.Delete(dbctx.Context{Ctx: ctx, Tx: tx}, id)
		return err
	})
	if err != nil {
		return storeErr(op, err)
	}
	if !deleted {
		return notFoundErr(op, "product not found: %d", id)
	}
	s.invalidate(ctx)
	return nil
}

// invalidate drops cached reports. Revenue depends on current prices and
// category membership, so catalog writes count.
func (s *productService) invalidate(ctx context.Context) {
	if err := s.invalidator.Invalidate(ctx); err != nil {
		s.log.Warn("analytics cache invalidation failed", "error", err)
	}
}
