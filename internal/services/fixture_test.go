package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dataagg "github.com/yungbote/storefront-backend/internal/data/aggregates"
	"github.com/yungbote/storefront-backend/internal/data/repos"
	repotest "github.com/yungbote/storefront-backend/internal/data/repos/testutil"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/ctxutil"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

type serviceFixture struct {
	ctx        context.Context
	tx         *gorm.DB
	inv        *countingInvalidator
	customers  repos.CustomerRepo
	roles      repos.RoleRepo
	tokens     repos.CustomerTokenRepo
	products   repos.ProductRepo
	categories repos.CategoryRepo
	links      repos.ProductCategoryRepo
	carts      repos.CartRepo
	cartItems  repos.CartItemRepo
	orders     repos.OrderRepo
	orderItems repos.OrderItemRepo
	outbox     repos.OutboxEventRepo

	auth      *authService
	customer  CustomerService
	role      RoleService
	product   ProductService
	category  CategoryService
	prodCat   ProductCategoryService
	cart      CartService
	cartItem  CartItemService
	order     OrderService
	orderItem OrderItemService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := repotest.DB(t)
	tx := repotest.Tx(t, db)
	log := repotest.Logger(t)

	f := &serviceFixture{
		ctx:        context.Background(),
		tx:         tx,
		inv:        &countingInvalidator{},
		customers:  repos.NewCustomerRepo(tx, log),
		roles:      repos.NewRoleRepo(tx, log),
		tokens:     repos.NewCustomerTokenRepo(tx, log),
		products:   repos.NewProductRepo(tx, log),
		categories: repos.NewCategoryRepo(tx, log),
		links:      repos.NewProductCategoryRepo(tx, log),
		carts:      repos.NewCartRepo(tx, log),
		cartItems:  repos.NewCartItemRepo(tx, log),
		orders:     repos.NewOrderRepo(tx, log),
		orderItems: repos.NewOrderItemRepo(tx, log),
		outbox:     repos.NewOutboxEventRepo(tx, log),
	}
	base := dataagg.BaseDeps{DB: tx, Log: log, Runner: dataagg.NewGormTxRunner(tx)}
	cartAgg := dataagg.NewCartAggregate(dataagg.CartAggregateDeps{
		Base:      base,
		Carts:     f.carts,
		Items:     f.cartItems,
		Products:  f.products,
		Customers: f.customers,
	})
	orderAgg := dataagg.NewOrderAggregate(dataagg.OrderAggregateDeps{
		Base:      base,
		Orders:    f.orders,
		Items:     f.orderItems,
		Products:  f.products,
		Customers: f.customers,
		Outbox:    f.outbox,
	})

	f.auth = NewAuthService(tx, log, f.customers, f.roles, f.tokens, AuthConfig{
		SecretKey: "test-secret",
		Issuer:    "storefront-test",
	}).(*authService)
	f.customer = NewCustomerService(tx, log, f.customers, f.tokens)
	f.role = NewRoleService(tx, log, f.roles, f.customers)
	f.product = NewProductService(tx, log, f.products, f.categories, f.inv)
	f.category = NewCategoryService(tx, log, f.categories, f.inv)
	f.prodCat = NewProductCategoryService(log, f.links, f.products, f.categories, f.inv)
	f.cart = NewCartService(log, f.carts, cartAgg)
	f.cartItem = NewCartItemService(tx, log, f.carts, f.cartItems, f.products)
	f.order = NewOrderService(log, f.orders, orderAgg, f.inv)
	f.orderItem = NewOrderItemService(tx, log, f.orders, f.orderItems, f.products, f.inv)
	return f
}

// as returns a context authenticated as the given customer.
func (f *serviceFixture) as(c *types.Customer, roles ...string) context.Context {
	return ctxutil.WithRequestData(f.ctx, &ctxutil.RequestData{
		CustomerID: c.ID,
		Email:      c.Email,
		Roles:      roles,
	})
}

func (f *serviceFixture) admin(t *testing.T) context.Context {
	t.Helper()
	return f.as(repotest.SeedCustomer(t, f.ctx, f.tx, repotest.UniqueEmail("admin")), types.RoleAdmin)
}

func (f *serviceFixture) shopper(t *testing.T) (*types.Customer, context.Context) {
	t.Helper()
	c := repotest.SeedCustomer(t, f.ctx, f.tx, repotest.UniqueEmail("shopper"))
	return c, f.as(c, types.RoleCustomer)
}

func anonymous() context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{CustomerID: uuid.Nil})
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func (f *serviceFixture) dbcNoTx() dbctx.Context { return dbctx.Context{Ctx: f.ctx} }
