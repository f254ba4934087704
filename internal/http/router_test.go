package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/storefront-backend/internal/app"
	repotest "github.com/yungbote/storefront-backend/internal/data/repos/testutil"
	types "github.com/yungbote/storefront-backend/internal/domain"
	apphttp "github.com/yungbote/storefront-backend/internal/http"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
)

type apiFixture struct {
	t      *testing.T
	router *gin.Engine
	graph  app.Graph
	dbc    dbctx.Context
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tx := repotest.Tx(t, repotest.DB(t))
	graph := app.Wire(app.DefaultConfig(), app.Deps{Log: repotest.Logger(t), DB: tx})
	graph.Router.HealthHandler = nil
	return &apiFixture{
		t:      t,
		router: apphttp.NewRouter(graph.Router),
		graph:  graph,
		dbc:    dbctx.Context{Ctx: context.Background(), Tx: tx},
	}
}

func (f *apiFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type registered struct {
	Customer struct {
		ID uuid.UUID `json:"id"`
	} `json:"customer"`
	Tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"tokens"`
}

const password = "correct-horse"

func (f *apiFixture) register(prefix string) registered {
	f.t.Helper()
	rec := f.do(http.MethodPost, "/api/register", "", map[string]string{
		"email":     repotest.UniqueEmail(prefix),
		"password":  password,
		"full_name": "Test " + prefix,
	})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[registered](f.t, rec)
}

// adminToken registers a customer, grants the admin role and logs in again so
// the new role is in the token claims.
func (f *apiFixture) adminToken() string {
	f.t.Helper()
	email := repotest.UniqueEmail("admin")
	rec := f.do(http.MethodPost, "/api/register", "", map[string]string{
		"email": email, "password": password, "full_name": "Admin",
	})
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decode[registered](f.t, rec)

	role, err := f.graph.Repos.Role.GetByName(f.dbc, types.RoleAdmin)
	require.NoError(f.t, err)
	require.NotNil(f.t, role)
	require.NoError(f.t, f.graph.Repos.Role.Assign(f.dbc, reg.Customer.ID, role.ID))

	rec = f.do(http.MethodPost, "/api/login", "", map[string]string{"email": email, "password": password})
	require.Equal(f.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[struct {
		AccessToken string `json:"access_token"`
	}](f.t, rec).AccessToken
}

func TestRouterAccessControl(t *testing.T) {
	f := newAPIFixture(t)
	shopper := f.register("shopper").Tokens.AccessToken
	admin := f.adminToken()

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{name: "public products", method: http.MethodGet, path: "/api/products", want: http.StatusOK},
		{name: "public categories", method: http.MethodGet, path: "/api/categories", want: http.StatusOK},
		{name: "me requires auth", method: http.MethodGet, path: "/api/me", want: http.StatusUnauthorized},
		{name: "me", method: http.MethodGet, path: "/api/me", token: shopper, want: http.StatusOK},
		{name: "carts require auth", method: http.MethodGet, path: "/api/carts", want: http.StatusUnauthorized},
		{name: "own carts", method: http.MethodGet, path: "/api/carts", token: shopper, want: http.StatusOK},
		{name: "garbage token", method: http.MethodGet, path: "/api/orders", token: "not-a-jwt", want: http.StatusUnauthorized},
		{name: "analytics forbidden for shoppers", method: http.MethodGet, path: "/api/admin/analytics/top-products", token: shopper, want: http.StatusForbidden},
		{name: "roles forbidden for shoppers", method: http.MethodGet, path: "/api/admin/roles", token: shopper, want: http.StatusForbidden},
		{name: "analytics for admins", method: http.MethodGet, path: "/api/admin/analytics/top-products", token: admin, want: http.StatusOK},
		{name: "roles for admins", method: http.MethodGet, path: "/api/admin/roles", token: admin, want: http.StatusOK},
		{name: "bad limit", method: http.MethodGet, path: "/api/admin/analytics/top-products?limit=0", token: admin, want: http.StatusBadRequest},
		{name: "end before start", method: http.MethodGet, path: "/api/admin/analytics/orders-over-time?start_date=2024-02-01&end_date=2024-01-01", token: admin, want: http.StatusBadRequest},
		{name: "unknown product", method: http.MethodGet, path: "/api/products/999999", want: http.StatusNotFound},
		{name: "bad product id", method: http.MethodGet, path: "/api/products/abc", want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(tc.method, tc.path, tc.token, nil)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouterOrderToAnalyticsFlow(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.adminToken()
	shopper := f.register("buyer").Tokens.AccessToken

	rec := f.do(http.MethodPost, "/api/categories", admin, map[string]string{"name": "Gadgets"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[struct {
		ID uint `json:"id"`
	}](t, rec)

	rec = f.do(http.MethodPost, "/api/products", admin, map[string]any{
		"name":         "Widget",
		"price":        "2.50",
		"category_ids": []uint{category.ID},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[struct {
		ID         uint     `json:"id"`
		Categories []string `json:"categories"`
	}](t, rec)
	assert.Equal(t, []string{"Gadgets"}, product.Categories)

	rec = f.do(http.MethodGet, "/api/products/by-category?category_name=gadgets", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = f.do(http.MethodPost, "/api/orders", shopper, map[string]any{
		"order_date": "2024-03-05",
		"items":      []map[string]any{{"product_id": product.ID, "quantity": 4}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[struct {
		ID    uint            `json:"id"`
		Price decimal.Decimal `json:"price"`
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
	}](t, rec)
	assert.True(t, decimal.RequireFromString("10").Equal(order.Price), order.Price.String())
	require.Len(t, order.Items, 1)

	rec = f.do(http.MethodGet, "/api/admin/analytics/top-products?start_date=2024-03-01&end_date=2024-03-31", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	top := decode[[]struct {
		ProductID         uint            `json:"product_id"`
		TotalQuantitySold int             `json:"total_quantity_sold"`
		TotalRevenue      decimal.Decimal `json:"total_revenue"`
	}](t, rec)
	require.Len(t, top, 1)
	assert.Equal(t, product.ID, top[0].ProductID)
	assert.Equal(t, 4, top[0].TotalQuantitySold)
	assert.True(t, decimal.RequireFromString("10").Equal(top[0].TotalRevenue))

	rec = f.do(http.MethodGet, "/api/admin/analytics/orders-by-category", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	byCategory := decode[[]struct {
		CategoryName      string `json:"category_name"`
		TotalQuantitySold int    `json:"total_quantity_sold"`
	}](t, rec)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Gadgets", byCategory[0].CategoryName)
	assert.Equal(t, 4, byCategory[0].TotalQuantitySold)

	// outside the window nothing sells
	rec = f.do(http.MethodGet, "/api/admin/analytics/top-products?start_date=2025-01-01", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestRouterRefreshAndLogout(t *testing.T) {
	f := newAPIFixture(t)
	reg := f.register("session")

	rec := f.do(http.MethodPost, "/api/refresh", "", map[string]string{"refresh_token": reg.Tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pair := decode[struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}](t, rec)
	assert.NotEqual(t, reg.Tokens.RefreshToken, pair.RefreshToken)

	// the rotated-out refresh token and its access token are gone
	rec = f.do(http.MethodPost, "/api/refresh", "", map[string]string{"refresh_token": reg.Tokens.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/me", reg.Tokens.AccessToken, nil).Code)

	require.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/logout", pair.AccessToken, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/me", pair.AccessToken, nil).Code)
}

func TestRouterUnmatchedRoute(t *testing.T) {
	f := newAPIFixture(t)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/nope", "", nil).Code)
}

func TestRouterCartPutWithoutItemsKeepsLines(t *testing.T) {
	f := newAPIFixture(t)
	admin := f.adminToken()
	shopper := f.register("cart-put").Tokens.AccessToken

	rec := f.do(http.MethodPost, "/api/products", admin, map[string]any{"name": "Candle", "price": "3.00"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[struct {
		ID uint `json:"id"`
	}](t, rec)

	type cartBody struct {
		ID    uint            `json:"id"`
		Price decimal.Decimal `json:"price"`
		Items []struct {
			ProductID uint `json:"product_id"`
			Quantity  int  `json:"quantity"`
		} `json:"items"`
	}
	rec = f.do(http.MethodPost, "/api/carts", shopper, map[string]any{
		"items": []map[string]any{{"product_id": product.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cart := decode[cartBody](t, rec)
	path := "/api/carts/" + strconv.FormatUint(uint64(cart.ID), 10)

	rec = f.do(http.MethodPut, path, shopper, map[string]any{"price": "5.00"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[cartBody](t, rec)
	assert.True(t, decimal.RequireFromString("5").Equal(updated.Price), updated.Price.String())
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 2, updated.Items[0].Quantity)

	rec = f.do(http.MethodPut, path, shopper, map[string]any{"items": []any{}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, decode[cartBody](t, rec).Items)
}
