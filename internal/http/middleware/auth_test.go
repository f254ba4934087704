package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/storefront-backend/internal/domain"
	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	"github.com/yungbote/storefront-backend/internal/platform/ctxutil"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
	"github.com/yungbote/storefront-backend/internal/services"
)

// fakeAuth accepts the tokens in its table and nothing else.
type fakeAuth struct {
	services.AuthService
	tokens map[string]*ctxutil.RequestData
	seen   string
}

func (f *fakeAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	f.seen = token
	rd, ok := f.tokens[token]
	if !ok {
		return ctx, domainagg.NewError(domainagg.CodeUnauthorized, "Auth.Token", "invalid token", nil)
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (f *fakeAuth) GetAccessTTL() time.Duration { return time.Minute }

func newAuthRouter(auth *fakeAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	am := NewAuthMiddleware(logger.Nop(), auth)
	r := gin.New()
	api := r.Group("/api", am.RequireAuth())
	api.GET("/me", func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"customer_id": rd.CustomerID.String()})
	})
	api.GET("/admin", am.RequireRole(types.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequireAuth(t *testing.T) {
	shopper := &ctxutil.RequestData{CustomerID: uuid.New(), Roles: []string{types.RoleCustomer}}
	auth := &fakeAuth{tokens: map[string]*ctxutil.RequestData{"good": shopper}}
	r := newAuthRouter(auth)

	cases := []struct {
		name   string
		header string
		cookie string
		status int
		token  string
	}{
		{name: "bearer header", header: "Bearer good", status: http.StatusOK, token: "good"},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusOK, token: "good"},
		{name: "cookie", cookie: "good", status: http.StatusOK, token: "good"},
		{name: "header wins over cookie", header: "Bearer good", cookie: "stale", status: http.StatusOK, token: "good"},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "rejected", header: "Bearer bad", status: http.StatusUnauthorized, token: "bad"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth.seen = ""
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tc.cookie})
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.token, auth.seen)
			if tc.status == http.StatusUnauthorized {
				var body struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, "unauthorized", body.Error.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	auth := &fakeAuth{tokens: map[string]*ctxutil.RequestData{
		"shopper": {CustomerID: uuid.New(), Roles: []string{types.RoleCustomer}},
		"admin":   {CustomerID: uuid.New(), Roles: []string{"Admin"}},
	}}
	r := newAuthRouter(auth)

	for token, want := range map[string]int{"shopper": http.StatusForbidden, "admin": http.StatusNoContent} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, token)
	}
}
