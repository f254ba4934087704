package services

import (
	"context"
		"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/ctxutil"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

const minPasswordLength = 8

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.Customer, TokenPair, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthConfig struct {
	SecretKey  string
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type JWTClaims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	customers repos.CustomerRepo
	roles     repos.RoleRepo
	tokens    repos.CustomerTokenRepo
	cfg       AuthConfig
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, log *logger.Logger, customers repos.CustomerRepo, roles repos.RoleRepo, tokens repos.CustomerTokenRepo, cfg AuthConfig) AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		customers: customers,
		roles:     roles,
		tokens:    tokens,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (as *authService) GetAccessTTL() time.Duration { return as.cfg.AccessTTL }

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.Customer, TokenPair, error) {
	const op = "Auth.Register"
	var pair TokenPair
	email := strings.ToLower(strings.TrimSpace(in.Email))
	fullName := strings.TrimSpace(in.FullName)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, pair, validationErr(op, "a valid email is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, pair, validationErr(op, "password must be at least %d characters", minPasswordLength)
	}
	if fullName == "" {
		return nil, pair, validationErr(op, "full_name is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, pair, fmt.Errorf("hash password: %w", err)
	}

	var customer *types.Customer
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := as.customers.GetByEmail(dbc, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return conflictErr(op, "email already registered")
		}
		created, err := as.customers.Create(dbc, []*types.Customer{{Email: email, Password: string(hash), FullName: fullName}})
		if err != nil {
			return err
		}
		customer = created[0]
		role, err := as.roles.GetByName(dbc, types.RoleCustomer)
		if err != nil {
			return err
		}
		if role == nil {
			if role, err = as.roles.Create(dbc, types.RoleCustomer); err != nil {
				return err
			}
		}
		if err := as.roles.Assign(dbc, customer.ID, role.ID); err != nil {
			return err
		}
		customer.Roles = []types.Role{*role}
		pair, err = as.issue(dbc, customer)
		return err
	})
	if err != nil {
		as.log.Warn("registration failed", "email", email, "error", err)
		return nil, TokenPair{}, storeErr(op, err)
	}
	as.log.Info("customer registered", "customer_id", customer.ID)
	return customer, pair, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	const op = "Auth.Login"
	var pair TokenPair
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return pair, validationErr(op, "email and password are required")
	}
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		customer, err := as.customers.GetByEmail(dbc, email)
		if err != nil {
			return err
		}
		if customer == nil || bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(password)) != nil {
			return unauthorizedErr(op, "invalid email or password")
		}
		pair, err = as.issue(dbc, customer)
		return err
	})
	if err != nil {
		return TokenPair{}, storeErr(op, err)
	}
	return pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	const op = "Auth.Refresh"
	var pair TokenPair
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return pair, validationErr(op, "refresh_token is required")
	}
	expired := false
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := as.tokens.GetByRefreshToken(dbc, refreshToken)
		if err != nil {
			return err
		}
		if row == nil {
			return unauthorizedErr(op, "unknown refresh token")
		}
		// The presented pair is spent whether or not a new one is issued.
		if err := as.tokens.DeleteByIDs(dbc, []uuid.UUID{row.ID}); err != nil {
			return err
		}
		if !row.ExpiresAt.After(as.now()) {
			expired = true
			return nil
		}
		customer, err := as.customers.GetByID(dbc, row.CustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return unauthorizedErr(op, "customer no longer exists")
		}
		pair, err = as.issue(dbc, customer)
		return err
	})
	if err != nil {
		return TokenPair{}, storeErr(op, err)
	}
	if expired {
		return TokenPair{}, unauthorizedErr(op, "refresh token expired")
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context) error {
	const op = "Auth.Logout"
	rd, err := caller(ctx, op)
	if err != nil {
		return err
	}
	dbc := dbctx.Context{Ctx: ctx, Tx: as.db}
	row, err := as.tokens.GetByAccessToken(dbc, rd.TokenString)
	if err != nil {
		return storeErr(op, err)
	}
	if row == nil {
		return nil
	}
	if err := as.tokens.DeleteByIDs(dbc, []uuid.UUID{row.ID}); err != nil {
		return storeErr(op, err)
	}
	return nil
}

// SetContextFromToken validates the JWT and its session row and attaches the
// caller to ctx.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "Auth.Token"
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return ctx, unauthorizedErr(op, "missing token")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now)}
	if as.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(as.cfg.Issuer))
	}
	if as.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(as.cfg.Audience))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(*jwt.Token) (interface{}, error) {
		return []byte(as.cfg.SecretKey), nil
	}, opts...)
	if err != nil {
		return ctx, unauthorizedErr(op, "invalid or expired token")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, unauthorizedErr(op, "invalid or expired token")
	}
	customerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, unauthorizedErr(op, "invalid subject in token")
	}
	row, err := as.tokens.GetByAccessToken(dbctx.Context{Ctx: ctx, Tx: as.db}, tokenString)
	if err != nil {
		return ctx, storeErr(op, err)
	}
	if row == nil || row.CustomerID != customerID {
		return ctx, unauthorizedErr(op, "session revoked")
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		CustomerID:  customerID,
		Email:       claims.Email,
		Roles:       claims.Roles,
		TokenString: tokenString,
		TokenID:     claims.ID,
	}), nil
}

func (as *authService) issue(dbc dbctx.Context, customer *types.Customer) (TokenPair, error) {
	now := as.now()
	var audience jwt.ClaimStrings
	if as.cfg.Audience != "" {
		audience = jwt.ClaimStrings{as.cfg.Audience}
	}
	claims := JWTClaims{
		Email: customer.Email,
		Roles: customer.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   customer.ID.String(),
			Issuer:    as.cfg.Issuer,
			Audience:  audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.AccessTTL)),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.cfg.SecretKey))
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	pair := TokenPair{
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    now.Add(as.cfg.AccessTTL),
	}
	if _, err := as.tokens.Create(dbc, []*types.CustomerToken{{
		CustomerID:   customer.ID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    now.Add(as.cfg.RefreshTTL),
	}}); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}
