package services

import (
	"context"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type CustomerService interface {
	List(ctx context.Context) ([]*types.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Customer, error)
	Me(ctx context.Context) (*types.Customer, error)
	Update(ctx context.Context, id uuid.UUID, in CustomerUpdate) (*types.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerUpdate carries optional profile changes; nil fields are left alone.
type CustomerUpdate struct {
	Email    *string
	FullName *string
	Password *string
}

type customerService struct {
	db        *gorm.DB
	log       *logger.Logger
	customers repos.CustomerRepo
	tokens    repos.CustomerTokenRepo
}

func NewCustomerService(db *gorm.DB, log *logger.Logger, customers repos.CustomerRepo, tokens repos.CustomerTokenRepo) CustomerService {
	return &customerService{
		db:        db,
		log:       log.With("service", "CustomerService"),
		customers: customers,
		tokens:    tokens,
	}
}

func (s *customerService) List(ctx context.Context) ([]*types.Customer, error) {
	const op = "Customer.List"
	rd, err := caller(ctx, op)
	if err != nil {
		return nil, err
	}
	if !isAdmin(ctx) {
		// Non-admins only ever see themselves.
		c, err := s.Get(ctx, rd.CustomerID)
		if err != nil {
			return nil, err
		}
		return []*types.Customer{c}, nil
	}
	out, err := s.customers.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return out, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*types.Customer, error) {
	const op = "Customer.Get"
	if err := requireSelfOrAdmin(ctx, op, id); err != nil {
		return nil, err
	}
	c, err := s.customers.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, storeErr(op, err)
	}
	if c == nil {
		return nil, notFoundErr(op, "customer not found: %s", id)
	}
	return c, nil
}

func (s *customerService) Me(ctx context.Context) (*types.Customer, error) {
	rd, err := caller(ctx, "Customer.Me")
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, rd.CustomerID)
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, in CustomerUpdate) (*types.Customer, error) {
	const op = "Customer.Update"
	if err := requireSelfOrAdmin(ctx, op, id); err != nil {
		return nil, err
	}
	if in.Password != nil && len(*in.Password) < minPasswordLength {
		return nil, validationErr(op, "password must be at least %d characters", minPasswordLength)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.customers.GetByID(dbc, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFoundErr(op, "customer not found: %s", id)
		}
		email, fullName := current.Email, current.FullName
		if in.Email != nil {
			email = strings.ToLower(strings.TrimSpace(*in.Email))
			if _, err := mail.ParseAddress(email); err != nil || email == "" {
				return validationErr(op, "a valid email is required")
			}
			if email != current.Email {
				other, err := s.customers.GetByEmail(dbc, email)
				if err != nil {
					return err
				}
				if other != nil {
					return conflictErr(op, "email already registered")
				}
			}
		}
		if in.FullName != nil {
			if fullName = strings.TrimSpace(*in.FullName); fullName == "" {
				return validationErr(op, "full_name cannot be empty")
			}
		}
		if _, err := s.customers.UpdateProfile(dbc, id, email, fullName); err != nil {
			return err
		}
		if in.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			if err := s.customers.UpdatePassword(dbc, id, string(hash)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, storeErr(op, err)
	}
	return s.Get(ctx, id)
}

// Delete removes the customer together with every issued token.
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "Customer.Delete"
	if err := requireSelfOrAdmin(ctx, op, id); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.tokens.DeleteByCustomerIDs(dbc, []uuid.UUID{id}); err != nil {
			return err
		}
		deleted, err := s.customers.Delete(dbc, id)
		if err != nil {
			return err
		}
		if !deleted {
			return notFoundErr(op, "customer not found: %s", id)
		}
		return nil
	})
	if err != nil {
		return storeErr(op, err)
	}
	s.log.Info("customer deleted", "customer_id", id)
	return nil
}
