package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/ctxutil"
)

// caller returns the authenticated request data or an unauthorized error.
func caller(ctx context.Context, op string) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.CustomerID == uuid.Nil {
		return nil, unauthorizedErr(op, "authentication required")
	}
	return rd, nil
}

// requireSelfOrAdmin allows admins everywhere and customers on their own rows.
func requireSelfOrAdmin(ctx context.Context, op string, owner uuid.UUID) error {
	rd, err := caller(ctx, op)
	if err != nil {
		return err
	}
	if rd.HasRole(types.RoleAdmin) || rd.CustomerID == owner {
		return nil
	}
	return forbiddenErr(op, "not allowed to access another customer's data")
}

func isAdmin(ctx context.Context) bool {
	return ctxutil.GetRequestData(ctx).HasRole(types.RoleAdmin)
}

// AnalyticsInvalidator is told about writes that change report inputs.
type AnalyticsInvalidator interface {
	Invalidate(ctx context.Context) error
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context) error { return nil }

func orNop(inv AnalyticsInvalidator) AnalyticsInvalidator {
	if inv == nil {
		return nopInvalidator{}
	}
	return inv
}
