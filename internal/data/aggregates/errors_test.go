package aggregates

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want domainagg.ErrorCode
	}{
		{"not found", gorm.ErrRecordNotFound, domainagg.CodeNotFound},
		{"wrapped not found", fmt.Errorf("load cart: %w", gorm.ErrRecordNotFound), domainagg.CodeNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{"canceled", context.Canceled, domainagg.CodeRetryable},
		{"pg unique", &pgconn.PgError{Code: "23505"}, domainagg.CodeConflict},
		{"pg foreign key", &pgconn.PgError{Code: "23503"}, domainagg.CodePreconditionFailed},
		{"pg check", &pgconn.PgError{Code: "23514"}, domainagg.CodeValidation},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, domainagg.CodeRetryable},
		{"pg other", &pgconn.PgError{Code: "42P01"}, domainagg.CodeInternal},
		{"sqlite unique", errors.New("UNIQUE constraint failed: category.name"), domainagg.CodeConflict},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), domainagg.CodePreconditionFailed},
		{"sqlite busy", errors.New("database is locked"), domainagg.CodeRetryable},
		{"other", errors.New("boom"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := MapError("op", tc.err)
			if !domainagg.IsCode(err, tc.want) {
				t.Fatalf("want code %q, got %q (%v)", tc.want, domainagg.CodeOf(err), err)
			}
		})
	}
}

func TestMapErrorNil(t *testing.T) {
	if err := MapError("op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestMapErrorKeepsExistingCode(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeNotFound, "op", "cart not found: 4", nil)
	if out := MapError("other", in); out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
	wrapped := fmt.Errorf("outer: %w", in)
	if out := MapError("other", wrapped); out != in {
		t.Fatalf("expected wrapped aggregate error to be unwrapped")
	}
}
