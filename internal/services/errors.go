package services

import (
	"fmt"

	dataagg "github.com/yungbote/storefront-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
)

func validationErr(op, format string, args ...any) error {
	return domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf(format, args...), nil)
}

func notFoundErr(op, format string, args ...any) error {
	return domainagg.NewError(domainagg.CodeNotFound, op, fmt.Sprintf(format, args...), nil)
}

func unauthorizedErr(op, msg string) error {
	return domainagg.NewError(domainagg.CodeUnauthorized, op, msg, nil)
}

func forbiddenErr(op, msg string) error {
	return domainagg.NewError(domainagg.CodeForbidden, op, msg, nil)
}

// storeErr gives repository failures the same codes aggregate writes use.
func storeErr(op string, err error) error {
	return dataagg.MapError(op, err)
}

func conflictErr(op, msg string) error {
	return domainagg.NewError(domainagg.CodeConflict, op, msg, nil)
}
