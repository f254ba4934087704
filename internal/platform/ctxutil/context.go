package ctxutil

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type (
	callerKey struct{}
	traceKey  struct{}
)

// RequestData is the authenticated caller attached by the auth middleware.
type RequestData struct {
	CustomerID  uuid.UUID
	Email       string
	Roles       []string
	TokenString string
	TokenID     string
}

// HasRole compares role names case-insensitively. A nil caller has none.
func (rd *RequestData) HasRole(role string) bool {
	if rd == nil {
		return false
	}
	for _, r := range rd.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// TraceData correlates one request across log lines and spans.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, callerKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	return lookup[*RequestData](ctx, callerKey{})
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	return lookup[*TraceData](ctx, traceKey{})
}

func lookup[T any](ctx context.Context, key any) T {
	var zero T
	if ctx == nil {
		return zero
	}
	if v, ok := ctx.Value(key).(T); ok {
		return v
	}
	return zero
}
