package aggregates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
)

func TestExecuteWriteObservesSuccess(t *testing.T) {
	hooks := &spyHooks{}
	err := executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks},
		"Sales.Test.Success", func(_ dbctx.Context) error { return nil })
	if err != nil {
		t.Fatalf("executeWrite: %v", err)
	}
	if len(hooks.Operations) != 1 || hooks.Operations[0].Status != "success" {
		t.Fatalf("unexpected operations: %+v", hooks.Operations)
	}
}

func TestExecuteWriteDefaultsOpName(t *testing.T) {
	hooks := &spyHooks{}
	_ = executeWrite(context.Background(), BaseDeps{Runner: spyTxRunner{}, Hooks: hooks},
		"  ", func(_ dbctx.Context) error { return nil })
	if len(hooks.Operations) != 1 || hooks.Operations[0].Name != "aggregate.write" {
		t.Fatalf("unexpected operations: %+v", hooks.Operations)
	}
}

func TestExecuteWriteOutcomes(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		code      domainagg.ErrorCode
		calls     int
		conflicts int
		retries   int
	}{
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "op", "stale", nil), domainagg.CodeConflict, 1, 1, 0},
		{"serialization exhausts retries", &pgconn.PgError{Code: "40001"}, domainagg.CodeRetryable, 3, 0, 2},
		{"check violation", &pgconn.PgError{Code: "23514"}, domainagg.CodeValidation, 1, 0, 0},
		{"internal", errors.New("boom"), domainagg.CodeInternal, 1, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hooks := &spyHooks{}
			calls := 0
			deps := BaseDeps{Runner: spyTxRunner{}, Hooks: hooks, Retry: RetryPolicy{Attempts: 3}}
			err := executeWrite(context.Background(), deps, "Sales.Test", func(_ dbctx.Context) error {
				calls++
				return tc.err
			})
			if !domainagg.IsCode(err, tc.code) {
				t.Fatalf("want code %s, got %v", tc.code, err)
			}
			if calls != tc.calls {
				t.Fatalf("calls: want %d got %d", tc.calls, calls)
			}
			if len(hooks.Conflicts) != tc.conflicts || len(hooks.Retries) != tc.retries {
				t.Fatalf("conflicts=%v retries=%v", hooks.Conflicts, hooks.Retries)
			}
			if len(hooks.Operations) != 1 || hooks.Operations[0].Status != string(tc.code) {
				t.Fatalf("unexpected op status: %+v", hooks.Operations)
			}
		})
	}
}

func TestExecuteWriteRecoversAfterDeadlock(t *testing.T) {
	hooks := &spyHooks{}
	calls := 0
	deps := BaseDeps{Runner: spyTxRunner{}, Hooks: hooks, Retry: RetryPolicy{Attempts: 3, Backoff: time.Millisecond}}
	err := executeWrite(context.Background(), deps, "Sales.Test.Deadlock", func(_ dbctx.Context) error {
		calls++
		if calls == 1 {
			return &pgconn.PgError{Code: "40P01"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("executeWrite: %v", err)
	}
	if calls != 2 || len(hooks.Retries) != 1 {
		t.Fatalf("calls=%d retries=%v", calls, hooks.Retries)
	}
	if hooks.Operations[0].Status != "success" {
		t.Fatalf("unexpected op status: %+v", hooks.Operations)
	}
}

func TestExecuteWriteStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hooks := &spyHooks{}
	calls := 0
	err := executeWrite(ctx, BaseDeps{Runner: spyTxRunner{}, Hooks: hooks}, "Sales.Test.Canceled", func(_ dbctx.Context) error {
		calls++
		return context.Canceled
	})
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("want retryable, got %v", err)
	}
	if calls != 1 || len(hooks.Retries) != 0 {
		t.Fatalf("calls=%d retries=%v", calls, hooks.Retries)
	}
}

func TestGormTxRunnerWithoutDB(t *testing.T) {
	err := GormTxRunner{}.InTx(context.Background(), func(dbctx.Context) error { return nil })
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("want internal, got %v", err)
	}
}

type spyTxRunner struct{}

func (spyTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type spyHooks struct {
	Operations []spyOperation
	Conflicts  []string
	Retries    []string
}

type spyOperation struct {
	Name   string
	Status string
}

func (h *spyHooks) ObserveOperation(name, status string, _ time.Duration) {
	h.Operations = append(h.Operations, spyOperation{Name: name, Status: status})
}

func (h *spyHooks) IncConflict(name string) { h.Conflicts = append(h.Conflicts, name) }
func (h *spyHooks) IncRetry(name string)    { h.Retries = append(h.Retries, name) }
