package aggregates

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	domainagg "github.com/yungbote/storefront-backend/internal/domain/aggregates"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

// BaseDeps are shared by the cart and order aggregates.
type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
	Retry  RetryPolicy
}

// RetryPolicy re-runs a write whose transaction lost a serialization race or
// hit a deadlock. Attempts includes the first run; the wait grows linearly.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

var defaultRetry = RetryPolicy{Attempts: 3, Backoff: 25 * time.Millisecond}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Retry.Attempts < 1 {
		d.Retry = defaultRetry
	}
	return d
}

// TxRunner opens the transaction an aggregate write runs in.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error
}

// GormTxRunner wraps fn in DB.Transaction. A DB that is already inside a
// transaction turns the write into a savepoint.
type GormTxRunner struct {
	DB *gorm.DB
}

func NewGormTxRunner(db *gorm.DB) TxRunner {
	return GormTxRunner{DB: db}
}

func (r GormTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if r.DB == nil {
		return domainagg.NewError(domainagg.CodeInternal, "aggregate.tx", "no database configured", nil)
	}
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

// executeWrite runs fn in its own transaction and returns a coded error.
// Retryable failures are re-run per deps.Retry while ctx is live; hooks see
// one operation per call no matter how many attempts it took.
func executeWrite(ctx context.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	if op = strings.TrimSpace(op); op == "" {
		op = "aggregate.write"
	}
	start := time.Now()

	var err error
	for attempt := 1; ; attempt++ {
		err = MapError(op, deps.Runner.InTx(ctx, fn))
		if !domainagg.IsCode(err, domainagg.CodeRetryable) || attempt >= deps.Retry.Attempts || ctx.Err() != nil {
			break
		}
		deps.Hooks.IncRetry(op)
		deps.Log.Warn("retrying aggregate write", "op", op, "attempt", attempt, "error", err)
		if !wait(ctx, deps.Retry.Backoff*time.Duration(attempt)) {
			break
		}
	}

	switch domainagg.CodeOf(err) {
	case domainagg.CodeConflict:
		deps.Hooks.IncConflict(op)
	case domainagg.CodeInternal:
		deps.Log.Error("aggregate write failed", "op", op, "error", err)
	}
	deps.Hooks.ObserveOperation(op, outcome(err), time.Since(start))
	return err
}

// outcome is the status label recorded for a finished write.
func outcome(err error) string {
	if err == nil {
		return "success"
	}
	if code := domainagg.CodeOf(err); code != "" {
		return string(code)
	}
	return string(domainagg.CodeInternal)
}

func wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
