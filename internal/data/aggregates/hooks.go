package aggregates

import (
	"time"

	"github.com/yungbote/storefront-backend/internal/observability"
)

// Hooks receives the outcome of every aggregate write.
type Hooks interface {
	ObserveOperation(op, status string, dur time.Duration)
	IncConflict(op string)
	IncRetry(op string)
}

// NewMetricsHooks reports writes to the Prometheus collectors. Nil metrics
// report nothing.
func NewMetricsHooks(m *observability.Metrics) Hooks {
	if m == nil {
		return noopHooks{}
	}
	return promHooks{m}
}

type promHooks struct{ m *observability.Metrics }

func (h promHooks) ObserveOperation(op, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(op, status, dur)
}
func (h promHooks) IncConflict(op string) { h.m.IncAggregateConflict(op) }
func (h promHooks) IncRetry(op string)    { h.m.IncAggregateRetry(op) }

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}
