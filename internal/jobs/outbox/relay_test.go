package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yungbote/storefront-backend/internal/clients/kafka"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRunner struct{}

func (fakeRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	return fn(dbctx.Context{Ctx: ctx})
}

type fakeRepo struct {
	mu        sync.Mutex
	events    []*types.OutboxEvent
	published map[uuid.UUID]bool
	failed    map[uuid.UUID]string
}

func newFakeRepo(evs ...*types.OutboxEvent) *fakeRepo {
	return &fakeRepo{events: evs, published: map[uuid.UUID]bool{}, failed: map[uuid.UUID]string{}}
}

func (f *fakeRepo) Create(_ dbctx.Context, evs []*types.OutboxEvent) ([]*types.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evs...)
	return evs, nil
}

func (f *fakeRepo) ListPending(_ dbctx.Context, limit, maxAttempts int) ([]*types.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.OutboxEvent
	for _, ev := range f.events {
		if ev.Status == types.OutboxStatusPublished || ev.Attempts >= maxAttempts {
			continue
		}
		out = append(out, ev)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkPublished(_ dbctx.Context, ids []uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		f.published[id] = true
		for _, ev := range f.events {
			if ev.ID == id {
				ev.Status = types.OutboxStatusPublished
			}
		}
	}
	return nil
}

func (f *fakeRepo) MarkFailed(_ dbctx.Context, id uuid.UUID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[id] = reason
	for _, ev := range f.events {
		if ev.ID == id {
			ev.Status = types.OutboxStatusFailed
			ev.Attempts++
		}
	}
	return nil
}

func (f *fakeRepo) CountByStatus(_ dbctx.Context, status string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, ev := range f.events {
		if ev.Status == status {
			n++
		}
	}
	return n, nil
}

type fakePublisher struct {
	mu      sync.Mutex
	sent    []kafka.Message
	failKey string
}

func (p *fakePublisher) Publish(_ context.Context, msgs ...kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, m := range msgs {
		if m.Key == p.failKey {
			return errors.New("broker unavailable")
		}
		p.sent = append(p.sent, m)
	}
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

func event(aggregateID string) *types.OutboxEvent {
	return &types.OutboxEvent{
		ID:          uuid.New(),
		Topic:       "storefront.orders",
		AggregateID: aggregateID,
		Type:        types.EventOrderCreated,
		Payload:     []byte(`{"order_id":` + aggregateID + `}`),
		Status:      types.OutboxStatusPending,
		CreatedAt:   time.Now().Add(-time.Second),
	}
}

func TestRunOncePublishesAndMarks(t *testing.T) {
	good, bad := event("1"), event("2")
	repo := newFakeRepo(good, bad)
	pub := &fakePublisher{failKey: "2"}
	relay := NewRelay(logger.Nop(), fakeRunner{}, repo, pub, nil, Config{MaxAttempts: 2})

	n, err := relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, repo.published[good.ID])
	assert.Contains(t, repo.failed[bad.ID], "broker unavailable")
	require.Len(t, pub.sent, 1)
	assert.Equal(t, "1", pub.sent[0].Key)
	assert.Equal(t, good.ID.String(), pub.sent[0].Headers["event_id"])

	// The failed row is retried until it hits MaxAttempts.
	n, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, bad.Attempts)

	n, err = relay.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, bad.Attempts)
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := newFakeRepo(event("7"))
	pub := &fakePublisher{}
	relay := NewRelay(logger.Nop(), fakeRunner{}, repo, pub, nil, Config{Interval: 5 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
