package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/storefront-backend/internal/clients/kafka"
	"github.com/yungbote/storefront-backend/internal/data/aggregates"
	"github.com/yungbote/storefront-backend/internal/data/repos"
	"github.com/yungbote/storefront-backend/internal/observability"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type Config struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = 2 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	return c
}

// Relay moves pending outbox rows to Kafka. Rows are claimed, published and
// marked inside one transaction so concurrent relays do not double send.
type Relay struct {
	log     *logger.Logger
	runner  aggregates.TxRunner
	repo    repos.OutboxEventRepo
	pub     kafka.Publisher
	metrics *observability.Metrics
	cfg     Config
	now     func() time.Time
}

func NewRelay(baseLog *logger.Logger, runner aggregates.TxRunner, repo repos.OutboxEventRepo, pub kafka.Publisher, metrics *observability.Metrics, cfg Config) *Relay {
	return &Relay{
		log:     baseLog.With("component", "OutboxRelay"),
		runner:  runner,
		repo:    repo,
		pub:     pub,
		metrics: metrics,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
	}
}

// Run polls until ctx is cancelled. A cancelled context is not an error.
func (r *Relay) Run(ctx context.Context) error {
	r.log.Info("outbox relay started", "interval", r.cfg.Interval.String(), "batch_size", r.cfg.BatchSize)
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.log.Warn("outbox relay batch failed", "error", err)
			}
		}
	}
}

// RunOnce relays one batch and returns how many events were published.
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.runner.InTx(ctx, func(dbc dbctx.Context) error {
		published = 0
		events, err := r.repo.ListPending(dbc, r.cfg.BatchSize, r.cfg.MaxAttempts)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}
		r.metrics.SetOutboxLag(r.now().Sub(events[0].CreatedAt))

		ok := make([]uuid.UUID, 0, len(events))
		for _, ev := range events {
			msg := kafka.Message{
				Topic: ev.Topic,
				Key:   ev.AggregateID,
				Value: ev.Payload,
				Headers: map[string]string{
					"event_id":   ev.ID.String(),
					"event_type": ev.Type,
				},
			}
			if err := r.pub.Publish(dbc.Ctx, msg); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.metrics.IncOutboxFailed()
				r.log.Warn("outbox publish failed", "event_id", ev.ID, "event_type", ev.Type, "attempts", ev.Attempts+1, "error", err)
				if err := r.repo.MarkFailed(dbc, ev.ID, err.Error()); err != nil {
					return err
				}
				continue
			}
			ok = append(ok, ev.ID)
		}
		if err := r.repo.MarkPublished(dbc, ok, r.now().UTC()); err != nil {
			return err
		}
		published = len(ok)
		return nil
	})
	if err != nil {
		return 0, err
	}
	r.metrics.AddOutboxPublished(published)
	if published > 0 {
		r.log.Debug("outbox batch relayed", "published", published)
	}
	return published, nil
}
