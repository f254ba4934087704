package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/clients/kafka"
	redisclient "github.com/yungbote/storefront-backend/internal/clients/redis"
	"github.com/yungbote/storefront-backend/internal/data/db"
	apphttp "github.com/yungbote/storefront-backend/internal/http"
	"github.com/yungbote/storefront-backend/internal/jobs/outbox"
	"github.com/yungbote/storefront-backend/internal/observability"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type App struct {
	Log     *logger.Logger
	Cfg     Config
	DB      *gorm.DB
	Metrics *observability.Metrics
	Graph   Graph
	Server  *apphttp.Server
	// Relay is nil when no Kafka brokers are configured.
	Relay *outbox.Relay

	database     *db.DatabaseService
	cache        redisclient.Cache
	publisher    kafka.Publisher
	otelShutdown func(context.Context) error
}

// New opens every external dependency, migrates the schema and wires the
// object graph. Close releases what New opened.
func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg}

	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.LogMode,
	})
	a.Metrics = observability.Init(log)

	database, err := Open(log, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.database = database
	a.DB = database.DB()

	cache, err := redisclient.NewCache(log, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init redis cache: %w", err)
	}
	a.cache = cache

	a.Graph = Wire(cfg, Deps{Log: log, DB: a.DB, Cache: cache, Metrics: a.Metrics})
	a.Server = apphttp.NewServer(a.Graph.Router)

	if cfg.RelayEnabled() {
		pub, err := kafka.NewPublisher(log, kafka.Config{Brokers: cfg.Kafka.Brokers})
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		a.publisher = pub
		a.Relay = outbox.NewRelay(log, a.Graph.Aggregates.Runner, a.Graph.Repos.Outbox, pub, a.Metrics, outbox.Config{
			Interval:  cfg.Kafka.OutboxPollInterval,
			BatchSize: cfg.Kafka.OutboxBatchSize,
		})
	} else {
		log.Info("outbox relay disabled (no KAFKA_BROKERS)")
	}
	return a, nil
}

// Open connects to the configured database and brings the schema up to date.
func Open(log *logger.Logger, cfg Config) (*db.DatabaseService, error) {
	database, err := db.NewDatabaseService(log, cfg.DatabaseConfig())
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(database.DB()); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	if err := db.SeedRoles(database.DB()); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

// Run serves HTTP and, when enabled, relays outbox events until ctx is
// cancelled or either one fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)

	a.Metrics.StartDBCollector(gctx, a.Log, a.DB)
	if a.cache != nil {
		a.Metrics.StartRedisCollector(gctx, a.Log, a.cache.Client())
	}

	g.Go(func() error {
		return a.Server.Run(gctx, a.Cfg.HTTPAddr, a.Cfg.ShutdownTimeout)
	})
	if a.Relay != nil {
		g.Go(func() error {
			return a.Relay.Run(gctx)
		})
	}
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.Log.Warn("kafka publisher close failed", "error", err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
