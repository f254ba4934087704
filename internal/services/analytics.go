package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	redisclient "github.com/yungbote/storefront-backend/internal/clients/redis"
	"github.com/yungbote/storefront-backend/internal/data/repos"
	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/domain/analytics"
	"github.com/yungbote/storefront-backend/internal/observability"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

const (
	ReportOrdersOverTime   = "orders_over_time"
	ReportRevenueOverTime  = "revenue_over_time"
	ReportOrdersByCategory = "orders_by_category"
	ReportAovByCategory    = "aov_by_category"
	ReportTopProducts      = "top_products"
)

// AnalyticsQuery holds the optional report filters. Start and End are
// inclusive and compared against the raw order date.
type AnalyticsQuery struct {
	CategoryID *uint      `json:"category_id,omitempty"`
	Start      *time.Time `json:"start,omitempty"`
	End        *time.Time `json:"end,omitempty"`
	Limit      int        `json:"limit,omitempty"`
}

type AnalyticsService interface {
	OrdersOverTime(ctx context.Context, q AnalyticsQuery) ([]analytics.OrdersOverTimeRow, error)
	RevenueOverTime(ctx context.Context, q AnalyticsQuery) ([]analytics.RevenueOverTimeRow, error)
	OrdersByCategory(ctx context.Context, q AnalyticsQuery) ([]analytics.OrdersByCategoryRow, error)
	AovByCategory(ctx context.Context, q AnalyticsQuery) ([]analytics.AovByCategoryRow, error)
	TopSellingProducts(ctx context.Context, q AnalyticsQuery) ([]analytics.TopProductRow, error)
	Invalidate(ctx context.Context) error
}

type AnalyticsConfig struct {
	CacheTTL time.Duration
}

type analyticsService struct {
	log     *logger.Logger
	orders  repos.OrderRepo
	cache   redisclient.Cache
	metrics *observability.Metrics
	ttl     time.Duration
	group   singleflight.Group
}

func NewAnalyticsService(log *logger.Logger, orders repos.OrderRepo, cache redisclient.Cache, metrics *observability.Metrics, cfg AnalyticsConfig) AnalyticsService {
	if cache == nil {
		cache = redisclient.NopCache()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &analyticsService{
		log:     log.With("service", "AnalyticsService"),
		orders:  orders,
		cache:   cache,
		metrics: metrics,
		ttl:     cfg.CacheTTL,
	}
}

func (s *analyticsService) OrdersOverTime(ctx context.Context, q AnalyticsQuery) ([]analytics.OrdersOverTimeRow, error) {
	q = AnalyticsQuery{CategoryID: q.CategoryID}
	return report(ctx, s, ReportOrdersOverTime, q, func(orders []analytics.Order) ([]analytics.OrdersOverTimeRow, error) {
		return analytics.OrdersOverTime(orders, q.CategoryID)
	})
}

func (s *analyticsService) RevenueOverTime(ctx context.Context, q AnalyticsQuery) ([]analytics.RevenueOverTimeRow, error) {
	q = AnalyticsQuery{CategoryID: q.CategoryID}
	return report(ctx, s, ReportRevenueOverTime, q, func(orders []analytics.Order) ([]analytics.RevenueOverTimeRow, error) {
		return analytics.RevenueOverTime(orders, q.CategoryID)
	})
}

func (s *analyticsService) OrdersByCategory(ctx context.Context, q AnalyticsQuery) ([]analytics.OrdersByCategoryRow, error) {
	q = AnalyticsQuery{Start: q.Start, End: q.End}
	return report(ctx, s, ReportOrdersByCategory, q, func(orders []analytics.Order) ([]analytics.OrdersByCategoryRow, error) {
		return analytics.OrdersByCategory(orders, q.Start, q.End)
	})
}

func (s *analyticsService) AovByCategory(ctx context.Context, q AnalyticsQuery) ([]analytics.AovByCategoryRow, error) {
	q = AnalyticsQuery{CategoryID: q.CategoryID, Start: q.Start, End: q.End}
	return report(ctx, s, ReportAovByCategory, q, func(orders []analytics.Order) ([]analytics.AovByCategoryRow, error) {
		return analytics.AovByCategory(orders, q.Start, q.End, q.CategoryID)
	})
}

func (s *analyticsService) TopSellingProducts(ctx context.Context, q AnalyticsQuery) ([]analytics.TopProductRow, error) {
	q = AnalyticsQuery{Start: q.Start, End: q.End, Limit: q.Limit}
	return report(ctx, s, ReportTopProducts, q, func(orders []analytics.Order) ([]analytics.TopProductRow, error) {
		return analytics.TopSellingProducts(orders, q.Start, q.End, q.Limit)
	})
}

func (s *analyticsService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

// loadTimeout bounds a shared report load, which outlives the caller that
// started it.
const loadTimeout = 30 * time.Second

// report serves one report cache-aside. The cache generation is read once so
// a load that races an Invalidate fills the retired generation. Concurrent
// misses share one load; a caller that goes away stops waiting but does not
// cancel the load for the others.
func report[R any](ctx context.Context, s *analyticsService, name string, q AnalyticsQuery, run func([]analytics.Order) ([]R, error)) ([]R, error) {
	op := "Analytics." + name
	ctx, span := observability.StartSpan(ctx, op, attribute.String("report", name))
	defer span.End()

	key, err := cacheKey(name, q)
	if err != nil {
		return nil, err
	}
	gen, err := s.cache.Generation(ctx)
	cacheOK := err == nil
	if !cacheOK {
		s.log.Warn("analytics cache generation unavailable", "report", name, "error", err)
	}
	if cacheOK {
		var cached []R
		hit, err := s.cache.Get(ctx, gen, key, &cached)
		if err != nil {
			s.log.Warn("analytics cache read failed", "report", name, "error", err)
		}
		if hit {
			s.metrics.IncCacheHit(name)
			span.SetAttributes(attribute.Bool("cache_hit", true))
			if cached == nil {
				cached = []R{}
			}
			return cached, nil
		}
	}
	s.metrics.IncCacheMiss(name)
	span.SetAttributes(attribute.Bool("cache_hit", false))

	flight := fmt.Sprintf("%d:%s", gen, key)
	ch := s.group.DoChan(flight, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		orders, err := s.loadOrders(loadCtx, op, q.Start, q.End)
		if err != nil {
			return nil, err
		}
		rows, err := run(orders)
		if err != nil {
			return nil, err
		}
		if cacheOK {
			if err := s.cache.Set(loadCtx, gen, key, rows, s.ttl); err != nil {
				s.log.Warn("analytics cache write failed", "report", name, "error", err)
			}
		}
		return rows, nil
	})

	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return nil, storeErr(op, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			span.RecordError(res.Err)
			return nil, res.Err
		}
		return res.Val.([]R), nil
	}
}

func cacheKey(name string, q AnalyticsQuery) (string, error) {
	raw, err := json.Marshal(q)
	if err != nil {
		return "", fmt.Errorf("encode analytics query: %w", err)
	}
	return name + ":" + string(raw), nil
}

func (s *analyticsService) loadOrders(ctx context.Context, op string, start, end *time.Time) ([]analytics.Order, error) {
	rows, err := s.orders.ListForAnalytics(dbctx.Context{Ctx: ctx}, start, end)
	if err != nil {
		return nil, storeErr(op, err)
	}
	return ProjectOrders(rows), nil
}

// ProjectOrders flattens stored orders into plain analytics records. Items
// whose product was not loaded are skipped.
func ProjectOrders(rows []*types.Order) []analytics.Order {
	out := make([]analytics.Order, 0, len(rows))
	for _, o := range rows {
		if o == nil {
			continue
		}
		ao := analytics.Order{
			ID:         o.ID,
			CustomerID: o.CustomerID.String(),
			OrderDate:  o.OrderDate,
			Price:      o.Price,
			Items:      make([]analytics.Item, 0, len(o.Items)),
		}
		for _, it := range o.Items {
			if it.Product == nil {
				continue
			}
			p := analytics.Product{
				ID:         it.Product.ID,
				Name:       it.Product.Name,
				Price:      it.Product.Price,
				Categories: make([]analytics.Category, 0, len(it.Product.ProductCategories)),
			}
			for _, pc := range it.Product.ProductCategories {
				if pc.Category == nil {
					continue
				}
				p.Categories = append(p.Categories, analytics.Category{ID: pc.Category.ID, Name: pc.Category.Name})
			}
			ao.Items = append(ao.Items, analytics.Item{Product: p, Quantity: it.Quantity})
		}
		out = append(out, ao)
	}
	return out
}
