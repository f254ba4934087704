package outbox

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/storefront-backend/internal/domain"
	"github.com/yungbote/storefront-backend/internal/platform/dbctx"
	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

type OutboxEventRepo interface {
	Create(dbc dbctx.Context, events []*types.OutboxEvent) ([]*types.OutboxEvent, error)
	ListPending(dbc dbctx.Context, limit, maxAttempts int) ([]*types.OutboxEvent, error)
	MarkPublished(dbc dbctx.Context, ids []uuid.UUID, at time.Time) error
	MarkFailed(dbc dbctx.Context, id uuid.UUID, reason string) error
	CountByStatus(dbc dbctx.Context, status string) (int64, error)
}

type outboxEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutboxEventRepo(db *gorm.DB, baseLog *logger.Logger) OutboxEventRepo {
	return &outboxEventRepo{db: db, log: baseLog.With("repo", "OutboxEventRepo")}
}

func (r *outboxEventRepo) Create(dbc dbctx.Context, events []*types.OutboxEvent) ([]*types.OutboxEvent, error) {
	if len(events) == 0 {
		return []*types.OutboxEvent{}, nil
	}
	if err := dbc.DB(r.db).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListPending returns pending and retryable failed events, oldest first. Rows
// locked by another relay are skipped where the dialect supports it.
func (r *outboxEventRepo) ListPending(dbc dbctx.Context, limit, maxAttempts int) ([]*types.OutboxEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	q := dbc.DB(r.db).
		Where("status = ? OR (status = ? AND attempts < ?)", types.OutboxStatusPending, types.OutboxStatusFailed, maxAttempts).
		Order("created_at ASC").
		Limit(limit)
	if dbc.Tx != nil && r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}
	var results []*types.OutboxEvent
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *outboxEventRepo) MarkPublished(dbc dbctx.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.OutboxEvent{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"status":       types.OutboxStatusPublished,
			"published_at": at,
			"last_error":   "",
		}).Error
}

func (r *outboxEventRepo) MarkFailed(dbc dbctx.Context, id uuid.UUID, reason string) error {
	return dbc.DB(r.db).
		Model(&types.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     types.OutboxStatusFailed,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": reason,
		}).Error
}

func (r *outboxEventRepo) CountByStatus(dbc dbctx.Context, status string) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.OutboxEvent{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
