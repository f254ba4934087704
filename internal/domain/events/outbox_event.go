package events

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

const (
	TypeOrderCreated = "order.created"
	TypeOrderUpdated = "order.updated"
	TypeOrderDeleted = "order.deleted"
)

// OutboxEvent is written in the same transaction as the change it describes and
// relayed to the broker afterwards.
type OutboxEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Topic       string         `gorm:"size:128;not null;column:topic" json:"topic"`
	AggregateID string         `gorm:"size:64;not null;index;column:aggregate_id" json:"aggregate_id"`
	Type        string         `gorm:"size:64;not null;column:type" json:"type"`
	Payload     datatypes.JSON `gorm:"column:payload" json:"payload"`
	Status      string         `gorm:"size:16;not null;index;column:status" json:"status"`
	Attempts    int            `gorm:"not null;default:0;column:attempts" json:"attempts"`
	LastError   string         `gorm:"type:text;column:last_error" json:"last_error,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
	PublishedAt *time.Time     `gorm:"column:published_at" json:"published_at,omitempty"`
}

func (OutboxEvent) TableName() string { return "outbox_event" }

func (e *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Status == "" {
		e.Status = StatusPending
	}
	return nil
}
