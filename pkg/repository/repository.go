package repository

import (
	"context"
	"errors"
	"time"

	"github.com/example/gourmet/pkg/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrCacheMiss    = errors.New("cache miss")
)

// UserUpdate holds the profile fields that may change. Nil pointers leave the
// stored value untouched.
type UserUpdate struct {
	Name    string
	Email   string
	Phone   *string
	Address *string
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error)
}

type MenuRepository interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error)
	// UpsertMenuItem inserts the item or replaces the one with the same name.
	UpsertMenuItem(ctx context.Context, item *models.MenuItem) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	// ListOrdersByUser returns the user's orders, newest first.
	ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error)
	// GetOrderForUser matches on both id and owner.
	GetOrderForUser(ctx context.Context, id, userID string) (*models.Order, error)
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        string                 `gorm:"primaryKey;type:varchar(36)" bson:"_id,omitempty" json:"id"`
	Service   string                 `gorm:"type:varchar(50)" bson:"service" json:"service"`
	Action    string                 `gorm:"type:varchar(50)" bson:"action" json:"action"`
	EntityID  string                 `gorm:"type:varchar(36);index" bson:"entity_id" json:"entityId"`
	Data      map[string]interface{} `gorm:"type:text;serializer:json" bson:"data" json:"data"`
	CreatedAt time.Time              `gorm:"index" bson:"created_at" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

type AuditRepository interface {
	CreateAuditLog(ctx context.Context, log *AuditLog) error
	GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*AuditLog, error)
}

// Store is a complete persistence backend.
type Store interface {
	UserRepository
	MenuRepository
	OrderRepository
	AuditRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
