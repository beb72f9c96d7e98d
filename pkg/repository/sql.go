package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLRepository stores everything through gorm. It backs MySQL deployments
// and the in-memory SQLite database used by tests.
type SQLRepository struct {
	db *gorm.DB
}

var _ Store = (*SQLRepository)(nil)

func NewMySQLRepository(cfg *config.MySQLConfig) (*SQLRepository, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get mysql handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return newSQLRepository(db)
}

// NewSQLiteRepository opens the database at path. Use ":memory:" for a
// throwaway database.
func NewSQLiteRepository(path string) (*SQLRepository, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if path == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sqlite handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return newSQLRepository(db)
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         newGormLogger(log.New(os.Stdout, "\r\n", log.LstdFlags)),
		TranslateError: true,
	}
}

// newGormLogger reports slow queries and failures. Missing rows are an
// expected outcome of lookups and surface as ErrNotFound instead.
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func newSQLRepository(db *gorm.DB) (*SQLRepository, error) {
	if err := db.AutoMigrate(&models.User{}, &models.MenuItem{}, &models.Order{}, &AuditLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &SQLRepository{db: db}, nil
}

func (r *SQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *SQLRepository) Close(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// sqlError maps gorm errors onto the package sentinels.
func sqlError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case isDuplicate(err):
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate entry")
}

func (r *SQLRepository) CreateUser(ctx context.Context, user *models.User) error {
	row := *user
	row.ID = uuid.NewString()

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return sqlError("create user", err)
	}
	user.ID = row.ID
	return nil
}

func (r *SQLRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, sqlError("find user", err)
	}
	return &user, nil
}

func (r *SQLRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, sqlError("find user", err)
	}
	return &user, nil
}

func (r *SQLRepository) UpdateUser(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]interface{}{"name": update.Name, "email": update.Email}
	user.Name, user.Email = update.Name, update.Email
	if update.Phone != nil {
		changes["phone"] = *update.Phone
		user.Phone = *update.Phone
	}
	if update.Address != nil {
		changes["address"] = *update.Address
		user.Address = *update.Address
	}

	err = r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(changes).Error
	if err != nil {
		return nil, sqlError("update user", err)
	}
	return user, nil
}

func (r *SQLRepository) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	if err := r.db.WithContext(ctx).Order("category asc, name asc").Find(&items).Error; err != nil {
		return nil, sqlError("list menu items", err)
	}
	return items, nil
}

func (r *SQLRepository) GetMenuItem(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, sqlError("find menu item", err)
	}
	return &item, nil
}

func (r *SQLRepository) UpsertMenuItem(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.MenuItem
		err := tx.First(&existing, "name = ?", item.Name).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := *item
			row.ID = uuid.NewString()
			if row.Allergens == nil {
				row.Allergens = []string{}
			}
			if err := tx.Create(&row).Error; err != nil {
				return sqlError("create menu item", err)
			}
			item.ID = row.ID
			item.CreatedAt = row.CreatedAt
			return nil
		case err != nil:
			return sqlError("find menu item", err)
		}

		row := *item
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
		if row.Allergens == nil {
			row.Allergens = []string{}
		}
		if err := tx.Save(&row).Error; err != nil {
			return sqlError("update menu item", err)
		}
		item.ID = row.ID
		item.CreatedAt = row.CreatedAt
		return nil
	})
}

func (r *SQLRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	row := *order
	row.ID = uuid.NewString()

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return sqlError("create order", err)
	}
	order.ID = row.ID
	return nil
}

func (r *SQLRepository) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("order_number desc").
		Find(&orders).Error
	if err != nil {
		return nil, sqlError("list orders", err)
	}
	return orders, nil
}

func (r *SQLRepository) GetOrderForUser(ctx context.Context, id, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, sqlError("find order", err)
	}
	return &order, nil
}

func (r *SQLRepository) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	log.CreatedAt = time.Now()
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return sqlError("create audit log", err)
	}
	return nil
}

func (r *SQLRepository) GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*AuditLog, error) {
	var logs []*AuditLog
	err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("created_at desc").
		Limit(int(limit)).
		Find(&logs).Error
	if err != nil {
		return nil, sqlError("list audit logs", err)
	}
	return logs, nil
}
