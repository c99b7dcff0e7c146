package repositories

import (
	"context"
	"fmt"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

const loginHistorySelect = `
	SELECT lh.login_id, lh.user_id, lh.time, lh.day, lh.month, lh.year, w.weekday_name
	FROM login_history lh
	JOIN weekdays w ON w.weekday_id = lh.weekday_id`

// LoginHistoryRepository writes through gorm and reads the weekday-joined
// view through sqlx.
type LoginHistoryRepository struct {
	db *gorm.DB
	rx *sqlx.DB
}

func NewLoginHistoryRepository(db *gorm.DB) (*LoginHistoryRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	return &LoginHistoryRepository{
		db: db,
		rx: sqlx.NewDb(sqlDB, sqlxDriverName(db)),
	}, nil
}

// sqlxDriverName picks the bind style sqlx needs for the gorm dialect.
func sqlxDriverName(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "sqlite3"
	}
	return db.Dialector.Name()
}

func (r *LoginHistoryRepository) Create(ctx context.Context, entry *models.LoginHistory) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, "create login history")
}

func (r *LoginHistoryRepository) List(ctx context.Context) ([]models.LoginHistoryView, error) {
	out := []models.LoginHistoryView{}
	err := r.rx.SelectContext(ctx, &out, loginHistorySelect+` ORDER BY lh.login_id`)
	return out, translate(err, "list login history")
}

func (r *LoginHistoryRepository) ListByUser(ctx context.Context, userID int64) ([]models.LoginHistoryView, error) {
	out := []models.LoginHistoryView{}
	q := r.rx.Rebind(loginHistorySelect + ` WHERE lh.user_id = ? ORDER BY lh.login_id`)
	err := r.rx.SelectContext(ctx, &out, q, userID)
	return out, translate(err, "list login history")
}
