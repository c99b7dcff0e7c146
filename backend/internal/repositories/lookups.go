package repositories

import (
	"context"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"

	"gorm.io/gorm"
)

type LookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) *LookupRepository {
	return &LookupRepository{db: db}
}

func (r *LookupRepository) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.db.WithContext(ctx).Order("category_id").Find(&out).Error
	return out, translate(err, "list categories")
}

func (r *LookupRepository) Priorities(ctx context.Context) ([]models.Priority, error) {
	var out []models.Priority
	err := r.db.WithContext(ctx).Order("priority_id").Find(&out).Error
	return out, translate(err, "list priorities")
}

func (r *LookupRepository) Statuses(ctx context.Context) ([]models.Status, error) {
	var out []models.Status
	err := r.db.WithContext(ctx).Order("status_id").Find(&out).Error
	return out, translate(err, "list statuses")
}

func (r *LookupRepository) Weekdays(ctx context.Context) ([]models.Weekday, error) {
	var out []models.Weekday
	err := r.db.WithContext(ctx).Order("weekday_id").Find(&out).Error
	return out, translate(err, "list weekdays")
}
