package repositories

import (
	"context"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("task_id").Find(&tasks).Error
	return tasks, translate(err, "list tasks")
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID int64) (models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).First(&task).Error
	return task, translate(err, "task")
}

func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translate(r.db.WithContext(ctx).Create(task).Error, "create task")
}

// UpdateStatus always writes finished_date with status_id so a cleared date
// is persisted as NULL.
func (r *TaskRepository) UpdateStatus(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("task_id = ?", task.TaskID).
		Updates(map[string]interface{}{
			"status_id":     task.StatusID,
			"finished_date": task.FinishedDate,
		})
	if result.Error != nil {
		return translate(result.Error, "update task status")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "task")
	}
	return nil
}
