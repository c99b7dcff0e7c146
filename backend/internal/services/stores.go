package services

import (
	"context"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"
)

// Stores report a missing row as ErrNotFound and a unique-key violation as
// ErrConflict.

type TaskStore interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Task, error)
	GetByID(ctx context.Context, taskID int64) (models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	// UpdateStatus persists StatusID and FinishedDate of task.
	UpdateStatus(ctx context.Context, task *models.Task) error
}

type LookupStore interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Priorities(ctx context.Context) ([]models.Priority, error)
	Statuses(ctx context.Context) ([]models.Status, error)
	Weekdays(ctx context.Context) ([]models.Weekday, error)
}

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, userID int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, userID int64) error
}

type TokenStore interface {
	Create(ctx context.Context, token *models.Token) error
	FindActive(ctx context.Context, jti string, userID int64, now time.Time) (models.Token, error)
	DeleteByJTI(ctx context.Context, jti string) error
}

type LoginHistoryStore interface {
	Create(ctx context.Context, entry *models.LoginHistory) error
	List(ctx context.Context) ([]models.LoginHistoryView, error)
	ListByUser(ctx context.Context, userID int64) ([]models.LoginHistoryView, error)
}
