package repositories

import (
	"context"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("user_id").Find(&users).Error
	return users, translate(err, "list users")
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (models.User, error) {
	return r.first(ctx, "user", "user_id = ?", userID)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return r.first(ctx, "user", "username = ?", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.first(ctx, "user", "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) first(ctx context.Context, what, cond string, arg interface{}) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(cond, arg).First(&user).Error
	return user, translate(err, what)
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error, "create user")
}

// Save writes every column, including false booleans.
func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return translate(r.db.WithContext(ctx).Save(user).Error, "update user")
}

// Delete relies on ON DELETE CASCADE for the user's tasks, tokens and login
// history.
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return translate(result.Error, "delete user")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}
