package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"
	"github.com/Nienta-PK/taskmanager/backend/internal/query"
	"github.com/Nienta-PK/taskmanager/backend/internal/utils"
)

type UserQuery struct {
	SortBy   string
	Reverse  bool
	Username string
}

// UpdateUserInput changes only the fields that are non-nil.
type UpdateUserInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type UserService interface {
	ListUsers(ctx context.Context, q UserQuery) ([]models.UserView, error)
	DeleteUser(ctx context.Context, userID int64) error
	GetUser(ctx context.Context, userID int64) (models.UserView, error)
	UpdateUser(ctx context.Context, userID int64, in UpdateUserInput) (models.UserView, error)
}

type UserServiceImpl struct {
	users UserStore
}

func NewUserService(users UserStore) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

func NewUserView(u models.User) models.UserView {
	return models.UserView{
		UserID:     u.UserID,
		Username:   u.Username,
		Email:      u.Email,
		IsActive:   u.IsActive,
		IsAdmin:    u.IsAdmin,
		CreateDate: utils.FormatDateTime(u.CreatedAt),
	}
}

func (s *UserServiceImpl) snapshot(ctx context.Context) ([]models.UserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	views := make([]models.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, NewUserView(u))
	}
	return views, nil
}

// ListUsers returns a single match when Username is set, otherwise every
// user ordered by SortBy. Unknown sort keys order by user_id.
func (s *UserServiceImpl) ListUsers(ctx context.Context, q UserQuery) ([]models.UserView, error) {
	views, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if q.Username != "" {
		found, ok := query.SearchByUsername(views, q.Username)
		if !ok {
			return nil, fmt.Errorf("%w: user with username '%s' not found", ErrNotFound, q.Username)
		}
		return []models.UserView{found}, nil
	}

	views = query.SortUsers(views, query.ParseUserSortKey(q.SortBy))
	if q.Reverse {
		query.Reverse(views)
	}

	return views, nil
}

// DeleteUser confirms the user exists in a listing snapshot, then re-reads
// the row before deleting it. A row removed between the two reads is
// reported as ErrNotFound.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, userID int64) error {
	views, err := s.snapshot(ctx)
	if err != nil {
		return err
	}

	if _, ok := query.SearchByUserID(views, userID); !ok {
		return fmt.Errorf("%w: user with user_id '%d' not found", ErrNotFound, userID)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: user with user_id '%d' not found", ErrNotFound, userID)
		}
		return err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}

	log.Printf("🗑️ Deleted user %d", userID)
	return nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, userID int64) (models.UserView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.UserView{}, fmt.Errorf("user not found: %w", err)
	}
	return NewUserView(user), nil
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, userID int64, in UpdateUserInput) (models.UserView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.UserView{}, fmt.Errorf("user not found: %w", err)
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if err := validateUsername(username); err != nil {
			return models.UserView{}, err
		}
		user.Username = username
	}

	if in.Email != nil {
		if err := validateEmail(*in.Email); err != nil {
			return models.UserView{}, err
		}
		user.Email = *in.Email
	}

	if in.Password != nil {
		if err := ValidatePassword(*in.Password); err != nil {
			return models.UserView{}, err
		}
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return models.UserView{}, err
		}
		user.Password = hashed
	}

	if err := s.users.Save(ctx, &user); err != nil {
		return models.UserView{}, fmt.Errorf("failed to update user: %w", err)
	}

	return NewUserView(user), nil
}
