package services

import (
	"context"
	"fmt"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type AuthorizationService interface {
	HasRole(id Identity, role string) bool
	CanAccessUser(id Identity, userID int64) error
	CanAccessTask(ctx context.Context, id Identity, taskID int64) error
}

// AuthorizationServiceImpl lets callers act on their own user and tasks;
// admins may act on anyone's.
type AuthorizationServiceImpl struct {
	tasks TaskStore
}

func NewAuthorizationService(tasks TaskStore) *AuthorizationServiceImpl {
	return &AuthorizationServiceImpl{tasks: tasks}
}

func (s *AuthorizationServiceImpl) HasRole(id Identity, role string) bool {
	switch role {
	case RoleAdmin:
		return id.IsAdmin
	case RoleUser:
		return id.UserID > 0
	}
	return false
}

func (s *AuthorizationServiceImpl) CanAccessUser(id Identity, userID int64) error {
	if id.IsAdmin || id.UserID == userID {
		return nil
	}
	return fmt.Errorf("%w: not allowed to access user %d", ErrForbidden, userID)
}

func (s *AuthorizationServiceImpl) CanAccessTask(ctx context.Context, id Identity, taskID int64) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("task not found: %w", err)
	}
	if id.IsAdmin || task.UserID == id.UserID {
		return nil
	}
	return fmt.Errorf("%w: not allowed to access task %d", ErrForbidden, taskID)
}
