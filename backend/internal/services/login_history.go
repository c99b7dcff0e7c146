package services

import (
	"context"
	"fmt"

	"github.com/Nienta-PK/taskmanager/backend/internal/clock"
	"github.com/Nienta-PK/taskmanager/backend/internal/models"
	"github.com/Nienta-PK/taskmanager/backend/internal/utils"
)

type LoginHistoryService interface {
	Stamp(ctx context.Context, userID int64) (models.LoginHistory, error)
	List(ctx context.Context) ([]models.LoginHistoryView, error)
	ListByUser(ctx context.Context, userID int64) ([]models.LoginHistoryView, error)
}

type LoginHistoryServiceImpl struct {
	store LoginHistoryStore
	clock clock.Clock
}

func NewLoginHistoryService(store LoginHistoryStore, clk clock.Clock) *LoginHistoryServiceImpl {
	return &LoginHistoryServiceImpl{store: store, clock: clk}
}

// Stamp records a login at the current local time. Weekday ids run from
// Monday (1) to Sunday (7).
func (s *LoginHistoryServiceImpl) Stamp(ctx context.Context, userID int64) (models.LoginHistory, error) {
	now := s.clock.Now()

	entry := models.LoginHistory{
		UserID:    userID,
		Time:      utils.FormatClock(now),
		Day:       now.Day(),
		Month:     int(now.Month()),
		Year:      now.Year(),
		WeekdayID: int64((int(now.Weekday())+6)%7 + 1),
	}

	if err := s.store.Create(ctx, &entry); err != nil {
		return models.LoginHistory{}, fmt.Errorf("failed to record login: %w", err)
	}

	return entry, nil
}

func (s *LoginHistoryServiceImpl) List(ctx context.Context) ([]models.LoginHistoryView, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load login history: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no login history found", ErrNotFound)
	}
	return entries, nil
}

func (s *LoginHistoryServiceImpl) ListByUser(ctx context.Context, userID int64) ([]models.LoginHistoryView, error) {
	entries, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load login history: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no login history found for user %d", ErrNotFound, userID)
	}
	return entries, nil
}
