package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/clock"
	"github.com/Nienta-PK/taskmanager/backend/internal/models"
	"github.com/Nienta-PK/taskmanager/backend/internal/query"
	"github.com/Nienta-PK/taskmanager/backend/internal/utils"
)

const uncategorized = "Uncategorized"

// TaskQuery selects and orders one user's tasks. Empty filter strings are
// ignored.
type TaskQuery struct {
	UserID   int64
	SortBy   string
	Reverse  bool
	Title    string
	Category string
	Status   string
	Priority string
}

type CreateTaskInput struct {
	UserID      int64
	Title       string
	Description *string
	DueDate     *time.Time
	IsImportant bool
	CategoryID  *int64
	PriorityID  int64
	// StatusID defaults to Ongoing when zero.
	StatusID int64
}

type TaskService interface {
	ListTasks(ctx context.Context, q TaskQuery) ([]models.TaskView, error)
	CompleteTask(ctx context.Context, taskID int64) (models.TaskView, error)
	AbandonTask(ctx context.Context, taskID int64) (models.TaskView, error)
	CreateTask(ctx context.Context, in CreateTaskInput) (models.TaskView, error)
	GetTask(ctx context.Context, taskID int64) (models.TaskView, error)
	Overview(ctx context.Context, userID int64) (models.TaskOverview, error)
	DueSoon(ctx context.Context, userID int64) (models.DueSoonGroups, error)
	Calendar(ctx context.Context, userID int64) ([]models.CalendarTask, error)
}

type TaskServiceImpl struct {
	tasks   TaskStore
	lookups LookupService
	clock   clock.Clock
}

func NewTaskService(tasks TaskStore, lookups LookupService, clk clock.Clock) *TaskServiceImpl {
	return &TaskServiceImpl{tasks: tasks, lookups: lookups, clock: clk}
}

// ListTasks runs the auto-delay pass over the user's tasks, resolves lookup
// names, filters and sorts. A filter that leaves nothing is ErrNotFound.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, q TaskQuery) ([]models.TaskView, error) {
	key, err := query.ParseTaskSortKey(q.SortBy)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortKey, q.SortBy)
	}

	tasks, err := s.tasks.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	lookups, err := s.lookups.Load(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := newStatusSet(lookups.Statuses)
	if err != nil {
		return nil, err
	}

	if err := s.delayOverdue(ctx, tasks, statuses); err != nil {
		return nil, err
	}

	views := query.NewNameResolver(lookups).Views(tasks)

	if q.Title != "" {
		views = query.SearchByTitle(views, q.Title)
	}
	if q.Category != "" {
		views = query.FilterByCategory(views, q.Category)
	}
	if q.Status != "" {
		views = query.FilterByStatus(views, q.Status)
	}
	if q.Priority != "" {
		views = query.FilterByPriority(views, q.Priority)
	}

	if len(views) == 0 {
		return nil, fmt.Errorf("%w: no tasks match the given filters", ErrNotFound)
	}

	views = key.Apply(views)
	if q.Reverse {
		query.Reverse(views)
	}

	return views, nil
}

// delayOverdue moves overdue Ongoing tasks to Delayed, committing each one
// as it goes.
func (s *TaskServiceImpl) delayOverdue(ctx context.Context, tasks []models.Task, statuses statusSet) error {
	now := s.clock.Now()

	for i := range tasks {
		if !statuses.overdue(tasks[i], now) {
			continue
		}

		tasks[i].StatusID = statuses.delayed
		if err := s.tasks.UpdateStatus(ctx, &tasks[i]); err != nil {
			return fmt.Errorf("failed to delay task %d: %w", tasks[i].TaskID, err)
		}
		log.Printf("⏰ Task %d is overdue, marked Delayed", tasks[i].TaskID)
	}

	return nil
}

func (s *TaskServiceImpl) CompleteTask(ctx context.Context, taskID int64) (models.TaskView, error) {
	return s.transition(ctx, taskID, func(set statusSet, task *models.Task) error {
		return set.complete(task, s.clock.Now())
	})
}

func (s *TaskServiceImpl) AbandonTask(ctx context.Context, taskID int64) (models.TaskView, error) {
	return s.transition(ctx, taskID, func(set statusSet, task *models.Task) error {
		return set.abandon(task)
	})
}

func (s *TaskServiceImpl) transition(ctx context.Context, taskID int64, apply func(statusSet, *models.Task) error) (models.TaskView, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.TaskView{}, fmt.Errorf("task not found: %w", err)
	}

	lookups, err := s.lookups.Load(ctx)
	if err != nil {
		return models.TaskView{}, err
	}

	statuses, err := newStatusSet(lookups.Statuses)
	if err != nil {
		return models.TaskView{}, err
	}

	if err := apply(statuses, &task); err != nil {
		return models.TaskView{}, err
	}

	if err := s.tasks.UpdateStatus(ctx, &task); err != nil {
		return models.TaskView{}, fmt.Errorf("failed to update task %d: %w", taskID, err)
	}

	fresh, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.TaskView{}, fmt.Errorf("failed to reload task %d: %w", taskID, err)
	}

	return query.NewNameResolver(lookups).View(fresh), nil
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, in CreateTaskInput) (models.TaskView, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.TaskView{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	lookups, err := s.lookups.Load(ctx)
	if err != nil {
		return models.TaskView{}, err
	}
	resolver := query.NewNameResolver(lookups)

	if in.StatusID == 0 {
		ongoing, ok := query.FindStatusByName(lookups.Statuses, models.StatusOngoing)
		if !ok {
			return models.TaskView{}, fmt.Errorf("%w: required statuses not found", ErrNotFound)
		}
		in.StatusID = ongoing.StatusID
	}

	if (in.CategoryID != nil && !resolver.HasCategory(*in.CategoryID)) ||
		!resolver.HasPriority(in.PriorityID) ||
		!resolver.HasStatus(in.StatusID) {
		return models.TaskView{}, fmt.Errorf("%w: invalid category, priority, or status", ErrValidation)
	}

	var due *time.Time
	if in.DueDate != nil {
		wall := clock.Wall(*in.DueDate)
		due = &wall
	}

	task := models.Task{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   s.clock.Now(),
		DueDate:     due,
		IsImportant: in.IsImportant,
		CategoryID:  in.CategoryID,
		PriorityID:  in.PriorityID,
		StatusID:    in.StatusID,
	}

	if err := s.tasks.Create(ctx, &task); err != nil {
		return models.TaskView{}, fmt.Errorf("failed to create task: %w", err)
	}

	return resolver.View(task), nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID int64) (models.TaskView, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return models.TaskView{}, fmt.Errorf("task not found: %w", err)
	}

	lookups, err := s.lookups.Load(ctx)
	if err != nil {
		return models.TaskView{}, err
	}

	return query.NewNameResolver(lookups).View(task), nil
}

func (s *TaskServiceImpl) Overview(ctx context.Context, userID int64) (models.TaskOverview, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return models.TaskOverview{}, fmt.Errorf("failed to load tasks: %w", err)
	}

	lookups, err := s.lookups.Load(ctx)
	if err != nil {
		return models.TaskOverview{}, err
	}

	views := query.NewNameResolver(lookups).Views(tasks)
	overview := models.TaskOverview{
		TotalTasks:     len(views),
		Tasks:          views,
		CategoryCounts: make(map[string]int),
		PriorityCounts: make(map[string]int),
		StatusCounts:   make(map[string]int),
	}

	for i, v := range views {
		category := v.CategoryName
		if tasks[i].CategoryID == nil {
			category = uncategorized
		}
		overview.CategoryCounts[category]++
		overview.PriorityCounts[v.PriorityName]++
		overview.StatusCounts[v.StatusName]++
	}

	return overview, nil
}

// DueSoon groups the user's Ongoing tasks by how close their due date is.
// Tasks due in more than a day but less than two whole days fall in
// neither group.
func (s *TaskServiceImpl) DueSoon(ctx context.Context, userID int64) (models.DueSoonGroups, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return models.DueSoonGroups{}, fmt.Errorf("failed to load tasks: %w", err)
	}

	lookups, err := s.lookups.Load(ctx)
	if err != nil {
		return models.DueSoonGroups{}, err
	}
	ongoing, ok := query.FindStatusByName(lookups.Statuses, models.StatusOngoing)
	if !ok {
		return models.DueSoonGroups{}, fmt.Errorf("%w: required statuses not found", ErrNotFound)
	}

	groups := models.DueSoonGroups{
		OneDayLeft:  []models.DueSoonTask{},
		OneWeekLeft: []models.DueSoonTask{},
	}
	now := s.clock.Now()

	for _, task := range tasks {
		if task.StatusID != ongoing.StatusID || task.DueDate == nil {
			continue
		}

		remaining := task.DueDate.Sub(now)
		days := int(remaining / (24 * time.Hour))
		entry := models.DueSoonTask{
			TaskID:      task.TaskID,
			Title:       task.Title,
			Description: task.Description,
			DueDate:     *task.DueDate,
			TimeRemain:  utils.FormatRemaining(remaining),
		}

		switch {
		case remaining >= 0 && remaining <= 24*time.Hour:
			groups.OneDayLeft = append(groups.OneDayLeft, entry)
		case days > 1 && days <= 7:
			entry.DayRemain = days
			groups.OneWeekLeft = append(groups.OneWeekLeft, entry)
		}
	}

	return groups, nil
}

func (s *TaskServiceImpl) Calendar(ctx context.Context, userID int64) ([]models.CalendarTask, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: no tasks found for this user", ErrNotFound)
	}

	out := make([]models.CalendarTask, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, models.CalendarTask{
			TaskID:      task.TaskID,
			Title:       task.Title,
			Description: task.Description,
			DueDate:     task.DueDate,
		})
	}

	return out, nil
}
