package query

import (
	"errors"
	"fmt"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"
	"github.com/Nienta-PK/taskmanager/backend/internal/utils"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

const (
	DefaultTaskSortKey = "task_id"
	DefaultUserSortKey = "user_id"
	DueDateSortKey     = "due_date"
)

type SortKind int

const (
	ByField SortKind = iota
	ByDueDate
)

// SortKey selects the ordering strategy for a task listing: due dates go
// through merge sort, every other field through selection sort.
type SortKey struct {
	Kind  SortKind
	Field string
}

func (k SortKey) String() string {
	return k.Field
}

// ParseTaskSortKey accepts any TaskView field name; an empty name means task_id.
func ParseTaskSortKey(name string) (SortKey, error) {
	if name == "" {
		name = DefaultTaskSortKey
	}
	if name == DueDateSortKey {
		return SortKey{Kind: ByDueDate, Field: name}, nil
	}
	if _, ok := taskFields[name]; !ok {
		return SortKey{}, fmt.Errorf("%w: %q", ErrUnknownSortKey, name)
	}
	return SortKey{Kind: ByField, Field: name}, nil
}

// Apply orders tasks with the key's strategy.
func (k SortKey) Apply(tasks []models.TaskView) []models.TaskView {
	if k.Kind == ByDueDate {
		return MergeSort(tasks, lessDueDate)
	}
	less, ok := taskFields[k.Field]
	if !ok {
		less = taskFields[DefaultTaskSortKey]
	}
	return SelectionSort(tasks, less)
}

func lessDueDate(a, b models.TaskView) bool {
	return lessOptTime(a.DueDate, b.DueDate)
}

var taskFields = map[string]Less[models.TaskView]{
	"task_id": func(a, b models.TaskView) bool { return a.TaskID < b.TaskID },
	"user_id": func(a, b models.TaskView) bool { return a.UserID < b.UserID },
	"title":   func(a, b models.TaskView) bool { return a.Title < b.Title },
	"description": func(a, b models.TaskView) bool {
		return lessOptString(a.Description, b.Description)
	},
	"created_at": func(a, b models.TaskView) bool { return a.CreatedAt.Before(b.CreatedAt) },
	"create_date": func(a, b models.TaskView) bool {
		return utils.FormatDateTime(a.CreatedAt) < utils.FormatDateTime(b.CreatedAt)
	},
	"due_date":     lessDueDate,
	"is_important": func(a, b models.TaskView) bool { return lessBool(a.IsImportant, b.IsImportant) },
	"finished_date": func(a, b models.TaskView) bool {
		return lessOptTime(a.FinishedDate, b.FinishedDate)
	},
	"category":      lessCategory,
	"category_name": lessCategory,
	"priority":      lessPriority,
	"priority_name": lessPriority,
	"status":        lessStatus,
	"status_name":   lessStatus,
}

func lessCategory(a, b models.TaskView) bool { return a.CategoryName < b.CategoryName }
func lessPriority(a, b models.TaskView) bool { return a.PriorityName < b.PriorityName }
func lessStatus(a, b models.TaskView) bool   { return a.StatusName < b.StatusName }

// ParseUserSortKey falls back to user_id for anything it does not know.
func ParseUserSortKey(name string) string {
	if _, ok := userFields[name]; ok {
		return name
	}
	return DefaultUserSortKey
}

// SortUsers selection-sorts users by a key from ParseUserSortKey.
func SortUsers(users []models.UserView, key string) []models.UserView {
	return SelectionSort(users, userFields[ParseUserSortKey(key)])
}

var userFields = map[string]Less[models.UserView]{
	"user_id":  func(a, b models.UserView) bool { return a.UserID < b.UserID },
	"username": func(a, b models.UserView) bool { return a.Username < b.Username },
	// create_date compares the rendered string, not the timestamp
	"create_date": func(a, b models.UserView) bool { return a.CreateDate < b.CreateDate },
	"is_admin":    func(a, b models.UserView) bool { return lessBool(a.IsAdmin, b.IsAdmin) },
}

// Missing values order before present ones.
func lessOptTime(a, b *time.Time) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return a.Before(*b)
	}
}

func lessOptString(a, b *string) bool {
	switch {
	case a == nil:
		return b != nil
	case b == nil:
		return false
	default:
		return *a < *b
	}
}

func lessBool(a, b bool) bool {
	return !a && b
}
