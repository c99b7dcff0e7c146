package query

import (
	"strings"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"
)

// LinearSearch returns the first item accepted by match.
func LinearSearch[T any](items []T, match func(T) bool) (T, bool) {
	for _, item := range items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Filter returns a new slice with the accepted items in their original order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// SearchByTitle keeps tasks whose title contains term, ignoring case.
func SearchByTitle(tasks []models.TaskView, term string) []models.TaskView {
	needle := strings.ToLower(term)
	return Filter(tasks, func(t models.TaskView) bool {
		return strings.Contains(strings.ToLower(t.Title), needle)
	})
}

func FilterByCategory(tasks []models.TaskView, name string) []models.TaskView {
	return Filter(tasks, func(t models.TaskView) bool {
		return strings.EqualFold(t.CategoryName, name)
	})
}

func FilterByStatus(tasks []models.TaskView, name string) []models.TaskView {
	return Filter(tasks, func(t models.TaskView) bool {
		return strings.EqualFold(t.StatusName, name)
	})
}

func FilterByPriority(tasks []models.TaskView, name string) []models.TaskView {
	return Filter(tasks, func(t models.TaskView) bool {
		return strings.EqualFold(t.PriorityName, name)
	})
}

func SearchByUsername(users []models.UserView, username string) (models.UserView, bool) {
	return LinearSearch(users, func(u models.UserView) bool {
		return strings.EqualFold(u.Username, username)
	})
}

func SearchByUserID(users []models.UserView, userID int64) (models.UserView, bool) {
	return LinearSearch(users, func(u models.UserView) bool {
		return u.UserID == userID
	})
}

func FindStatusByName(statuses []models.Status, name string) (models.Status, bool) {
	return LinearSearch(statuses, func(s models.Status) bool {
		return s.Name == name
	})
}
