package services

import (
	"fmt"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/models"
	"github.com/Nienta-PK/taskmanager/backend/internal/query"
)

// statusSet holds the ids of the five statuses the task lifecycle moves
// between, found by name in the loaded status table.
type statusSet struct {
	ongoing   int64
	delayed   int64
	late      int64
	completed int64
	abandoned int64
}

func newStatusSet(statuses []models.Status) (statusSet, error) {
	var set statusSet
	targets := []struct {
		name string
		id   *int64
	}{
		{models.StatusOngoing, &set.ongoing},
		{models.StatusDelayed, &set.delayed},
		{models.StatusLate, &set.late},
		{models.StatusCompleted, &set.completed},
		{models.StatusAbandoned, &set.abandoned},
	}

	for _, target := range targets {
		status, ok := query.FindStatusByName(statuses, target.name)
		if !ok {
			return statusSet{}, fmt.Errorf("%w: required statuses not found", ErrNotFound)
		}
		*target.id = status.StatusID
	}

	return set, nil
}

// overdue reports whether task is Ongoing with a due date strictly before now.
func (s statusSet) overdue(task models.Task, now time.Time) bool {
	return task.StatusID == s.ongoing && task.DueDate != nil && task.DueDate.Before(now)
}

// complete moves task forward: Delayed becomes Late, Ongoing becomes
// Completed and is stamped with now. Completed is terminal, so completing it
// again is rejected instead of re-stamping finished_date.
func (s statusSet) complete(task *models.Task, now time.Time) error {
	switch task.StatusID {
	case s.abandoned, s.late:
		return fmt.Errorf("%w: task with status 'Abandoned' or 'Late' cannot be completed", ErrInvalidTransition)
	case s.completed:
		return fmt.Errorf("%w: task already 'Completed'", ErrInvalidTransition)
	case s.delayed:
		task.StatusID = s.late
		task.FinishedDate = nil
	default:
		task.StatusID = s.completed
		task.FinishedDate = &now
	}
	return nil
}

func (s statusSet) abandon(task *models.Task) error {
	switch task.StatusID {
	case s.late, s.completed:
		return fmt.Errorf("%w: task cannot be abandoned because it is 'Late' or 'Completed'", ErrInvalidTransition)
	case s.abandoned:
		return fmt.Errorf("%w: task already 'Abandoned'", ErrInvalidTransition)
	}

	task.StatusID = s.abandoned
	task.FinishedDate = nil
	return nil
}
