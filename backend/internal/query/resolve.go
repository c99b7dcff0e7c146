package query

import "github.com/Nienta-PK/taskmanager/backend/internal/models"

// NameResolver maps lookup ids to display names for one request's snapshot.
type NameResolver struct {
	categories map[int64]string
	priorities map[int64]string
	statuses   map[int64]string
}

func NewNameResolver(lookups models.Lookups) *NameResolver {
	r := &NameResolver{
		categories: make(map[int64]string, len(lookups.Categories)),
		priorities: make(map[int64]string, len(lookups.Priorities)),
		statuses:   make(map[int64]string, len(lookups.Statuses)),
	}
	for _, c := range lookups.Categories {
		r.categories[c.CategoryID] = c.Name
	}
	for _, p := range lookups.Priorities {
		r.priorities[p.PriorityID] = p.Name
	}
	for _, s := range lookups.Statuses {
		r.statuses[s.StatusID] = s.Name
	}
	return r
}

func (r *NameResolver) HasCategory(id int64) bool {
	_, ok := r.categories[id]
	return ok
}

func (r *NameResolver) HasPriority(id int64) bool {
	_, ok := r.priorities[id]
	return ok
}

func (r *NameResolver) HasStatus(id int64) bool {
	_, ok := r.statuses[id]
	return ok
}

// Category resolves a task's optional category; a task without one reads as
// Unknown, like a dangling id, so it filters and sorts under that name.
func (r *NameResolver) Category(id *int64) string {
	if id == nil {
		return models.UnknownName
	}
	return nameOr(r.categories, *id)
}

func (r *NameResolver) Priority(id int64) string {
	return nameOr(r.priorities, id)
}

func (r *NameResolver) Status(id int64) string {
	return nameOr(r.statuses, id)
}

func (r *NameResolver) View(t models.Task) models.TaskView {
	return models.TaskView{
		TaskID:       t.TaskID,
		UserID:       t.UserID,
		Title:        t.Title,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
		DueDate:      t.DueDate,
		IsImportant:  t.IsImportant,
		FinishedDate: t.FinishedDate,
		CategoryName: r.Category(t.CategoryID),
		PriorityName: r.Priority(t.PriorityID),
		StatusName:   r.Status(t.StatusID),
	}
}

func (r *NameResolver) Views(tasks []models.Task) []models.TaskView {
	out := make([]models.TaskView, len(tasks))
	for i, t := range tasks {
		out[i] = r.View(t)
	}
	return out
}

func nameOr(names map[int64]string, id int64) string {
	if name, ok := names[id]; ok {
		return name
	}
	return models.UnknownName
}
