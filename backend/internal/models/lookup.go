package models

// Status names the task engine depends on. Rows are matched by name, never by id.
const (
	StatusOngoing   = "Ongoing"
	StatusDelayed   = "Delayed"
	StatusLate      = "Late"
	StatusCompleted = "Completed"
	StatusAbandoned = "Abandoned"
)

// UnknownName is the display name of a foreign key that does not resolve.
const UnknownName = "Unknown"

type Category struct {
	CategoryID  int64   `json:"category_id" gorm:"column:category_id;primaryKey"`
	Name        string  `json:"name" gorm:"size:50;not null"`
	Description *string `json:"description"`
}

func (Category) TableName() string {
	return "categories"
}

type Priority struct {
	PriorityID int64  `json:"priority_id" gorm:"column:priority_id;primaryKey"`
	Name       string `json:"name" gorm:"size:50;not null"`
}

func (Priority) TableName() string {
	return "priorities"
}

type Status struct {
	StatusID int64  `json:"status_id" gorm:"column:status_id;primaryKey"`
	Name     string `json:"name" gorm:"size:50;not null"`
}

func (Status) TableName() string {
	return "statuses"
}

type Weekday struct {
	WeekdayID   int64  `json:"weekday_id" gorm:"column:weekday_id;primaryKey"`
	WeekdayName string `json:"weekday_name" gorm:"size:20;not null"`
}

func (Weekday) TableName() string {
	return "weekdays"
}

// Lookups is one request's snapshot of the task reference tables.
type Lookups struct {
	Categories []Category `json:"categories"`
	Priorities []Priority `json:"priorities"`
	Statuses   []Status   `json:"statuses"`
}
