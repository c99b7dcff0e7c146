package models

import "time"

// TaskView is the outward task shape: lookup ids are replaced by display names.
type TaskView struct {
	TaskID       int64      `json:"task_id"`
	UserID       int64      `json:"user_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	CreatedAt    time.Time  `json:"created_at"`
	DueDate      *time.Time `json:"due_date"`
	IsImportant  bool       `json:"is_important"`
	FinishedDate *time.Time `json:"finished_date"`
	CategoryName string     `json:"category_name"`
	PriorityName string     `json:"priority_name"`
	StatusName   string     `json:"status_name"`
}

type UserView struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	IsActive   bool   `json:"is_active"`
	IsAdmin    bool   `json:"is_admin"`
	CreateDate string `json:"create_date"`
}

type LoginHistoryView struct {
	LoginID int64  `json:"login_id" db:"login_id"`
	UserID  int64  `json:"user_id" db:"user_id"`
	Time    string `json:"time" db:"time"`
	Day     int    `json:"day" db:"day"`
	Month   int    `json:"month" db:"month"`
	Year    int    `json:"year" db:"year"`
	Weekday string `json:"weekday" db:"weekday_name"`
}

type TaskOverview struct {
	TotalTasks     int            `json:"total_tasks"`
	Tasks          []TaskView     `json:"tasks"`
	CategoryCounts map[string]int `json:"category_counts"`
	PriorityCounts map[string]int `json:"priority_counts"`
	StatusCounts   map[string]int `json:"status_counts"`
}

type DueSoonTask struct {
	TaskID      int64     `json:"task_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"due_date"`
	DayRemain   int       `json:"day_remain,omitempty"`
	TimeRemain  string    `json:"time_remain"`
}

type DueSoonGroups struct {
	OneDayLeft  []DueSoonTask `json:"oneday_left"`
	OneWeekLeft []DueSoonTask `json:"oneweek_left"`
}

type CalendarTask struct {
	TaskID      int64      `json:"task_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}
