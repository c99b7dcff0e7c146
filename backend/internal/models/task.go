package models

import "time"

type Task struct {
	TaskID       int64      `json:"task_id" gorm:"column:task_id;primaryKey;autoIncrement"`
	UserID       int64      `json:"user_id" gorm:"not null;index"`
	Title        string     `json:"title" gorm:"size:255;not null"`
	Description  *string    `json:"description"`
	CreatedAt    time.Time  `json:"created_at" gorm:"not null"`
	DueDate      *time.Time `json:"due_date"`
	IsImportant  bool       `json:"is_important" gorm:"not null;default:false"`
	FinishedDate *time.Time `json:"finished_date"`
	CategoryID   *int64     `json:"category_id"`
	PriorityID   int64      `json:"priority_id" gorm:"not null"`
	StatusID     int64      `json:"status_id" gorm:"not null"`
}

func (Task) TableName() string {
	return "tasks"
}
