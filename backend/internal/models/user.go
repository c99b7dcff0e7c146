package models

import "time"

type User struct {
	UserID    int64     `json:"user_id" gorm:"column:user_id;primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"size:100;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	IsAdmin   bool      `json:"is_admin" gorm:"not null;default:false"`
}

func (User) TableName() string {
	return "users"
}

type LoginHistory struct {
	LoginID   int64  `json:"login_id" gorm:"column:login_id;primaryKey;autoIncrement"`
	UserID    int64  `json:"user_id" gorm:"not null;index"`
	Time      string `json:"time" gorm:"size:8;not null"`
	Day       int    `json:"day" gorm:"not null"`
	Month     int    `json:"month" gorm:"not null"`
	Year      int    `json:"year" gorm:"not null"`
	WeekdayID int64  `json:"weekday_id" gorm:"not null"`
}

func (LoginHistory) TableName() string {
	return "login_history"
}
