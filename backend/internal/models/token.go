package models

import "time"

// Token is a persisted refresh token; rotation deletes the row by JTI.
type Token struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"user_id" gorm:"not null;index"`
	JTI          string    `json:"jti" gorm:"size:36;uniqueIndex;not null"`
	RefreshToken string    `json:"refresh_token" gorm:"type:text"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Token) TableName() string {
	return "tokens"
}
