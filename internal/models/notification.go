package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification represents a message delivered to a single user
type Notification struct {
	ID        string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID string         `json:"company_id" gorm:"type:uuid;not null;index" validate:"required"`
	UserID    string         `json:"user_id" gorm:"type:uuid;not null;index" validate:"required"`
	Title     string         `json:"title" gorm:"not null" validate:"required,min=1,max=255"`
	Body      string         `json:"body"`
	Read      bool           `json:"read" gorm:"default:false"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
