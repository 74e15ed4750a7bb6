package models

import (
	"time"
)

// ChatMessage represents a message in the company chat channel
type ChatMessage struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID  string    `json:"company_id" gorm:"type:uuid;not null;index" validate:"required"`
	SenderID   string    `json:"sender_id" gorm:"not null" validate:"required"`
	SenderName string    `json:"sender_name" gorm:"not null"`
	Content    string    `json:"content" gorm:"not null" validate:"required,min=1,max=4000"`
	SentAt     time.Time `json:"sent_at" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the table name for ChatMessage
func (ChatMessage) TableName() string {
	return "chat_messages"
}
