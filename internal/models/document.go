package models

import (
	"time"

	"gorm.io/gorm"
)

// Document represents an archived file stored in object storage
type Document struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID   string         `json:"company_id" gorm:"type:uuid;not null;index" validate:"required"`
	Name        string         `json:"name" gorm:"not null" validate:"required,min=1,max=255"`
	Path        string         `json:"path" gorm:"not null;uniqueIndex"`
	URL         string         `json:"url" gorm:"not null"`
	ContentType string         `json:"content_type"`
	SizeBytes   int64          `json:"size_bytes"`
	UploadedBy  string         `json:"uploaded_by" gorm:"not null" validate:"required"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for Document
func (Document) TableName() string {
	return "documents"
}
