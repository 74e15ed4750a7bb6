package models

import (
	"time"

	"gorm.io/gorm"
)

// Department represents an organisational unit within a company
type Department struct {
	ID            string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID     string         `json:"company_id" gorm:"type:uuid;not null;index" validate:"required"`
	Name          string         `json:"name" gorm:"not null" validate:"required,min=1,max=100"`
	Description   string         `json:"description" validate:"required"`
	Manager       string         `json:"manager" validate:"required"`
	EmployeeCount int            `json:"employee_count" gorm:"default:0"`
	IsActive      bool           `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for Department
func (Department) TableName() string {
	return "departments"
}
