package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// User represents a company employee or administrator
type User struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID    string         `json:"company_id" gorm:"type:uuid;not null;index" validate:"required"`
	Email        string         `json:"email" gorm:"not null;uniqueIndex" validate:"required,email"`
	FirstName    string         `json:"first_name" gorm:"not null" validate:"required,min=1,max=100"`
	LastName     string         `json:"last_name" gorm:"not null" validate:"required,min=1,max=100"`
	Role         string         `json:"role" gorm:"not null" validate:"required,oneof=admin manager employee"`
	Department   string         `json:"department"`
	PhoneNumber  string         `json:"phone_number"`
	EmployeeID   string         `json:"employee_id" gorm:"index"`
	PasswordHash string         `json:"-" gorm:"not null"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	LastLoginAt  *time.Time     `json:"last_login_at"`
	Birthday     *time.Time     `json:"birthday"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if the user has admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsManager checks if the user has manager privileges
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// LoggedInSince reports whether the user authenticated strictly after the
// given cutoff. Users that never logged in are never counted.
func (u *User) LoggedInSince(cutoff time.Time) bool {
	return u.LastLoginAt != nil && u.LastLoginAt.After(cutoff)
}
