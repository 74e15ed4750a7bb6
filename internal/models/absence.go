package models

import (
	"time"

	"gorm.io/gorm"
)

// Absence types
const (
	AbsenceTypeSykdom    = "sykdom"
	AbsenceTypeFerie     = "ferie"
	AbsenceTypePermisjon = "permisjon"
	AbsenceTypeAndre     = "andre"
)

// Absence statuses
const (
	AbsenceStatusPending  = "pending"
	AbsenceStatusApproved = "approved"
	AbsenceStatusRejected = "rejected"
)

// Absence represents a leave request. It is created pending, transitions
// exactly once to approved or rejected, and is terminal thereafter.
type Absence struct {
	ID           string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID    string         `json:"company_id" gorm:"type:uuid;not null;index" validate:"required"`
	EmployeeID   string         `json:"employee_id" gorm:"not null;index" validate:"required"`
	EmployeeName string         `json:"employee_name" gorm:"not null" validate:"required"`
	Type         string         `json:"type" gorm:"not null" validate:"required,oneof=sykdom ferie permisjon andre"`
	StartDate    string         `json:"start_date" gorm:"not null" validate:"required"`
	EndDate      string         `json:"end_date" gorm:"not null" validate:"required"`
	Status       string         `json:"status" gorm:"not null;default:pending"`
	Description  string         `json:"description"`
	ApprovedBy   string         `json:"approved_by"`
	ApprovedAt   *time.Time     `json:"approved_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for Absence
func (Absence) TableName() string {
	return "absences"
}

// IsPending reports whether the absence still awaits a decision
func (a *Absence) IsPending() bool {
	return a.Status == AbsenceStatusPending
}

// IsTerminal reports whether the absence has reached a final status
func (a *Absence) IsTerminal() bool {
	return a.Status == AbsenceStatusApproved || a.Status == AbsenceStatusRejected
}
