package models

import (
	"time"
)

// Time entry types
const (
	TimeEntryClockIn  = "clock-in"
	TimeEntryClockOut = "clock-out"
)

// TimeEntry represents a single punch in the time clock. The log is
// append-only: entries are never updated or deleted.
type TimeEntry struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID    string    `json:"company_id" gorm:"type:uuid;not null;index" validate:"required"`
	EmployeeID   string    `json:"employee_id" gorm:"not null;index" validate:"required"`
	EmployeeName string    `json:"employee_name" gorm:"not null"`
	Type         string    `json:"type" gorm:"not null" validate:"required,oneof=clock-in clock-out"`
	Timestamp    time.Time `json:"timestamp" gorm:"not null;index"`
	Location     string    `json:"location"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the table name for TimeEntry
func (TimeEntry) TableName() string {
	return "time_entries"
}

// IsClockIn reports whether the entry is a clock-in punch
func (e *TimeEntry) IsClockIn() bool {
	return e.Type == TimeEntryClockIn
}
