package models

import (
	"time"

	"gorm.io/gorm"
)

// Deviation severities
const (
	DeviationSeverityLow      = "low"
	DeviationSeverityMedium   = "medium"
	DeviationSeverityHigh     = "high"
	DeviationSeverityCritical = "critical"
)

// Deviation statuses. The lifecycle is a linear progression with no re-open
// path: open -> in-progress -> resolved -> closed.
const (
	DeviationStatusOpen       = "open"
	DeviationStatusInProgress = "in-progress"
	DeviationStatusResolved   = "resolved"
	DeviationStatusClosed     = "closed"
)

// Deviation represents a reported operational irregularity
type Deviation struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID   string         `json:"company_id" gorm:"type:uuid;not null;index" validate:"required"`
	Title       string         `json:"title" gorm:"not null" validate:"required,min=1,max=255"`
	Description string         `json:"description"`
	Severity    string         `json:"severity" gorm:"not null" validate:"required,oneof=low medium high critical"`
	Status      string         `json:"status" gorm:"not null;default:open"`
	ReportedBy  string         `json:"reported_by" gorm:"not null" validate:"required"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the table name for Deviation
func (Deviation) TableName() string {
	return "deviations"
}

// IsUnresolved reports whether the deviation still needs attention
func (d *Deviation) IsUnresolved() bool {
	return d.Status == DeviationStatusOpen || d.Status == DeviationStatusInProgress
}

// deviationOrder maps each status to its position in the lifecycle
var deviationOrder = map[string]int{
	DeviationStatusOpen:       0,
	DeviationStatusInProgress: 1,
	DeviationStatusResolved:   2,
	DeviationStatusClosed:     3,
}

// CanTransitionTo reports whether the deviation may move to the given status.
// Only forward moves are allowed.
func (d *Deviation) CanTransitionTo(status string) bool {
	from, okFrom := deviationOrder[d.Status]
	to, okTo := deviationOrder[status]
	return okFrom && okTo && to > from
}
