package models

import (
	"time"
)

// Audit actions
const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
	AuditActionAccessDenied = "access_denied"
)

// AuditLog records who changed what within a tenant
type AuditLog struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CompanyID    string    `json:"company_id" gorm:"type:uuid;not null;index"`
	UserID       string    `json:"user_id" gorm:"index"`
	Action       string    `json:"action" gorm:"not null"`
	ResourceType string    `json:"resource_type" gorm:"not null;index"`
	ResourceID   string    `json:"resource_id" gorm:"index"`
	Details      string    `json:"details"`
	IPAddress    string    `json:"ip_address"`
	Timestamp    time.Time `json:"timestamp" gorm:"not null;index"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
