package repositories

import (
	"context"

	"github.com/Hazher89/driftpro-admin-complete/internal/database"
	"github.com/Hazher89/driftpro-admin-complete/internal/models"
)

// auditLogRepository implements AuditLogRepository
type auditLogRepository struct {
	db *database.Connection
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *database.Connection) AuditLogRepository {
	return &auditLogRepository{db: db}
}

// Create persists an audit log entry
func (r *auditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// GetByCompany retrieves audit log entries for a company, newest first
func (r *auditLogRepository) GetByCompany(ctx context.Context, companyID string, limit, offset int) ([]*models.AuditLog, error) {
	var logs []*models.AuditLog
	query := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&logs).Error
	return logs, err
}

// GetByResource retrieves audit log entries for a single resource, newest first
func (r *auditLogRepository) GetByResource(ctx context.Context, resourceType, resourceID string, limit, offset int) ([]*models.AuditLog, error) {
	var logs []*models.AuditLog
	query := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	err := query.Find(&logs).Error
	return logs, err
}
